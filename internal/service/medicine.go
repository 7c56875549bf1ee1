package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Poohpo313/Sana/internal/model"
	"github.com/Poohpo313/Sana/internal/notify"
	"github.com/Poohpo313/Sana/internal/schedule"
)

const (
	ReminderAlarm        = "alarm"
	ReminderNotification = "notification"
)

type MedicineInput struct {
	Name          string
	Description   string
	Frequency     int
	ScheduleType  string
	DoseTimes     []schedule.TimeInput // exact schedules: one per dose
	FirstDose     schedule.TimeInput   // interval schedules
	IntervalHours int
	ReminderType  string
}

// buildTimes produces the canonical time list. len(times) == frequency
// holds for every medicine that passes through here.
func buildTimes(in *MedicineInput) ([]string, error) {
	if err := schedule.ValidateFrequency(in.Frequency); err != nil {
		return nil, err
	}
	if in.ScheduleType == "" {
		in.ScheduleType = schedule.KindExact
	}
	if err := schedule.ValidateKind(in.ScheduleType); err != nil {
		return nil, err
	}
	switch in.ScheduleType {
	case schedule.KindInterval:
		if err := schedule.ValidateIntervalHours(in.IntervalHours); err != nil {
			return nil, err
		}
		return schedule.IntervalTimes(in.FirstDose, in.Frequency, in.IntervalHours), nil
	default:
		if len(in.DoseTimes) != in.Frequency {
			return nil, fmt.Errorf("expected %d dose times, got %d", in.Frequency, len(in.DoseTimes))
		}
		in.IntervalHours = 0
		return schedule.ExactTimes(in.DoseTimes), nil
	}
}

func validateMedicineInput(in *MedicineInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("medicine name is required")
	}
	if in.ReminderType == "" {
		in.ReminderType = ReminderNotification
	}
	if in.ReminderType != ReminderAlarm && in.ReminderType != ReminderNotification {
		return fmt.Errorf("reminder type must be %q or %q", ReminderAlarm, ReminderNotification)
	}
	return nil
}

func CreateMedicine(db *sql.DB, scheduler notify.Scheduler, in MedicineInput) (*model.Medicine, error) {
	if err := validateMedicineInput(&in); err != nil {
		return nil, err
	}
	times, err := buildTimes(&in)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin create medicine tx: %w", err)
	}
	defer tx.Rollback()

	var intervalHours any
	if in.ScheduleType == schedule.KindInterval {
		intervalHours = in.IntervalHours
	}
	if _, err := tx.Exec(`
INSERT INTO medicines(id, name, description, frequency, schedule_type, interval_hours, reminder_type)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, id, in.Name, strings.TrimSpace(in.Description), in.Frequency, in.ScheduleType, intervalHours, in.ReminderType); err != nil {
		return nil, fmt.Errorf("insert medicine: %w", err)
	}
	if err := insertTimes(tx, id, times); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create medicine: %w", err)
	}

	med, err := GetMedicine(db, id)
	if err != nil {
		return nil, err
	}
	scheduleReminders(db, scheduler, med)
	return med, nil
}

// UpdateMedicine replaces the dosing configuration and regenerates the
// time list. The dose ledger is left alone; history recorded under an
// older frequency is padded lazily on the next mark.
func UpdateMedicine(db *sql.DB, scheduler notify.Scheduler, id string, in MedicineInput) (*model.Medicine, error) {
	existing, err := GetMedicine(db, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("medicine %s not found", id)
	}
	if err := validateMedicineInput(&in); err != nil {
		return nil, err
	}
	times, err := buildTimes(&in)
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin update medicine tx: %w", err)
	}
	defer tx.Rollback()

	var intervalHours any
	if in.ScheduleType == schedule.KindInterval {
		intervalHours = in.IntervalHours
	}
	if _, err := tx.Exec(`
UPDATE medicines
SET name = ?, description = ?, frequency = ?, schedule_type = ?, interval_hours = ?, reminder_type = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, in.Name, strings.TrimSpace(in.Description), in.Frequency, in.ScheduleType, intervalHours, in.ReminderType, id); err != nil {
		return nil, fmt.Errorf("update medicine %s: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM medicine_times WHERE medicine_id = ?`, id); err != nil {
		return nil, fmt.Errorf("clear times for medicine %s: %w", id, err)
	}
	if err := insertTimes(tx, id, times); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update medicine: %w", err)
	}

	cancelReminders(db, scheduler, id)
	med, err := GetMedicine(db, id)
	if err != nil {
		return nil, err
	}
	scheduleReminders(db, scheduler, med)
	return med, nil
}

// DeleteMedicine removes the medicine along with its times, ledger and
// stored notification ids (foreign keys cascade).
func DeleteMedicine(db *sql.DB, scheduler notify.Scheduler, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("medicine id is required")
	}
	cancelReminders(db, scheduler, id)
	res, err := db.Exec(`DELETE FROM medicines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete medicine %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for medicine %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("medicine %s not found", id)
	}
	return nil
}

// GetMedicine returns nil without error when the id does not resolve.
func GetMedicine(db *sql.DB, id string) (*model.Medicine, error) {
	var m model.Medicine
	var intervalHours sql.NullInt64
	err := db.QueryRow(`
SELECT id, name, description, frequency, schedule_type, interval_hours, reminder_type, created_at, updated_at
FROM medicines
WHERE id = ?
`, id).Scan(&m.ID, &m.Name, &m.Description, &m.Frequency, &m.ScheduleType, &intervalHours, &m.ReminderType, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load medicine %s: %w", id, err)
	}
	if intervalHours.Valid {
		m.IntervalHours = int(intervalHours.Int64)
	}
	times, err := medicineTimes(db, id)
	if err != nil {
		return nil, err
	}
	m.Times = times
	return &m, nil
}

func ListMedicines(db *sql.DB) ([]model.Medicine, error) {
	rows, err := db.Query(`
SELECT id, name, description, frequency, schedule_type, interval_hours, reminder_type, created_at, updated_at
FROM medicines
ORDER BY created_at ASC, id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	medicines := make([]model.Medicine, 0)
	for rows.Next() {
		var m model.Medicine
		var intervalHours sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Frequency, &m.ScheduleType, &intervalHours, &m.ReminderType, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		if intervalHours.Valid {
			m.IntervalHours = int(intervalHours.Int64)
		}
		medicines = append(medicines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate medicines: %w", err)
	}

	for i := range medicines {
		times, err := medicineTimes(db, medicines[i].ID)
		if err != nil {
			return nil, err
		}
		medicines[i].Times = times
	}
	return medicines, nil
}

func medicineTimes(db *sql.DB, id string) ([]string, error) {
	rows, err := db.Query(`
SELECT time_of_day
FROM medicine_times
WHERE medicine_id = ?
ORDER BY dose_index ASC
`, id)
	if err != nil {
		return nil, fmt.Errorf("list times for medicine %s: %w", id, err)
	}
	defer rows.Close()

	times := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan time for medicine %s: %w", id, err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate times for medicine %s: %w", id, err)
	}
	return times, nil
}

func insertTimes(tx *sql.Tx, medicineID string, times []string) error {
	for i, t := range times {
		if _, err := tx.Exec(`
INSERT INTO medicine_times(medicine_id, dose_index, time_of_day)
VALUES(?, ?, ?)
`, medicineID, i, t); err != nil {
			return fmt.Errorf("insert time %d for medicine %s: %w", i, medicineID, err)
		}
	}
	return nil
}

// scheduleReminders issues one reminder per dose time for today and
// stores the returned ids. Fire-and-forget: a scheduler failure never
// fails the mutation that triggered it.
func scheduleReminders(db *sql.DB, scheduler notify.Scheduler, med *model.Medicine) {
	if scheduler == nil || med == nil {
		return
	}
	title := "Medicine Reminder: " + med.Name
	body := med.Description
	if body == "" {
		body = "Time to take your medicine"
	}
	date := todayDate()
	for i, timeOfDay := range med.Times {
		id, err := scheduler.Schedule(title, body, timeOfDay, date, med.ReminderType == ReminderAlarm)
		if err != nil {
			continue
		}
		_, _ = db.Exec(`
INSERT INTO notifications(id, medicine_id, dose_index, time_of_day, is_alarm)
VALUES(?, ?, ?, ?, ?)
`, id, med.ID, i, timeOfDay, med.ReminderType == ReminderAlarm)
	}
}

// cancelReminders cancels and forgets every stored notification id for
// the medicine. Best effort, like scheduling.
func cancelReminders(db *sql.DB, scheduler notify.Scheduler, medicineID string) {
	if scheduler == nil {
		return
	}
	rows, err := db.Query(`SELECT id FROM notifications WHERE medicine_id = ?`, medicineID)
	if err != nil {
		return
	}
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err == nil {
			ids = append(ids, id)
		}
	}
	rows.Close()
	for _, id := range ids {
		_ = scheduler.Cancel(id)
	}
	_, _ = db.Exec(`DELETE FROM notifications WHERE medicine_id = ?`, medicineID)
}

// ListNotifications reports the stored reminder ids for a medicine.
func ListNotifications(db *sql.DB, medicineID string) ([]model.Notification, error) {
	rows, err := db.Query(`
SELECT id, medicine_id, dose_index, time_of_day, is_alarm, created_at
FROM notifications
WHERE medicine_id = ?
ORDER BY dose_index ASC
`, medicineID)
	if err != nil {
		return nil, fmt.Errorf("list notifications for medicine %s: %w", medicineID, err)
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var isAlarm int
		if err := rows.Scan(&n.ID, &n.MedicineID, &n.DoseIndex, &n.TimeOfDay, &isAlarm, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.IsAlarm = isAlarm != 0
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, nil
}
