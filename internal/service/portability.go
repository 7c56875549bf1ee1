package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Poohpo313/Sana/internal/schedule"
)

type ExportUser struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	ProfileSet     bool   `json:"profile_set"`
}

type ExportMedicine struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Frequency     int               `json:"frequency"`
	Times         []string          `json:"times"`
	ScheduleType  string            `json:"schedule_type"`
	IntervalHours int               `json:"interval_hours,omitempty"`
	ReminderType  string            `json:"reminder_type"`
	TakenDoses    map[string][]bool `json:"taken_doses"`
}

type ExportData struct {
	Users     []ExportUser      `json:"users"`
	Medicines []ExportMedicine  `json:"medicines"`
	Config    map[string]string `json:"config,omitempty"`
}

type ImportMode string

const (
	ImportModeFail    ImportMode = "fail"
	ImportModeSkip    ImportMode = "skip"
	ImportModeReplace ImportMode = "replace"
)

type ImportStats struct {
	UsersImported     int `json:"users_imported"`
	UsersSkipped      int `json:"users_skipped"`
	MedicinesImported int `json:"medicines_imported"`
	MedicinesSkipped  int `json:"medicines_skipped"`
}

// Export dumps the full local state. The ledger keeps its canonical
// shape, a map from date to the per-dose taken flags, so an export can
// round-trip through any store that honors that contract.
func Export(db *sql.DB) (*ExportData, error) {
	users, err := listUsers(db)
	if err != nil {
		return nil, err
	}
	medicines, err := ListMedicines(db)
	if err != nil {
		return nil, err
	}
	config, err := ListConfig(db)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Users:     make([]ExportUser, 0, len(users)),
		Medicines: make([]ExportMedicine, 0, len(medicines)),
		Config:    config,
	}
	for _, u := range users {
		data.Users = append(data.Users, ExportUser{
			Email:          u.Email,
			Name:           u.Name,
			Age:            u.Age,
			Password:       u.Password,
			ProfilePicture: u.ProfilePicture,
			ProfileSet:     u.ProfileSet,
		})
	}
	for _, m := range medicines {
		ledger, err := medicineLedger(db, m.ID)
		if err != nil {
			return nil, err
		}
		data.Medicines = append(data.Medicines, ExportMedicine{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			Frequency:     m.Frequency,
			Times:         m.Times,
			ScheduleType:  m.ScheduleType,
			IntervalHours: m.IntervalHours,
			ReminderType:  m.ReminderType,
			TakenDoses:    ledger,
		})
	}
	return data, nil
}

// medicineLedger rebuilds the {date: bool[]} map from the relational
// rows. Slice length reflects exactly what was recorded for the date.
func medicineLedger(db *sql.DB, medicineID string) (map[string][]bool, error) {
	rows, err := db.Query(`
SELECT log_date, dose_index, taken
FROM dose_log
WHERE medicine_id = ?
ORDER BY log_date ASC, dose_index ASC
`, medicineID)
	if err != nil {
		return nil, fmt.Errorf("export ledger for medicine %s: %w", medicineID, err)
	}
	defer rows.Close()

	ledger := make(map[string][]bool)
	for rows.Next() {
		var date string
		var index int
		var taken bool
		if err := rows.Scan(&date, &index, &taken); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		day := ledger[date]
		for len(day) <= index {
			day = append(day, false)
		}
		day[index] = taken
		ledger[date] = day
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return ledger, nil
}

func validateImport(data *ExportData) error {
	if data == nil {
		return fmt.Errorf("import payload is empty")
	}
	for i, u := range data.Users {
		if normalizeEmail(u.Email) == "" {
			return fmt.Errorf("user %d: email is required", i)
		}
	}
	for i, m := range data.Medicines {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("medicine %d: name is required", i)
		}
		if err := schedule.ValidateFrequency(m.Frequency); err != nil {
			return fmt.Errorf("medicine %q: %w", m.Name, err)
		}
		if m.ScheduleType != "" {
			if err := schedule.ValidateKind(m.ScheduleType); err != nil {
				return fmt.Errorf("medicine %q: %w", m.Name, err)
			}
		}
		if m.ScheduleType == schedule.KindInterval {
			if err := schedule.ValidateIntervalHours(m.IntervalHours); err != nil {
				return fmt.Errorf("medicine %q: %w", m.Name, err)
			}
		}
		if len(m.Times) != m.Frequency {
			return fmt.Errorf("medicine %q: %d times for frequency %d", m.Name, len(m.Times), m.Frequency)
		}
		for _, t := range m.Times {
			if _, err := schedule.ParseClock(t); err != nil {
				return fmt.Errorf("medicine %q: %w", m.Name, err)
			}
		}
		for date, day := range m.TakenDoses {
			if _, err := normalizeDate(date); err != nil || date == "" {
				return fmt.Errorf("medicine %q: invalid ledger date %q", m.Name, date)
			}
			_ = day
		}
	}
	return nil
}

// Import merges an export payload into the local store. A payload that
// fails validation is rejected before any row is touched.
func Import(db *sql.DB, data *ExportData, mode ImportMode) (*ImportStats, error) {
	switch mode {
	case ImportModeFail, ImportModeSkip, ImportModeReplace:
	default:
		return nil, fmt.Errorf("import mode must be fail, skip or replace")
	}
	if err := validateImport(data); err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	stats := &ImportStats{}
	for _, u := range data.Users {
		email := normalizeEmail(u.Email)
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM users WHERE email = ?`, email).Scan(&exists)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("check user %q: %w", email, err)
		}
		if err == nil {
			switch mode {
			case ImportModeFail:
				return nil, fmt.Errorf("user %q already exists", email)
			case ImportModeSkip:
				stats.UsersSkipped++
				continue
			}
		}
		profileSet := 0
		if u.ProfileSet {
			profileSet = 1
		}
		if _, err := tx.Exec(`
INSERT INTO users(email, name, age, password, profile_picture, profile_set)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(email) DO UPDATE SET
  name=excluded.name,
  age=excluded.age,
  password=excluded.password,
  profile_picture=excluded.profile_picture,
  profile_set=excluded.profile_set,
  updated_at=CURRENT_TIMESTAMP
`, email, u.Name, u.Age, u.Password, u.ProfilePicture, profileSet); err != nil {
			return nil, fmt.Errorf("import user %q: %w", email, err)
		}
		stats.UsersImported++
	}

	for _, m := range data.Medicines {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			id = uuid.NewString()
		}
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM medicines WHERE id = ?`, id).Scan(&exists)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("check medicine %s: %w", id, err)
		}
		if err == nil {
			switch mode {
			case ImportModeFail:
				return nil, fmt.Errorf("medicine %s already exists", id)
			case ImportModeSkip:
				stats.MedicinesSkipped++
				continue
			case ImportModeReplace:
				// Cascade clears times, ledger and notification ids.
				if _, err := tx.Exec(`DELETE FROM medicines WHERE id = ?`, id); err != nil {
					return nil, fmt.Errorf("replace medicine %s: %w", id, err)
				}
			}
		}

		scheduleType := m.ScheduleType
		if scheduleType == "" {
			scheduleType = schedule.KindExact
		}
		reminderType := m.ReminderType
		if reminderType == "" {
			reminderType = ReminderNotification
		}
		var intervalHours any
		if scheduleType == schedule.KindInterval {
			intervalHours = m.IntervalHours
		}
		if _, err := tx.Exec(`
INSERT INTO medicines(id, name, description, frequency, schedule_type, interval_hours, reminder_type)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, id, strings.TrimSpace(m.Name), strings.TrimSpace(m.Description), m.Frequency, scheduleType, intervalHours, reminderType); err != nil {
			return nil, fmt.Errorf("import medicine %q: %w", m.Name, err)
		}
		if err := insertTimes(tx, id, m.Times); err != nil {
			return nil, err
		}
		for date, day := range m.TakenDoses {
			for index, taken := range day {
				if _, err := tx.Exec(`
INSERT INTO dose_log(medicine_id, log_date, dose_index, taken)
VALUES(?, ?, ?, ?)
`, id, date, index, taken); err != nil {
					return nil, fmt.Errorf("import ledger for medicine %q on %s: %w", m.Name, date, err)
				}
			}
		}
		stats.MedicinesImported++
	}

	for key, value := range data.Config {
		if _, err := tx.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value); err != nil {
			return nil, fmt.Errorf("import config %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return stats, nil
}
