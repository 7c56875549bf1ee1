package service

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/Poohpo313/Sana/internal/model"
)

type MedicineDaySummary struct {
	Medicine   model.Medicine
	Statuses   []bool // aligned with Medicine.Times
	TakenCount int
	TotalDoses int
}

type DayStatus struct {
	Date         string `json:"date"`
	Medicines    int    `json:"medicines"`
	TotalDoses   int    `json:"total_doses"`
	TakenDoses   int    `json:"taken_doses"`
	AdherencePct int    `json:"adherence_pct"`
}

// DaySummaries builds the per-medicine checklist for a date. TotalDoses
// is the current frequency; TakenCount counts every taken row recorded
// for the date, including history beyond the current frequency.
func DaySummaries(db *sql.DB, date string) ([]MedicineDaySummary, error) {
	date, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}
	medicines, err := ListMedicines(db)
	if err != nil {
		return nil, err
	}

	summaries := make([]MedicineDaySummary, 0, len(medicines))
	for _, med := range medicines {
		records, err := doseRecords(db, med.ID, date)
		if err != nil {
			return nil, err
		}
		s := MedicineDaySummary{
			Medicine:   med,
			Statuses:   make([]bool, med.Frequency),
			TotalDoses: med.Frequency,
		}
		for index, taken := range records {
			if taken {
				s.TakenCount++
			}
			if index < len(s.Statuses) {
				s.Statuses[index] = taken
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// DaySummary rolls the checklist up into one aggregate. A day with no
// medicines reads as 0% adherence, never a division error.
func DaySummary(db *sql.DB, date string) (*DayStatus, error) {
	summaries, err := DaySummaries(db, date)
	if err != nil {
		return nil, err
	}
	date, err = normalizeDate(date)
	if err != nil {
		return nil, err
	}

	status := &DayStatus{Date: date, Medicines: len(summaries)}
	for _, s := range summaries {
		status.TotalDoses += s.TotalDoses
		status.TakenDoses += s.TakenCount
	}
	if status.TotalDoses > 0 {
		status.AdherencePct = int(math.Round(float64(status.TakenDoses) * 100 / float64(status.TotalDoses)))
	}
	return status, nil
}

// TodaySummary is DaySummary for the current date.
func TodaySummary(db *sql.DB) (*DayStatus, error) {
	return DaySummary(db, todayDate())
}

// HighlightDates lists every distinct date that appears in any ledger.
// Presence of a record drives highlighting, not whether a dose was
// actually taken on it.
func HighlightDates(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT log_date FROM dose_log ORDER BY log_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list highlight dates: %w", err)
	}
	defer rows.Close()

	dates := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan highlight date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate highlight dates: %w", err)
	}
	return dates, nil
}
