package service

import (
	"database/sql"
	"fmt"
	"strings"
)

// MarkDose sets the taken flag for one dose on one date. The first write
// for a date seeds a full row per dose, all untaken, so a date is either
// absent from the ledger or recorded for every dose index up to the
// current frequency. Existing rows are never removed, so history written
// under a larger frequency survives a later decrease. Idempotent.
func MarkDose(db *sql.DB, medicineID, date string, doseIndex int, taken bool) error {
	if strings.TrimSpace(medicineID) == "" {
		return fmt.Errorf("medicine id is required")
	}
	date, err := normalizeDate(date)
	if err != nil {
		return err
	}
	if doseIndex < 0 {
		return fmt.Errorf("dose index must be >= 0")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin mark dose tx: %w", err)
	}
	defer tx.Rollback()

	var frequency int
	err = tx.QueryRow(`SELECT frequency FROM medicines WHERE id = ?`, medicineID).Scan(&frequency)
	if err == sql.ErrNoRows {
		return fmt.Errorf("medicine %s not found", medicineID)
	}
	if err != nil {
		return fmt.Errorf("load frequency for medicine %s: %w", medicineID, err)
	}
	if doseIndex >= frequency {
		return fmt.Errorf("dose index %d out of range for %d doses per day", doseIndex, frequency)
	}

	// Seed (and lazily pad) the date's rows; existing rows are untouched.
	for i := 0; i < frequency; i++ {
		if _, err := tx.Exec(`
INSERT OR IGNORE INTO dose_log(medicine_id, log_date, dose_index, taken)
VALUES(?, ?, ?, 0)
`, medicineID, date, i); err != nil {
			return fmt.Errorf("seed dose row %d for %s on %s: %w", i, medicineID, date, err)
		}
	}

	if _, err := tx.Exec(`
UPDATE dose_log
SET taken = ?
WHERE medicine_id = ? AND log_date = ? AND dose_index = ?
`, taken, medicineID, date, doseIndex); err != nil {
		return fmt.Errorf("mark dose %d for %s on %s: %w", doseIndex, medicineID, date, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark dose: %w", err)
	}
	return nil
}

// DoseStatus reports whether a dose was taken. nil means the medicine id
// does not resolve; an existing medicine with no record for the date
// reads as not taken, the same as an explicit untaken mark.
func DoseStatus(db *sql.DB, medicineID, date string, doseIndex int) (*bool, error) {
	date, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}
	if doseIndex < 0 {
		return nil, fmt.Errorf("dose index must be >= 0")
	}

	var exists int
	err = db.QueryRow(`SELECT 1 FROM medicines WHERE id = ?`, medicineID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check medicine %s: %w", medicineID, err)
	}

	taken := false
	err = db.QueryRow(`
SELECT taken
FROM dose_log
WHERE medicine_id = ? AND log_date = ? AND dose_index = ?
`, medicineID, date, doseIndex).Scan(&taken)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("load dose status for %s on %s: %w", medicineID, date, err)
	}
	return &taken, nil
}

// doseRecords returns the recorded taken flags for one medicine on one
// date, keyed by dose index. Empty map when the date was never written.
func doseRecords(db *sql.DB, medicineID, date string) (map[int]bool, error) {
	rows, err := db.Query(`
SELECT dose_index, taken
FROM dose_log
WHERE medicine_id = ? AND log_date = ?
ORDER BY dose_index ASC
`, medicineID, date)
	if err != nil {
		return nil, fmt.Errorf("load dose records for %s on %s: %w", medicineID, date, err)
	}
	defer rows.Close()

	records := make(map[int]bool)
	for rows.Next() {
		var index int
		var taken bool
		if err := rows.Scan(&index, &taken); err != nil {
			return nil, fmt.Errorf("scan dose record: %w", err)
		}
		records[index] = taken
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dose records: %w", err)
	}
	return records, nil
}
