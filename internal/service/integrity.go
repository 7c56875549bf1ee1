package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Poohpo313/Sana/internal/schedule"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DoctorReport struct {
	TimesMismatch    int `json:"times_mismatch"`
	StrayDoseRows    int `json:"stray_dose_rows"`
	DanglingSessions int `json:"dangling_sessions"`
	FixedTimes       int `json:"fixed_times,omitempty"`
	ClearedSessions  int `json:"cleared_sessions,omitempty"`
}

func CreateBackup(dbPath, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(dbPath) == "" {
		return BackupInfo{}, fmt.Errorf("db path is required")
	}
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if err := copyFile(dbPath, outPath); err != nil {
		return BackupInfo{}, err
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	checksumFile := backupPath + ".sha256"
	if expected, err := os.ReadFile(checksumFile); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}
	items := make([]BackupInfo, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		st, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat backup %s: %w", path, err)
		}
		checksum := ""
		if raw, err := os.ReadFile(path + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(raw))
		}
		items = append(items, BackupInfo{
			Path:      path,
			Checksum:  checksum,
			CreatedAt: st.ModTime(),
			SizeBytes: st.Size(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}

// RunDoctor checks the invariants the rest of the code assumes: every
// medicine holds exactly frequency times, ledger rows past the current
// frequency are known history rather than corruption, and the active
// session points at a real account.
func RunDoctor(db *sql.DB, fix bool) (*DoctorReport, error) {
	report := &DoctorReport{}

	mismatched, err := timesMismatchedMedicines(db)
	if err != nil {
		return nil, err
	}
	report.TimesMismatch = len(mismatched)
	if fix {
		for _, id := range mismatched {
			if err := rebuildTimes(db, id); err != nil {
				return nil, err
			}
			report.FixedTimes++
		}
	}

	if err := db.QueryRow(`
SELECT COUNT(1)
FROM dose_log d
JOIN medicines m ON m.id = d.medicine_id
WHERE d.dose_index >= m.frequency
`).Scan(&report.StrayDoseRows); err != nil {
		return nil, fmt.Errorf("count stray dose rows: %w", err)
	}

	email, ok, err := GetConfig(db, ConfigActiveUser)
	if err != nil {
		return nil, err
	}
	if ok && email != "" {
		u, err := getUser(db, email)
		if err != nil {
			return nil, err
		}
		if u == nil {
			report.DanglingSessions = 1
			if fix {
				if err := DeleteConfig(db, ConfigActiveUser); err != nil {
					return nil, err
				}
				report.ClearedSessions = 1
			}
		}
	}

	return report, nil
}

func timesMismatchedMedicines(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
SELECT m.id
FROM medicines m
LEFT JOIN medicine_times t ON t.medicine_id = m.id
GROUP BY m.id
HAVING COUNT(t.dose_index) != m.frequency
`)
	if err != nil {
		return nil, fmt.Errorf("find medicines with mismatched times: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan mismatched medicine id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mismatched medicines: %w", err)
	}
	return ids, nil
}

// rebuildTimes regenerates the time list for a medicine whose stored
// times drifted from its frequency. Interval schedules rebuild from the
// first stored time; exact schedules pad with the last known time or
// trim from the end.
func rebuildTimes(db *sql.DB, medicineID string) error {
	med, err := GetMedicine(db, medicineID)
	if err != nil {
		return err
	}
	if med == nil {
		return fmt.Errorf("medicine %s not found", medicineID)
	}

	var times []string
	if med.ScheduleType == schedule.KindInterval && len(med.Times) > 0 {
		first, err := schedule.ParseClock(med.Times[0])
		if err != nil {
			return fmt.Errorf("medicine %s: %w", medicineID, err)
		}
		times = schedule.IntervalTimes(first, med.Frequency, med.IntervalHours)
	} else {
		times = append(times, med.Times...)
		if len(times) > med.Frequency {
			times = times[:med.Frequency]
		}
		pad := "09:00"
		if len(times) > 0 {
			pad = times[len(times)-1]
		}
		for len(times) < med.Frequency {
			times = append(times, pad)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin rebuild times tx: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM medicine_times WHERE medicine_id = ?`, medicineID); err != nil {
		return fmt.Errorf("clear times for medicine %s: %w", medicineID, err)
	}
	if err := insertTimes(tx, medicineID, times); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild times: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Sync()
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
