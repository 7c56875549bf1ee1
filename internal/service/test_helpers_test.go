package service_test

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Poohpo313/Sana/internal/db"
	"github.com/Poohpo313/Sana/internal/schedule"
	"github.com/Poohpo313/Sana/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sana.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

// stubScheduler records issued reminder effects for assertions.
type stubScheduler struct {
	scheduled []string
	canceled  []string
	nextID    int
}

func (s *stubScheduler) Schedule(title, body, timeOfDay, date string, isAlarm bool) (string, error) {
	s.nextID++
	s.scheduled = append(s.scheduled, timeOfDay)
	return fmt.Sprintf("note-%d", s.nextID), nil
}

func (s *stubScheduler) Cancel(id string) error {
	s.canceled = append(s.canceled, id)
	return nil
}

func addTestMedicine(t *testing.T, sqldb *sql.DB, name string, frequency int) string {
	t.Helper()
	inputs := make([]schedule.TimeInput, 0, frequency)
	for i := 0; i < frequency; i++ {
		inputs = append(inputs, schedule.TimeInput{Hour: 1 + i, Minute: 0, Period: "PM"})
	}
	med, err := service.CreateMedicine(sqldb, nil, service.MedicineInput{
		Name:      name,
		Frequency: frequency,
		DoseTimes: inputs,
	})
	if err != nil {
		t.Fatalf("create medicine %q: %v", name, err)
	}
	return med.ID
}
