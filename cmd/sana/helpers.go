package sana

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Poohpo313/Sana/internal/app"
	"github.com/Poohpo313/Sana/internal/db"
	"github.com/Poohpo313/Sana/internal/notify"
	"github.com/Poohpo313/Sana/internal/schedule"
	"github.com/Poohpo313/Sana/internal/service"
)

var reminderScheduler notify.Scheduler = notify.NewLocalScheduler()

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func requireSession(sqldb *sql.DB) error {
	profile, err := service.ActiveProfile(sqldb)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("no active session; run 'sana login' or 'sana signup' first")
	}
	return nil
}

// parseDoseTimes reads user-entered 12-hour times such as "8:30 AM" or
// "6:00pm". Out-of-range fields clamp rather than fail.
func parseDoseTimes(values []string) []schedule.TimeInput {
	inputs := make([]schedule.TimeInput, 0, len(values))
	for _, v := range values {
		inputs = append(inputs, schedule.ParseTimeOfDay(v))
	}
	return inputs
}

// formatTime12 renders a stored "HH:MM" time for display, e.g. "8:30 AM".
func formatTime12(clock string) string {
	in, err := schedule.ParseClock(clock)
	if err != nil {
		return clock
	}
	return fmt.Sprintf("%d:%02d %s", in.Hour, in.Minute, in.Period)
}

func formatTimes12(times []string) string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, formatTime12(t))
	}
	return strings.Join(out, ", ")
}
