package tests

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCLIRejectsFrequencyOutOfRange(t *testing.T) {
	binPath := buildSanaBinary(t)
	dbPath := filepath.Join(t.TempDir(), "sana.db")
	initDB(t, binPath, dbPath)
	signupTestUser(t, binPath, dbPath)

	_, stderr, exit := runSana(t, binPath, dbPath,
		"med", "add",
		"--name", "Vitamins",
		"--frequency", "7",
		"--schedule", "exact",
		"--times", "8:00 AM",
	)

	if exit == 0 {
		t.Fatalf("expected non-zero exit for frequency 7")
	}
	if !strings.Contains(stderr, "frequency must be between 1 and 6") {
		t.Fatalf("expected frequency validation error, got: %s", stderr)
	}
}

func TestCLIRejectsUnsupportedInterval(t *testing.T) {
	binPath := buildSanaBinary(t)
	dbPath := filepath.Join(t.TempDir(), "sana.db")
	initDB(t, binPath, dbPath)
	signupTestUser(t, binPath, dbPath)

	_, stderr, exit := runSana(t, binPath, dbPath,
		"med", "add",
		"--name", "Vitamins",
		"--frequency", "3",
		"--schedule", "interval",
		"--first-dose", "8:00 AM",
		"--interval", "5",
	)

	if exit == 0 {
		t.Fatalf("expected non-zero exit for interval 5")
	}
	if !strings.Contains(stderr, "interval hours must be one of") {
		t.Fatalf("expected interval validation error, got: %s", stderr)
	}
}

func TestCLIRejectsTimesCountMismatch(t *testing.T) {
	binPath := buildSanaBinary(t)
	dbPath := filepath.Join(t.TempDir(), "sana.db")
	initDB(t, binPath, dbPath)
	signupTestUser(t, binPath, dbPath)

	_, stderr, exit := runSana(t, binPath, dbPath,
		"med", "add",
		"--name", "Vitamins",
		"--frequency", "3",
		"--schedule", "exact",
		"--times", "8:00 AM,6:00 PM",
	)

	if exit == 0 {
		t.Fatalf("expected non-zero exit for times/frequency mismatch")
	}
	if !strings.Contains(stderr, "expected 3 dose times, got 2") {
		t.Fatalf("expected mismatch error, got: %s", stderr)
	}
}

func TestCLIClampsMalformedDoseTime(t *testing.T) {
	binPath := buildSanaBinary(t)
	dbPath := filepath.Join(t.TempDir(), "sana.db")
	initDB(t, binPath, dbPath)
	signupTestUser(t, binPath, dbPath)

	// "8:72 PM" clamps the minute to 59 instead of failing.
	stdout, stderr, exit := runSana(t, binPath, dbPath,
		"med", "add",
		"--name", "Vitamins",
		"--frequency", "1",
		"--schedule", "exact",
		"--times", "8:72 PM",
	)
	if exit != 0 {
		t.Fatalf("med add with clampable time failed: exit=%d stderr=%s", exit, stderr)
	}
	if !strings.Contains(stdout, "8:59 PM") {
		t.Fatalf("expected clamped time 8:59 PM, got: %s", stdout)
	}
}

func TestCLIDoseIndexOutOfRange(t *testing.T) {
	binPath := buildSanaBinary(t)
	dbPath := filepath.Join(t.TempDir(), "sana.db")
	initDB(t, binPath, dbPath)
	signupTestUser(t, binPath, dbPath)

	stdout, stderr, exit := runSana(t, binPath, dbPath,
		"med", "add",
		"--name", "Vitamins",
		"--frequency", "1",
		"--schedule", "exact",
		"--times", "8:00 AM",
	)
	if exit != 0 {
		t.Fatalf("med add failed: exit=%d stderr=%s", exit, stderr)
	}
	id := addedMedicineID(t, stdout)

	_, stderr, exit = runSana(t, binPath, dbPath,
		"dose", "mark", id, "--date", "2026-03-10", "--index", "1")
	if exit == 0 {
		t.Fatalf("expected non-zero exit for out-of-range dose index")
	}
	if !strings.Contains(stderr, "out of range") {
		t.Fatalf("expected out-of-range error, got: %s", stderr)
	}
}

func TestCLIUnknownMedicineStatus(t *testing.T) {
	binPath := buildSanaBinary(t)
	dbPath := filepath.Join(t.TempDir(), "sana.db")
	initDB(t, binPath, dbPath)
	signupTestUser(t, binPath, dbPath)

	_, stderr, exit := runSana(t, binPath, dbPath,
		"dose", "status", "nope", "--date", "2026-03-10", "--index", "0")
	if exit == 0 {
		t.Fatalf("expected non-zero exit for unknown medicine")
	}
	if !strings.Contains(stderr, `medicine nope not found`) {
		t.Fatalf("expected not-found error, got: %s", stderr)
	}
}

func TestCLICalendarRejectsInvalidMonth(t *testing.T) {
	binPath := buildSanaBinary(t)
	dbPath := filepath.Join(t.TempDir(), "sana.db")
	initDB(t, binPath, dbPath)
	signupTestUser(t, binPath, dbPath)

	_, stderr, exit := runSana(t, binPath, dbPath, "calendar", "--month", "2026-13")
	if exit == 0 {
		t.Fatalf("expected non-zero exit for invalid month")
	}
	if !strings.Contains(stderr, "expected YYYY-MM") {
		t.Fatalf("expected month format error, got: %s", stderr)
	}
}
