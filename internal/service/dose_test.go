package service_test

import (
	"reflect"
	"testing"

	"github.com/Poohpo313/Sana/internal/service"
)

func TestMarkDoseSeedsFullDay(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	id := addTestMedicine(t, sqldb, "amoxicillin", 2)
	if err := service.MarkDose(sqldb, id, "2025-01-10", 1, true); err != nil {
		t.Fatalf("mark dose: %v", err)
	}

	data, err := service.Export(sqldb)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data.Medicines) != 1 {
		t.Fatalf("expected 1 medicine, got %d", len(data.Medicines))
	}
	want := map[string][]bool{"2025-01-10": {false, true}}
	if !reflect.DeepEqual(data.Medicines[0].TakenDoses, want) {
		t.Fatalf("ledger: got %v, want %v", data.Medicines[0].TakenDoses, want)
	}
}

func TestMarkDoseIdempotent(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	id := addTestMedicine(t, sqldb, "ibuprofen", 3)
	for i := 0; i < 2; i++ {
		if err := service.MarkDose(sqldb, id, "2025-03-01", 0, true); err != nil {
			t.Fatalf("mark dose round %d: %v", i+1, err)
		}
	}

	summary, err := service.DaySummary(sqldb, "2025-03-01")
	if err != nil {
		t.Fatalf("day summary: %v", err)
	}
	if summary.TakenDoses != 1 {
		t.Fatalf("expected 1 taken dose after repeated marks, got %d", summary.TakenDoses)
	}
}

func TestMarkUnmarkCycle(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	id := addTestMedicine(t, sqldb, "metformin", 1)
	if err := service.MarkDose(sqldb, id, "2025-02-02", 0, true); err != nil {
		t.Fatalf("mark taken: %v", err)
	}
	if err := service.MarkDose(sqldb, id, "2025-02-02", 0, false); err != nil {
		t.Fatalf("mark untaken: %v", err)
	}

	status, err := service.DoseStatus(sqldb, id, "2025-02-02", 0)
	if err != nil {
		t.Fatalf("dose status: %v", err)
	}
	if status == nil || *status {
		t.Fatalf("expected recorded-untaken to read as not taken, got %v", status)
	}

	// The unmarked date still counts as recorded.
	dates, err := service.HighlightDates(sqldb)
	if err != nil {
		t.Fatalf("highlight dates: %v", err)
	}
	if !reflect.DeepEqual(dates, []string{"2025-02-02"}) {
		t.Fatalf("highlight dates: got %v", dates)
	}
}

func TestMarkDoseGrowsButNeverShrinks(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	id := addTestMedicine(t, sqldb, "lisinopril", 3)
	if err := service.MarkDose(sqldb, id, "2025-04-04", 2, true); err != nil {
		t.Fatalf("mark dose under frequency 3: %v", err)
	}

	// Lower the frequency; the recorded day keeps its 3 entries.
	var freq2 = 2
	if _, err := sqldb.Exec(`UPDATE medicines SET frequency = ? WHERE id = ?`, freq2, id); err != nil {
		t.Fatalf("lower frequency: %v", err)
	}
	if _, err := sqldb.Exec(`DELETE FROM medicine_times WHERE medicine_id = ? AND dose_index >= ?`, id, freq2); err != nil {
		t.Fatalf("trim times: %v", err)
	}
	if err := service.MarkDose(sqldb, id, "2025-04-04", 0, true); err != nil {
		t.Fatalf("mark dose under frequency 2: %v", err)
	}

	data, err := service.Export(sqldb)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	day := data.Medicines[0].TakenDoses["2025-04-04"]
	if len(day) != 3 {
		t.Fatalf("expected day to keep 3 entries, got %v", day)
	}
	if !day[0] || day[1] || !day[2] {
		t.Fatalf("unexpected day contents: %v", day)
	}

	// Raise the frequency; the next write pads the existing day.
	if err := service.MarkDose(sqldb, id, "2025-04-05", 0, true); err != nil {
		t.Fatalf("mark fresh date: %v", err)
	}
	var rows int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM dose_log WHERE medicine_id = ? AND log_date = ?`, id, "2025-04-05").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != freq2 {
		t.Fatalf("expected %d seeded rows, got %d", freq2, rows)
	}
}

func TestMarkDoseRejectsOutOfRangeIndex(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	id := addTestMedicine(t, sqldb, "aspirin", 2)
	if err := service.MarkDose(sqldb, id, "2025-01-01", 2, true); err == nil {
		t.Fatalf("expected error for dose index past frequency")
	}
	if err := service.MarkDose(sqldb, id, "2025-01-01", -1, true); err == nil {
		t.Fatalf("expected error for negative dose index")
	}
}

func TestMarkDoseUnknownMedicine(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	if err := service.MarkDose(sqldb, "no-such-id", "2025-01-01", 0, true); err == nil {
		t.Fatalf("expected error for unknown medicine")
	}
}

func TestDoseStatusDistinguishesUnknownMedicine(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	id := addTestMedicine(t, sqldb, "vitamin d", 1)

	// Existing medicine, unrecorded date: not taken, never unknown.
	status, err := service.DoseStatus(sqldb, id, "2030-12-31", 0)
	if err != nil {
		t.Fatalf("dose status: %v", err)
	}
	if status == nil {
		t.Fatalf("expected a definite answer for an existing medicine")
	}
	if *status {
		t.Fatalf("expected not taken for an unrecorded date")
	}

	// Unknown medicine: nil sentinel.
	status, err = service.DoseStatus(sqldb, "no-such-id", "2030-12-31", 0)
	if err != nil {
		t.Fatalf("dose status for unknown medicine: %v", err)
	}
	if status != nil {
		t.Fatalf("expected nil for unknown medicine, got %v", *status)
	}
}

func TestDeleteMedicineDestroysLedger(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	id := addTestMedicine(t, sqldb, "temp med", 2)
	if err := service.MarkDose(sqldb, id, "2025-05-05", 0, true); err != nil {
		t.Fatalf("mark dose: %v", err)
	}
	if err := service.DeleteMedicine(sqldb, nil, id); err != nil {
		t.Fatalf("delete medicine: %v", err)
	}

	var rows int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM dose_log WHERE medicine_id = ?`, id).Scan(&rows); err != nil {
		t.Fatalf("count ledger rows: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected ledger to be destroyed, found %d rows", rows)
	}
}
