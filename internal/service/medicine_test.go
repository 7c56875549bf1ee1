package service_test

import (
	"reflect"
	"testing"

	"github.com/Poohpo313/Sana/internal/schedule"
	"github.com/Poohpo313/Sana/internal/service"
)

func TestCreateMedicineIntervalSchedule(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	med, err := service.CreateMedicine(sqldb, nil, service.MedicineInput{
		Name:          "antibiotic",
		Frequency:     3,
		ScheduleType:  schedule.KindInterval,
		FirstDose:     schedule.TimeInput{Hour: 8, Minute: 0, Period: "AM"},
		IntervalHours: 6,
	})
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	want := []string{"08:00", "14:00", "20:00"}
	if !reflect.DeepEqual(med.Times, want) {
		t.Fatalf("times: got %v, want %v", med.Times, want)
	}
	if med.IntervalHours != 6 {
		t.Fatalf("interval hours: got %d, want 6", med.IntervalHours)
	}
	if med.ReminderType != service.ReminderNotification {
		t.Fatalf("expected default reminder type, got %q", med.ReminderType)
	}
}

func TestCreateMedicineExactScheduleCountMismatch(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	_, err := service.CreateMedicine(sqldb, nil, service.MedicineInput{
		Name:      "mismatched",
		Frequency: 3,
		DoseTimes: []schedule.TimeInput{{Hour: 9, Minute: 0, Period: "AM"}},
	})
	if err == nil {
		t.Fatalf("expected error when dose times do not match frequency")
	}
}

func TestCreateMedicineValidation(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	if _, err := service.CreateMedicine(sqldb, nil, service.MedicineInput{
		Name:      " ",
		Frequency: 1,
		DoseTimes: []schedule.TimeInput{{Hour: 9, Minute: 0, Period: "AM"}},
	}); err == nil {
		t.Fatalf("expected error for blank name")
	}

	if _, err := service.CreateMedicine(sqldb, nil, service.MedicineInput{
		Name:      "bad frequency",
		Frequency: 7,
	}); err == nil {
		t.Fatalf("expected error for frequency 7")
	}

	if _, err := service.CreateMedicine(sqldb, nil, service.MedicineInput{
		Name:          "bad interval",
		Frequency:     2,
		ScheduleType:  schedule.KindInterval,
		FirstDose:     schedule.TimeInput{Hour: 8, Minute: 0, Period: "AM"},
		IntervalHours: 5,
	}); err == nil {
		t.Fatalf("expected error for interval of 5 hours")
	}

	if _, err := service.CreateMedicine(sqldb, nil, service.MedicineInput{
		Name:         "bad reminder",
		Frequency:    1,
		DoseTimes:    []schedule.TimeInput{{Hour: 9, Minute: 0, Period: "AM"}},
		ReminderType: "carrier-pigeon",
	}); err == nil {
		t.Fatalf("expected error for unknown reminder type")
	}
}

func TestUpdateMedicineRegeneratesTimes(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	med, err := service.CreateMedicine(sqldb, nil, service.MedicineInput{
		Name:      "thyroxine",
		Frequency: 1,
		DoseTimes: []schedule.TimeInput{{Hour: 7, Minute: 0, Period: "AM"}},
	})
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	updated, err := service.UpdateMedicine(sqldb, nil, med.ID, service.MedicineInput{
		Name:          "thyroxine",
		Frequency:     4,
		ScheduleType:  schedule.KindInterval,
		FirstDose:     schedule.TimeInput{Hour: 7, Minute: 30, Period: "AM"},
		IntervalHours: 4,
		ReminderType:  service.ReminderAlarm,
	})
	if err != nil {
		t.Fatalf("update medicine: %v", err)
	}
	want := []string{"07:30", "11:30", "15:30", "19:30"}
	if !reflect.DeepEqual(updated.Times, want) {
		t.Fatalf("times: got %v, want %v", updated.Times, want)
	}
	if len(updated.Times) != updated.Frequency {
		t.Fatalf("times length %d != frequency %d", len(updated.Times), updated.Frequency)
	}
	if updated.ReminderType != service.ReminderAlarm {
		t.Fatalf("reminder type: got %q", updated.ReminderType)
	}
}

func TestUpdateMedicineNotFound(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	_, err := service.UpdateMedicine(sqldb, nil, "no-such-id", service.MedicineInput{
		Name:      "ghost",
		Frequency: 1,
		DoseTimes: []schedule.TimeInput{{Hour: 9, Minute: 0, Period: "AM"}},
	})
	if err == nil {
		t.Fatalf("expected error for unknown medicine")
	}
}

func TestGetMedicineAbsentReturnsNil(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	med, err := service.GetMedicine(sqldb, "no-such-id")
	if err != nil {
		t.Fatalf("get medicine: %v", err)
	}
	if med != nil {
		t.Fatalf("expected nil for absent medicine, got %+v", med)
	}
}

func TestReminderLifecycle(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	sched := &stubScheduler{}
	med, err := service.CreateMedicine(sqldb, sched, service.MedicineInput{
		Name:         "blood pressure med",
		Frequency:    2,
		DoseTimes:    []schedule.TimeInput{{Hour: 8, Minute: 0, Period: "AM"}, {Hour: 8, Minute: 0, Period: "PM"}},
		ReminderType: service.ReminderAlarm,
	})
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	if !reflect.DeepEqual(sched.scheduled, []string{"08:00", "20:00"}) {
		t.Fatalf("scheduled times: got %v", sched.scheduled)
	}

	stored, err := service.ListNotifications(sqldb, med.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored notification ids, got %d", len(stored))
	}
	if !stored[0].IsAlarm {
		t.Fatalf("expected alarm notifications")
	}

	if _, err := service.UpdateMedicine(sqldb, sched, med.ID, service.MedicineInput{
		Name:      "blood pressure med",
		Frequency: 1,
		DoseTimes: []schedule.TimeInput{{Hour: 9, Minute: 0, Period: "AM"}},
	}); err != nil {
		t.Fatalf("update medicine: %v", err)
	}
	if len(sched.canceled) != 2 {
		t.Fatalf("expected 2 cancellations on update, got %d", len(sched.canceled))
	}

	stored, err = service.ListNotifications(sqldb, med.ID)
	if err != nil {
		t.Fatalf("list notifications after update: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 rescheduled notification, got %d", len(stored))
	}

	if err := service.DeleteMedicine(sqldb, sched, med.ID); err != nil {
		t.Fatalf("delete medicine: %v", err)
	}
	if len(sched.canceled) != 3 {
		t.Fatalf("expected 3 total cancellations after delete, got %d", len(sched.canceled))
	}
}
