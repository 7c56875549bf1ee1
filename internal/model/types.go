package model

import "time"

type Medicine struct {
	ID            string
	Name          string
	Description   string
	Frequency     int
	Times         []string
	ScheduleType  string
	IntervalHours int
	ReminderType  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserProfile struct {
	Email          string
	Name           string
	Age            int
	Password       string
	ProfilePicture string
	ProfileSet     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Notification struct {
	ID         string
	MedicineID string
	DoseIndex  int
	TimeOfDay  string
	IsAlarm    bool
	CreatedAt  time.Time
}
