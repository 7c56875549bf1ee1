// Package notify is the reminder dispatch boundary. The application only
// issues schedule/cancel effects and keeps the returned ids; delivery is
// someone else's problem.
package notify

import (
	"fmt"

	"github.com/google/uuid"
)

// Scheduler schedules a reminder for a clock time on a date and returns
// an opaque id usable for later cancellation.
type Scheduler interface {
	Schedule(title, body, timeOfDay, date string, isAlarm bool) (string, error)
	Cancel(id string) error
}

// LocalScheduler hands out ids without real delivery. It stands in for a
// platform notification service on systems that have none.
type LocalScheduler struct{}

func NewLocalScheduler() *LocalScheduler {
	return &LocalScheduler{}
}

func (s *LocalScheduler) Schedule(title, body, timeOfDay, date string, isAlarm bool) (string, error) {
	if title == "" {
		return "", fmt.Errorf("notification title is required")
	}
	return uuid.NewString(), nil
}

func (s *LocalScheduler) Cancel(id string) error {
	if id == "" {
		return fmt.Errorf("notification id is required")
	}
	return nil
}
