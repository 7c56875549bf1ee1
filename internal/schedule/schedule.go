// Package schedule turns dosing configuration into the ordered list of
// daily clock times a medicine is taken at. Dose index i in the ledger
// always corresponds to the i-th generated time.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	KindExact    = "exact"
	KindInterval = "interval"

	MinFrequency = 1
	MaxFrequency = 6
)

var allowedIntervalHours = []int{1, 2, 3, 4, 6, 8, 12}

// TimeInput is a 12-hour clock reading as entered by the user.
type TimeInput struct {
	Hour   int
	Minute int
	Period string // "AM" or "PM"
}

// Normalize clamps the fields into range. Malformed input is pulled to
// the nearest boundary, never rejected.
func (t TimeInput) Normalize() TimeInput {
	t.Hour = ClampHour(t.Hour)
	t.Minute = ClampMinute(t.Minute)
	t.Period = NormalizePeriod(t.Period)
	return t
}

// To24Hour converts the reading to a zero-padded 24-hour "HH:MM" string.
// PM with hour != 12 adds 12; 12 AM maps to hour 0.
func (t TimeInput) To24Hour() string {
	t = t.Normalize()
	hour := t.Hour
	if t.Period == "PM" && hour != 12 {
		hour += 12
	} else if t.Period == "AM" && hour == 12 {
		hour = 0
	}
	return fmt.Sprintf("%02d:%02d", hour, t.Minute)
}

func ClampHour(h int) int {
	if h < 1 {
		return 1
	}
	if h > 12 {
		return 12
	}
	return h
}

func ClampMinute(m int) int {
	if m < 0 {
		return 0
	}
	if m > 59 {
		return 59
	}
	return m
}

func NormalizePeriod(p string) string {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(p)), "P") {
		return "PM"
	}
	return "AM"
}

// ParseHourField reads a user-typed hour. Non-numeric text resets to 1.
func ParseHourField(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1
	}
	return ClampHour(v)
}

// ParseMinuteField reads a user-typed minute. Non-numeric text resets to 0.
func ParseMinuteField(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return ClampMinute(v)
}

// ParseTimeOfDay reads a user-entered 12-hour time such as "8:30 AM",
// "8:30am" or "11 PM". Out-of-range fields clamp rather than fail.
func ParseTimeOfDay(s string) TimeInput {
	s = strings.TrimSpace(s)
	period := "AM"
	upper := strings.ToUpper(s)
	if i := strings.IndexAny(upper, "AP"); i >= 0 {
		period = NormalizePeriod(upper[i:])
		s = strings.TrimSpace(s[:i])
	}
	hourPart := s
	minutePart := "0"
	if i := strings.Index(s, ":"); i >= 0 {
		hourPart = s[:i]
		minutePart = s[i+1:]
	}
	return TimeInput{
		Hour:   ParseHourField(hourPart),
		Minute: ParseMinuteField(minutePart),
		Period: period,
	}
}

// ParseClock converts a stored 24-hour "HH:MM" string back to a 12-hour
// reading, for display and edit flows.
func ParseClock(s string) (TimeInput, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return TimeInput{}, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeInput{}, fmt.Errorf("invalid hour in time %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeInput{}, fmt.Errorf("invalid minute in time %q", s)
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return TimeInput{Hour: hour, Minute: minute, Period: period}, nil
}

func ValidateFrequency(n int) error {
	if n < MinFrequency || n > MaxFrequency {
		return fmt.Errorf("frequency must be between %d and %d", MinFrequency, MaxFrequency)
	}
	return nil
}

func ValidateIntervalHours(h int) error {
	for _, allowed := range allowedIntervalHours {
		if h == allowed {
			return nil
		}
	}
	return fmt.Errorf("interval hours must be one of 1, 2, 3, 4, 6, 8, 12")
}

func ValidateKind(kind string) error {
	if kind != KindExact && kind != KindInterval {
		return fmt.Errorf("schedule type must be %q or %q", KindExact, KindInterval)
	}
	return nil
}

// ExactTimes converts each explicit reading independently.
func ExactTimes(inputs []TimeInput) []string {
	times := make([]string, 0, len(inputs))
	for _, in := range inputs {
		times = append(times, in.To24Hour())
	}
	return times
}

// IntervalTimes derives frequency times from the first dose plus a fixed
// gap. Hours wrap modulo 24 and the minute is held constant, so a dose
// past midnight is still labeled with a same-day time.
func IntervalTimes(first TimeInput, frequency, intervalHours int) []string {
	times := make([]string, 0, frequency)
	firstClock := first.To24Hour()
	times = append(times, firstClock)

	hour, _ := strconv.Atoi(firstClock[:2])
	minute, _ := strconv.Atoi(firstClock[3:])
	for i := 1; i < frequency; i++ {
		hour = (hour + intervalHours) % 24
		times = append(times, fmt.Sprintf("%02d:%02d", hour, minute))
	}
	return times
}
