package workflow

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// CronSpec renders the schedule as a standard 5-field cron expression.
// Weekly schedules fire on the weekday of Date, or Monday when no date is
// set. Once schedules need a Date and pin day and month.
func (s Schedule) CronSpec() (string, error) {
	at, err := time.Parse("15:04", s.Time)
	if err != nil {
		return "", fmt.Errorf("schedule time %q: %w", s.Time, err)
	}

	var date time.Time
	if s.Date != "" {
		date, err = time.Parse("2006-01-02", s.Date)
		if err != nil {
			return "", fmt.Errorf("schedule date %q: %w", s.Date, err)
		}
	}

	var spec string
	switch s.Frequency {
	case FrequencyHourly:
		spec = fmt.Sprintf("%d * * * *", at.Minute())
	case FrequencyDaily:
		spec = fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
	case FrequencyWeekly:
		weekday := time.Monday
		if !date.IsZero() {
			weekday = date.Weekday()
		}
		spec = fmt.Sprintf("%d %d * * %d", at.Minute(), at.Hour(), int(weekday))
	case FrequencyOnce:
		if date.IsZero() {
			return "", fmt.Errorf("once schedule has no date")
		}
		spec = fmt.Sprintf("%d %d %d %d *", at.Minute(), at.Hour(), date.Day(), int(date.Month()))
	default:
		return "", fmt.Errorf("unknown frequency %q", s.Frequency)
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return "", fmt.Errorf("cron spec %q: %w", spec, err)
	}
	return spec, nil
}

// Next returns the next time the schedule fires after from. Once
// schedules whose date has passed report ok=false.
func (s Schedule) Next(from time.Time) (time.Time, bool) {
	spec, err := s.CronSpec()
	if err != nil {
		return time.Time{}, false
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, false
	}
	next := sched.Next(from)
	if next.IsZero() {
		return time.Time{}, false
	}
	if s.Frequency == FrequencyOnce && s.Date != "" {
		date, _ := time.Parse("2006-01-02", s.Date)
		if next.Year() != date.Year() {
			return time.Time{}, false
		}
	}
	return next, true
}
