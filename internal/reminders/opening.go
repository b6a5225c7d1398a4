// Package reminders plans "store opens soon" notifications. Delivery is
// left to the caller; this package only computes what to send and when.
package reminders

import (
	"fmt"
	"sort"
	"time"

	"storehours/internal/civiltime"
	"storehours/internal/model"
	"storehours/internal/slots"
)

// DefaultLead is how long before opening a reminder fires.
const DefaultLead = time.Hour

// ReminderType defines the type of reminder.
type ReminderType string

const ReminderTypeStoreOpening ReminderType = "store_opening"

// Reminder is one planned notification.
type Reminder struct {
	ID        string       `json:"id"`
	Type      ReminderType `json:"type"`
	DayOfWeek int          `json:"day_of_week"`
	Title     string       `json:"title"`
	Message   string       `json:"message"`
	At        time.Time    `json:"at"`
	OpensAt   time.Time    `json:"opens_at"`
}

// Plan returns one reminder per open weekly entry, set lead before the
// entry's next opening. The next opening is always on a later day than now,
// even when today's opening is still ahead. Reminders not after now and
// entries with malformed start times are skipped. The result is ordered by
// firing time.
func Plan(weekly []model.WeeklyHours, now time.Time, lead time.Duration) []Reminder {
	if lead <= 0 {
		lead = DefaultLead
	}
	loc, err := civiltime.LoadLocation(civiltime.ReferenceTimezone)
	if err != nil {
		return nil
	}
	local := now.In(loc)

	var planned []Reminder
	for _, w := range weekly {
		if !w.IsOpen {
			continue
		}
		hour, minute, err := civiltime.ParseTime(w.StartTime)
		if err != nil {
			continue
		}

		daysUntil := w.DayOfWeek - int(local.Weekday())
		if daysUntil <= 0 {
			daysUntil += 7
		}
		opens := time.Date(local.Year(), local.Month(), local.Day()+daysUntil, hour, minute, 0, 0, loc)
		at := opens.Add(-lead)
		if !at.After(now) {
			continue
		}

		planned = append(planned, Reminder{
			ID:        fmt.Sprintf("store-opening-%d-%s", w.DayOfWeek, w.StartTime),
			Type:      ReminderTypeStoreOpening,
			DayOfWeek: w.DayOfWeek,
			Title:     "Store Opening Soon!",
			Message:   fmt.Sprintf("The store opens in %s at %s", formatLead(lead), slots.FormatClock(w.StartTime)),
			At:        at,
			OpensAt:   opens,
		})
	}

	sort.SliceStable(planned, func(i, j int) bool {
		return planned[i].At.Before(planned[j].At)
	})
	return planned
}

func formatLead(d time.Duration) string {
	if d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}
