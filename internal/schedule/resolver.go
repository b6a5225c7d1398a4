// Package schedule resolves the hours that apply to one calendar date.
package schedule

import (
	"time"

	"storehours/internal/civiltime"
	"storehours/internal/model"
)

// Resolve returns the effective hours for date. An override matching the
// date's day and month wins outright and yields a single entry; otherwise
// every weekly entry for the date's weekday is returned in input order.
//
// Overrides are scanned in order and the first match is used, so later
// overrides with the same key never apply.
func Resolve(weekly []model.WeeklyHours, overrides []model.Override, date time.Time) []model.WeeklyHours {
	dayOfWeek := int(date.Weekday())

	if o, ok := FindOverride(overrides, model.KeyOfDate(date)); ok {
		return []model.WeeklyHours{{
			ID:        o.ID,
			DayOfWeek: dayOfWeek,
			IsOpen:    o.IsOpen,
			StartTime: o.StartTime,
			EndTime:   o.EndTime,
		}}
	}

	var result []model.WeeklyHours
	for _, w := range weekly {
		if w.DayOfWeek == dayOfWeek {
			result = append(result, w)
		}
	}
	return result
}

// ResolveDate is Resolve for a "YYYY-MM-DD" date. An unparsable date
// resolves to nothing.
func ResolveDate(weekly []model.WeeklyHours, overrides []model.Override, date string) []model.WeeklyHours {
	d, err := civiltime.CivilDate(date, time.UTC)
	if err != nil {
		return nil
	}
	return Resolve(weekly, overrides, d)
}

// FindOverride returns the first override whose key equals key.
func FindOverride(overrides []model.Override, key model.OverrideKey) (model.Override, bool) {
	for _, o := range overrides {
		if o.Key().Equal(key) {
			return o, true
		}
	}
	return model.Override{}, false
}

// OpenOnly keeps the entries that are open.
func OpenOnly(entries []model.WeeklyHours) []model.WeeklyHours {
	var open []model.WeeklyHours
	for _, e := range entries {
		if e.IsOpen {
			open = append(open, e)
		}
	}
	return open
}

// AnyOpen reports whether at least one entry is open.
func AnyOpen(entries []model.WeeklyHours) bool {
	for _, e := range entries {
		if e.IsOpen {
			return true
		}
	}
	return false
}
