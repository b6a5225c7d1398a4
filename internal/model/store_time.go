package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// ID is an opaque identifier. The hours backend has sent both numbers and
// strings over time, so both are accepted and kept as text.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// WeeklyHours is one recurring opening rule. Times are "HH:MM" in the
// store's home timezone.
type WeeklyHours struct {
	ID        ID     `json:"id" yaml:"id"`
	DayOfWeek int    `json:"day_of_week" yaml:"day_of_week" validate:"min=0,max=6"` // 0-6 (Sunday-Saturday)
	IsOpen    bool   `json:"is_open" yaml:"is_open"`
	StartTime string `json:"start_time" yaml:"start_time" validate:"omitempty,datetime=15:04"` // "09:00"
	EndTime   string `json:"end_time" yaml:"end_time" validate:"omitempty,datetime=15:04"`     // "17:00"
}

// Override replaces a day's hours. It is keyed by day and month only, so it
// recurs every year.
type Override struct {
	ID        ID     `json:"id" yaml:"id"`
	Day       int    `json:"day" yaml:"day" validate:"min=1,max=31"`
	Month     int    `json:"month" yaml:"month" validate:"min=1,max=12"` // 1-12
	IsOpen    bool   `json:"is_open" yaml:"is_open"`
	StartTime string `json:"start_time" yaml:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   string `json:"end_time" yaml:"end_time" validate:"omitempty,datetime=15:04"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// OverrideKey is the partial date an override matches on.
type OverrideKey struct {
	Day   int
	Month time.Month
}

// Equal reports whether both keys name the same day of the same month.
func (k OverrideKey) Equal(other OverrideKey) bool {
	return k.Day == other.Day && k.Month == other.Month
}

// Key returns the override's matching key.
func (o Override) Key() OverrideKey {
	return OverrideKey{Day: o.Day, Month: time.Month(o.Month)}
}

// KeyOfDate returns the key a calendar date is matched with.
func KeyOfDate(date time.Time) OverrideKey {
	return OverrideKey{Day: date.Day(), Month: date.Month()}
}
