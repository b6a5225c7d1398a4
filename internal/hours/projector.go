// Package hours projects resolved store hours into display summaries and
// bookable slots.
package hours

import (
	"sort"
	"strings"
	"time"

	"storehours/internal/civiltime"
	"storehours/internal/model"
	"storehours/internal/schedule"
	"storehours/internal/slots"
)

// DefaultRangeDays is the length of the rolling date window.
const DefaultRangeDays = 4

var dayNames = []string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// DateInfo summarizes one date for display.
type DateInfo struct {
	Date      string              `json:"date"`
	DayName   string              `json:"day_name"`
	DateLabel string              `json:"date_label"` // "Aug 4, 2025"
	IsOpen    bool                `json:"is_open"`
	Timezone  string              `json:"timezone"`
	Hours     []model.WeeklyHours `json:"hours"`
	HoursText string              `json:"hours_text"`
}

// DayCard is one entry of the rolling date window.
type DayCard struct {
	Date       string `json:"date"`
	DayOfMonth int    `json:"day_of_month"`
	Month      string `json:"month"`   // "Aug"
	Weekday    string `json:"weekday"` // "Mon"
	IsToday    bool   `json:"is_today"`
	IsOpen     bool   `json:"is_open"`
}

// DayMark flags a calendar day as open or closed.
type DayMark struct {
	Date   string `json:"date"`
	IsOpen bool   `json:"is_open"`
}

// DaySummary groups the weekly entries of one weekday.
type DaySummary struct {
	DayOfWeek int                 `json:"day_of_week"`
	DayName   string              `json:"day_name"`
	Slots     []model.WeeklyHours `json:"slots"`
	IsOpen    bool                `json:"is_open"`
	HoursText string              `json:"hours_text"`
}

// Projector answers display questions over one snapshot of hours data.
// It holds no mutable state and is safe for concurrent use.
type Projector struct {
	weekly    []model.WeeklyHours
	overrides []model.Override
	conv      *civiltime.Converter
	generator *slots.Generator
	reference string
}

// NewProjector creates a projector over weekly hours and overrides.
func NewProjector(weekly []model.WeeklyHours, overrides []model.Override, conv *civiltime.Converter) *Projector {
	return &Projector{
		weekly:    weekly,
		overrides: overrides,
		conv:      conv,
		generator: slots.NewGenerator(conv),
		reference: civiltime.ReferenceTimezone,
	}
}

// Resolve returns the effective hours for date.
func (p *Projector) Resolve(date string) []model.WeeklyHours {
	return schedule.ResolveDate(p.weekly, p.overrides, date)
}

// IsOpenOnDate reports whether any resolved entry for date is open.
func (p *Projector) IsOpenOnDate(date string) bool {
	return schedule.AnyOpen(p.Resolve(date))
}

// FormatDayHours renders the open intervals of date in displayTz, e.g.
// "9:00 AM - 5:00 PM, 6:00 PM - 10:00 PM". A closed day renders as "".
func (p *Projector) FormatDayHours(date, displayTz string) string {
	open := schedule.OpenOnly(p.Resolve(date))
	return FormatIntervals(p.ConvertEntries(open, displayTz, date))
}

// ConvertEntries re-expresses start and end times from store time into
// displayTz. Entries are copied; the inputs are left untouched.
func (p *Projector) ConvertEntries(entries []model.WeeklyHours, displayTz, date string) []model.WeeklyHours {
	if displayTz == "" || displayTz == p.reference {
		return entries
	}
	converted := make([]model.WeeklyHours, len(entries))
	for i, e := range entries {
		e.StartTime = p.conv.ConvertCivilTime(e.StartTime, p.reference, displayTz, date)
		e.EndTime = p.conv.ConvertCivilTime(e.EndTime, p.reference, displayTz, date)
		converted[i] = e
	}
	return converted
}

// SelectedDateInfo builds the summary shown for a selected date. Hours are
// expressed in displayTz.
func (p *Projector) SelectedDateInfo(date, displayTz string) DateInfo {
	if displayTz == "" {
		displayTz = p.reference
	}
	info := DateInfo{Date: date, Timezone: displayTz}

	d, err := civiltime.CivilDate(date, time.UTC)
	if err != nil {
		return info
	}
	info.DayName = DayName(int(d.Weekday()))
	info.DateLabel = d.Format("Jan 2, 2006")

	open := schedule.OpenOnly(p.Resolve(date))
	info.IsOpen = len(open) > 0
	info.Hours = p.ConvertEntries(open, displayTz, date)
	info.HoursText = FormatIntervals(info.Hours)
	return info
}

// StoreTimesForSlots returns the open entries for date, kept in store time.
func (p *Projector) StoreTimesForSlots(date string) []model.WeeklyHours {
	return schedule.OpenOnly(p.Resolve(date))
}

// AvailableSlots returns the bookable slots of the meal period on date.
func (p *Projector) AvailableSlots(meal slots.MealPeriod, date string) []string {
	return p.generator.AvailableSlots(meal, p.StoreTimesForSlots(date), date)
}

// Today returns the current date in the store's timezone.
func (p *Projector) Today() string {
	return p.conv.CurrentDateInTimezone(p.reference)
}

// DayRange returns n consecutive days starting at base. An empty base means
// today. n <= 0 uses DefaultRangeDays.
func (p *Projector) DayRange(base string, n int) []DayCard {
	if n <= 0 {
		n = DefaultRangeDays
	}
	today := p.Today()
	if base == "" {
		base = today
	}
	start, err := civiltime.CivilDate(base, time.UTC)
	if err != nil {
		return nil
	}

	cards := make([]DayCard, 0, n)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		ds := d.Format(civiltime.DateLayout)
		cards = append(cards, DayCard{
			Date:       ds,
			DayOfMonth: d.Day(),
			Month:      d.Format("Jan"),
			Weekday:    d.Format("Mon"),
			IsToday:    ds == today,
			IsOpen:     p.IsOpenOnDate(ds),
		})
	}
	return cards
}

// MonthMarks flags every day of the month from today onwards as open or
// closed. The selected date is skipped since it is highlighted separately.
func (p *Projector) MonthMarks(year int, month time.Month, selected string) []DayMark {
	today := p.Today()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	var marks []DayMark
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		ds := d.Format(civiltime.DateLayout)
		if ds < today || ds == selected {
			continue
		}
		marks = append(marks, DayMark{Date: ds, IsOpen: p.IsOpenOnDate(ds)})
	}
	return marks
}

// GroupByDay groups weekly entries by weekday, sorted Sunday first.
func GroupByDay(weekly []model.WeeklyHours) []DaySummary {
	grouped := make(map[int][]model.WeeklyHours)
	for _, w := range weekly {
		grouped[w.DayOfWeek] = append(grouped[w.DayOfWeek], w)
	}

	result := make([]DaySummary, 0, len(grouped))
	for dow, entries := range grouped {
		result = append(result, DaySummary{
			DayOfWeek: dow,
			DayName:   DayName(dow),
			Slots:     entries,
			IsOpen:    schedule.AnyOpen(entries),
			HoursText: FormatTimeSlots(entries),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DayOfWeek < result[j].DayOfWeek
	})
	return result
}

// DayName maps 0-6 to "Sunday".."Saturday".
func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek >= len(dayNames) {
		return "Unknown"
	}
	return dayNames[dayOfWeek]
}

// FormatTime renders "HH:MM" as "h:mm AM".
func FormatTime(s string) string {
	return slots.FormatClock(s)
}

// FormatIntervals renders the open entries as "h:mm AM - h:mm PM" joined
// by ", ". Closed entries are skipped.
func FormatIntervals(entries []model.WeeklyHours) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsOpen {
			continue
		}
		parts = append(parts, FormatTime(e.StartTime)+" - "+FormatTime(e.EndTime))
	}
	return strings.Join(parts, ", ")
}

// FormatTimeSlots is FormatIntervals with "Closed" for a day without open
// entries.
func FormatTimeSlots(entries []model.WeeklyHours) string {
	if s := FormatIntervals(entries); s != "" {
		return s
	}
	return "Closed"
}
