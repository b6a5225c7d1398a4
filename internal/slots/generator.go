package slots

import (
	"fmt"
	"strings"

	"storehours/internal/civiltime"
	"storehours/internal/model"
)

// SlotStep is the spacing between bookable slots, in minutes.
const SlotStep = 30

const minutesPerDay = 24 * 60

// MealPeriod selects the hour window slots are generated in.
type MealPeriod string

const (
	Breakfast MealPeriod = "breakfast"
	Lunch     MealPeriod = "lunch"
	Dinner    MealPeriod = "dinner"
)

// MealPeriods lists the periods in display order.
var MealPeriods = []MealPeriod{Breakfast, Lunch, Dinner}

// ParseMealPeriod validates a meal period name.
func ParseMealPeriod(s string) (MealPeriod, error) {
	switch m := MealPeriod(strings.ToLower(strings.TrimSpace(s))); m {
	case Breakfast, Lunch, Dinner:
		return m, nil
	default:
		return "", fmt.Errorf("unknown meal period: %q", s)
	}
}

// Range returns the half-open hour range [start, end) of the period in the
// store's home timezone. Unknown values fall back to breakfast.
func (m MealPeriod) Range() (startHour, endHour int) {
	switch m {
	case Lunch:
		return 12, 18
	case Dinner:
		return 18, 24
	default:
		return 6, 12
	}
}

// SlotInfo is a slot paired with its display label.
type SlotInfo struct {
	Time  string `json:"time"`  // "18:30"
	Label string `json:"label"` // "6:30 PM"
}

// FutureChecker decides whether a slot on a date is still ahead of now.
type FutureChecker interface {
	IsFutureTime(timeStr, date, timezone string) bool
}

// Generator produces bookable slots for a date.
type Generator struct {
	checker  FutureChecker
	timezone string
}

// NewGenerator creates a slot generator. Slots are always evaluated in the
// store's home timezone.
func NewGenerator(checker FutureChecker) *Generator {
	return &Generator{checker: checker, timezone: civiltime.ReferenceTimezone}
}

// GenerateTimeSlots enumerates every 30-minute boundary of the meal period.
func GenerateTimeSlots(meal MealPeriod) []string {
	startHour, endHour := meal.Range()
	slots := make([]string, 0, (endHour-startHour)*60/SlotStep)
	for hour := startHour; hour < endHour; hour++ {
		for minute := 0; minute < 60; minute += SlotStep {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// IsWithinHours reports whether slot falls inside at least one open
// interval. Intervals are [start, end). When end is earlier than start the
// interval runs past midnight: end and any slot earlier than start are
// shifted by a day before comparing. Only that single day boundary is
// handled.
func IsWithinHours(slot string, hours []model.WeeklyHours) bool {
	slotMinutes, err := civiltime.MinutesOfDay(slot)
	if err != nil {
		return false
	}

	for _, h := range hours {
		if !h.IsOpen {
			continue
		}
		start, err := civiltime.MinutesOfDay(h.StartTime)
		if err != nil {
			continue
		}
		end, err := civiltime.MinutesOfDay(h.EndTime)
		if err != nil {
			continue
		}

		if end < start {
			end += minutesPerDay
		}
		adjusted := slotMinutes
		if adjusted < start {
			adjusted += minutesPerDay
		}
		if adjusted >= start && adjusted < end {
			return true
		}
	}
	return false
}

// FilterAvailableSlots keeps the slots that fall within the resolved hours
// and are strictly in the future on date.
func (g *Generator) FilterAvailableSlots(slots []string, hours []model.WeeklyHours, date string) []string {
	if len(hours) == 0 {
		return nil
	}

	var available []string
	for _, s := range slots {
		if !IsWithinHours(s, hours) {
			continue
		}
		if g.checker != nil && !g.checker.IsFutureTime(s, date, g.timezone) {
			continue
		}
		available = append(available, s)
	}
	return available
}

// AvailableSlots generates the meal period's slots and filters them.
func (g *Generator) AvailableSlots(meal MealPeriod, hours []model.WeeklyHours, date string) []string {
	return g.FilterAvailableSlots(GenerateTimeSlots(meal), hours, date)
}

// ToSlotInfo labels slots for display. Labels stay in store time.
func ToSlotInfo(slots []string) []SlotInfo {
	result := make([]SlotInfo, 0, len(slots))
	for _, s := range slots {
		result = append(result, SlotInfo{Time: s, Label: FormatClock(s)})
	}
	return result
}

// FormatClock renders "HH:MM" as a 12-hour label without a leading zero,
// e.g. "18:05" becomes "6:05 PM". Malformed input is returned unchanged.
func FormatClock(s string) string {
	hour, minute, err := civiltime.ParseTime(s)
	if err != nil {
		return s
	}
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, ampm)
}
