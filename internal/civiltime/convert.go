package civiltime

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"storehours/internal/metrics"
)

// TimeToTimestamp returns the absolute instant at which the wall clock in
// timezone reads time on date. It is strict: malformed or out-of-range input
// is reported, never guessed.
func TimeToTimestamp(timeStr, date, timezone string) (time.Time, error) {
	hour, minute, err := ParseTime(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, m, d, hour, minute, 0, 0, loc), nil
}

// TimestampToCivilTime renders the wall-clock "HH:MM" of instant in timezone.
func TimestampToCivilTime(instant time.Time, timezone string) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", err
	}
	return instant.In(loc).Format(TimeLayout), nil
}

// Offset returns the UTC offset of timezone at instant.
func Offset(timezone string, instant time.Time) (time.Duration, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return 0, err
	}
	_, secs := instant.In(loc).Zone()
	return time.Duration(secs) * time.Second, nil
}

// Converter wraps the strict primitives with fallbacks. Its methods never
// fail; problems are logged and a safe value is returned instead.
type Converter struct {
	clock  Clock
	logger *zerolog.Logger
}

// NewConverter creates a converter. A nil clock means the system clock.
func NewConverter(clock Clock, logger *zerolog.Logger) *Converter {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Converter{clock: clock, logger: logger}
}

// Now returns the converter's notion of the current instant.
func (c *Converter) Now() time.Time {
	return c.clock.Now()
}

// ConvertCivilTime re-expresses timeStr, a wall-clock time in fromTz on
// date, as a wall-clock time in toTz.
//
// Only the whole offset difference in hours is applied: the hour is shifted,
// wrapped modulo 24 and floored, and the minutes are copied as-is. Zones whose
// offsets differ by a fraction of an hour therefore lose the fractional part,
// and no day rollover is tracked.
func (c *Converter) ConvertCivilTime(timeStr, fromTz, toTz, date string) string {
	if fromTz == toTz {
		return timeStr
	}

	converted, err := convertHourDelta(timeStr, fromTz, toTz, date)
	if err != nil {
		metrics.IncConversionFallback("convert")
		c.logger.Warn().Err(err).
			Str("time", timeStr).
			Str("from", fromTz).
			Str("to", toTz).
			Str("date", date).
			Msg("timezone conversion failed")
		return timeStr
	}
	return converted
}

func convertHourDelta(timeStr, fromTz, toTz, date string) (string, error) {
	source, err := TimeToTimestamp(timeStr, date, fromTz)
	if err != nil {
		return "", err
	}
	fromOffset, err := Offset(fromTz, source)
	if err != nil {
		return "", err
	}
	toOffset, err := Offset(toTz, source)
	if err != nil {
		return "", err
	}

	hour, minute, _ := ParseTime(timeStr)
	delta := float64(toOffset-fromOffset) / float64(time.Hour)
	shifted := math.Mod(float64(hour)+delta, 24)
	if shifted < 0 {
		shifted += 24
	}
	return fmt.Sprintf("%02d:%02d", int(math.Floor(shifted)), minute), nil
}

// IsFutureTime reports whether timeStr on date in timezone is strictly after
// now. Any failure yields false.
func (c *Converter) IsFutureTime(timeStr, date, timezone string) bool {
	instant, err := TimeToTimestamp(timeStr, date, timezone)
	if err != nil {
		metrics.IncConversionFallback("is_future")
		c.logger.Warn().Err(err).
			Str("time", timeStr).
			Str("date", date).
			Str("timezone", timezone).
			Msg("time comparison failed")
		return false
	}
	return instant.After(c.clock.Now())
}

// CurrentDateInTimezone returns today's date as seen from timezone. When the
// zone cannot be resolved the clock's own local date is used.
func (c *Converter) CurrentDateInTimezone(timezone string) string {
	now := c.clock.Now()
	loc, err := LoadLocation(timezone)
	if err != nil {
		metrics.IncConversionFallback("current_date")
		c.logger.Warn().Err(err).Str("timezone", timezone).Msg("failed to get current date in timezone")
		return now.Format(DateLayout)
	}
	return now.In(loc).Format(DateLayout)
}

// HourIn returns the hour of instant on the wall clock of timezone.
func HourIn(instant time.Time, timezone string) (int, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return 0, err
	}
	return instant.In(loc).Hour(), nil
}

// CityFromTimezone derives a display city from an IANA name, e.g.
// "America/Los_Angeles" becomes "Los Angeles".
func CityFromTimezone(timezone string) string {
	segment := timezone
	if i := strings.LastIndex(timezone, "/"); i >= 0 {
		segment = timezone[i+1:]
	}
	city := strings.TrimSpace(strings.ReplaceAll(segment, "_", " "))
	if city == "" {
		return "Unknown City"
	}
	return city
}
