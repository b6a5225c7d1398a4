package civiltime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // offsets must not depend on the host's zoneinfo
)

// ReferenceTimezone is the store's home timezone. All raw hours are authored in it.
const ReferenceTimezone = "America/New_York"

const (
	TimeLayout = "15:04"
	DateLayout = "2006-01-02"
)

var (
	ErrInvalidFormat   = errors.New("invalid time or date format")
	ErrInvalidRange    = errors.New("invalid time values")
	ErrUnknownTimezone = errors.New("unknown timezone")
)

var (
	locMu    sync.RWMutex
	locCache = map[string]*time.Location{}
)

// LoadLocation resolves an IANA zone name. Results are memoized since
// time.LoadLocation reads the zoneinfo database on every call.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownTimezone)
	}
	locMu.RLock()
	loc, ok := locCache[name]
	locMu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownTimezone, name, err)
	}

	locMu.Lock()
	locCache[name] = loc
	locMu.Unlock()
	return loc, nil
}

// ParseTime splits "HH:MM" into hour and minute.
func ParseTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	hour, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: hour %q", ErrInvalidFormat, parts[0])
	}
	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: minute %q", ErrInvalidFormat, parts[1])
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidRange, hour, minute)
	}
	return hour, minute, nil
}

// ParseDate splits "YYYY-MM-DD" into its numeric fields. Out-of-range
// months or days are not rejected; they normalize the way time.Date does.
func ParseDate(s string) (year int, month time.Month, day int, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		nums[i] = n
	}
	return nums[0], time.Month(nums[1]), nums[2], nil
}

// CivilDate returns midnight of the date in loc.
func CivilDate(date string, loc *time.Location) (time.Time, error) {
	y, m, d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// MinutesOfDay converts "HH:MM" into minutes since midnight.
func MinutesOfDay(s string) (int, error) {
	h, m, err := ParseTime(s)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}
