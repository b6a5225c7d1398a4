package civiltime

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConverter(now time.Time) *Converter {
	logger := zerolog.New(io.Discard)
	return NewConverter(FixedClock(now), &logger)
}

func TestTimeToTimestamp(t *testing.T) {
	summer, err := TimeToTimestamp("09:00", "2025-08-04", ReferenceTimezone)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 4, 13, 0, 0, 0, time.UTC), summer.UTC())

	winter, err := TimeToTimestamp("09:00", "2025-01-06", ReferenceTimezone)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 14, 0, 0, 0, time.UTC), winter.UTC())
}

func TestTimeToTimestamp_Errors(t *testing.T) {
	tests := []struct {
		name    string
		time    string
		date    string
		tz      string
		wantErr error
	}{
		{"non numeric hour", "ab:00", "2025-08-04", ReferenceTimezone, ErrInvalidFormat},
		{"missing minutes", "9", "2025-08-04", ReferenceTimezone, ErrInvalidFormat},
		{"non numeric date", "09:00", "2025-aa-04", ReferenceTimezone, ErrInvalidFormat},
		{"wrong date separator", "09:00", "2025/08/04", ReferenceTimezone, ErrInvalidFormat},
		{"hour out of range", "24:00", "2025-08-04", ReferenceTimezone, ErrInvalidRange},
		{"negative hour", "-1:00", "2025-08-04", ReferenceTimezone, ErrInvalidRange},
		{"minute out of range", "12:60", "2025-08-04", ReferenceTimezone, ErrInvalidRange},
		{"unknown zone", "09:00", "2025-08-04", "Mars/Olympus_Mons", ErrUnknownTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TimeToTimestamp(tt.time, tt.date, tt.tz)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTimestampToCivilTime(t *testing.T) {
	instant := time.Date(2025, 8, 4, 13, 5, 0, 0, time.UTC)

	got, err := TimestampToCivilTime(instant, ReferenceTimezone)
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)

	got, err = TimestampToCivilTime(instant, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "22:05", got)

	_, err = TimestampToCivilTime(instant, "Nowhere/Special")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestTimestampRoundTrip(t *testing.T) {
	instant, err := TimeToTimestamp("18:30", "2025-11-20", "Europe/Paris")
	require.NoError(t, err)

	got, err := TimestampToCivilTime(instant, "Europe/Paris")
	require.NoError(t, err)
	assert.Equal(t, "18:30", got)
}

func TestConvertCivilTime(t *testing.T) {
	c := newTestConverter(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		time string
		from string
		to   string
		date string
		want string
	}{
		{"same zone is identity", "09:00", ReferenceTimezone, ReferenceTimezone, "2025-08-04", "09:00"},
		{"same zone skips validation", "garbage", "UTC", "UTC", "", "garbage"},
		{"east to west", "09:00", ReferenceTimezone, "America/Los_Angeles", "2025-08-04", "06:00"},
		{"wraps forward past midnight", "22:30", "America/Los_Angeles", ReferenceTimezone, "2025-08-04", "01:30"},
		{"wraps backward before midnight", "01:15", ReferenceTimezone, "America/Los_Angeles", "2025-08-04", "22:15"},
		{"large delta", "20:00", ReferenceTimezone, "Asia/Tokyo", "2025-08-04", "09:00"},
		{"half hour zone drops fraction", "09:15", ReferenceTimezone, "Asia/Kolkata", "2025-08-04", "18:15"},
		{"dst gap between regions in march", "09:00", ReferenceTimezone, "Europe/London", "2025-03-15", "13:00"},
		{"both regions on summer time", "09:00", ReferenceTimezone, "Europe/London", "2025-04-15", "14:00"},
		{"malformed time returned as is", "9am", ReferenceTimezone, "Europe/London", "2025-04-15", "9am"},
		{"out of range returned as is", "25:00", ReferenceTimezone, "Europe/London", "2025-04-15", "25:00"},
		{"unknown zone returned as is", "09:00", ReferenceTimezone, "Not/AZone", "2025-04-15", "09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ConvertCivilTime(tt.time, tt.from, tt.to, tt.date))
		})
	}
}

func TestConvertCivilTime_RoundTrip(t *testing.T) {
	c := newTestConverter(time.Now())
	date := "2025-08-04"

	for _, tm := range []string{"00:00", "06:30", "12:45", "23:59"} {
		there := c.ConvertCivilTime(tm, ReferenceTimezone, "Europe/Berlin", date)
		back := c.ConvertCivilTime(there, "Europe/Berlin", ReferenceTimezone, date)
		assert.Equal(t, tm, back, "whole-hour delta should round-trip %s", tm)
	}

	// Half-hour deltas are lossy: the fractional hour is floored away both ways.
	there := c.ConvertCivilTime("09:00", ReferenceTimezone, "Asia/Kolkata", date)
	back := c.ConvertCivilTime(there, "Asia/Kolkata", ReferenceTimezone, date)
	assert.Equal(t, "18:00", there)
	assert.NotEqual(t, "09:00", back)
}

func TestIsFutureTime(t *testing.T) {
	// 10:00 in New York.
	c := newTestConverter(time.Date(2025, 8, 4, 14, 0, 0, 0, time.UTC))

	assert.True(t, c.IsFutureTime("10:30", "2025-08-04", ReferenceTimezone))
	assert.False(t, c.IsFutureTime("09:30", "2025-08-04", ReferenceTimezone))
	assert.False(t, c.IsFutureTime("10:00", "2025-08-04", ReferenceTimezone), "present instant is not future")
	assert.True(t, c.IsFutureTime("00:00", "2025-08-05", ReferenceTimezone))
	assert.False(t, c.IsFutureTime("23:30", "2025-08-03", ReferenceTimezone))

	assert.False(t, c.IsFutureTime("bad", "2025-08-05", ReferenceTimezone))
	assert.False(t, c.IsFutureTime("10:30", "2025-08-05", "Bad/Zone"))
}

func TestCurrentDateInTimezone(t *testing.T) {
	c := newTestConverter(time.Date(2025, 8, 5, 2, 0, 0, 0, time.UTC))

	assert.Equal(t, "2025-08-04", c.CurrentDateInTimezone(ReferenceTimezone))
	assert.Equal(t, "2025-08-05", c.CurrentDateInTimezone("Asia/Tokyo"))
	assert.Equal(t, "2025-08-05", c.CurrentDateInTimezone("Bad/Zone"))
}

func TestHourIn(t *testing.T) {
	hour, err := HourIn(time.Date(2025, 8, 4, 13, 0, 0, 0, time.UTC), ReferenceTimezone)
	require.NoError(t, err)
	assert.Equal(t, 9, hour)
}

func TestCityFromTimezone(t *testing.T) {
	assert.Equal(t, "Los Angeles", CityFromTimezone("America/Los_Angeles"))
	assert.Equal(t, "Buenos Aires", CityFromTimezone("America/Argentina/Buenos_Aires"))
	assert.Equal(t, "Port of Spain", CityFromTimezone("America/Port_of_Spain"))
	assert.Equal(t, "UTC", CityFromTimezone("UTC"))
	assert.Equal(t, "Unknown City", CityFromTimezone(""))
	assert.Equal(t, "Unknown City", CityFromTimezone("Europe/"))
}
