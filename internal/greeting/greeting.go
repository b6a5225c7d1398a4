// Package greeting derives the header greeting and timezone label.
package greeting

import (
	"fmt"
	"time"

	"storehours/internal/civiltime"
)

const (
	referenceCity  = "NYC"
	referenceLabel = "New York"
	fallbackCity   = "Your City"
)

// Greeting picks the message for now. The hour is read in the store's
// timezone, or in deviceTz when useDevice is set.
func Greeting(now time.Time, useDevice bool, deviceTz string) string {
	tz := civiltime.ReferenceTimezone
	city := referenceCity
	if useDevice {
		tz = deviceTz
		city = DeviceCity(deviceTz)
	}

	hour, err := civiltime.HourIn(now, tz)
	if err != nil {
		// Unknown device zone: keep the store's clock.
		hour, _ = civiltime.HourIn(now, civiltime.ReferenceTimezone)
	}
	return ForHour(hour, city)
}

// ForHour maps an hour of day to its message.
func ForHour(hour int, city string) string {
	switch {
	case hour >= 5 && hour < 10:
		return fmt.Sprintf("Good Morning, %s!", city)
	case hour >= 10 && hour < 12:
		return fmt.Sprintf("Late Morning Vibes! %s", city)
	case hour >= 12 && hour < 17:
		return fmt.Sprintf("Good Afternoon, %s!", city)
	case hour >= 17 && hour < 21:
		return fmt.Sprintf("Good Evening, %s!", city)
	default:
		return fmt.Sprintf("Night Owl in %s!", city)
	}
}

// DeviceCity names the city of the device timezone, or "Your City" when
// the zone is missing or unknown.
func DeviceCity(deviceTz string) string {
	if _, err := civiltime.LoadLocation(deviceTz); err != nil {
		return fallbackCity
	}
	return civiltime.CityFromTimezone(deviceTz)
}

// DisplayTimezone is the label shown next to store hours.
func DisplayTimezone(useDevice bool, deviceTz string) string {
	if useDevice {
		return DeviceCity(deviceTz)
	}
	return referenceLabel
}
