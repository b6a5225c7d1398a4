package model

import "time"

// UserSettings stores display preferences. It is the only place the
// "use device timezone" flag lives.
type UserSettings struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	UseDeviceTimezone bool      `json:"use_device_timezone"`
	DeviceTimezone    string    `json:"device_timezone"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
