package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storehours/internal/model"
)

// GetUserSettings returns user settings by user ID.
// If no settings exist, returns default settings.
func (db *DB) GetUserSettings(ctx context.Context, userID int64) (*model.UserSettings, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, use_device_timezone, device_timezone,
		       created_at, updated_at
		FROM user_settings
		WHERE user_id = ?`, userID)

	var s model.UserSettings
	err := row.Scan(&s.ID, &s.UserID, &s.UseDeviceTimezone, &s.DeviceTimezone,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Store time until the user opts in.
			return &model.UserSettings{UserID: userID}, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpsertUserSettings creates or updates user settings.
func (db *DB) UpsertUserSettings(ctx context.Context, userID int64, useDevice bool, deviceTz string) error {
	now := time.Now().UTC()

	_, err := db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, use_device_timezone, device_timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			use_device_timezone = excluded.use_device_timezone,
			device_timezone = excluded.device_timezone,
			updated_at = excluded.updated_at`,
		userID, useDevice, deviceTz, now, now)
	return err
}

// ToggleDeviceTimezone flips the device timezone preference and returns the new state.
func (db *DB) ToggleDeviceTimezone(ctx context.Context, userID int64) (bool, error) {
	settings, err := db.GetUserSettings(ctx, userID)
	if err != nil {
		return false, err
	}

	newState := !settings.UseDeviceTimezone
	err = db.UpsertUserSettings(ctx, userID, newState, settings.DeviceTimezone)
	if err != nil {
		return false, err
	}

	return newState, nil
}
