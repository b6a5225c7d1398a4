package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := NewDB(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestGetUserSettings_Defaults(t *testing.T) {
	d := newTestDB(t)

	s, err := d.GetUserSettings(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.UserID)
	assert.False(t, s.UseDeviceTimezone)
	assert.Empty(t, s.DeviceTimezone)
	assert.Zero(t, s.ID)
}

func TestUpsertUserSettings(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.UpsertUserSettings(ctx, 7, true, "Europe/London"))
	s, err := d.GetUserSettings(ctx, 7)
	require.NoError(t, err)
	assert.True(t, s.UseDeviceTimezone)
	assert.Equal(t, "Europe/London", s.DeviceTimezone)
	assert.NotZero(t, s.ID)
	firstID := s.ID

	require.NoError(t, d.UpsertUserSettings(ctx, 7, false, "Asia/Tokyo"))
	s, err = d.GetUserSettings(ctx, 7)
	require.NoError(t, err)
	assert.False(t, s.UseDeviceTimezone)
	assert.Equal(t, "Asia/Tokyo", s.DeviceTimezone)
	assert.Equal(t, firstID, s.ID)

	other, err := d.GetUserSettings(ctx, 8)
	require.NoError(t, err)
	assert.False(t, other.UseDeviceTimezone)
}

func TestToggleDeviceTimezone(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.UpsertUserSettings(ctx, 1, false, "America/Chicago"))

	on, err := d.ToggleDeviceTimezone(ctx, 1)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := d.ToggleDeviceTimezone(ctx, 1)
	require.NoError(t, err)
	assert.False(t, off)

	s, err := d.GetUserSettings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", s.DeviceTimezone)
	assert.NoError(t, d.Ping(ctx))
}
