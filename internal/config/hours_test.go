package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehours/internal/model"
)

const sampleHours = `
weekly:
  - id: "1"
    day_of_week: 1
    is_open: true
    start_time: "09:00"
    end_time: "17:00"
  - id: "2"
    day_of_week: 5
    is_open: true
    start_time: "22:00"
    end_time: "02:00"
  - id: "3"
    day_of_week: 0
    is_open: false
    start_time: ""
    end_time: ""
overrides:
  - id: "h1"
    day: 25
    month: 12
    is_open: false
    reason: Christmas
`

func TestLoadHoursConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hours.yaml", sampleHours)

	cfg, err := LoadHoursConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Weekly, 3)
	require.Len(t, cfg.Overrides, 1)

	assert.Equal(t, model.ID("2"), cfg.Weekly[1].ID)
	assert.Equal(t, "22:00", cfg.Weekly[1].StartTime)
	assert.Equal(t, "Christmas", cfg.Overrides[0].Reason)
	assert.Equal(t, "HoursConfig: 3 weekly entries (2 open), 1 overrides", cfg.String())
}

func TestHoursConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     HoursConfig
		wantErr string
	}{
		{
			name:    "bad weekday",
			cfg:     HoursConfig{Weekly: []model.WeeklyHours{{DayOfWeek: 7}}},
			wantErr: "weekly[0]: invalid day_of_week 7",
		},
		{
			name:    "open without times",
			cfg:     HoursConfig{Weekly: []model.WeeklyHours{{DayOfWeek: 1, IsOpen: true}}},
			wantErr: "weekly[0].start_time",
		},
		{
			name: "bad end time",
			cfg: HoursConfig{Weekly: []model.WeeklyHours{
				{DayOfWeek: 1, IsOpen: true, StartTime: "09:00", EndTime: "25:00"},
			}},
			wantErr: "weekly[0].end_time",
		},
		{
			name:    "bad month",
			cfg:     HoursConfig{Overrides: []model.Override{{Day: 1, Month: 13}}},
			wantErr: "overrides[0]: invalid month 13",
		},
		{
			name:    "bad day",
			cfg:     HoursConfig{Overrides: []model.Override{{Day: 0, Month: 1}}},
			wantErr: "overrides[0]: invalid day 0",
		},
		{
			name: "overnight is fine",
			cfg: HoursConfig{Weekly: []model.WeeklyHours{
				{DayOfWeek: 5, IsOpen: true, StartTime: "22:00", EndTime: "02:00"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHoursStore_ReturnsCopies(t *testing.T) {
	store := NewHoursStore(&HoursConfig{
		Weekly: []model.WeeklyHours{{ID: "1", DayOfWeek: 1, IsOpen: true, StartTime: "09:00", EndTime: "17:00"}},
	})

	weekly, err := store.StoreTimes(context.Background())
	require.NoError(t, err)
	weekly[0].StartTime = "00:00"

	again, err := store.StoreTimes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "09:00", again[0].StartTime)

	store.Set(nil)
	overrides, err := store.StoreOverrides(context.Background())
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestWatchHours_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hours.yaml", sampleHours)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		updates []*HoursConfig
	)
	err := WatchHours(ctx, path, 10*time.Millisecond, func(cfg *HoursConfig) {
		mu.Lock()
		updates = append(updates, cfg)
		mu.Unlock()
	})
	require.NoError(t, err)

	mu.Lock()
	require.Len(t, updates, 1)
	mu.Unlock()

	require.NoError(t, os.WriteFile(path, []byte(`
weekly:
  - id: "9"
    day_of_week: 2
    is_open: true
    start_time: "10:00"
    end_time: "11:00"
`), 0o644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(updates) == 2 && len(updates[1].Weekly) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatchHours_InitialLoadError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hours.yaml", "weekly:\n  - day_of_week: 9\n")
	err := WatchHours(context.Background(), path, time.Second, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate hours config")

	err = WatchHours(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), time.Second, nil)
	assert.Error(t, err)
}
