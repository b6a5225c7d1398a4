package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	"storehours/internal/civiltime"
	"storehours/internal/model"

	"gopkg.in/yaml.v3"
)

// HoursConfig is the root of hours.yaml.
type HoursConfig struct {
	Weekly    []model.WeeklyHours `yaml:"weekly"`
	Overrides []model.Override    `yaml:"overrides"`
}

// LoadHoursConfig loads and validates the local hours file.
func LoadHoursConfig(path string) (*HoursConfig, error) {
	if path == "" {
		path = "configs/hours.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hours config: %w", err)
	}

	var cfg HoursConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse hours config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate hours config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the hours for errors. End before start is allowed and
// means the window runs past midnight.
func (c *HoursConfig) Validate() error {
	for i, w := range c.Weekly {
		if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
			return fmt.Errorf("weekly[%d]: invalid day_of_week %d, must be 0-6 (0=Sun)", i, w.DayOfWeek)
		}
		if w.IsOpen {
			if err := validateWindow(w.StartTime, w.EndTime, fmt.Sprintf("weekly[%d]", i)); err != nil {
				return err
			}
		}
	}

	for i, o := range c.Overrides {
		if o.Month < 1 || o.Month > 12 {
			return fmt.Errorf("overrides[%d]: invalid month %d", i, o.Month)
		}
		if o.Day < 1 || o.Day > 31 {
			return fmt.Errorf("overrides[%d]: invalid day %d", i, o.Day)
		}
		if o.IsOpen {
			if err := validateWindow(o.StartTime, o.EndTime, fmt.Sprintf("overrides[%d]", i)); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateWindow(start, end, prefix string) error {
	if _, _, err := civiltime.ParseTime(start); err != nil {
		return fmt.Errorf("%s.start_time: invalid value '%s', expected HH:MM", prefix, start)
	}
	if _, _, err := civiltime.ParseTime(end); err != nil {
		return fmt.Errorf("%s.end_time: invalid value '%s', expected HH:MM", prefix, end)
	}
	return nil
}

// String returns a summary of the configuration.
func (c *HoursConfig) String() string {
	open := 0
	for _, w := range c.Weekly {
		if w.IsOpen {
			open++
		}
	}
	return fmt.Sprintf("HoursConfig: %d weekly entries (%d open), %d overrides",
		len(c.Weekly), open, len(c.Overrides))
}

// HoursStore holds the latest hours file contents. It serves them with the
// same method set as the remote client so either can back the API.
type HoursStore struct {
	mu  sync.RWMutex
	cfg *HoursConfig
}

func NewHoursStore(cfg *HoursConfig) *HoursStore {
	if cfg == nil {
		cfg = &HoursConfig{}
	}
	return &HoursStore{cfg: cfg}
}

// Set swaps in a new snapshot.
func (s *HoursStore) Set(cfg *HoursConfig) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *HoursStore) StoreTimes(_ context.Context) ([]model.WeeklyHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.WeeklyHours(nil), s.cfg.Weekly...), nil
}

func (s *HoursStore) StoreOverrides(_ context.Context) ([]model.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Override(nil), s.cfg.Overrides...), nil
}
