package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the variable that overrides the config location.
const EnvPath = "STOREHOURS_CONFIG_PATH"

type Config struct {
	Server struct {
		Port            int      `yaml:"port"`
		AllowedOrigins  []string `yaml:"allowed_origins"`
		RequestsPerMin  int      `yaml:"requests_per_minute"`
		ShutdownSeconds int      `yaml:"shutdown_seconds"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	// API is the remote hours backend. When disabled, hours come from the
	// local hours file instead.
	API struct {
		Enabled         bool    `yaml:"enabled"`
		BaseURL         string  `yaml:"base_url"`
		APIKey          string  `yaml:"api_key"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
		TimeoutSeconds  int     `yaml:"timeout_seconds"`
		RateLimit       float64 `yaml:"rate_limit"` // requests per second
		RateBurst       int     `yaml:"rate_burst"`
	} `yaml:"api"`

	Hours struct {
		File                 string `yaml:"file"`
		WatchIntervalSeconds int    `yaml:"watch_interval_seconds"`
	} `yaml:"hours"`

	Reminders struct {
		LeadMinutes int `yaml:"lead_minutes"`
	} `yaml:"reminders"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// PathFromEnv returns the config path from the environment or the default.
func PathFromEnv() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return "configs/config.yaml"
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/storehours.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ServerPort() int {
	if c.Server.Port <= 0 {
		return 8080
	}
	return c.Server.Port
}

func (c *Config) RequestsPerMinute() int {
	if c.Server.RequestsPerMin <= 0 {
		return 120
	}
	return c.Server.RequestsPerMin
}

func (c *Config) ShutdownTimeout() time.Duration {
	if c.Server.ShutdownSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	if c.API.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

func (c *Config) APITimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// APIRate returns the outbound request rate and burst for the hours backend.
func (c *Config) APIRate() (perSecond float64, burst int) {
	perSecond, burst = c.API.RateLimit, c.API.RateBurst
	if perSecond <= 0 {
		perSecond = 5
	}
	if burst <= 0 {
		burst = 1
	}
	return perSecond, burst
}

func (c *Config) HoursFile() string {
	if c.Hours.File == "" {
		return "configs/hours.yaml"
	}
	return c.Hours.File
}

func (c *Config) HoursWatchInterval() time.Duration {
	if c.Hours.WatchIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Hours.WatchIntervalSeconds) * time.Second
}

func (c *Config) ReminderLead() time.Duration {
	if c.Reminders.LeadMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Reminders.LeadMinutes) * time.Minute
}

func (c *Config) HealthPort() int {
	if c.Monitoring.HealthCheckPort <= 0 {
		return 8081
	}
	return c.Monitoring.HealthCheckPort
}

func (c *Config) PrometheusPort() int {
	if c.Monitoring.PrometheusPort <= 0 {
		return 9090
	}
	return c.Monitoring.PrometheusPort
}
