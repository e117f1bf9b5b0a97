package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"lessonbook/internal/availability"
	"lessonbook/internal/store"
)

// Config is the full service configuration, loaded from YAML with ${ENV}
// placeholders expanded.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
		// PublicURL is the externally reachable base URL used in the
		// approve/deny email links.
		PublicURL string `yaml:"public_url"`
	} `yaml:"server"`

	Database struct {
		Path   string             `yaml:"path"`
		Backup store.BackupConfig `yaml:"backup"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Auth struct {
		// JWTSecret verifies tokens issued by the identity provider.
		JWTSecret string `yaml:"jwt_secret"`
		// AdminAPIKey protects the admin export endpoint.
		AdminAPIKey string `yaml:"admin_api_key"`
	} `yaml:"auth"`

	Email struct {
		BaseURL    string  `yaml:"base_url"`
		APIKey     string  `yaml:"api_key"`
		From       string  `yaml:"from"`
		AdminEmail string  `yaml:"admin_email"`
		Rate       float64 `yaml:"rate"`
		Burst      int     `yaml:"burst"`
	} `yaml:"email"`

	Telegram struct {
		Enabled  bool   `yaml:"enabled"`
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Booking struct {
		HorizonDays         int `yaml:"horizon_days"`
		SelectionTTLMinutes int `yaml:"selection_ttl_minutes"`

		Hours struct {
			WeekdayOpen  int `yaml:"weekday_open"`
			WeekdayClose int `yaml:"weekday_close"`
			WeekendOpen  int `yaml:"weekend_open"`
			WeekendClose int `yaml:"weekend_close"`
		} `yaml:"hours"`

		Reminders struct {
			Enabled bool `yaml:"enabled"`
			Hour    int  `yaml:"hour"`
		} `yaml:"reminders"`
	} `yaml:"booking"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

// Load reads and validates the config file.
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

	cfg.applyDefaults()

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/lessonbook.db"
	}
	if c.Booking.HorizonDays <= 0 {
		c.Booking.HorizonDays = availability.DefaultHorizonDays
	}
	if c.Booking.SelectionTTLMinutes <= 0 {
		c.Booking.SelectionTTLMinutes = 30
	}
	if c.Booking.Reminders.Hour <= 0 || c.Booking.Reminders.Hour > 23 {
		c.Booking.Reminders.Hour = 10
	}
	if c.Database.Backup.RetentionDays <= 0 {
		c.Database.Backup.RetentionDays = 14
	}
	h := &c.Booking.Hours
	if h.WeekdayClose <= h.WeekdayOpen {
		h.WeekdayOpen, h.WeekdayClose = 18, 20
	}
	if h.WeekendClose <= h.WeekendOpen {
		h.WeekendOpen, h.WeekendClose = 8, 20
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}

// BusinessHours builds the availability policy from config.
func (c *Config) BusinessHours() availability.Hours {
	h := availability.Hours{
		time.Saturday: {Open: c.Booking.Hours.WeekendOpen, Close: c.Booking.Hours.WeekendClose},
		time.Sunday:   {Open: c.Booking.Hours.WeekendOpen, Close: c.Booking.Hours.WeekendClose},
	}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		h[wd] = availability.DayHours{Open: c.Booking.Hours.WeekdayOpen, Close: c.Booking.Hours.WeekdayClose}
	}
	return h
}

// SelectionTTL returns the selection lifetime.
func (c *Config) SelectionTTL() time.Duration {
	return time.Duration(c.Booking.SelectionTTLMinutes) * time.Minute
}
