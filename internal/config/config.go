// Package config provides YAML-based configuration loading for Haulyard.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Haulyard configuration, loaded from haulyard.yaml.
type Config struct {
	Timezone     string          `yaml:"timezone"`
	BaseURL      string          `yaml:"base_url"`
	TemplatePath string          `yaml:"template_path"`
	Database     DatabaseConfig  `yaml:"database"`
	Retention    RetentionConfig `yaml:"retention"`
	Server       ServerConfig    `yaml:"server"`
	Schedule     ScheduleConfig  `yaml:"schedule"`
	Publish      PublishConfig   `yaml:"publish"`
	Notify       NotifyConfig    `yaml:"notify"`
	Companies    []CompanyConfig `yaml:"companies"`

	location *time.Location
}

// DatabaseConfig selects and locates the archive database.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite, mysql or postgres
	Path     string `yaml:"path"`   // sqlite file
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DSN      string `yaml:"dsn"` // overrides the fields above when set
}

// RetentionConfig holds the display and deletion windows in days.
type RetentionConfig struct {
	DisplayDays int `yaml:"display_days"`
	DeleteDays  int `yaml:"delete_days"`
}

// ServerConfig configures the HTTP dashboard.
type ServerConfig struct {
	Port            int `yaml:"port"`
	SubmitPerMinute int `yaml:"submit_per_minute"`
	// AllowedOrigins lists browser origins allowed to call the server,
	// e.g. the host of the submission form.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ScheduleConfig holds 5-field cron expressions for the timed jobs.
type ScheduleConfig struct {
	Prune   string `yaml:"prune"`
	Refresh string `yaml:"refresh"`
}

// PublishConfig mirrors company pages to a GCS bucket when GCSBucket is set.
type PublishConfig struct {
	GCSBucket       string `yaml:"gcs_bucket"`
	GCSPrefix       string `yaml:"gcs_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// NotifyConfig holds chat delivery credentials and default channels.
type NotifyConfig struct {
	Slack   ChatConfig `yaml:"slack"`
	Discord ChatConfig `yaml:"discord"`
}

// ChatConfig is one chat platform's credentials.
type ChatConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// Enabled reports whether a bot token is configured.
func (c ChatConfig) Enabled() bool { return c.BotToken != "" }

// CompanyConfig maps one company to its trucks.
type CompanyConfig struct {
	Name           string   `yaml:"name"`
	Trucks         []string `yaml:"trucks"`
	SlackChannel   string   `yaml:"slack_channel"`
	DiscordChannel string   `yaml:"discord_channel"`
}

// Load reads a YAML config file from path and returns a validated Config.
// A .env file next to the working directory, if present, is loaded first
// so secrets can stay out of the YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv fills secrets from HY_* environment variables when the YAML
// leaves them empty.
func (c *Config) applyEnv() {
	envDefault(&c.Notify.Slack.BotToken, "HY_SLACK_BOT_TOKEN")
	envDefault(&c.Notify.Discord.BotToken, "HY_DISCORD_BOT_TOKEN")
	envDefault(&c.Database.Password, "HY_DB_PASSWORD")
	envDefault(&c.Database.DSN, "HY_DB_DSN")
}

func envDefault(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "haulyard.db"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "mysql":
			c.Database.Port = 3306
		case "postgres":
			c.Database.Port = 5432
		}
	}
	if c.Database.Name == "" {
		c.Database.Name = "haulyard"
	}
	if c.Retention.DisplayDays == 0 {
		c.Retention.DisplayDays = 18
	}
	if c.Retention.DeleteDays == 0 {
		c.Retention.DeleteDays = 100
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.SubmitPerMinute == 0 {
		c.Server.SubmitPerMinute = 30
	}
	if c.Schedule.Prune == "" {
		c.Schedule.Prune = "0 3 * * *"
	}
	if c.Schedule.Refresh == "" {
		c.Schedule.Refresh = "0 * * * *"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	for i := range c.Companies {
		c.Companies[i].Name = strings.TrimSpace(c.Companies[i].Name)
		for j := range c.Companies[i].Trucks {
			c.Companies[i].Trucks[j] = strings.TrimSpace(c.Companies[i].Trucks[j])
		}
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string

	c.location = time.Local
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			errs = append(errs, fmt.Sprintf("timezone %q: %v", c.Timezone, err))
		} else {
			c.location = loc
		}
	}

	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not one of sqlite, mysql, postgres", c.Database.Driver))
	}
	if c.Retention.DisplayDays < 0 || c.Retention.DeleteDays < 0 {
		errs = append(errs, "retention windows must be positive")
	}
	if len(c.Companies) == 0 {
		errs = append(errs, "at least one company is required")
	}

	companies := make(map[string]bool)
	owner := make(map[string]string)
	for i, co := range c.Companies {
		if co.Name == "" {
			errs = append(errs, fmt.Sprintf("companies[%d].name is required", i))
			continue
		}
		if companies[co.Name] {
			errs = append(errs, fmt.Sprintf("company %q is listed twice", co.Name))
		}
		companies[co.Name] = true
		if len(co.Trucks) == 0 {
			errs = append(errs, fmt.Sprintf("company %q has no trucks", co.Name))
		}
		for j, truck := range co.Trucks {
			if truck == "" {
				errs = append(errs, fmt.Sprintf("companies[%d].trucks[%d] is empty", i, j))
				continue
			}
			if prev, ok := owner[truck]; ok && prev != co.Name {
				errs = append(errs, fmt.Sprintf("truck %s belongs to both %q and %q", truck, prev, co.Name))
			}
			owner[truck] = co.Name
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Location returns the reference timezone used for calendar-day decisions.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// DisplayWindow is how far back a company page reaches.
func (c *Config) DisplayWindow() time.Duration {
	return time.Duration(c.Retention.DisplayDays) * 24 * time.Hour
}


// Fleet builds the immutable truck/company mapping.
func (c *Config) Fleet() *Fleet {
	return NewFleet(c.Companies)
}
