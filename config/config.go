// Package config loads service settings from .env, config.yaml and the
// environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	JWTSecret   string `yaml:"jwt_secret"`

	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	EmailFrom      string `yaml:"email_from"`
	ReportEmailTo  string `yaml:"report_email_to"`
	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	SessionTTLMinutes    int    `yaml:"session_ttl_minutes"`
	SessionPurgeSchedule string `yaml:"session_purge_schedule"`

	GenderDefault    string `yaml:"gender_default"`
	SeniorResolution string `yaml:"senior_resolution"`
	YouthResolution  string `yaml:"youth_resolution"`
}

// Load reads configuration. A missing .env or config.yaml is not an error;
// an unparseable one is.
func Load() (Config, error) {
	var cfg Config

	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, continuing with system environment variables")
		}
	}

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.Port, "PORT")
	envOverride(&cfg.DatabaseURL, "DATABASE_URL")
	envOverride(&cfg.SQLitePath, "SQLITE_PATH")
	envOverride(&cfg.JWTSecret, "JWT_SECRET")
	envOverride(&cfg.SendGridAPIKey, "SENDGRID_API_KEY")
	envOverride(&cfg.EmailFrom, "EMAIL_FROM")
	envOverride(&cfg.ReportEmailTo, "REPORT_EMAIL_TO")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	if err := envOverrideInt(&cfg.SessionTTLMinutes, "SESSION_TTL_MINUTES"); err != nil {
		return Config{}, err
	}
	envOverride(&cfg.SessionPurgeSchedule, "SESSION_PURGE_SCHEDULE")
	envOverride(&cfg.GenderDefault, "GENDER_DEFAULT")
	envOverride(&cfg.SeniorResolution, "SENIOR_RESOLUTION")
	envOverride(&cfg.YouthResolution, "YOUTH_RESOLUTION")

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "./clubs.db"
	}
	if cfg.SessionTTLMinutes == 0 {
		cfg.SessionTTLMinutes = 120
	}
	if cfg.SessionPurgeSchedule == "" {
		cfg.SessionPurgeSchedule = "*/10 * * * *"
	}
	if cfg.GenderDefault == "" {
		cfg.GenderDefault = "Men"
	}
	if cfg.SeniorResolution == "" {
		cfg.SeniorResolution = "highest"
	}
	if cfg.YouthResolution == "" {
		cfg.YouthResolution = "most_specific"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SessionTTLMinutes < 1 {
		return fmt.Errorf("invalid session_ttl_minutes '%d': must be >= 1", c.SessionTTLMinutes)
	}
	switch c.GenderDefault {
	case "Men", "Unknown":
	default:
		return fmt.Errorf("gender_default must be 'Men' or 'Unknown', got '%s'", c.GenderDefault)
	}
	switch c.SeniorResolution {
	case "highest", "lowest":
	default:
		return fmt.Errorf("senior_resolution must be 'highest' or 'lowest', got '%s'", c.SeniorResolution)
	}
	switch c.YouthResolution {
	case "most_specific", "least_specific":
	default:
		return fmt.Errorf("youth_resolution must be 'most_specific' or 'least_specific', got '%s'", c.YouthResolution)
	}
	return nil
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) SendGridConfigured() bool {
	return c.SendGridAPIKey != "" && c.EmailFrom != "" && c.ReportEmailTo != ""
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

func envOverride(field *string, envKey string) {
	if val := strings.TrimSpace(os.Getenv(envKey)); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	val := strings.TrimSpace(os.Getenv(envKey))
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
	}
	*field = parsed
	return nil
}
