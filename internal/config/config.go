package config

import (
	"os"
	"time"

	"cybersentinel/internal/utils"
	apperrors "cybersentinel/pkg/errors"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultAPIBaseURL is the hosted analysis backend used when nothing else is configured.
const DefaultAPIBaseURL = "https://cybersentinel-t8ac.onrender.com"

type Config struct {
	// APIBaseURL is resolved once at startup and never changes afterwards.
	APIBaseURL string

	Port int
	Host string

	DBEnabled  bool
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	DiscordToken     string
	DiscordChannelID string

	SessionTTL  time.Duration
	MaxSessions int

	SubmitRatePerSecond float64
	SubmitBurst         int
}

type Options struct {
	// ConfigPath is an extra directory searched for cybersentinel.yaml.
	ConfigPath string
	// EnvFile is loaded with godotenv before reading the environment. Missing files are ignored.
	EnvFile string
}

// LoadConfig loads configuration from .env, cybersentinel.yaml and the environment.
// Supported env vars: CYBERSENTINEL_API_URL (or VITE_API_URL), CYBERSENTINEL_PORT,
// CYBERSENTINEL_DB_HOST, CYBERSENTINEL_DB_PORT, CYBERSENTINEL_DB_USER,
// CYBERSENTINEL_DB_PASSWORD, CYBERSENTINEL_DB_NAME, DISCORD_TOKEN, DISCORD_CHANNEL_ID
func LoadConfig() (*Config, error) {
	return LoadConfigWithOptions(Options{EnvFile: ".env"})
}

func LoadConfigWithOptions(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).Warnf("Failed to load env file %s", opts.EnvFile)
		}
	}

	v, err := utils.NewViperConfigWithOptions(utils.ConfigOptions{
		ConfigPath: opts.ConfigPath,
		ConfigName: "cybersentinel",
		ConfigType: "yaml",
		EnvPrefix:  "CYBERSENTINEL",
		DefaultsMap: map[string]interface{}{
			"api_url":         "",
			"port":            8080,
			"host":            "localhost",
			"db.host":         "",
			"db.port":         5432,
			"db.user":         "cybersentinel",
			"db.password":     "cybersentinel",
			"db.name":         "cybersentinel",
			"session.ttl":     "30m",
			"session.max":     1024,
			"submit.rate":     1.0,
			"submit.burst":    3,
			"discord.channel": "",
			"discord.token":   "",
		},
	})
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:          resolveAPIBaseURL(v.GetString("api_url")),
		Port:                v.GetInt("port"),
		Host:                v.GetString("host"),
		DBHost:              v.GetString("db.host"),
		DBPort:              v.GetInt("db.port"),
		DBUser:              v.GetString("db.user"),
		DBPassword:          v.GetString("db.password"),
		DBName:              v.GetString("db.name"),
		DiscordToken:        getenvDefault("DISCORD_TOKEN", v.GetString("discord.token")),
		DiscordChannelID:    getenvDefault("DISCORD_CHANNEL_ID", v.GetString("discord.channel")),
		SessionTTL:          v.GetDuration("session.ttl"),
		MaxSessions:         v.GetInt("session.max"),
		SubmitRatePerSecond: v.GetFloat64("submit.rate"),
		SubmitBurst:         v.GetInt("submit.burst"),
	}
	cfg.DBEnabled = cfg.DBHost != ""

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the server cannot run without.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return apperrors.NewConfigError("api_url", c.APIBaseURL, "must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return apperrors.NewConfigError("port", c.Port, "must be between 1 and 65535")
	}
	if c.SessionTTL <= 0 {
		return apperrors.NewConfigError("session.ttl", c.SessionTTL, "must be positive")
	}
	if c.MaxSessions < 1 {
		return apperrors.NewConfigError("session.max", c.MaxSessions, "must be at least 1")
	}
	if c.SubmitRatePerSecond <= 0 || c.SubmitBurst < 1 {
		return apperrors.NewConfigError("submit", c.SubmitRatePerSecond, "rate and burst must be positive")
	}
	return nil
}

// resolveAPIBaseURL picks the configured URL, then the legacy VITE_API_URL, then the default.
func resolveAPIBaseURL(configured string) string {
	if u := utils.TrimBaseURL(configured); u != "" {
		return u
	}
	if u := utils.TrimBaseURL(os.Getenv("VITE_API_URL")); u != "" {
		return u
	}
	return DefaultAPIBaseURL
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
