package services

import (
	"cybersentinel/internal/config"
	"cybersentinel/internal/view"
	"cybersentinel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Settings is the public view of the running configuration. Secrets never appear here.
type Settings struct {
	APIBaseURL       string   `json:"api_base_url" yaml:"api_base_url"`
	Tabs             []string `json:"tabs" yaml:"tabs"`
	HistoryEnabled   bool     `json:"history_enabled" yaml:"history_enabled"`
	AlertsEnabled    bool     `json:"alerts_enabled" yaml:"alerts_enabled"`
	SessionTTL       string   `json:"session_ttl" yaml:"session_ttl"`
	SubmitRatePerSec float64  `json:"submit_rate_per_second" yaml:"submit_rate_per_second"`
	SubmitBurst      int      `json:"submit_burst" yaml:"submit_burst"`
}

type ConfigServiceMethods interface {
	GetSettings() Settings
}

type configService struct {
	cfg *config.Config
	log *logger.Logger
}

func NewConfigService(cfg *config.Config) ConfigServiceMethods {
	return &configService{
		cfg: cfg,
		log: logger.NewLogger(logrus.Level(logrus.InfoLevel)),
	}
}

func (c *configService) GetSettings() Settings {
	tabs := make([]string, 0, len(view.Tabs))
	for _, tab := range view.Tabs {
		tabs = append(tabs, string(tab))
	}

	settings := Settings{
		APIBaseURL:       c.cfg.APIBaseURL,
		Tabs:             tabs,
		HistoryEnabled:   c.cfg.DBEnabled,
		AlertsEnabled:    c.cfg.DiscordToken != "" && c.cfg.DiscordChannelID != "",
		SessionTTL:       c.cfg.SessionTTL.String(),
		SubmitRatePerSec: c.cfg.SubmitRatePerSecond,
		SubmitBurst:      c.cfg.SubmitBurst,
	}
	c.log.WithFields(logger.Fields{"history": settings.HistoryEnabled, "alerts": settings.AlertsEnabled}).Debug("Settings requested")
	return settings
}
