package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cybersentinel/api/routes"
	"cybersentinel/internal/client"
	"cybersentinel/internal/config"
	"cybersentinel/internal/dao"
	"cybersentinel/internal/database"
	"cybersentinel/internal/metrics"
	"cybersentinel/internal/notification"
	"cybersentinel/internal/services"
	"cybersentinel/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type ServerOpts struct {
	Port       int
	Ip         string
	ConfigPath string
	LogDir     string
}

func NewServerCommand() *cobra.Command {
	ServerConfig := &ServerOpts{}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the CyberSentinel dashboard",
		Long:  `Start the CyberSentinel web dashboard and JSON API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.LoadConfigWithOptions(config.Options{ConfigPath: ServerConfig.ConfigPath, EnvFile: ".env"})
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = ServerConfig.Port
			}
			if cmd.Flags().Changed("ip") {
				cfg.Host = ServerConfig.Ip
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return Run(ctx, cfg, ServerConfig.LogDir)
		},
	}

	serverCmd.Flags().IntVarP(&ServerConfig.Port, "port", "p", 8080, "Port to run the server on")
	serverCmd.Flags().StringVarP(&ServerConfig.Ip, "ip", "i", "localhost", "IP address to bind the server to")
	serverCmd.Flags().StringVar(&ServerConfig.ConfigPath, "config", "", "Directory containing cybersentinel.yaml")
	serverCmd.Flags().StringVar(&ServerConfig.LogDir, "log-dir", "", "Also write analysis.log and error.log to this directory")

	return serverCmd
}

// Run serves the dashboard until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logDir string) error {
	log := logger.Default()
	m := metrics.New()
	opts := []services.Option{services.WithMetrics(m)}

	if logDir != "" {
		audit, err := logger.NewAuditLogger(logDir, logrus.GetLevel())
		if err != nil {
			return err
		}
		defer audit.Close()
		log = audit.Base()
		opts = append(opts, services.WithAuditor(audit))
	}
	opts = append(opts, services.WithLogger(log))

	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if db != nil {
		opts = append(opts, services.WithHistory(dao.NewAnalysisDAO(db)))
		log.Info("Analysis history enabled")
	} else {
		log.Info("CYBERSENTINEL_DB_HOST not set - analysis history disabled")
	}

	if cfg.DiscordToken != "" {
		discordClient, err := notification.NewNotificationClient(cfg.DiscordToken, cfg.DiscordChannelID)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Discord client")
		} else {
			defer discordClient.Close()
			opts = append(opts, services.WithNotifier(discordClient))
			log.Info("Discord notifications enabled")
		}
	} else {
		log.Info("DISCORD_TOKEN not set - Discord notifications disabled")
	}

	analysisService := services.NewAnalysisService(client.New(cfg.APIBaseURL), opts...)
	router := routes.InitRouter(routes.Deps{
		AnalysisService: analysisService,
		ConfigService:   services.NewConfigService(cfg),
		Metrics:         m,
		SessionTTL:      cfg.SessionTTL,
		MaxSessions:     cfg.MaxSessions,
		SubmitRate:      cfg.SubmitRatePerSecond,
		SubmitBurst:     cfg.SubmitBurst,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.WithFields(logger.Fields{"addr": srv.Addr, "backend": cfg.APIBaseURL}).Info("Dashboard listening")
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Server shutdown timed out")
		return err
	}
	return nil
}
