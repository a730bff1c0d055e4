package main

import (
	"context"

	"cybersentinel/cmd/cybersentinel/analyze"
	"cybersentinel/cmd/cybersentinel/history"
	"cybersentinel/cmd/cybersentinel/server"
	"cybersentinel/pkg/logger"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Execute() error {
	var verbose bool

	var rootCmd = &cobra.Command{
		Use:   "cybersentinel",
		Short: "Website trust analysis dashboard",
		Long:  `CyberSentinel forwards URLs to a trust analysis backend and presents the verdict as a tabbed dashboard`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			log.SetLevel(level)
			logger.SetLevel(level)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Add commands
	rootCmd.AddCommand(server.NewServerCommand())
	rootCmd.AddCommand(analyze.NewAnalyzeCommand())
	rootCmd.AddCommand(history.NewHistoryCommand())
	return rootCmd.ExecuteContext(context.Background())
}
