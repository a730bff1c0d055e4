package analyze

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cybersentinel/internal/client"
	"cybersentinel/internal/config"
	"cybersentinel/internal/services"
	"cybersentinel/internal/utils"
	"cybersentinel/internal/view"
	apperrors "cybersentinel/pkg/errors"
	"cybersentinel/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Config holds the analyze command flags
type Config struct {
	URL        string
	APIURL     string
	Output     string
	Query      string
	Tab        string
	SaveDir    string
	ConfigPath string
	Timeout    time.Duration
}

func NewAnalyzeCommand() *cobra.Command {
	opts := &Config{}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze one URL from the terminal",
		Long:  `Send one URL to the analysis backend and print the verdict as a panel, JSON or YAML`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			opts.URL = args[0]

			cfg, err := config.LoadConfigWithOptions(config.Options{ConfigPath: opts.ConfigPath, EnvFile: ".env"})
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if opts.APIURL != "" {
				cfg.APIBaseURL = utils.TrimBaseURL(opts.APIURL)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
				defer cancel()
			}

			svc := services.NewAnalysisService(client.New(cfg.APIBaseURL),
				services.WithLogger(logger.NewLogger(logrus.GetLevel())))
			out, err := Run(ctx, svc, opts)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	analyzeCmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format: text, json or yaml")
	analyzeCmd.Flags().StringVarP(&opts.Query, "query", "q", "", "gjson path to extract from the raw payload")
	analyzeCmd.Flags().StringVarP(&opts.Tab, "tab", "t", string(view.DefaultTab), "Panel to print in text output")
	analyzeCmd.Flags().StringVar(&opts.SaveDir, "save-dir", "", "Directory to also save the output to")
	analyzeCmd.Flags().StringVar(&opts.APIURL, "api-url", "", "Override the analysis backend base URL")
	analyzeCmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Directory containing cybersentinel.yaml")
	analyzeCmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Give up after this long (0 waits indefinitely)")

	return analyzeCmd
}

// Run performs the analysis and returns what should be printed.
func Run(ctx context.Context, svc services.AnalysisServiceMethods, opts *Config) (string, error) {
	tab, ok := view.ParseTab(opts.Tab)
	if !ok {
		return "", fmt.Errorf("unknown tab %q", opts.Tab)
	}

	result, err := svc.Analyze(ctx, opts.URL)
	if errors.Is(err, apperrors.ErrEmptyURL) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%s (%w)", apperrors.FailureMessage, err)
	}

	var out string
	ext := strings.ToLower(opts.Output)
	if opts.Query != "" {
		out, err = Query(result, opts.Query)
		ext = "txt"
	} else {
		var data []byte
		data, err = Encode(result, opts.Output, tab)
		out = string(data)
	}
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if opts.SaveDir != "" {
		if ext == "" || ext == "text" {
			ext = "txt"
		}
		path, err := utils.WriteReport(opts.SaveDir, opts.URL, result.AnalyzedAt, ext, []byte(out))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", path)
	}
	return out, nil
}
