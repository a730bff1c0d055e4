package history

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"cybersentinel/internal/config"
	"cybersentinel/internal/dao"
	"cybersentinel/internal/database"
	"cybersentinel/internal/models"
	"cybersentinel/internal/services"
	apperrors "cybersentinel/pkg/errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Limit      int
	ID         string
	Output     string
	ConfigPath string
}

func NewHistoryCommand() *cobra.Command {
	opts := &Options{}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses",
		Long:  `List analyses saved in the history database. Requires CYBERSENTINEL_DB_HOST.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.LoadConfigWithOptions(config.Options{ConfigPath: opts.ConfigPath, EnvFile: ".env"})
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := database.InitDB(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			if db == nil {
				return apperrors.ErrHistoryDisabled
			}

			svc := services.NewAnalysisService(nil, services.WithHistory(dao.NewAnalysisDAO(db)))
			return Run(cmd.OutOrStdout(), svc, opts)
		},
	}

	historyCmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of records to list")
	historyCmd.Flags().StringVar(&opts.ID, "id", "", "Show a single record, including its raw payload")
	historyCmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "Output format: table, json or yaml")
	historyCmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Directory containing cybersentinel.yaml")

	return historyCmd
}

func Run(w io.Writer, svc services.AnalysisServiceMethods, opts *Options) error {
	if opts.ID != "" {
		record, err := svc.GetHistory(opts.ID)
		if err != nil {
			return err
		}
		return write(w, opts.Output, []models.AnalysisRecord{*record})
	}

	records, err := svc.ListHistory(opts.Limit)
	if err != nil {
		return err
	}
	return write(w, opts.Output, records)
}

func write(w io.Writer, format string, records []models.AnalysisRecord) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml", "yml":
		return yaml.NewEncoder(w).Encode(records)
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tURL\tSCORE\tREPUTATION\tTHREAT\tANALYZED")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
				r.UUID, r.URL, r.TrustScore, r.ReputationLabel, r.ThreatLevel,
				time.Unix(r.CreatedAt, 0).UTC().Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
