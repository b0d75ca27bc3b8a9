// Package cli wires the toolbox subcommands. Every command loads the
// effective config (file + env) once, then applies its own flags on top;
// flags win over file, file wins over env.
package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"synparse/pkg/config"
	"synparse/pkg/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	cfgPath  string
	logLevel string

	cfg   *config.Config
	runID string
)

var rootCmd = &cobra.Command{
	Use:   "synparse",
	Short: "Toolbox for reconstructing transcripts and attachments from a carrier backup export",
	Long: `synparse processes a static Synchronoss-style forensic export once per
invocation: per-day message CSVs plus the attachments tree they reference.
It renders chronological HTML transcripts, collects attachments and media
with metadata workbooks, recovers quarantined archives, and converts raw
contact dumps to spreadsheets.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadEffective(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger.Init(cfg.Logging.Level)
		runID = uuid.NewString()
		logger.Info("run_started", zap.String("run_id", runID), zap.String("command", cmd.Name()))
		return nil
	},
}

// Execute runs the root command; called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "./synparse.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error)")
}
