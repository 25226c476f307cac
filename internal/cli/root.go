package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/config"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/logging"
)

// rootOptions carries the global flags into every subcommand.
type rootOptions struct {
	cfg *config.Config

	dbPath   string
	format   string
	logLevel string
	logDev   bool

	logger *logging.Logger
}

// Execute loads configuration and runs the command line.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return NewRootCmd(cfg).Execute()
}

// NewRootCmd builds the command tree. Flag defaults come from cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	o := &rootOptions{cfg: cfg}

	cmd := &cobra.Command{
		Use:   "abtest",
		Short: "A/B test statistics: z-tests, t-tests, power analysis and bootstrap",
		Long: `abtest runs the statistics behind an A/B test.

It compares conversion rates with a two-proportion z-test, compares
continuous metrics with Welch's t-test, plans sample sizes, and estimates
relative lift with a percentile bootstrap. Observations can be imported
into a local sample store and analyzed later or served over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg := logging.DefaultConfig()
			logCfg.Level = o.logLevel
			logCfg.Development = o.logDev

			logger, err := logging.New(logCfg)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			o.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.logger != nil {
				o.logger.Sync()
			}
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.dbPath, "db", cfg.Store.Path, "sample store path or postgres:// URL (env AB_DB_PATH)")
	flags.StringVarP(&o.format, "format", "f", "text", "output format: text, json, markdown or html")
	flags.StringVar(&o.logLevel, "log-level", cfg.Logging.Level, "log level: debug, info, warn or error (env AB_LOG_LEVEL)")
	flags.BoolVar(&o.logDev, "log-dev", cfg.Logging.Development, "human-readable development logs (env AB_LOG_DEV)")

	cmd.AddCommand(
		newProportionCmd(o),
		newMeanCmd(o),
		newPowerCmd(o),
		newBootstrapCmd(o),
		newCreateCmd(o),
		newImportCmd(o),
		newListCmd(o),
		newAnalyzeCmd(o),
		newExportCmd(o),
		newDeleteCmd(o),
		newServeCmd(o),
		newTokenCmd(o),
		newDemoCmd(o),
	)

	return cmd
}
