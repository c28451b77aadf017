// Package cli implements the hvctl command line.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"hv-analyzer/internal/shared/config"
	"hv-analyzer/internal/shared/telemetry"
)

const app = "hvctl"

type options struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

// NewRootCommand builds the hvctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           app,
		Short:         "hvctl evaluates HV documents against role reference data",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if lvl := strings.TrimSpace(opts.logLevel); lvl != "" {
				cfg.Log.Level = lvl
			}
			opts.cfg = cfg
			return telemetry.Init(cfg.Log.Format, cfg.Log.Level)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			telemetry.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "a config file (default is $HV_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(opts),
		newEvaluateCommand(opts),
		newReferenceCommand(opts),
		newMigrateCommand(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
