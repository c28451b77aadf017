package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hv-analyzer/internal/bootstrap"
	"hv-analyzer/internal/refdata"
)

func newReferenceCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Manage reference data (functions, profiles, indicators, advice)",
	}
	cmd.AddCommand(newReferenceImportCommand(opts), newReferenceCheckCommand(opts))
	return cmd
}

func newReferenceImportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Validate the JSON documents in dir and store them in the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap.BuildCore(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			imported, err := refdata.Import(ctx, args[0], a.Loader.Catalog(), a.References)
			if err != nil {
				return err
			}
			a.Loader.Reload()
			for _, name := range imported {
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d documents imported into %s store\n", len(imported), opts.cfg.ObjectStore)
			return nil
		},
	}
}

func newReferenceCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every role and chapter and report reference data problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap.BuildCore(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			catalog := a.Loader.Catalog()
			if err := a.Loader.Check(ctx); err != nil {
				return fmt.Errorf("reference data is incomplete:\n%w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reference data ok: %d roles x %d chapters\n", len(catalog.Roles), len(catalog.Chapters))
			return nil
		},
	}
}
