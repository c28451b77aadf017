package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"hv-analyzer/internal/bootstrap"
	"hv-analyzer/internal/evaluation"
	"hv-analyzer/internal/report"
)

type evaluateFlags struct {
	name    string
	role    string
	chapter string
	xlsx    string
	compact bool
}

func newEvaluateCommand(opts *options) *cobra.Command {
	flags := &evaluateFlags{}
	cmd := &cobra.Command{
		Use:   "evaluate <file.pdf>",
		Short: "Evaluate one HV file and print the result",
		Long: "Evaluate one HV file against the reference data of a role and chapter.\n" +
			"Missing --name, --role or --chapter values are asked for interactively.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			a, err := bootstrap.BuildCore(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			catalog := a.Loader.Catalog()
			if err := askMissing(flags, catalog.Roles, catalog.Chapters); err != nil {
				return err
			}

			result, err := a.Service.Analyze(ctx, evaluation.Submission{
				Name:     flags.name,
				Role:     flags.role,
				Chapter:  flags.chapter,
				FileName: filepath.Base(args[0]),
				Data:     data,
			})
			if err != nil {
				return err
			}
			resp := evaluation.ToResponse(result)

			if flags.xlsx != "" {
				return writeWorkbook(cmd, flags.xlsx, resp)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if !flags.compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "applicant name")
	cmd.Flags().StringVarP(&flags.role, "role", "r", "", "role code (cargo), e.g. PC")
	cmd.Flags().StringVarP(&flags.chapter, "chapter", "c", "", "chapter (capítulo), e.g. UNINORTE")
	cmd.Flags().StringVar(&flags.xlsx, "xlsx", "", "write the report to this XLSX file instead of printing JSON")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "print JSON on a single line")
	return cmd
}

func writeWorkbook(cmd *cobra.Command, path string, resp report.Response) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := report.WriteXLSX(f, resp); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: global %.2f, report written to %s\n", resp.Title, resp.Global, path)
	return nil
}

// askMissing prompts for the values not given as flags.
func askMissing(flags *evaluateFlags, roles, chapters []string) error {
	if strings.TrimSpace(flags.name) == "" {
		prompt := promptui.Prompt{
			Label: "Nombre",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			},
		}
		name, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("name prompt: %w", err)
		}
		flags.name = name
	}
	if strings.TrimSpace(flags.role) == "" {
		role, err := choose("Cargo", roles)
		if err != nil {
			return err
		}
		flags.role = role
	}
	if strings.TrimSpace(flags.chapter) == "" {
		chapter, err := choose("Capítulo", chapters)
		if err != nil {
			return err
		}
		flags.chapter = chapter
	}
	return nil
}

func choose(label string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no values configured for %s", label)
	}
	sel := promptui.Select{Label: label, Items: items, Size: 10}
	_, value, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("%s prompt: %w", strings.ToLower(label), err)
	}
	return value, nil
}
