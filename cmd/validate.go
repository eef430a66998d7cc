package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/cqe/internal/cli"
	"github.com/dotcommander/cqe/internal/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate [samples...]",
	Short: "Check the parameter table and sample files without scoring",
	Long: `Validate the reference parameter table, then check that every sample
file can be evaluated: it parses, names only known measurements, supplies
every required measurement, and keeps each value within its validity range.

All problems in a sample are reported, not only the first. Exits 1 if the
table or any sample is invalid.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadParams(cfg)
	if err != nil {
		return err
	}
	if !cfg.Quiet && cfg.Format != "json" {
		fmt.Fprintf(cmd.OutOrStdout(), "parameters ok: %s (%d properties, %d grade rules)\n",
			table.Source(), len(table.Properties), len(table.Grades))
	}

	if len(args) == 0 {
		args = cfg.Samples
	}
	ctx, err := cli.NewEvaluatorContext(table, cli.Options{
		RootPath:       cfg.Root,
		Args:           args,
		FollowSymlinks: cfg.FollowSymlinks,
		Logger:         newLogger(cfg, cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	results, err := ctx.Check(cmd.Context())
	if err != nil {
		return err
	}
	if !cfg.Quiet {
		if err := output.FormatChecks(cmd.OutOrStdout(), results, cfg.Format); err != nil {
			return err
		}
	}

	for _, r := range results {
		if !r.Valid() {
			exitFunc(1)
			return nil
		}
	}
	return nil
}
