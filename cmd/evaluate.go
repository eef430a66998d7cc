package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/cqe/internal/cli"
	"github.com/dotcommander/cqe/internal/config"
	"github.com/dotcommander/cqe/internal/outputters"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [samples...]",
	Short: "Score compost samples and report compliance, indices and grade",
	Long: `Evaluate each sample file against the reference parameter table.

A sample that cannot be evaluated (missing or out-of-range measurement,
malformed file) is reported and does not stop the run.

EXIT CODES:
  0  every sample evaluated (and, with --fail-on noncompliant, compliant)
  1  a sample failed to evaluate, or a non-compliant sample was found
     with --fail-on noncompliant

EXAMPLES:
  cqe evaluate batches/2024-06.yaml
  cqe evaluate 'lab/**/*.json' --format json -o report.json
  cqe evaluate --params standards/eu.yaml --fail-on noncompliant`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runEvaluate(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadParams(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = cfg.Samples
	}
	ctx, err := cli.NewEvaluatorContext(table, cli.Options{
		RootPath:       cfg.Root,
		Args:           args,
		Workers:        cfg.Concurrency,
		FollowSymlinks: cfg.FollowSymlinks,
		Logger:         newLogger(cfg, cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	summary, err := ctx.Evaluate(cmd.Context())
	if err != nil {
		return err
	}

	outputter := outputters.NewOutputter(cfg)
	outputter.SetStdout(cmd.OutOrStdout())
	if err := outputter.Format(summary, cfg.Format); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}

	if shouldFail(cfg, summary) {
		exitFunc(1)
	}
	return nil
}

// shouldFail applies the fail-on level to a finished run.
func shouldFail(cfg *config.Config, summary *cli.EvalSummary) bool {
	if summary.HasFailures() {
		return true
	}
	return cfg.FailOn == config.FailOnNonCompliant && summary.HasNonCompliant()
}
