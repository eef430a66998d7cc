package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/cqe/internal/config"
	"github.com/dotcommander/cqe/internal/output"
	"github.com/dotcommander/cqe/internal/params"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// exitFunc is replaced in tests.
var exitFunc = os.Exit

var (
	rootPath       string
	paramsPath     string
	quiet          bool
	verbose        bool
	outputFormat   string
	outputFile     string
	failOn         string
	concurrency    int
	followSymlinks bool
)

var rootCmd = &cobra.Command{
	Use:   "cqe [samples...]",
	Short: "Compost Quality Evaluator - scores compost samples against reference limits",
	Long: `CQE evaluates laboratory measurements of compost samples against a
reference parameter table. Each property is checked for compliance, the
fertility and clean indices are computed from per-property category scores,
and an optional grade policy assigns a quality grade.

Samples are YAML or JSON files. Arguments may be files, directories or
doublestar globs (samples/**/*.yaml). Without arguments the root directory
is searched.

Running cqe without a subcommand is the same as cqe evaluate.`,
	Args:    cobra.ArbitraryArgs,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runEvaluate(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	output.Version = Version

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootPath, "root", "r", "", "Directory sample arguments are resolved against (default: working directory)")
	flags.StringVarP(&paramsPath, "params", "p", "", "Reference parameter file (default: built-in table)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show per-property breakdowns and debug logs")
	flags.StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|markdown)")
	flags.StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	flags.StringVar(&failOn, "fail-on", config.FailOnError, "Exit non-zero on (error|noncompliant)")
	flags.IntVar(&concurrency, "concurrency", 0, "Samples evaluated at once (default 1)")
	flags.BoolVar(&followSymlinks, "follow-symlinks", false, "Follow symbolic links to sample files")

	bindings := map[string]string{
		"root":           "root",
		"params":         "params",
		"quiet":          "quiet",
		"verbose":        "verbose",
		"format":         "format",
		"output":         "output",
		"failOn":         "fail-on",
		"concurrency":    "concurrency",
		"followSymlinks": "follow-symlinks",
	}
	for key, name := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// loadConfig merges config files, CQE_* variables and flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(rootPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	return cfg, nil
}

// loadParams reads the configured parameter table, or the built-in one.
func loadParams(cfg *config.Config) (*params.File, error) {
	if cfg.Params == "" {
		return params.Default()
	}
	table, err := params.Load(cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("error loading parameters: %w", err)
	}
	return table, nil
}

// newLogger logs to w at Debug when verbose, Warn when quiet, Info otherwise.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case cfg.Verbose:
		level = slog.LevelDebug
	case cfg.Quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
