package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/cqe/internal/output"
)

var paramsYAML bool

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the active reference parameter table",
	Long: `Print the reference parameter table that evaluate would use: the file
given with --params, or the built-in table.

With --yaml the table is printed as a parameter file, which is a convenient
starting point for a custom table:

  cqe params --yaml > my-standard.yaml`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runParams(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	paramsCmd.Flags().BoolVar(&paramsYAML, "yaml", false, "Print as a YAML parameter file")
	rootCmd.AddCommand(paramsCmd)
}

func runParams(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadParams(cfg)
	if err != nil {
		return err
	}

	format := cfg.Format
	if paramsYAML {
		format = "yaml"
	}
	return output.FormatParams(cmd.OutOrStdout(), table, format)
}
