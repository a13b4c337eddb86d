package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/drix00/xray-spectrum-analyzer/am"
	"github.com/drix00/xray-spectrum-analyzer/cmd/xrsa/commands"
	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/logger"
)

var rootCmd = &cobra.Command{
	Use:   "xrsa",
	Short: "xrsa - X-ray relaxation and PENEPMA reference data",
	Long: `xrsa - Lookups over atomic relaxation and simulated x-ray data.

Tables are read lazily on first use from the local filesystem or from
S3-compatible object storage, as configured with am.toml.

Available commands:
  transition   - One x-ray transition (probability, fraction, energy)
  transitions  - Every x-ray transition of an element
  auger        - Auger transitions
  near         - X-ray lines near an energy
  elements     - Atomic numbers in the relaxation table
  intensity    - PENEPMA line intensities
  spectrum     - PENEPMA spectrum summary
  catalog      - Export the relaxation table to SQLite
  watch        - Reload tables when their files change
  am           - Manage xrsa configuration ("I am")

Examples:
  xrsa transition 29 K L3          # Cu Ka1
  xrsa near 29 8040 --window 20    # identify a peak
  xrsa catalog export              # write xrsa.db
  xrsa am show                     # show current configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("json-log")

		// config problems are reported by the command itself
		if cfg, err := am.Load(); err == nil {
			jsonLog = jsonLog || cfg.Log.JSON
			verbosity = max(verbosity, cfg.Log.Verbosity)
		}
		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return errors.Wrap(err, "initialize logger")
		}

		if withMetrics, _ := cmd.Flags().GetBool("metrics"); withMetrics {
			return commands.EnableMetrics()
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if withMetrics, _ := cmd.Flags().GetBool("metrics"); withMetrics {
			return commands.PrintMetrics(cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write logs to stderr as JSON")
	rootCmd.PersistentFlags().Bool("metrics", false, "Print table load and lookup totals after the command")

	rootCmd.AddCommand(commands.TransitionCmd)
	rootCmd.AddCommand(commands.TransitionsCmd)
	rootCmd.AddCommand(commands.AugerCmd)
	rootCmd.AddCommand(commands.NearCmd)
	rootCmd.AddCommand(commands.ElementsCmd)
	rootCmd.AddCommand(commands.IntensityCmd)
	rootCmd.AddCommand(commands.SpectrumCmd)
	rootCmd.AddCommand(commands.CatalogCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		logger.Cleanup()
		os.Exit(1)
	}
}
