// Package cmd provides the CLI commands for fleet-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fleet-cost/internal/config"
	"fleet-cost/internal/logging"
)

var (
	cfgFile string
	verbose bool

	cfg = config.Default()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fleet-cost",
	Short: "Estimate monthly cloud hosting cost for a fleet of workloads",
	Long: `fleet-cost estimates monthly compute and storage cost for a fleet of
virtualized workloads. It recommends a target instance type per
workload, resolves prices through a tiered chain of sources, and
aggregates per-workload and fleet-wide totals.

Examples:
  fleet-cost estimate inventory.json
  fleet-cost estimate --config batch.hcl --format json inventory.json`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON or HCL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logCfg := *cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("fleet-cost version 0.1.0")
	},
}
