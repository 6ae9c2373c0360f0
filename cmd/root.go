package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags shared across subcommands
	logLevel   string // Log verbosity level
	configPath string // Optional FusionConfig YAML path

	// Scenario selection flags
	seed         int64  // Run seed (0 = derive from wall clock)
	aoName       string // Area of operation preset name
	envName      string // Environment profile preset name
	envelopeName string // Flight envelope preset name
	strategyName string // Fusion strategy name
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "casper",
	Short: "Deterministic recon sensor-fusion simulator",
	Long: "casper simulates a recon platform's multi-sensor environment and fuses noisy,\n" +
		"time-skewed measurements into a per-tick position/confidence estimate, with\n" +
		"governance risk signals and a tamper-evident audit trail. Synthetic only.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to fusion config YAML (built-in defaults when empty or unreadable)")
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", 0, "run seed (0 derives one from the wall clock)")
	cmd.Flags().StringVar(&aoName, "ao", "", "area-of-operation preset name (empty = default)")
	cmd.Flags().StringVar(&envName, "env", "", "environment profile preset name (empty = default)")
	cmd.Flags().StringVar(&envelopeName, "envelope", "", "flight envelope preset name (empty = default)")
	cmd.Flags().StringVar(&strategyName, "strategy", "weighted", "fusion strategy (weighted, kalman)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
