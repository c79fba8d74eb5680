// Package main is the entry point for the Windward portfolio analysis CLI.
// Windward ingests PMO project exports, detects delivery risks, simulates
// what-if scenarios and generates board-ready briefings from the results.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/windwardhq/windward/cmd/brief"
	"github.com/windwardhq/windward/cmd/dashboard"
	"github.com/windwardhq/windward/cmd/ingest"
	"github.com/windwardhq/windward/cmd/risks"
	"github.com/windwardhq/windward/cmd/scenario"
	"github.com/windwardhq/windward/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "windward",
	Short: "Portfolio risk analysis for PMO exports",
	Long: `Windward reads project tracker exports (CSV, JSON, XLSX) and answers
the questions a portfolio board actually asks: which projects are in
trouble, why, what happens if we delay or cut one, and where the money
should go next.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log := logger.SetupLogger(viper.GetString("log-level"), viper.GetString("log-format"))
		logger.SetGlobalLogger(log.With("run_id", uuid.NewString()))
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("WINDWARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("config", "", "path to windward.yaml")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text or json)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func registerCommands() {
	rootCmd.AddCommand(ingest.NewCommand())
	rootCmd.AddCommand(risks.NewCommand())
	rootCmd.AddCommand(scenario.NewCommand())
	rootCmd.AddCommand(brief.NewCommand())
	rootCmd.AddCommand(dashboard.NewCommand())
	rootCmd.AddCommand(versionCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("windward version %s (built %s)\n", version, buildTime) //nolint:forbidigo
		},
	}
}
