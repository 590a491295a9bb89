package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veridic/ARGX/cmd/argx/commands"
	"github.com/veridic/ARGX/config"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/version"
)

var rootCmd = &cobra.Command{
	Use:     "argx",
	Version: version.Get().Short(),
	Short:   "ARGX - Assurance argument toolkit",
	Long: `ARGX - Build, compose, query, and reason over assurance arguments.

Arguments are goal trees: claims decomposed into sub-claims grounded in
evidence. ARGX composes reusable fragments into complete cases, answers
structural queries over them, scores them against a runtime evidence
context, and traces change impact across tracked resources.

Available commands:
  compose - Run a composition script over fragment patterns
  query   - Run a query script against stored cases
  reason  - Score a stored case against an evidence context
  impact  - Trace change impact across tracked resources
  version - Show version information

Examples:
  argx compose -F quality=component_quality:payments -e "validate quality"
  argx query -e "coverage on case_1"
  argx reason --case case_1 --context evidence.yaml
  argx impact --repo . main.go`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := logger.Initialize(cfg.Logging.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commands.ComposeCmd)
	rootCmd.AddCommand(commands.QueryCmd)
	rootCmd.AddCommand(commands.ReasonCmd)
	rootCmd.AddCommand(commands.ImpactCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
