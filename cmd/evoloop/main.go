package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/evoloop-go/pkg/config"
	"github.com/XiaoConstantine/evoloop-go/pkg/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "evoloop",
	Short: "Track and score candidate solutions across evolutionary generations",
	Long: `evoloop is a bookkeeping and recommendation layer for evolutionary
problem solving. An external agent (an LLM or a human) authors candidate
solutions and judges them against weighted consistency checks; evoloop
records the scores, tracks the best candidate across generations and
recommends which aspects to combine into the next generation.

It exposes five operations: start_evolution, add_solution, score_solution,
evolve_generation and get_status.`,
	Version: "0.1.0",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration and applies the logging
// settings globally.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	severity := logging.ParseSeverity(cfg.Logging.Level)
	if cfg.Logging.Quiet || logging.QuietFromEnv() {
		severity = logging.ERROR
	}
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: severity,
		Outputs:  []logging.Output{logging.NewConsoleOutput(true)},
	}))

	return cfg, nil
}
