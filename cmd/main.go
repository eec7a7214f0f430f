package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	cfgPkg "github.com/xhad/aibench/pkg/config"
)

type globalFlags struct {
	configPath string
	verbose    bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "aibench",
		Short: "Benchmark AI use cases by industry",
		Long: `aibench searches the web for articles about AI use cases in an industry,
extracts structured records with a language model, and stores them for
browsing through a small web API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(flags.verbose)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to config file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(runCmd(flags), serveCmd(flags), similarCmd(flags))
	return cmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads .env, the config file and the environment, then
// validates the result and warns about missing credentials.
func loadConfig(path string) (*cfgPkg.Config, error) {
	cfgPkg.LoadDotEnv()

	cfg, err := cfgPkg.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("  %s", e.Error())
		}
		return nil, fmt.Errorf("invalid configuration: %d error(s)", len(errs))
	}

	for _, name := range cfg.MissingCredentials() {
		slog.Warn("credential not set, running degraded", "variable", name)
	}
	return cfg, nil
}
