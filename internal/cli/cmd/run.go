package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/withObsrvr/procctl/internal/cli/runner"
)

var (
	// dryRun flag for validation only
	dryRun bool

	runCmd = &cobra.Command{
		Use:   "run [config file]",
		Short: "Run pipelines from configuration",
		Long:  "Resolve every processor of the configured pipelines and feed them the source lines",
		Args:  cobra.ExactArgs(1),
		Example: `  procctl run pipeline.yaml
  procctl --script-dir ./scripts run pipeline.yaml
  procctl run --dry-run pipeline.yaml`,
		RunE: runPipeline,
	}
)

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve processors without running the pipelines")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	configFile := args[0]

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return fmt.Errorf("configuration file not found: %s", configFile)
	}

	env, err := newEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	r := runner.New(runner.Options{
		ConfigFile: configFile,
		Verbose:    env.settings.Verbose,
		Logger:     env.logger,
	}, env.resolver, env.aliases)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if dryRun {
		fmt.Fprintln(os.Stderr, color.YellowString("🔍 Validating pipeline configuration from %s", configFile))
		if err := r.Validate(ctx); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		fmt.Fprintln(os.Stderr, color.GreenString("✅ Configuration is valid"))
		return nil
	}

	if err := r.Run(ctx); err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	return nil
}
