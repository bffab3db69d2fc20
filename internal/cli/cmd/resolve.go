package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [name...]",
	Short: "Resolve processor names and report the outcome",
	Long:  "Recompile, import and instantiate each named processor, reporting the module path, class and the failing stage if any",
	Args:  cobra.MinimumNArgs(1),
	Example: `  procctl resolve Default Json
  procctl --script-dir ./scripts resolve Upper`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		label := color.New(color.FgGreen)
		out := cmd.OutOrStdout()
		failed := 0
		for _, arg := range args {
			name := arg
			if resolved, ok := env.aliases.ResolveProcessorType(arg); ok {
				name = resolved
			}

			res := env.resolver.Resolve(context.Background(), name)
			label.Fprintf(out, "%s", arg)
			fmt.Fprintf(out, "\n  module: %s\n  class:  %s\n", res.ModulePath, res.ClassName)
			if res.OK() {
				fmt.Fprintf(out, "  result: %s (%T)\n", color.GreenString("ok"), res.Processor)
				continue
			}
			failed++
			fmt.Fprintf(out, "  result: %s at %s stage\n  error:  %v\n", color.RedString("unavailable"), res.Stage, res.Err)
			if similar := env.aliases.GetSimilarProcessor(arg); len(similar) > 0 {
				fmt.Fprintf(out, "  did you mean: %s\n", strings.Join(similar, ", "))
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d processors could not be resolved", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
