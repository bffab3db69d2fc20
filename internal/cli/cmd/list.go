package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/withObsrvr/procctl/pkg/processor/base"
	"github.com/withObsrvr/procctl/pkg/processor/script"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and script processors",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		title := color.New(color.FgCyan, color.Bold)

		title.Fprintln(out, "Built-in processors")
		for _, m := range base.DefaultRegistry.Modules() {
			line := fmt.Sprintf("  %-28s %s", m.Path, strings.Join(m.Classes(), ", "))
			if aliases := env.aliases.GetAllProcessorAliases(nameForModule(m)); len(aliases) > 0 {
				line += color.HiBlackString("  (aliases: %s)", strings.Join(aliases, ", "))
			}
			fmt.Fprintln(out, line)
		}

		if env.settings.ScriptDir == "" {
			return nil
		}
		names, err := script.NewLoader(env.settings.ScriptDir).Modules()
		if err != nil {
			return fmt.Errorf("listing scripts: %w", err)
		}
		fmt.Fprintln(out)
		title.Fprintf(out, "Script processors in %s\n", env.settings.ScriptDir)
		for _, name := range names {
			fmt.Fprintf(out, "  %s.%s\n", base.Namespace, name)
		}
		return nil
	},
}

// nameForModule recovers the registered processor name from a module's classes.
func nameForModule(m *base.RegisteredModule) string {
	for _, class := range m.Classes() {
		if class == base.DefaultClass {
			return base.DefaultName
		}
		if name := strings.TrimSuffix(class, base.ClassSuffix); name != class && base.ModuleName(name) == m.Name {
			return name
		}
	}
	return m.Name
}

func init() {
	rootCmd.AddCommand(listCmd)
}
