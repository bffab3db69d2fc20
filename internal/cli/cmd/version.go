package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information injected via main package
var (
	Version   string
	GitCommit string
	BuildDate string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Display detailed version information about procctl",
	Run: func(cmd *cobra.Command, args []string) {
		title := color.New(color.FgCyan, color.Bold)
		label := color.New(color.FgGreen)
		out := cmd.OutOrStdout()

		title.Fprintf(out, "procctl %s\n", getVersion())
		fmt.Fprintln(out)

		for _, row := range [][2]string{
			{"Git commit: ", orUnknown(GitCommit)},
			{"Built:      ", orUnknown(BuildDate)},
			{"Go version: ", runtime.Version()},
			{"OS/Arch:    ", runtime.GOOS + "/" + runtime.GOARCH},
		} {
			label.Fprint(out, row[0])
			fmt.Fprintln(out, row[1])
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func getVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// SetVersionInfo sets the version information from the main package
func SetVersionInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}
