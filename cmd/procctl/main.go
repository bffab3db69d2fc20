package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/withObsrvr/procctl/internal/cli/cmd"
	_ "github.com/withObsrvr/procctl/pkg/processor" // Import for side effects to register processors
)

var (
	version   string
	gitCommit string
	buildDate string
)

func main() {
	cmd.SetVersionInfo(version, gitCommit, buildDate)
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
