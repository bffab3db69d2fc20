package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	aliasconfig "github.com/withObsrvr/procctl/internal/config"
	"github.com/withObsrvr/procctl/internal/cli/config"
	"github.com/withObsrvr/procctl/internal/cli/runner"
	"github.com/withObsrvr/procctl/pkg/processor/base"
)

var (
	cfgFile   string
	verbose   bool
	scriptDir string

	rootCmd = &cobra.Command{
		Use:           "procctl",
		Short:         "Resolve and run pyffle processors",
		Long:          color.CyanString(`procctl - resolve processors by name and run them over line-delimited input`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.procctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&scriptDir, "script-dir", "", "root of interpreted processor sources (<dir>/src/pyffle/processor/<name>)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("script_dir", rootCmd.PersistentFlags().Lookup("script-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(home)
		viper.SetConfigName(".procctl")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PROCCTL")

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// environment is what every subcommand needs to resolve processors.
type environment struct {
	settings *config.Settings
	logger   *log.Logger
	closer   io.Closer
	resolver *base.Resolver
	aliases  *aliasconfig.AliasResolver
}

func (e *environment) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

func newEnvironment() (*environment, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	env := &environment{settings: settings}
	var out io.Writer = io.Discard
	if settings.Verbose {
		out = os.Stderr
	}
	if settings.LogFile != "" {
		f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		env.closer = f
		out = f
	}
	env.logger = log.New(out, "procctl: ", log.LstdFlags)

	env.aliases, err = aliasconfig.NewAliasResolver()
	if err != nil {
		env.Close()
		return nil, err
	}
	env.resolver = base.NewResolver(runner.NewLoader(settings.ScriptDir), base.WithLogger(env.logger))
	return env, nil
}
