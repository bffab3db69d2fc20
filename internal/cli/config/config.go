package config

import (
	"github.com/spf13/viper"
)

// Settings are the CLI settings read from the config file, flags and PROCCTL_* env.
type Settings struct {
	ScriptDir string `mapstructure:"script_dir"`
	Verbose   bool   `mapstructure:"verbose"`
	LogFile   string `mapstructure:"log_file"`
}

func Load() (*Settings, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals settings from v.
func LoadFrom(v *viper.Viper) (*Settings, error) {
	var cfg Settings

	v.SetDefault("script_dir", "")
	v.SetDefault("verbose", false)
	v.SetDefault("log_file", "")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
