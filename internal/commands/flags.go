package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hay-kot/mdlabel/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mdlabel", "config.yaml")
}

// config returns the loaded configuration, or defaults when the Before hook
// did not run.
func (f *Flags) config() *config.Config {
	if f.Config == nil {
		cfg := config.DefaultConfig()
		f.Config = &cfg
	}
	return f.Config
}

// oneOfFormat returns a flag validator accepting only the listed formats.
func oneOfFormat(formats ...string) func(string) error {
	return func(s string) error {
		if slices.Contains(formats, s) {
			return nil
		}
		return fmt.Errorf("unknown format %q, expected one of %s", s, strings.Join(formats, ", "))
	}
}
