package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/mdlabel/internal/core/config"
)

// ConfigCheck reports on the config file and the loaded configuration.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

// NewConfigCheck creates a check of cfg as loaded from path.
func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	switch _, err := os.Stat(c.path); {
	case c.path == "":
		result.add("config file", StatusPass, "none given, using defaults")
	case errors.Is(err, os.ErrNotExist):
		result.add("config file", StatusPass, c.path+" not found, using defaults")
	default:
		result.add("config file", StatusPass, c.path)
	}

	err := c.cfg.ValidateDeep(c.path)
	var fieldErrs criterio.FieldErrors
	switch {
	case err == nil:
		result.add("values", StatusPass, "valid")
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			result.add(fe.Field, StatusFail, fe.Err.Error())
		}
	default:
		result.add("values", StatusFail, err.Error())
	}

	result.add("term matching", StatusPass, c.cfg.Resolve.TermMatch)
	result.add("theme", StatusPass, c.cfg.Display.Theme)

	return result
}
