package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/styles"
	"github.com/hay-kot/mdlabel/internal/core/validate"
)

// builtinStyles are the glamour styles that need no file on disk.
var builtinStyles = map[string]bool{
	"ascii":       true,
	"auto":        true,
	"dark":        true,
	"dracula":     true,
	"light":       true,
	"notty":       true,
	"pink":        true,
	"tokyo-night": true,
	"theme":       true,
}

// Validate checks that the configuration is valid. All offending fields are
// reported together as criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("display.edit_mode", c.Display.EditMode, validate.OneOf(EditModeSplit, EditModeTabs, EditModeOverlay)),
		criterio.Run("display.markdown_editor", c.Display.MarkdownEditor, validate.OneOf(EditorTextarea)),
		criterio.Run("display.panel_width", c.Display.PanelWidth, validate.CSSLength),
		criterio.Run("display.theme", c.Display.Theme, validate.OneOf(styles.ThemeNames()...)),
		criterio.Run("resolve.term_match", c.Resolve.TermMatch, termMatch),
		criterio.Run("render.style", c.Render.Style, validate.Required),
		c.validateLimits(),
	)
}

func (c *Config) validateLimits() error {
	var errs criterio.FieldErrorsBuilder
	if c.Display.PanelColumns < 10 {
		errs = errs.Append("display.panel_columns", fmt.Errorf("must be at least 10, got %d", c.Display.PanelColumns))
	}
	if c.Cache.Size < 0 {
		errs = errs.Append("cache.size", fmt.Errorf("must not be negative, got %d", c.Cache.Size))
	}
	if c.Render.PreviewDelayMS < 0 {
		errs = errs.Append("render.preview_delay_ms", fmt.Errorf("must not be negative, got %d", c.Render.PreviewDelayMS))
	}
	return errs.ToError()
}

// ValidateDeep performs Validate plus checks that touch the filesystem: the
// config file itself and a render style given as a path. The configPath
// argument specifies the config file location to validate (empty string
// skips the config file check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("render.style", c.Render.Style, styleExists),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func termMatch(v string) error {
	_, err := highlight.ParseMatchMode(v)
	return err
}

// styleExists accepts a builtin glamour style or an existing style file.
func styleExists(style string) error {
	if builtinStyles[style] {
		return nil
	}
	if _, err := os.Stat(style); err != nil {
		return fmt.Errorf("unknown style %q and no such file", style)
	}
	return nil
}
