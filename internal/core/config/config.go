// Package config handles configuration loading and validation for mdlabel.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/styles"
)

// Edit layouts for the terminal editor.
const (
	EditModeSplit   = "split"   // editor and preview side by side
	EditModeTabs    = "tabs"    // editor and preview on separate tabs
	EditModeOverlay = "overlay" // editor drawn over the document
)

// EditorTextarea is the only supported markdown editor.
const EditorTextarea = "textarea"

// Config holds the application configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Resolve ResolveConfig `yaml:"resolve"`
	Cache   CacheConfig   `yaml:"cache"`
	Render  RenderConfig  `yaml:"render"`
}

// DisplayConfig holds presentation options. None of them affect which text
// is highlighted.
type DisplayConfig struct {
	ShowSidePanel  bool   `yaml:"show_side_panel"`
	PanelWidth     string `yaml:"panel_width"`   // CSS width used by HTML output
	PanelColumns   int    `yaml:"panel_columns"` // terminal columns used by ANSI output
	EditMode       string `yaml:"edit_mode"`
	ShowPreview    bool   `yaml:"show_preview"`
	RTL            bool   `yaml:"rtl"`
	MarkdownEditor string `yaml:"markdown_editor"`
	Theme          string `yaml:"theme"` // terminal color theme
}

// ResolveConfig controls highlight resolution.
type ResolveConfig struct {
	TermMatch string `yaml:"term_match"` // first or all
}

// CacheConfig controls memoization of resolved documents.
type CacheConfig struct {
	Size int `yaml:"size"` // documents kept; 0 disables the cache
}

// RenderConfig controls terminal rendering.
type RenderConfig struct {
	Style          string `yaml:"style"` // glamour style name or path
	PreviewDelayMS int    `yaml:"preview_delay_ms"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			ShowSidePanel:  true,
			PanelWidth:     "300px",
			PanelColumns:   36,
			EditMode:       EditModeSplit,
			ShowPreview:    true,
			MarkdownEditor: EditorTextarea,
			Theme:          styles.DefaultTheme,
		},
		Resolve: ResolveConfig{
			TermMatch: highlight.MatchFirst.String(),
		},
		Cache: CacheConfig{
			Size: 64,
		},
		Render: RenderConfig{
			Style:          "dark",
			PreviewDelayMS: 150,
		},
	}
}

// Load reads configuration from the given path and validates it.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read parses the configuration at configPath and fills in defaults without
// validating the result.
func Read(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Display.PanelWidth == "" {
		c.Display.PanelWidth = defaults.Display.PanelWidth
	}
	if c.Display.PanelColumns == 0 {
		c.Display.PanelColumns = defaults.Display.PanelColumns
	}
	if c.Display.EditMode == "" {
		c.Display.EditMode = defaults.Display.EditMode
	}
	if c.Display.MarkdownEditor == "" {
		c.Display.MarkdownEditor = defaults.Display.MarkdownEditor
	}
	if c.Display.Theme == "" {
		c.Display.Theme = defaults.Display.Theme
	}
	if c.Resolve.TermMatch == "" {
		c.Resolve.TermMatch = defaults.Resolve.TermMatch
	}
	if c.Render.Style == "" {
		c.Render.Style = defaults.Render.Style
	}
}

// MatchMode returns the configured term match mode.
// The value is checked by Validate, so an invalid value yields MatchFirst.
func (c *Config) MatchMode() highlight.MatchMode {
	mode, _ := highlight.ParseMatchMode(c.Resolve.TermMatch)
	return mode
}

// NewResolver returns a highlight resolver configured from c.
func (c *Config) NewResolver() *highlight.Resolver {
	return highlight.NewResolver(c.MatchMode(), c.Cache.Size)
}
