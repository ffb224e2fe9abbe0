package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	names := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		names = append(names, e.Field)
	}
	return names
}

func TestValidate_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"edit mode", func(c *Config) { c.Display.EditMode = "floating" }, "display.edit_mode"},
		{"markdown editor", func(c *Config) { c.Display.MarkdownEditor = "codemirror" }, "display.markdown_editor"},
		{"panel width", func(c *Config) { c.Display.PanelWidth = "300px; color: red" }, "display.panel_width"},
		{"theme", func(c *Config) { c.Display.Theme = "solarized" }, "display.theme"},
		{"panel columns", func(c *Config) { c.Display.PanelColumns = 4 }, "display.panel_columns"},
		{"term match", func(c *Config) { c.Resolve.TermMatch = "last" }, "resolve.term_match"},
		{"cache size", func(c *Config) { c.Cache.Size = -1 }, "cache.size"},
		{"render style", func(c *Config) { c.Render.Style = "  " }, "render.style"},
		{"preview delay", func(c *Config) { c.Render.PreviewDelayMS = -5 }, "render.preview_delay_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			assert.Equal(t, []string{tt.field}, fieldNames(t, cfg.Validate()))
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display.EditMode = "nope"
	cfg.Resolve.TermMatch = "nope"
	cfg.Cache.Size = -1

	names := fieldNames(t, cfg.Validate())
	assert.ElementsMatch(t, []string{"display.edit_mode", "resolve.term_match", "cache.size"}, names)
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := DefaultConfig()

	names := fieldNames(t, cfg.ValidateDeep(t.TempDir()))
	assert.Contains(t, names, "config_file")
}

func TestValidateDeep_Style(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.Style = filepath.Join(t.TempDir(), "missing.json")

	names := fieldNames(t, cfg.ValidateDeep(""))
	assert.Equal(t, []string{"render.style"}, names)

	stylePath := filepath.Join(t.TempDir(), "style.json")
	require.NoError(t, os.WriteFile(stylePath, []byte("{}"), 0o644))
	cfg.Render.Style = stylePath
	assert.NoError(t, cfg.ValidateDeep(""))

	cfg.Render.Style = "notty"
	assert.NoError(t, cfg.ValidateDeep(filepath.Join(t.TempDir(), "absent.yaml")))
}
