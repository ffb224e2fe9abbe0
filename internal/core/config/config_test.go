package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Equal(t, highlight.MatchFirst, cfg.MatchMode())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
display:
  show_side_panel: false
  edit_mode: tabs
  rtl: true
resolve:
  term_match: all
cache:
  size: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Display.ShowSidePanel)
	assert.True(t, cfg.Display.ShowPreview, "unset keys keep their defaults")
	assert.Equal(t, EditModeTabs, cfg.Display.EditMode)
	assert.True(t, cfg.Display.RTL)
	assert.Equal(t, "300px", cfg.Display.PanelWidth)
	assert.Equal(t, EditorTextarea, cfg.Display.MarkdownEditor)
	assert.Equal(t, highlight.MatchAll, cfg.MatchMode())
	assert.Equal(t, 0, cfg.Cache.Size)
	assert.Equal(t, "dark", cfg.Render.Style)
}

func TestLoad_EmptyStringsFallBackToDefaults(t *testing.T) {
	path := writeConfig(t, `
display:
  edit_mode: ""
  panel_width: ""
render:
  style: ""
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EditModeSplit, cfg.Display.EditMode)
	assert.Equal(t, "300px", cfg.Display.PanelWidth)
	assert.Equal(t, "dark", cfg.Render.Style)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "display:\n  edit_mode: floating\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "display.edit_mode")
}

func TestRead_SkipsValidation(t *testing.T) {
	path := writeConfig(t, "display:\n  edit_mode: floating\n")

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "floating", cfg.Display.EditMode)
	assert.Error(t, cfg.Validate())
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, "display: [\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestNewResolver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolve.TermMatch = "all"

	r := cfg.NewResolver()
	assert.Equal(t, highlight.MatchAll, r.Mode())
}
