package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-site/folio/pkg/render"
)

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, "blogs", cfg.BlogsDir)
	assert.Equal(t, render.EngineSite, cfg.Engine)
}

func TestLoad_KeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("site_title: Prats\nengine: goldmark\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Prats", cfg.SiteTitle)
	assert.Equal(t, "goldmark", cfg.Engine)
	assert.Equal(t, "public", cfg.OutputDir)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("site_title: [oops\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBaseURL: "https://example.github.io/Prats_Website",
		EnvEngine:  "goldmark",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "https://example.github.io/Prats_Website", cfg.BaseURL)
	assert.Equal(t, "goldmark", cfg.Engine)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Engine = "pandoc"
	assert.True(t, errors.Is(cfg.Validate(), render.ErrUnknownEngine))

	cfg = Default()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())
}

func TestLoadSite_Resolves(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("output_dir: /tmp/out\n"), 0o644))

	cfg, err := LoadSite(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "blogs"), cfg.BlogsDir)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, filepath.Join(dir, ".folio", "cache.db"), cfg.CachePath)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.ContactEmail = "me@example.com"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", loaded.ContactEmail)
}
