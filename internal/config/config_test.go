package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleanorewu/folio/internal/i18n"
)

func load(t *testing.T, file string) (*Config, error) {
	t.Helper()
	v, err := New(file)
	if err != nil {
		return nil, err
	}
	return Load(v)
}

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "folio.db", cfg.DB.Path)
	assert.Equal(t, i18n.Chinese, cfg.Site.DefaultLang)
	assert.Equal(t, []string{"Eleanore", "Wu"}, cfg.Site.HeroLines)
	assert.Equal(t, 8760*time.Hour, cfg.Site.Retention)
	assert.Equal(t, 5*time.Second, cfg.Palette.Timeout)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLegacyEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, "hunter2", cfg.Admin.Password)
}

func TestPrefixedEnvironmentWins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("FOLIO_SERVER_PORT", "127.0.0.1:7000")
	t.Setenv("FOLIO_SITE_DEFAULT_LANG", "en")
	t.Setenv("FOLIO_LOG_LEVEL", "debug")

	cfg, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr())
	assert.Equal(t, i18n.English, cfg.Site.DefaultLang)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := `
server:
  port: "3000"
site:
  default_lang: en
  hero_lines: ["Hello"]
palette:
  timeout: 2s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "folio.yaml"), []byte(yaml), 0o644))

	cfg, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, i18n.English, cfg.Site.DefaultLang)
	assert.Equal(t, []string{"Hello"}, cfg.Site.HeroLines)
	assert.Equal(t, 2*time.Second, cfg.Palette.Timeout)
}

func TestExplicitMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("FOLIO_LOG_LEVEL", "chatty")
	_, err := load(t, "")
	assert.ErrorContains(t, err, "log.level")

	t.Setenv("FOLIO_LOG_LEVEL", "info")
	t.Setenv("FOLIO_PALETTE_TIMEOUT", "0s")
	_, err = load(t, "")
	assert.ErrorContains(t, err, "palette.timeout")
}

func TestUnknownLanguageFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FOLIO_SITE_DEFAULT_LANG", "de")
	cfg, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, i18n.Default, cfg.Site.DefaultLang)
}
