package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides_Paths(t *testing.T) {
	t.Run("MARKORDER_NOMENCLATURE replaces the table path", func(t *testing.T) {
		t.Setenv("MARKORDER_NOMENCLATURE", "/srv/nomenclature.xlsx")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/srv/nomenclature.xlsx", cfg.Nomenclature.Path)
	})

	t.Run("MARKORDER_SNAPSHOT replaces the audit path", func(t *testing.T) {
		t.Setenv("MARKORDER_SNAPSHOT", "audit/snap.json")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "audit/snap.json", cfg.Audit.SnapshotPath)
	})

	t.Run("empty variables leave values alone", func(t *testing.T) {
		t.Setenv("MARKORDER_NOMENCLATURE", "")
		t.Setenv("MARKORDER_SNAPSHOT", "")

		cfg := &Config{}
		cfg.Nomenclature.Path = "keep.xlsx"
		cfg.applyEnvOverrides()

		assert.Equal(t, "keep.xlsx", cfg.Nomenclature.Path)
		assert.Empty(t, cfg.Audit.SnapshotPath)
	})
}

func TestEnvOverrides_Browser(t *testing.T) {
	t.Run("browser settings", func(t *testing.T) {
		t.Setenv("MARKORDER_PORTAL_URL", "https://portal.test/warehouses")
		t.Setenv("MARKORDER_BROWSER_BIN", "/usr/bin/chromium")
		t.Setenv("MARKORDER_USER_DATA_DIR", "/home/op/.config/chromium")
		t.Setenv("MARKORDER_PROFILE", "Default")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "https://portal.test/warehouses", cfg.Portal.URL)
		assert.Equal(t, "/usr/bin/chromium", cfg.Portal.BrowserBin)
		assert.Equal(t, "/home/op/.config/chromium", cfg.Portal.UserDataDir)
		assert.Equal(t, "Default", cfg.Portal.Profile)
	})

	t.Run("MARKORDER_HEADLESS parses booleans", func(t *testing.T) {
		t.Setenv("MARKORDER_HEADLESS", "true")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Portal.Headless)

		t.Setenv("MARKORDER_HEADLESS", "0")
		cfg.applyEnvOverrides()
		assert.False(t, cfg.Portal.Headless)
	})

	t.Run("MARKORDER_HEADLESS ignores garbage", func(t *testing.T) {
		t.Setenv("MARKORDER_HEADLESS", "sometimes")
		cfg := DefaultConfig()
		cfg.Portal.Headless = true
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Portal.Headless)
	})
}

func TestEnvOverrides_BeatFileValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "markorder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nomenclature:\n  path: from-file.xlsx\nportal:\n  profile: FileProfile\n"), 0644))

	t.Setenv("MARKORDER_NOMENCLATURE", "from-env.xlsx")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.xlsx", cfg.Nomenclature.Path)
	assert.Equal(t, "FileProfile", cfg.Portal.Profile)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	t.Run("missing file is fine", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("values feed overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("MARKORDER_PROFILE=FromDotEnv\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("MARKORDER_PROFILE") })
		os.Unsetenv("MARKORDER_PROFILE")

		require.NoError(t, LoadDotEnv(path))
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "FromDotEnv", cfg.Portal.Profile)
	})

	t.Run("existing environment wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("MARKORDER_SNAPSHOT=dotenv.json\n"), 0644))
		t.Setenv("MARKORDER_SNAPSHOT", "shell.json")

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "shell.json", os.Getenv("MARKORDER_SNAPSHOT"))
	})
}
