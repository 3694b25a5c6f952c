package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"markorder/internal/nomenclature"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "markorder.yaml"

// Config holds all markorder configuration.
type Config struct {
	// Reference spreadsheet
	Nomenclature NomenclatureConfig `yaml:"nomenclature"`

	// Option lists offered by the console
	Catalog nomenclature.Catalog `yaml:"catalog"`

	// Browser automation
	Portal PortalConfig `yaml:"portal"`

	// Batch audit record
	Audit AuditConfig `yaml:"audit"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// NomenclatureConfig locates the reference spreadsheet.
type NomenclatureConfig struct {
	Path    string               `yaml:"path"`
	Sheet   string               `yaml:"sheet"` // empty = first sheet
	Columns nomenclature.Columns `yaml:"columns"`
}

// AuditConfig configures the pre-execution snapshot.
type AuditConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Nomenclature: NomenclatureConfig{
			Path:    "nomenclature.xlsx",
			Columns: nomenclature.DefaultColumns(),
		},

		Catalog: nomenclature.DefaultCatalog(),

		Portal: DefaultPortalConfig(),

		Audit: AuditConfig{
			SnapshotPath: "last_snapshot.json",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "markorder.log",
		},
	}
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("MARKORDER_NOMENCLATURE"); path != "" {
		c.Nomenclature.Path = path
	}
	if path := os.Getenv("MARKORDER_SNAPSHOT"); path != "" {
		c.Audit.SnapshotPath = path
	}

	// Browser
	if url := os.Getenv("MARKORDER_PORTAL_URL"); url != "" {
		c.Portal.URL = url
	}
	if bin := os.Getenv("MARKORDER_BROWSER_BIN"); bin != "" {
		c.Portal.BrowserBin = bin
	}
	if dir := os.Getenv("MARKORDER_USER_DATA_DIR"); dir != "" {
		c.Portal.UserDataDir = dir
	}
	if profile := os.Getenv("MARKORDER_PROFILE"); profile != "" {
		c.Portal.Profile = profile
	}
	if v := os.Getenv("MARKORDER_HEADLESS"); v != "" {
		if headless, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Portal.Headless = headless
		}
	}
}

// GetCatalog returns the option lists with empty ones filled from defaults.
func (c *Config) GetCatalog() nomenclature.Catalog {
	return c.Catalog.Merge(nomenclature.DefaultCatalog())
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Nomenclature.Path) == "" {
		return fmt.Errorf("nomenclature path not configured (set nomenclature.path or MARKORDER_NOMENCLATURE)")
	}
	if strings.TrimSpace(c.Audit.SnapshotPath) == "" {
		return fmt.Errorf("audit snapshot path not configured (set audit.snapshot_path or MARKORDER_SNAPSHOT)")
	}
	if err := c.Portal.Validate(); err != nil {
		return fmt.Errorf("portal: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// parseDuration returns s as a duration, or fallback when s is empty or invalid.
func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
