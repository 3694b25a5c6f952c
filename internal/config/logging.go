package config

import (
	"fmt"
	"strings"

	"markorder/internal/logging"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // json, text
	File       string          `yaml:"file"`       // empty disables logging
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("invalid format %q", c.Format)
	}
	return nil
}

// ToLogging converts to the logging package configuration.
func (c *LoggingConfig) ToLogging() logging.Config {
	return logging.Config{
		File:       c.File,
		Level:      c.Level,
		Format:     c.Format,
		Categories: c.Categories,
	}
}
