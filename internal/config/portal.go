package config

import (
	"fmt"
	"net/url"
	"time"

	"markorder/internal/portal"
)

// PortalConfig configures the browser that places orders.
type PortalConfig struct {
	URL         string   `yaml:"url"`
	DebuggerURL string   `yaml:"debugger_url"` // attach instead of launching
	BrowserBin  string   `yaml:"browser_bin"`
	UserDataDir string   `yaml:"user_data_dir"`
	Profile     string   `yaml:"profile"` // profile directory inside user_data_dir
	Headless    bool     `yaml:"headless"`
	Flags       []string `yaml:"flags"`

	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`

	StepTimeout    string `yaml:"step_timeout"`
	SuggestTimeout string `yaml:"suggest_timeout"`
	SettleDelay    string `yaml:"settle_delay"`
	PageLoadDelay  string `yaml:"page_load_delay"`

	ScreenshotDir string           `yaml:"screenshot_dir"`
	Selectors     portal.Selectors `yaml:"selectors,omitempty"`
}

// DefaultPortalConfig returns the default browser settings.
func DefaultPortalConfig() PortalConfig {
	def := portal.DefaultConfig()
	return PortalConfig{
		URL:            def.URL,
		Flags:          def.Flags,
		ViewportWidth:  def.ViewportWidth,
		ViewportHeight: def.ViewportHeight,
		StepTimeout:    "20s",
		SuggestTimeout: "5s",
		SettleDelay:    "1s",
		PageLoadDelay:  "3s",
		ScreenshotDir:  def.ScreenshotDir,
	}
}

// GetStepTimeout returns the per-step timeout as a duration.
func (p PortalConfig) GetStepTimeout() time.Duration {
	return parseDuration(p.StepTimeout, 20*time.Second)
}

// GetSuggestTimeout returns the product suggestion wait as a duration.
func (p PortalConfig) GetSuggestTimeout() time.Duration {
	return parseDuration(p.SuggestTimeout, 5*time.Second)
}

// GetSettleDelay returns the pause between UI actions as a duration.
func (p PortalConfig) GetSettleDelay() time.Duration {
	return parseDuration(p.SettleDelay, time.Second)
}

// GetPageLoadDelay returns the pause after navigation as a duration.
func (p PortalConfig) GetPageLoadDelay() time.Duration {
	return parseDuration(p.PageLoadDelay, 3*time.Second)
}

// ToPortal converts to the settings the portal package consumes.
func (p PortalConfig) ToPortal() portal.Config {
	return portal.Config{
		URL:            p.URL,
		DebuggerURL:    p.DebuggerURL,
		BrowserBin:     p.BrowserBin,
		UserDataDir:    p.UserDataDir,
		Profile:        p.Profile,
		Headless:       p.Headless,
		Flags:          p.Flags,
		ViewportWidth:  p.ViewportWidth,
		ViewportHeight: p.ViewportHeight,
		StepTimeout:    p.GetStepTimeout(),
		SuggestTimeout: p.GetSuggestTimeout(),
		SettleDelay:    p.GetSettleDelay(),
		PageLoadDelay:  p.GetPageLoadDelay(),
		ScreenshotDir:  p.ScreenshotDir,
		Selectors:      p.Selectors.Merge(portal.DefaultSelectors()),
	}
}

// Validate checks the portal URLs.
func (p PortalConfig) Validate() error {
	u, err := url.Parse(p.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q", p.URL)
	}
	if p.DebuggerURL != "" {
		if _, err := url.Parse(p.DebuggerURL); err != nil {
			return fmt.Errorf("invalid debugger_url %q: %w", p.DebuggerURL, err)
		}
	}
	return nil
}
