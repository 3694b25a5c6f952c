package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"markorder/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// Browser owns one browser process for a whole batch. Pages share the
// configured profile, so the portal sees the operator's signed-in session.
type Browser struct {
	cfg Config

	mu         sync.Mutex
	browser    *rod.Browser
	launched   *launcher.Launcher
	controlURL string
}

// NewBrowser creates a browser handle. Nothing starts until the first page.
func NewBrowser(cfg Config) *Browser {
	return &Browser{cfg: cfg}
}

// browserAlive reports whether the connection still answers.
var browserAlive = func(b *rod.Browser) bool {
	_, err := b.Version()
	return err == nil
}

// startLocked connects to DebuggerURL or launches a new browser. A live
// connection is kept; a dead one is dropped and replaced.
func (b *Browser) startLocked(ctx context.Context) error {
	log := logging.Get(logging.CategoryPortal)

	if b.browser != nil {
		if browserAlive(b.browser) {
			return nil
		}
		log.Warn("stale browser connection detected, reconnecting")
		if err := b.closeLocked(); err != nil {
			log.Warn("close stale browser: %v", err)
		}
	}

	controlURL := b.cfg.DebuggerURL
	if controlURL == "" {
		l := b.launcher()
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		b.launched = l
		controlURL = url
		log.Info("browser launched (headless=%v, profile=%q)", b.cfg.Headless, b.cfg.Profile)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		if b.launched != nil {
			b.launched.Kill()
			b.launched = nil
		}
		return fmt.Errorf("connect to browser: %w", err)
	}

	b.browser = browser
	b.controlURL = controlURL
	log.Debug("connected to %s", controlURL)
	return nil
}

func (b *Browser) launcher() *launcher.Launcher {
	l := launcher.New().Headless(b.cfg.Headless)
	if b.cfg.BrowserBin != "" {
		l = l.Bin(b.cfg.BrowserBin)
	}
	if b.cfg.UserDataDir != "" {
		l = l.UserDataDir(b.cfg.UserDataDir)
	}
	if b.cfg.Profile != "" {
		l = l.Set(flags.Flag("profile-directory"), b.cfg.Profile)
	}
	for _, raw := range b.cfg.Flags {
		name, val, hasVal := strings.Cut(strings.TrimLeft(raw, "-"), "=")
		if name == "" {
			continue
		}
		if hasVal {
			l = l.Set(flags.Flag(name), val)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}
	return l
}

// NewPage opens a blank page sized to the configured viewport, starting or
// restarting the browser if needed. The caller closes the page.
func (b *Browser) NewPage(ctx context.Context) (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.startLocked(ctx); err != nil {
		return nil, err
	}
	if b.browser == nil {
		return nil, errors.New("browser not connected")
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		// The connection can die between the liveness check and here.
		logging.Get(logging.CategoryPortal).Warn("create page failed, restarting browser: %v", err)
		if cerr := b.closeLocked(); cerr != nil {
			logging.Get(logging.CategoryPortal).Warn("close browser: %v", cerr)
		}
		if err := b.startLocked(ctx); err != nil {
			return nil, err
		}
		if page, err = b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"}); err != nil {
			return nil, fmt.Errorf("create page: %w", err)
		}
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.GetViewportWidth(),
		Height:            b.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		logging.Get(logging.CategoryPortal).Warn("failed to set viewport: %v", err)
	}
	return page, nil
}

// ControlURL returns the DevTools WebSocket URL, empty before Start.
func (b *Browser) ControlURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.controlURL
}

// IsConnected returns whether the browser is connected.
func (b *Browser) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.browser != nil
}

// Close shuts the browser down. A browser attached through DebuggerURL is
// disconnected but left running. Close is safe to call more than once.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *Browser) closeLocked() error {
	var err error
	if b.browser != nil {
		if b.launched != nil {
			err = b.browser.Close()
		}
		b.browser = nil
	}
	if b.launched != nil {
		// The user-data dir is the operator's real profile; Kill leaves it in place.
		b.launched.Kill()
		b.launched = nil
	}
	b.controlURL = ""
	return err
}
