package portal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"markorder/internal/logging"
)

// Step is one named action of the portal wizard.
type Step struct {
	Name string
	// Optional steps cover screens the portal only sometimes shows. Their
	// failures are logged and the script moves on.
	Optional bool
	// Quiet suppresses the failure screenshot; used for steps that usually
	// fail because the screen was already handled.
	Quiet   bool
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Shooter captures the current page for diagnostics.
type Shooter func() ([]byte, error)

// Runner executes steps in order.
type Runner struct {
	StepTimeout   time.Duration
	ScreenshotDir string
	Shoot         Shooter
}

// Run executes every step. The first mandatory failure stops the script and
// is returned as "step <name>: <cause>".
func (r Runner) Run(ctx context.Context, steps []Step) error {
	log := logging.Get(logging.CategoryPortal)

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("step %s: %w", s.Name, err)
		}

		err := r.runStep(ctx, s)
		if err == nil {
			log.Debug("step %s done", s.Name)
			continue
		}

		if !s.Quiet {
			r.screenshot(s.Name)
		}
		if s.Optional {
			log.Info("optional step %s skipped: %v", s.Name, err)
			continue
		}
		log.Error("step %s failed: %v", s.Name, err)
		return fmt.Errorf("step %s: %w", s.Name, err)
	}
	return nil
}

func (r Runner) runStep(ctx context.Context, s Step) (err error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = r.StepTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// A panicking step fails like any other.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return s.Run(ctx)
}

func (r Runner) screenshot(step string) {
	if r.Shoot == nil {
		return
	}
	log := logging.Get(logging.CategoryPortal)

	data, err := r.Shoot()
	if err != nil {
		log.Warn("screenshot for step %s failed: %v", step, err)
		return
	}
	dir := r.ScreenshotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("screenshot dir %s: %v", dir, err)
		return
	}
	path := filepath.Join(dir, ScreenshotName(step))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn("write screenshot %s: %v", path, err)
		return
	}
	log.Info("screenshot saved to %s", path)
}

// ScreenshotName returns the file name used for a failed step.
func ScreenshotName(step string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, strings.TrimSpace(step))
	return "error_" + slug + ".png"
}
