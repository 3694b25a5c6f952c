package portal

import (
	"context"
	"fmt"
	"time"

	"markorder/internal/logging"
	"markorder/internal/order"
)

// Submitter places one order per call on a fresh page of a shared browser.
// It implements batch.Submitter.
type Submitter struct {
	cfg     Config
	browser *Browser
}

// NewSubmitter returns a submitter driving b.
func NewSubmitter(cfg Config, b *Browser) *Submitter {
	return &Submitter{cfg: cfg, browser: b}
}

// Submit runs the whole wizard for it. The error names the failing step.
func (s *Submitter) Submit(ctx context.Context, it order.Item) (string, error) {
	log := logging.Get(logging.CategoryPortal).With("item", it.ID)

	page, err := s.browser.NewPage(ctx)
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warn("close page: %v", err)
		}
	}()

	r := Runner{
		StepTimeout:   s.cfg.GetStepTimeout(),
		ScreenshotDir: s.cfg.ScreenshotDir,
		Shoot: func() ([]byte, error) {
			return page.Timeout(10*time.Second).Screenshot(false, nil)
		},
	}
	if err := r.Run(ctx, newScript(page, s.cfg).Steps(it)); err != nil {
		return "", err
	}
	return SuccessMessage(it), nil
}

// SuccessMessage is the operator-facing message for a placed order.
func SuccessMessage(it order.Item) string {
	name := it.Descriptor.SimplifiedName
	if it.DisplayName != "" {
		name = it.DisplayName
	}
	if it.Mode == order.ModeCode || name == "" {
		name = it.ProductCode
	}
	return fmt.Sprintf("OK: %s (%s)", name, it.OrderLabel)
}
