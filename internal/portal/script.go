package portal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"markorder/internal/batch"
	"markorder/internal/order"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// unitOption is the packaging type every order is placed with.
const unitOption = "Единица товара"

// script builds the wizard steps for one item on page p.
type script struct {
	page *rod.Page
	cfg  Config
	sel  Selectors
}

func newScript(page *rod.Page, cfg Config) *script {
	return &script{page: page, cfg: cfg, sel: cfg.Selectors.Merge(DefaultSelectors())}
}

// Steps returns the full wizard for it, in order.
func (s *script) Steps(it order.Item) []Step {
	short := s.cfg.GetSuggestTimeout()
	return []Step{
		{Name: "open warehouses", Run: s.open},
		{Name: "select profile", Optional: true, Quiet: true, Timeout: short, Run: s.click(s.sel.ProfileCard)},
		{Name: "select warehouse", Optional: true, Quiet: true, Timeout: short, Run: s.click(s.sel.WarehouseCard)},
		{Name: "order codes", Optional: true, Run: s.click(s.sel.OrderCodes)},
		{Name: "made in russia", Optional: true, Run: s.click(s.sel.MadeInRussia)},
		{Name: "next", Optional: true, Run: s.click(s.sel.Next)},
		{Name: "fill from catalog", Optional: true, Run: s.jsClick(s.sel.FillFromCatalog)},
		{Name: "order number", Run: s.fill(s.sel.OrderNumberInput, it.OrderLabel)},
		{Name: "to requisites", Optional: true, Run: s.toRequisites},
		{Name: "unit type", Optional: true, Run: s.unitType},
		{Name: "to products", Optional: true, Run: s.toProducts},
		{Name: "product search", Run: s.productSearch(it.ProductCode)},
		{Name: "quantity", Run: s.quantity(it.Quantity)},
		{Name: "send to gismt", Run: s.sendToGISMT},
		{Name: "sign with certificate", Run: s.jsClick(s.sel.SignWithCert)},
		{Name: "sign and send", Run: s.signAndSend},
	}
}

func (s *script) open(ctx context.Context) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(s.cfg.URL); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return pause(ctx, s.cfg.PageLoadDelay)
}

func (s *script) click(selector string) func(context.Context) error {
	return func(ctx context.Context) error {
		el, err := find(ctx, s.page, selector)
		if err != nil {
			return err
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("click: %w", err)
		}
		return pause(ctx, s.cfg.SettleDelay)
	}
}

func (s *script) jsClick(selector string) func(context.Context) error {
	return func(ctx context.Context) error {
		el, err := find(ctx, s.page, selector)
		if err != nil {
			return err
		}
		if err := clickByScript(el); err != nil {
			return err
		}
		return pause(ctx, s.cfg.SettleDelay)
	}
}

func (s *script) fill(selector, text string) func(context.Context) error {
	return func(ctx context.Context) error {
		el, err := find(ctx, s.page, selector)
		if err != nil {
			return err
		}
		if err := replaceText(el, text); err != nil {
			return err
		}
		return pause(ctx, s.cfg.SettleDelay)
	}
}

func (s *script) toRequisites(ctx context.Context) error {
	btn, err := find(ctx, s.page, s.sel.ToRequisites)
	if err != nil {
		return err
	}
	if err := btn.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	if err := clickByScript(btn); err != nil {
		return err
	}
	if _, err := find(ctx, s.page, s.sel.UnitTypeField); err != nil {
		return fmt.Errorf("requisites form did not open: %w", err)
	}
	return pause(ctx, s.cfg.SettleDelay)
}

func (s *script) unitType(ctx context.Context) error {
	field := s.sel.UnitTypeField
	current := func() (string, error) {
		label, err := find(ctx, s.page, field+" [data-tid='Select__label']")
		if err != nil {
			return "", err
		}
		text, err := label.Text()
		return strings.TrimSpace(text), err
	}

	got, err := current()
	if err != nil {
		return err
	}
	if got == unitOption {
		return nil
	}

	btn, err := find(ctx, s.page, field+" button[data-tid='Button__root']")
	if err != nil {
		return err
	}
	menuID, err := btn.Attribute("aria-controls")
	if err != nil {
		return fmt.Errorf("menu id: %w", err)
	}
	if menuID == nil || *menuID == "" {
		return errors.New("select button has no menu")
	}
	if err := clickByScript(btn); err != nil {
		return err
	}

	option, err := find(ctx, s.page,
		fmt.Sprintf("//*[@id='%s']//*[normalize-space(text())='%s']", *menuID, unitOption))
	if err != nil {
		return err
	}
	if err := clickByScript(option); err != nil {
		return err
	}
	if err := pause(ctx, s.cfg.SettleDelay); err != nil {
		return err
	}

	if got, err = current(); err != nil {
		return err
	}
	if got != unitOption {
		return fmt.Errorf("unit type is %q after selection", got)
	}
	return nil
}

func (s *script) toProducts(ctx context.Context) error {
	btn, err := find(ctx, s.page, s.sel.ToProducts)
	if err != nil {
		return err
	}
	if err := btn.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click: %w", err)
	}

	// The button sometimes swallows a native click; retry through script.
	if _, err := findWithin(ctx, s.page, s.sel.ProductSearchInput, s.cfg.GetSuggestTimeout()); err == nil {
		return nil
	}
	if err := clickByScript(btn); err != nil {
		return err
	}
	return pause(ctx, s.cfg.SettleDelay)
}

func (s *script) productSearch(code string) func(context.Context) error {
	return func(ctx context.Context) error {
		in, err := find(ctx, s.page, s.sel.ProductSearchInput)
		if err != nil {
			return err
		}
		if err := replaceText(in, code); err != nil {
			return err
		}

		if _, err := findWithin(ctx, s.page, s.sel.ProductSuggestion, s.cfg.GetSuggestTimeout()); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %s", batch.ErrUnknownProduct, code)
		}

		if err := in.Type(input.ArrowDown); err != nil {
			return fmt.Errorf("pick suggestion: %w", err)
		}
		if err := pause(ctx, s.cfg.SettleDelay/3); err != nil {
			return err
		}
		if err := in.Type(input.Enter); err != nil {
			return fmt.Errorf("confirm suggestion: %w", err)
		}
		return pause(ctx, s.cfg.SettleDelay)
	}
}

func (s *script) quantity(n int) func(context.Context) error {
	want := strconv.Itoa(n)
	return func(ctx context.Context) error {
		// The product pick re-renders the form, so the field is looked up fresh.
		in, err := find(ctx, s.page, s.sel.QuantityInput)
		if err != nil {
			return err
		}
		if err := in.ScrollIntoView(); err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
		if err := replaceText(in, want); err != nil {
			return err
		}
		if err := in.Type(input.Tab); err != nil {
			return fmt.Errorf("blur: %w", err)
		}
		if err := pause(ctx, s.cfg.SettleDelay); err != nil {
			return err
		}

		got, err := inputValue(in)
		if err != nil {
			return err
		}
		if got == want {
			return nil
		}

		_, err = in.Eval(`(v) => {
			this.value = v;
			this.dispatchEvent(new Event('input', { bubbles: true }));
			this.dispatchEvent(new Event('change', { bubbles: true }));
		}`, want)
		if err != nil {
			return fmt.Errorf("set value by script: %w", err)
		}
		if err := pause(ctx, s.cfg.SettleDelay); err != nil {
			return err
		}
		if got, err = inputValue(in); err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("quantity field holds %q, want %q", got, want)
		}
		return nil
	}
}

func (s *script) sendToGISMT(ctx context.Context) error {
	btn, err := find(ctx, s.page, s.sel.SendToGISMT)
	if err != nil {
		return err
	}
	if err := btn.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click: %w", err)
	}
	return pause(ctx, 2*s.cfg.SettleDelay)
}

func (s *script) signAndSend(ctx context.Context) error {
	btn, err := find(ctx, s.page, s.sel.SignAndSend)
	if err != nil {
		return err
	}
	if err := btn.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	if err := clickByScript(btn); err != nil {
		return err
	}
	return pause(ctx, s.cfg.PageLoadDelay)
}

// find waits for selector on p until ctx ends. XPath is recognised by a
// leading "/" or "(".
func find(ctx context.Context, p *rod.Page, selector string) (*rod.Element, error) {
	page := p.Context(ctx)
	var (
		el  *rod.Element
		err error
	)
	if isXPath(selector) {
		el, err = page.ElementX(selector)
	} else {
		el, err = page.Element(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("element %s not found: %w", selector, err)
	}
	return el, nil
}

// findWithin is find bounded by d.
func findWithin(ctx context.Context, p *rod.Page, selector string, d time.Duration) (*rod.Element, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return find(ctx, p, selector)
}

func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}

func clickByScript(el *rod.Element) error {
	if _, err := el.Eval(`() => this.click()`); err != nil {
		return fmt.Errorf("script click: %w", err)
	}
	return nil
}

func replaceText(el *rod.Element, text string) error {
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text: %w", err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	return nil
}

func inputValue(el *rod.Element) (string, error) {
	v, err := el.Property("value")
	if err != nil {
		return "", fmt.Errorf("read value: %w", err)
	}
	return v.Str(), nil
}

// pause waits d or until ctx ends.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
