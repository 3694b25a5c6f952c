package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"markorder/internal/batch"
	"markorder/internal/logging"
	"markorder/internal/nomenclature"
	"markorder/internal/order"
)

// Options wires a Session.
type Options struct {
	In        io.Reader
	Out       io.Writer
	Table     *nomenclature.Table
	Catalog   nomenclature.Catalog
	Submitter batch.Submitter
	Audit     batch.AuditSink // nil skips the snapshot record
	Styles    *Styles         // nil means StylesFor(Out)
}

// Session is one interactive order-entry run.
type Session struct {
	prompt  *Prompter
	out     io.Writer
	styles  Styles
	exec    *batch.Executor
	table   *nomenclature.Table
	catalog nomenclature.Catalog

	// unresolved lists descriptors the nomenclature could not match.
	unresolved []string
}

type action int

const (
	actAdd action = iota
	actRemove
	actList
	actExecute
	actClear
	actExit
)

var actionLabels = []string{
	"Add another item",
	"Remove an item",
	"Show pending items",
	"Execute all pending items",
	"Clear all pending items",
	"Exit",
}

var modeLabels = []string{
	"By product code",
	"By attributes (nomenclature lookup)",
	"Exit",
}

// NewSession builds a session and its executor.
func NewSession(opts Options) *Session {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	styles := StylesFor(out)
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	s := &Session{
		prompt:  NewPrompter(opts.In, out, styles),
		out:     out,
		styles:  styles,
		table:   opts.Table,
		catalog: opts.Catalog.Merge(nomenclature.DefaultCatalog()),
	}
	s.exec = batch.NewExecutor(opts.Submitter, opts.Audit, batch.WithObserver(&progressPrinter{out: out, styles: styles}))
	return s
}

// Executor exposes the pending queue, mostly for tests.
func (s *Session) Executor() *batch.Executor { return s.exec }

// Run drives the session until the operator exits or input ends.
// Running a batch returns to the action menu so it can be edited and re-run.
func (s *Session) Run(ctx context.Context) error {
	log := logging.Get(logging.CategoryConsole)
	log.Info("session started with %d nomenclature row(s)", s.table.Len())
	fmt.Fprintln(s.out, s.styles.Title.Render("=== markorder: order entry ==="))

	s.prompt = s.prompt.WithContext(ctx)
	err := s.loop(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		log.Info("input closed, %d item(s) left pending", s.exec.Len())
		return nil
	}
	return err
}

func (s *Session) loop(ctx context.Context) error {
	adding := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if adding {
			exit, err := s.addItem()
			if err != nil {
				return err
			}
			if exit {
				s.say("Exit without executing.")
				return nil
			}
			if s.exec.Len() == 0 {
				continue
			}
			adding = false
		}

		choice, err := s.prompt.Choose("Actions", actionLabels)
		if err != nil {
			return err
		}
		switch action(choice) {
		case actAdd:
			adding = true
		case actRemove:
			if err := s.removeItem(); err != nil {
				return err
			}
		case actList:
			s.printQueue()
		case actExecute:
			if err := s.execute(ctx); err != nil {
				return err
			}
		case actClear:
			n := s.exec.Clear()
			logging.Get(logging.CategoryConsole).Info("cleared %d pending item(s)", n)
			s.say(fmt.Sprintf("Cleared %d item(s).", n))
		case actExit:
			if n := s.exec.Len(); n > 0 {
				s.say(fmt.Sprintf("Exit. %d item(s) were not executed.", n))
			} else {
				s.say("Exit.")
			}
			return nil
		}
	}
}

// addItem collects one item. exit reports the operator chose to leave.
func (s *Session) addItem() (exit bool, err error) {
	mode, err := s.prompt.Choose("Look up the product", modeLabels)
	if err != nil {
		return false, err
	}
	switch mode {
	case 0:
		return false, s.addByCode()
	case 1:
		return false, s.addByAttributes()
	default:
		return true, nil
	}
}

func (s *Session) askLabel() (string, error) {
	return s.prompt.Text("Order label (goes into the order number field): ")
}

func (s *Session) addByCode() error {
	label, err := s.askLabel()
	if err != nil {
		return err
	}
	code, err := s.prompt.Text("Product code: ")
	if err != nil {
		return err
	}
	qty, err := s.prompt.Quantity("Number of codes: ")
	if err != nil {
		return err
	}

	it, err := order.FromCode(label, code, qty)
	if err != nil {
		s.fail(err.Error())
		return nil
	}
	it = s.exec.Add(it)
	logging.Get(logging.CategoryConsole).Info("added item %s by code %s", it.ID, it.ProductCode)
	s.ok(fmt.Sprintf("Added by code: %s, %d code(s), order '%s'", it.ProductCode, it.Quantity, it.OrderLabel))
	s.printQueue()
	return nil
}

func (s *Session) addByAttributes() error {
	label, err := s.askLabel()
	if err != nil {
		return err
	}

	cat := s.catalog
	d := order.Descriptor{}
	if d.SimplifiedName, err = s.pick("Product type", cat.ProductTypes); err != nil {
		return err
	}
	if cat.NeedsColor(d.SimplifiedName) {
		if d.Color, err = s.pick("Color", cat.Colors); err != nil {
			return err
		}
	}
	if cat.NeedsCollar(d.SimplifiedName) {
		if d.Collar, err = s.pick("Collar", cat.Collars); err != nil {
			return err
		}
	}
	if d.Size, err = s.pick("Size", cat.Sizes); err != nil {
		return err
	}
	if d.UnitsPerPack, err = s.pick("Units per pack", cat.UnitsPerPack); err != nil {
		return err
	}
	qty, err := s.prompt.Quantity("Number of codes: ")
	if err != nil {
		return err
	}

	m, found := s.table.Resolve(nomenclature.Query{
		SimplifiedName: d.SimplifiedName,
		Size:           d.Size,
		UnitsPerPack:   d.UnitsPerPack,
		Color:          d.Color,
		Collar:         d.Collar,
	})
	if !found {
		s.unresolved = append(s.unresolved, d.String())
		s.fail(fmt.Sprintf("No product code found for (%s). The item was not added; check the nomenclature.", d))
		return nil
	}

	it, err := order.FromLookup(label, d, m.Code, m.DisplayName, qty)
	if err != nil {
		s.fail(err.Error())
		return nil
	}
	it = s.exec.Add(it)
	logging.Get(logging.CategoryConsole).Info("added item %s resolved to %s (%s pass)", it.ID, it.ProductCode, m.Pass)
	s.ok(fmt.Sprintf("Added: %s, code %s, %d code(s), order '%s'", d, it.ProductCode, it.Quantity, it.OrderLabel))
	s.printQueue()
	return nil
}

func (s *Session) pick(title string, options []string) (string, error) {
	i, err := s.prompt.Choose(title, options)
	if err != nil {
		return "", err
	}
	return options[i], nil
}

// removeItem takes an empty answer as the last item, a number as a
// position and anything else as an item id. A number that is not a valid
// position but is as long as a listed short id is tried as an id prefix.
func (s *Session) removeItem() error {
	if s.exec.Len() == 0 {
		s.say("Nothing to remove.")
		return nil
	}
	s.printQueue()
	answer, err := s.prompt.Optional("Item to remove (number or id, empty = last): ")
	if err != nil {
		return err
	}

	sel := order.Last()
	if answer != "" {
		if n, convErr := strconv.Atoi(answer); convErr == nil {
			switch {
			case n >= 1 && n <= s.exec.Len():
				sel = order.AtPosition(n)
			case len(answer) >= shortIDLen && s.expandID(answer) != answer:
				sel = order.ByID(s.expandID(answer))
			default:
				s.fail(fmt.Sprintf("No item at position %d.", n))
				return nil
			}
		} else {
			sel = order.ByID(s.expandID(answer))
		}
	}

	removed, ok := s.exec.Remove(sel)
	if !ok {
		s.fail(fmt.Sprintf("No item at %s.", sel))
		return nil
	}
	logging.Get(logging.CategoryConsole).Info("removed item %s (%s)", removed.ID, sel)
	s.ok(fmt.Sprintf("Removed: %s, code %s", removed.Descriptor.SimplifiedName, removed.ProductCode))
	s.printQueue()
	return nil
}

// expandID resolves a unique id prefix, as shown in listings, to the full id.
func (s *Session) expandID(prefix string) string {
	var found []string
	for _, it := range s.exec.List() {
		if strings.HasPrefix(it.ID, prefix) {
			found = append(found, it.ID)
		}
	}
	if len(found) == 1 {
		return found[0]
	}
	return prefix
}

func (s *Session) execute(ctx context.Context) error {
	if s.exec.Len() == 0 {
		s.say("Nothing to execute.")
		return nil
	}
	s.printQueue()

	var promptErr error
	confirm := func(n int) bool {
		ok, err := s.prompt.Confirm(fmt.Sprintf("Execute %d item(s)? (y/n): ", n))
		promptErr = err
		return ok
	}

	report, err := s.exec.ExecuteAll(ctx, confirm)
	if promptErr != nil {
		return promptErr
	}
	if errors.Is(err, batch.ErrDeclined) {
		s.say("Execution cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprint(s.out, RenderReport(report, s.unresolved, s.styles))
	return nil
}

func (s *Session) printQueue() {
	fmt.Fprint(s.out, RenderQueue(&s.exec.Queue, s.styles))
}

func (s *Session) say(msg string)  { fmt.Fprintln(s.out, s.styles.Body.Render(msg)) }
func (s *Session) ok(msg string)   { fmt.Fprintln(s.out, s.styles.Success.Render(msg)) }
func (s *Session) fail(msg string) { fmt.Fprintln(s.out, s.styles.Error.Render(msg)) }
