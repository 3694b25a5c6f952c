package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"markorder/internal/logging"
	"markorder/internal/order"
)

var (
	// ErrDeclined is returned when the operator does not confirm a batch.
	ErrDeclined = errors.New("batch execution declined")
	// ErrUnknownProduct is wrapped by submitters when the portal does not
	// know the product code.
	ErrUnknownProduct = errors.New("product code not recognised by portal")
)

// slowSubmission is how long one item may take before its duration is
// logged as a warning.
const slowSubmission = 2 * time.Minute

// Submitter performs the external order submission for one item.
// A nil error means the order was placed; the message is shown to the
// operator either way.
type Submitter interface {
	Submit(ctx context.Context, it order.Item) (string, error)
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc func(ctx context.Context, it order.Item) (string, error)

func (f SubmitFunc) Submit(ctx context.Context, it order.Item) (string, error) {
	return f(ctx, it)
}

// ConfirmFunc asks the operator to confirm running the given number of items.
type ConfirmFunc func(pending int) bool

// Observer is notified around every submission.
type Observer interface {
	OnItemStart(position, total int, it order.Item)
	OnItemDone(o Outcome)
}

// Option configures an Executor.
type Option func(*Executor)

// WithObserver attaches progress callbacks.
func WithObserver(o Observer) Option {
	return func(e *Executor) { e.observer = o }
}

// Executor owns the pending queue and runs confirmed batches strictly one
// item at a time. Submissions share one authenticated browser profile, so
// running them in parallel is never allowed.
type Executor struct {
	Queue

	submitter Submitter
	audit     AuditSink
	observer  Observer
}

// NewExecutor creates an executor. audit may be nil to skip the snapshot record.
func NewExecutor(submitter Submitter, audit AuditSink, opts ...Option) *Executor {
	e := &Executor{submitter: submitter, audit: audit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteAll runs every pending item once.
//
// An empty queue is a no-op. Otherwise confirm must approve the run; a nil
// confirm or a refusal returns ErrDeclined and changes nothing. The queue is
// then copied, the copy is recorded through the audit sink (a failure there
// is logged and the batch goes on), and each copied item is submitted in
// order. A failing or panicking submission becomes a failed outcome and
// never stops the batch. The live queue is left as it was.
func (e *Executor) ExecuteAll(ctx context.Context, confirm ConfirmFunc) (*Report, error) {
	log := logging.Get(logging.CategoryBatch)

	pending := e.Len()
	if pending == 0 {
		now := time.Now()
		log.Info("execute requested with empty queue")
		return &Report{StartedAt: now, FinishedAt: now}, nil
	}
	if confirm == nil || !confirm(pending) {
		log.Info("execution of %d item(s) declined", pending)
		return nil, ErrDeclined
	}

	snap := e.Snapshot()
	report := &Report{StartedAt: time.Now()}

	if e.audit != nil {
		if err := e.audit.WriteSnapshot(snap); err != nil {
			report.AuditErr = err
			logging.Get(logging.CategoryAudit).Error("snapshot of %d item(s) not recorded: %v", snap.Len(), err)
		} else {
			logging.Get(logging.CategoryAudit).Info("snapshot of %d item(s) recorded", snap.Len())
		}
	}

	log.Info("executing %d item(s) sequentially", snap.Len())
	for i, it := range snap.Items {
		if e.observer != nil {
			e.observer.OnItemStart(i+1, snap.Len(), it)
		}
		out := e.submitOne(ctx, i+1, it)
		report.Outcomes = append(report.Outcomes, out)
		if e.observer != nil {
			e.observer.OnItemDone(out)
		}
	}
	report.FinishedAt = time.Now()

	log.Info("batch finished: %s", report.Summary())
	return report, nil
}

func (e *Executor) submitOne(ctx context.Context, position int, it order.Item) (out Outcome) {
	log := logging.Get(logging.CategoryBatch).With("item", it.ID, "code", it.ProductCode)
	timer := logging.StartTimer(logging.CategoryBatch, fmt.Sprintf("submit #%d", position))
	out = Outcome{Position: position, Item: it}

	defer func() {
		if r := recover(); r != nil {
			out.Success = false
			out.Message = fmt.Sprint(r)
			log.Error("submission panicked: %v", r)
		}
		out.Duration = timer.StopWithThreshold(slowSubmission)
	}()

	log.Info("submitting order '%s' quantity %d", it.OrderLabel, it.Quantity)
	msg, err := e.submitter.Submit(ctx, it)
	if err != nil {
		out.Message = err.Error()
		out.UnknownProduct = errors.Is(err, ErrUnknownProduct)
		log.Error("submission failed: %v", err)
		return out
	}
	out.Success = true
	out.Message = msg
	log.Info("submission succeeded: %s", msg)
	return out
}
