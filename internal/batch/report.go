package batch

import (
	"fmt"
	"slices"
	"time"

	"markorder/internal/order"
)

// Outcome is the result of submitting one snapshot item.
type Outcome struct {
	Position       int
	Item           order.Item
	Success        bool
	Message        string
	UnknownProduct bool // the portal did not recognise the product code
	Duration       time.Duration
}

// Report aggregates the outcomes of one batch, in snapshot order.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
	// AuditErr is set when the snapshot could not be recorded. The batch
	// still ran.
	AuditErr error
}

// Attempted returns how many items were submitted.
func (r *Report) Attempted() int { return len(r.Outcomes) }

// Succeeded returns how many submissions succeeded.
func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// Failed returns how many submissions failed.
func (r *Report) Failed() int { return r.Attempted() - r.Succeeded() }

// Failures returns the failed outcomes in snapshot order.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Success {
			out = append(out, o)
		}
	}
	return out
}

// UnknownCodes returns the sorted, de-duplicated product codes the portal
// did not recognise during this batch.
func (r *Report) UnknownCodes() []string {
	var codes []string
	for _, o := range r.Outcomes {
		if o.UnknownProduct {
			codes = append(codes, o.Item.ProductCode)
		}
	}
	slices.Sort(codes)
	return slices.Compact(codes)
}

// Summary is a one-line description for logs and the terminal.
func (r *Report) Summary() string {
	return fmt.Sprintf("attempted %d, succeeded %d, failed %d",
		r.Attempted(), r.Succeeded(), r.Failed())
}
