package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"markorder/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingSubmitter records every call and answers from a script keyed by
// product code.
type recordingSubmitter struct {
	calls  []order.Item
	script map[string]func() (string, error)
}

func (s *recordingSubmitter) Submit(_ context.Context, it order.Item) (string, error) {
	s.calls = append(s.calls, it)
	if fn, ok := s.script[it.ProductCode]; ok {
		return fn()
	}
	return "OK: " + it.OrderLabel, nil
}

type failingAudit struct{ calls int }

func (a *failingAudit) WriteSnapshot(Snapshot) error {
	a.calls++
	return errors.New("disk full")
}

type memoryAudit struct{ snaps []Snapshot }

func (a *memoryAudit) WriteSnapshot(s Snapshot) error {
	a.snaps = append(a.snaps, s)
	return nil
}

type progress struct {
	started []int
	done    []Outcome
}

func (p *progress) OnItemStart(position, total int, _ order.Item) {
	p.started = append(p.started, position*100+total)
}

func (p *progress) OnItemDone(o Outcome) { p.done = append(p.done, o) }

func yes(int) bool { return true }

func TestExecuteAll_EmptyQueueIsNoop(t *testing.T) {
	sub := &recordingSubmitter{}
	audit := &memoryAudit{}
	confirmed := false
	e := NewExecutor(sub, audit)

	report, err := e.ExecuteAll(context.Background(), func(int) bool { confirmed = true; return true })
	require.NoError(t, err)
	assert.Equal(t, 0, report.Attempted())
	assert.Equal(t, 0, report.Succeeded())
	assert.Equal(t, 0, report.Failed())
	assert.Empty(t, sub.calls)
	assert.Empty(t, audit.snaps)
	assert.False(t, confirmed, "nothing to confirm")
}

func TestExecuteAll_DeclinedChangesNothing(t *testing.T) {
	sub := &recordingSubmitter{}
	audit := &memoryAudit{}
	e := NewExecutor(sub, audit)
	a := e.Add(item("A", 1))

	var asked int
	_, err := e.ExecuteAll(context.Background(), func(n int) bool { asked = n; return false })
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Equal(t, 1, asked)
	assert.Empty(t, sub.calls)
	assert.Empty(t, audit.snaps)

	got := collect(&e.Queue)
	assert.Equal(t, []listed{{1, a}}, got)

	_, err = e.ExecuteAll(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDeclined, "a nil confirmation never approves")
}

func TestExecuteAll_SuccessAndRaisingSubmission(t *testing.T) {
	sub := &recordingSubmitter{script: map[string]func() (string, error){
		"Y": func() (string, error) { panic("portal exploded") },
	}}
	audit := &memoryAudit{}
	e := NewExecutor(sub, audit)
	a := e.Add(item("X", 5))
	b := e.Add(item("Y", 1))

	report, err := e.ExecuteAll(context.Background(), yes)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempted())
	assert.Equal(t, 1, report.Succeeded())
	assert.Equal(t, 1, report.Failed())

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, b.ID, failures[0].Item.ID)
	assert.Equal(t, "portal exploded", failures[0].Message)
	assert.Equal(t, 2, failures[0].Position)

	require.Len(t, audit.snaps, 1)
	snapIDs := []string{audit.snaps[0].Items[0].ID, audit.snaps[0].Items[1].ID}
	assert.Equal(t, []string{a.ID, b.ID}, snapIDs, "both items are audited regardless of outcome")
}

func TestExecuteAll_ErrorMessageIsPreserved(t *testing.T) {
	boom := errors.New("step send: button not found")
	sub := &recordingSubmitter{script: map[string]func() (string, error){
		"B": func() (string, error) { return "", boom },
	}}
	e := NewExecutor(sub, nil)
	e.Add(item("A", 1))
	e.Add(item("B", 2))
	e.Add(item("C", 3))

	report, err := e.ExecuteAll(context.Background(), yes)
	require.NoError(t, err)

	assert.Len(t, sub.calls, 3, "a failure never stops the batch")
	assert.Equal(t, []string{"A", "B", "C"}, []string{sub.calls[0].ProductCode, sub.calls[1].ProductCode, sub.calls[2].ProductCode})
	require.Len(t, report.Failures(), 1)
	assert.Equal(t, boom.Error(), report.Failures()[0].Message)
	assert.Equal(t, "OK: order-A", report.Outcomes[0].Message)
}

func TestExecuteAll_AuditFailureDoesNotAbort(t *testing.T) {
	sub := &recordingSubmitter{}
	audit := &failingAudit{}
	e := NewExecutor(sub, audit)
	e.Add(item("A", 1))

	report, err := e.ExecuteAll(context.Background(), yes)
	require.NoError(t, err)
	assert.Equal(t, 1, audit.calls)
	assert.Error(t, report.AuditErr)
	assert.Equal(t, 1, report.Succeeded())
}

func TestExecuteAll_UnknownProductsAreCollected(t *testing.T) {
	unknown := func() (string, error) {
		return "", fmt.Errorf("step product search: %w", ErrUnknownProduct)
	}
	sub := &recordingSubmitter{script: map[string]func() (string, error){
		"Z1": unknown,
		"Z2": unknown,
	}}
	e := NewExecutor(sub, nil)
	e.Add(item("Z2", 1))
	e.Add(item("A", 1))
	e.Add(item("Z1", 1))
	e.Add(item("Z2", 4))

	report, err := e.ExecuteAll(context.Background(), yes)
	require.NoError(t, err)
	assert.Equal(t, []string{"Z1", "Z2"}, report.UnknownCodes())
	assert.Equal(t, 3, report.Failed())
}

func TestExecuteAll_LiveQueueUnchangedAndRerunnable(t *testing.T) {
	sub := &recordingSubmitter{}
	e := NewExecutor(sub, nil)
	a := e.Add(item("A", 1))
	b := e.Add(item("B", 2))

	_, err := e.ExecuteAll(context.Background(), yes)
	require.NoError(t, err)
	assert.Equal(t, []listed{{1, a}, {2, b}}, collect(&e.Queue))

	_, err = e.ExecuteAll(context.Background(), yes)
	require.NoError(t, err)
	assert.Len(t, sub.calls, 4)
}

func TestExecuteAll_EditsDuringRunDoNotAffectBatch(t *testing.T) {
	var e *Executor
	sub := SubmitFunc(func(_ context.Context, it order.Item) (string, error) {
		// Mutate the live queue while the batch is running.
		e.Add(item("late-"+it.ProductCode, 1))
		e.Remove(order.AtPosition(1))
		return "ok", nil
	})
	e = NewExecutor(sub, nil)
	e.Add(item("A", 1))
	e.Add(item("B", 1))

	report, err := e.ExecuteAll(context.Background(), yes)
	require.NoError(t, err)
	require.Equal(t, 2, report.Attempted())
	assert.Equal(t, "A", report.Outcomes[0].Item.ProductCode)
	assert.Equal(t, "B", report.Outcomes[1].Item.ProductCode)
}

func TestExecuteAll_ObserverSeesEveryItem(t *testing.T) {
	p := &progress{}
	e := NewExecutor(&recordingSubmitter{}, nil, WithObserver(p))
	e.Add(item("A", 1))
	e.Add(item("B", 1))

	_, err := e.ExecuteAll(context.Background(), yes)
	require.NoError(t, err)
	assert.Equal(t, []int{102, 202}, p.started)
	require.Len(t, p.done, 2)
	assert.True(t, p.done[0].Success)
}

func TestExecuteAll_WithFileAudit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_snapshot.json")
	e := NewExecutor(&recordingSubmitter{}, FileAudit{Path: path})
	a := e.Add(item("A", 5))

	_, err := e.ExecuteAll(context.Background(), yes)
	require.NoError(t, err)

	items, err := ReadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, a.ProductCode, items[0].ProductCode)
	assert.Equal(t, a.Quantity, items[0].Quantity)
}

func TestReport_Summary(t *testing.T) {
	r := &Report{Outcomes: []Outcome{{Success: true}, {Success: false}, {Success: true}}}
	assert.Equal(t, "attempted 3, succeeded 2, failed 1", r.Summary())
}
