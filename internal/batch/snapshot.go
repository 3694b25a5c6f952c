package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"markorder/internal/order"
)

// Snapshot is the immutable copy of the queue taken when a batch is
// confirmed. It shares no memory with the live queue.
type Snapshot struct {
	TakenAt time.Time
	Items   []order.Item
}

// Snapshot copies the queue under its lock.
func (q *Queue) Snapshot() Snapshot {
	return Snapshot{TakenAt: time.Now(), Items: q.copyItems()}
}

// Len returns the number of items in the snapshot.
func (s Snapshot) Len() int { return len(s.Items) }

// AuditSink records a snapshot before the batch runs.
type AuditSink interface {
	WriteSnapshot(Snapshot) error
}

// FileAudit writes the snapshot as a JSON array of items, replacing the
// previous record.
type FileAudit struct {
	Path string
}

// WriteSnapshot writes through a temporary file and renames it into place so
// a crash never leaves a half-written record.
func (a FileAudit) WriteSnapshot(s Snapshot) error {
	items := s.Items
	if items == nil {
		items = []order.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(a.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpName, a.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads an audit record written by FileAudit.
func ReadSnapshot(path string) ([]order.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var items []order.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return items, nil
}
