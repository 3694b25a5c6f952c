package main

import (
	"fmt"

	"markorder/internal/batch"
	"markorder/internal/console"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// snapshotCmd prints the audit record of the last confirmed batch
var snapshotCmd = &cobra.Command{
	Use:   "snapshot [path]",
	Short: "Show the items of the last confirmed batch",
	Long: `Reads the snapshot written when a batch was confirmed and lists its items.
Without a path the configured audit.snapshot_path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: showSnapshot,
}

func showSnapshot(cmd *cobra.Command, args []string) error {
	path := cfg.Audit.SnapshotPath
	if len(args) == 1 {
		path = args[0]
	}

	items, err := batch.ReadSnapshot(path)
	if err != nil {
		return err
	}
	logger.Debug("snapshot read", zap.String("path", path), zap.Int("items", len(items)))

	var q batch.Queue
	for _, it := range items {
		q.Add(it)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Snapshot %s\n", path)
	fmt.Fprint(out, console.RenderQueue(&q, console.StylesFor(out)))
	return nil
}
