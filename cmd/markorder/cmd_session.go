package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"markorder/internal/batch"
	"markorder/internal/console"
	"markorder/internal/nomenclature"
	"markorder/internal/portal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runSession starts the interactive order entry.
func runSession(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	// After the first signal the default handler is back, so a second one kills.
	context.AfterFunc(ctx, stop)

	table, err := loadTable()
	if err != nil {
		return err
	}

	b := portal.NewBrowser(cfg.Portal.ToPortal())
	defer func() {
		if !b.IsConnected() {
			return
		}
		logger.Info("closing browser", zap.String("control_url", b.ControlURL()))
		if err := b.Close(); err != nil {
			logger.Warn("failed to close browser", zap.Error(err))
		}
	}()

	s := console.NewSession(console.Options{
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		Table:     table,
		Catalog:   cfg.GetCatalog(),
		Submitter: portal.NewSubmitter(cfg.Portal.ToPortal(), b),
		Audit:     batch.FileAudit{Path: cfg.Audit.SnapshotPath},
	})
	err = s.Run(ctx)
	if ctx.Err() != nil {
		logger.Info("Received shutdown signal")
		fmt.Fprintln(cmd.OutOrStdout(), "\nInterrupted.")
		return nil
	}
	return err
}

// loadTable reads the configured nomenclature workbook.
func loadTable() (*nomenclature.Table, error) {
	n := cfg.Nomenclature
	table, err := nomenclature.Load(n.Path, n.Columns, n.Sheet)
	if err != nil {
		return nil, err
	}
	logger.Info("nomenclature loaded", zap.String("path", n.Path), zap.Int("rows", table.Len()))
	return table, nil
}

// commandContext returns the command's context, or Background for commands
// invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
