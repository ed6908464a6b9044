// Package services orchestrates one processing run: read the intake batch,
// load the prior table, merge, persist the replacement table, and report.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"donorledger/internal/amqp"
	"donorledger/internal/backend"
	"donorledger/internal/core"
	"donorledger/internal/intake"
	"donorledger/internal/ledger"
	applog "donorledger/internal/log"
	"donorledger/internal/report"
)

// RunReportPublisher publishes a completed-run message. Optional.
type RunReportPublisher interface {
	PublishRunReport(ctx context.Context, msg *amqp.RunReportMessage) error
}

// TableExporter mirrors the merged table to an external surface. Optional.
type TableExporter interface {
	ReplaceTable(ctx context.Context, entries []core.LedgerEntry) error
}

// RunConfig holds the per-run settings of the processor.
type RunConfig struct {
	IntakeDir          string
	ProcessedDir       string
	MoveProcessedFiles bool
	TableName          string
	ShowLimit          int
}

// RunSummary describes what one run did.
type RunSummary struct {
	RunID        string
	FilesRead    int
	RowsRead     int
	RowsAccepted int
	RowsRejected int
	Donors       int
	Rejects      []intake.RowError
}

// RunProcessor executes processing runs against a ledger store.
//
// Concurrent runs against the same store are not serialized here; callers
// must keep single-writer discipline or lifetime totals can double-count.
type RunProcessor struct {
	store     backend.LedgerStore
	publisher RunReportPublisher
	exporter  TableExporter
	config    RunConfig
	out       io.Writer
}

func NewRunProcessor(
	store backend.LedgerStore,
	publisher RunReportPublisher,
	exporter TableExporter,
	config RunConfig,
	out io.Writer,
) *RunProcessor {
	if config.TableName == "" {
		config.TableName = "DonorLifetimeGiving"
	}
	return &RunProcessor{
		store:     store,
		publisher: publisher,
		exporter:  exporter,
		config:    config,
		out:       out,
	}
}

// Process runs one full invocation. A failure in any stage aborts the run
// with the stage named in the error; row-level rejects never abort, they are
// collected in the summary. The persisted table is only replaced after the
// whole batch merged cleanly, and the store keeps the old table on a failed
// write.
func (p *RunProcessor) Process(ctx context.Context) (*RunSummary, error) {
	runID := uuid.NewString()
	slog.InfoContext(ctx, "Starting processing run",
		applog.FieldRunID, runID, "intake_dir", p.config.IntakeDir)

	batch, err := intake.ReadAll(ctx, p.config.IntakeDir)
	if err != nil {
		return nil, stageError(applog.StageReadInput, err)
	}
	for _, rej := range batch.Rejects {
		slog.WarnContext(ctx, "Rejected donation row",
			applog.FieldRunID, runID,
			applog.FieldFile, rej.File,
			applog.FieldLine, rej.Line,
			applog.FieldReason, rej.Reason)
	}

	prior, err := p.store.LoadAll(ctx)
	if err != nil {
		return nil, stageError(applog.StageLoadPrior, err)
	}

	merged := ledger.MergeRecords(prior, batch.Records)

	// An all-rejected or empty batch leaves the table untouched.
	if len(batch.Records) > 0 {
		if err := p.store.ReplaceAll(ctx, merged); err != nil {
			return nil, stageError(applog.StageWrite, err)
		}
	} else {
		slog.InfoContext(ctx, "No valid rows in batch, table unchanged", applog.FieldRunID, runID)
	}

	if err := report.WriteTable(p.out, p.config.TableName, merged, p.config.ShowLimit); err != nil {
		return nil, stageError(applog.StageReport, err)
	}

	if p.exporter != nil {
		if err := p.exporter.ReplaceTable(ctx, merged); err != nil {
			return nil, stageError(applog.StageExport, err)
		}
	}

	if p.config.MoveProcessedFiles && len(batch.Records) > 0 {
		if err := intake.MoveProcessed(batch.Files, p.config.ProcessedDir); err != nil {
			return nil, stageError(applog.StageMoveFiles, err)
		}
	}

	summary := &RunSummary{
		RunID:        runID,
		FilesRead:    len(batch.Files),
		RowsRead:     batch.RowsRead(),
		RowsAccepted: len(batch.Records),
		RowsRejected: len(batch.Rejects),
		Donors:       len(merged),
		Rejects:      batch.Rejects,
	}

	// Run reports are best effort: the table is already committed, so a
	// broker outage must not fail the run.
	if p.publisher != nil {
		msg := amqp.NewRunReportMessage(runID,
			summary.FilesRead, summary.RowsRead, summary.RowsAccepted,
			summary.RowsRejected, summary.Donors)
		if err := p.publisher.PublishRunReport(ctx, msg); err != nil {
			slog.WarnContext(ctx, "Failed to publish run report",
				applog.FieldRunID, runID, applog.FieldError, err)
		}
	}

	slog.InfoContext(ctx, "Processing run complete",
		applog.FieldRunID, runID,
		applog.FieldFiles, summary.FilesRead,
		applog.FieldRowsRead, summary.RowsRead,
		applog.FieldAccepted, summary.RowsAccepted,
		applog.FieldRejected, summary.RowsRejected,
		applog.FieldDonors, summary.Donors)

	return summary, nil
}

// Show renders the persisted table without ingesting anything.
func (p *RunProcessor) Show(ctx context.Context) error {
	entries, err := p.store.LoadAll(ctx)
	if err != nil {
		return stageError(applog.StageLoadPrior, err)
	}
	if err := report.WriteTable(p.out, p.config.TableName, entries, p.config.ShowLimit); err != nil {
		return stageError(applog.StageReport, err)
	}
	return nil
}

func stageError(stage string, err error) error {
	return fmt.Errorf("stage %s: %w", stage, err)
}
