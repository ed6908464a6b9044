package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"donorledger/internal/cli"
	"donorledger/internal/config"
	"donorledger/internal/export/gsheet"
	"donorledger/internal/services"
)

const usage = `Usage: donorledger <command> [options]

Commands:
  process   ingest intake CSV files and merge them into the ledger
  show      print the current ledger without ingesting anything
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	if err := run(logger, command, args); err != nil {
		logger.Error("Run failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, command string, args []string) error {
	cfg := cli.LoadAndValidateConfig(logger)

	switch command {
	case "process":
		flagSet := flag.NewFlagSet("process", flag.ExitOnError)
		intakeDir := flagSet.String("intake", cfg.IntakeDir, "Directory holding incoming donation CSV files")
		move := flagSet.Bool("move-processed", cfg.MoveProcessedFiles, "Move ingested files to the processed directory")
		flagSet.Parse(args)
		cfg.IntakeDir = *intakeDir
		cfg.MoveProcessedFiles = *move
		return runProcess(logger, cfg)

	case "show":
		return runShow(logger, cfg)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runProcess(logger *slog.Logger, cfg *config.Config) error {
	ctx := context.Background()

	store := cli.InitStore(ctx, logger, cfg)
	defer closeStore(logger, store.Cleanup)

	var publisher services.RunReportPublisher
	if amqpClient := cli.InitAMQP(logger, cfg); amqpClient != nil {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	var exporter services.TableExporter
	if cfg.GoogleSpreadsheetID != "" {
		sheetClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			return fmt.Errorf("initialize sheets export: %w", err)
		}
		exporter = sheetClient
		logger.Info("Google Sheets export enabled", "sheet", cfg.GoogleSheetName)
	}

	processor := services.NewRunProcessor(store.Store, publisher, exporter, services.RunConfig{
		IntakeDir:          cfg.IntakeDir,
		ProcessedDir:       cfg.ProcessedDir,
		MoveProcessedFiles: cfg.MoveProcessedFiles,
		ShowLimit:          cfg.ShowLimit,
	}, os.Stdout)

	summary, err := processor.Process(ctx)
	if err != nil {
		return err
	}

	logger.Info("Batch merged",
		"run_id", summary.RunID,
		"files", summary.FilesRead,
		"rows_accepted", summary.RowsAccepted,
		"rows_rejected", summary.RowsRejected,
		"donors", summary.Donors)
	return nil
}

func runShow(logger *slog.Logger, cfg *config.Config) error {
	ctx := context.Background()

	store := cli.InitStore(ctx, logger, cfg)
	defer closeStore(logger, store.Cleanup)

	processor := services.NewRunProcessor(store.Store, nil, nil, services.RunConfig{
		ShowLimit: cfg.ShowLimit,
	}, os.Stdout)
	return processor.Show(ctx)
}

func closeStore(logger *slog.Logger, cleanup func() error) {
	if cleanup == nil {
		return
	}
	if err := cleanup(); err != nil {
		logger.Error("Failed to close ledger store", "error", err)
	}
}
