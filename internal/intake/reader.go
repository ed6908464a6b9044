// Package intake reads donation CSV files from the intake directory and
// turns them into domain records, collecting per-row rejections instead of
// failing the whole batch on bad data.
package intake

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"donorledger/internal/core"
)

// Required header columns, matched case-insensitively and in any order.
var requiredColumns = []string{"donorid", "name", "amount", "date"}

var (
	// ErrNoInputFiles means the intake directory held no CSV files at all.
	// A run with nothing to ingest is a caller mistake, not an empty batch.
	ErrNoInputFiles = errors.New("no CSV files found in intake directory")

	errMissingHeader = errors.New("missing required CSV header")
)

// RowError describes one rejected input row.
type RowError struct {
	File   string
	Line   int
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
}

// Result is the outcome of reading one intake directory.
type Result struct {
	Records []core.DonationRecord
	Rejects []RowError
	Files   []string
}

// RowsRead returns the total number of data rows seen, valid or not.
func (r Result) RowsRead() int {
	return len(r.Records) + len(r.Rejects)
}

// fileResult keeps per-file output so concurrent parses can be reassembled
// in deterministic file order.
type fileResult struct {
	records []core.DonationRecord
	rejects []RowError
}

// ReadAll discovers and parses every CSV file in dir. Files are parsed
// concurrently; per-donor aggregation downstream is commutative and
// associative, so only within-file row order needs preserving.
//
// A structurally unreadable file (unopenable, no header, missing required
// columns) fails the whole run. Malformed rows are skipped and reported in
// the result.
func ReadAll(ctx context.Context, dir string) (Result, error) {
	files, err := discoverCSVFiles(dir)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNoInputFiles, dir)
	}

	results := make([]fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			fr, err := parseFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	out := Result{Files: files}
	for _, fr := range results {
		out.Records = append(out.Records, fr.records...)
		out.Rejects = append(out.Rejects, fr.rejects...)
	}
	return out, nil
}

// discoverCSVFiles lists *.csv entries in dir, case-insensitive on the
// extension, sorted by name for deterministic batch order.
func discoverCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read intake directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// parseFile reads one CSV file. The header row is required; data rows that
// fail to parse are recorded as rejects and skipped.
func parseFile(ctx context.Context, path string) (fileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fileResult{}, fmt.Errorf("read CSV header from %s: %w", path, err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return fileResult{}, fmt.Errorf("%w %q in %s", errMissingHeader, col, path)
		}
	}

	name := filepath.Base(path)
	var fr fileResult
	line := 1 // header
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			fr.rejects = append(fr.rejects, RowError{File: name, Line: line, Reason: err.Error()})
			continue
		}

		rec, reason := parseRow(row, colIndex)
		if reason != "" {
			fr.rejects = append(fr.rejects, RowError{File: name, Line: line, Reason: reason})
			slog.WarnContext(ctx, "Skipping invalid donation row",
				"file", name, "line", line, "reason", reason)
			continue
		}
		fr.records = append(fr.records, rec)
	}

	return fr, nil
}

// parseRow converts one CSV row into a DonationRecord. The returned reason
// is empty on success.
func parseRow(row []string, colIndex map[string]int) (core.DonationRecord, string) {
	get := func(col string) string {
		if idx, ok := colIndex[col]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	idStr := get("donorid")
	if idStr == "" {
		return core.DonationRecord{}, "missing donor id"
	}
	donorID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || donorID <= 0 {
		return core.DonationRecord{}, fmt.Sprintf("invalid donor id %q", idStr)
	}

	donorName := get("name")
	if donorName == "" {
		return core.DonationRecord{}, "missing donor name"
	}

	cents, err := core.ParseAmountToCents(get("amount"))
	if err != nil {
		return core.DonationRecord{}, fmt.Sprintf("invalid amount %q", get("amount"))
	}

	date, err := core.ParseDate(get("date"))
	if err != nil {
		return core.DonationRecord{}, fmt.Sprintf("invalid date %q", get("date"))
	}

	return core.DonationRecord{
		DonorID: donorID,
		Name:    donorName,
		Amount:  core.Money{Cents: cents},
		Date:    date,
	}, ""
}
