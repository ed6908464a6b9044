package intake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"donorledger/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadAllSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "donations.csv",
		"DonorID,Name,Amount,Date\n"+
			"1,Joe Smith,5,1/2/2026\n"+
			"2,Jane Smith,10,1/3/2026\n")

	res, err := ReadAll(context.Background(), dir)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(res.Records) != 2 || len(res.Rejects) != 0 {
		t.Fatalf("expected 2 records and no rejects, got %d/%d", len(res.Records), len(res.Rejects))
	}
	want := core.DonationRecord{
		DonorID: 1,
		Name:    "Joe Smith",
		Amount:  core.Money{Cents: 500},
		Date:    core.NewDate(2026, 1, 2),
	}
	if res.Records[0] != want {
		t.Errorf("record[0] = %+v, want %+v", res.Records[0], want)
	}
	if res.RowsRead() != 2 {
		t.Errorf("RowsRead = %d, want 2", res.RowsRead())
	}
}

func TestReadAllMultipleFilesSortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "DonorID,Name,Amount,Date\n2,Jane Smith,10,1/3/2026\n")
	writeFile(t, dir, "a.CSV", "DonorID,Name,Amount,Date\n1,Joe Smith,5,1/2/2026\n")
	writeFile(t, dir, "notes.txt", "not a csv\n")

	res, err := ReadAll(context.Background(), dir)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 files, got %v", res.Files)
	}
	// a.CSV sorts before b.csv, so its rows come first.
	if res.Records[0].DonorID != 1 || res.Records[1].DonorID != 2 {
		t.Errorf("records out of file order: %+v", res.Records)
	}
}

func TestReadAllRejectsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "donations.csv",
		"DonorID,Name,Amount,Date\n"+
			"1,Joe Smith,5,1/2/2026\n"+
			"x,Bad Donor,5,1/2/2026\n"+
			"3,No Amount,abc,1/2/2026\n"+
			"4,Negative,-2,1/2/2026\n"+
			"5,Bad Date,5,2026-01-02\n"+
			"6,Zero Is Fine,0,1/4/2026\n")

	res, err := ReadAll(context.Background(), dir)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 valid records, got %+v", res.Records)
	}
	if len(res.Rejects) != 4 {
		t.Fatalf("expected 4 rejects, got %+v", res.Rejects)
	}
	reasons := make([]string, len(res.Rejects))
	for i, rej := range res.Rejects {
		reasons[i] = rej.Reason
		if rej.File != "donations.csv" {
			t.Errorf("reject file = %q", rej.File)
		}
	}
	for _, want := range []string{`invalid donor id "x"`, `invalid amount "abc"`, `invalid amount "-2"`, `invalid date "2026-01-02"`} {
		found := false
		for _, r := range reasons {
			if r == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing reject reason %q in %v", want, reasons)
		}
	}
	if res.Rejects[0].Line != 3 {
		t.Errorf("first reject line = %d, want 3", res.Rejects[0].Line)
	}
}

func TestReadAllHeaderCaseAndOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "donations.csv",
		"date,amount,name,donorid\n"+
			"1/2/2026,5,Joe Smith,1\n")

	res, err := ReadAll(context.Background(), dir)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].DonorID != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestReadAllMissingHeaderIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "donations.csv", "DonorID,Name,Amount\n1,Joe Smith,5\n")

	_, err := ReadAll(context.Background(), dir)
	if err == nil || !strings.Contains(err.Error(), "missing required CSV header") {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestReadAllNoFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadAll(context.Background(), dir)
	if !errors.Is(err, ErrNoInputFiles) {
		t.Fatalf("expected ErrNoInputFiles, got %v", err)
	}
}

func TestReadAllMissingDirectory(t *testing.T) {
	_, err := ReadAll(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestMoveProcessed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "donations.csv", "DonorID,Name,Amount,Date\n")
	processed := filepath.Join(dir, "processed")

	if err := MoveProcessed([]string{path}, processed); err != nil {
		t.Fatalf("MoveProcessed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("source file should be gone")
	}
	if _, err := os.Stat(filepath.Join(processed, "donations.csv")); err != nil {
		t.Errorf("moved file missing: %v", err)
	}
}
