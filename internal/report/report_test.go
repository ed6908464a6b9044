package report

import (
	"strings"
	"testing"

	"donorledger/internal/core"
)

func sampleEntries() []core.LedgerEntry {
	return []core.LedgerEntry{
		{DonorID: 1, Name: "Joe Smith", Lifetime: core.Money{Cents: 800}, LastDonation: core.NewDate(2026, 1, 5)},
		{DonorID: 2, Name: "Jane Smith", Lifetime: core.Money{Cents: 1000}, LastDonation: core.NewDate(2026, 1, 3)},
	}
}

func TestWriteTable(t *testing.T) {
	var sb strings.Builder
	if err := WriteTable(&sb, "DonorLifetimeGiving", sampleEntries(), 20); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"Contents of DonorLifetimeGiving:",
		"DonorID",
		"Joe Smith",
		"8.00",
		"2026-01-05",
		"Jane Smith",
		"10.00",
		"Total records: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTableLimit(t *testing.T) {
	var sb strings.Builder
	if err := WriteTable(&sb, "DonorLifetimeGiving", sampleEntries(), 1); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	out := sb.String()

	if strings.Contains(out, "Jane Smith") {
		t.Error("second entry should be truncated")
	}
	if !strings.Contains(out, "showing 1 of 2") {
		t.Errorf("missing truncation note:\n%s", out)
	}
	if !strings.Contains(out, "Total records: 2") {
		t.Errorf("total should count full table:\n%s", out)
	}
}

func TestWriteTableEmpty(t *testing.T) {
	var sb strings.Builder
	if err := WriteTable(&sb, "DonorLifetimeGiving", nil, 20); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if !strings.Contains(sb.String(), "Total records: 0") {
		t.Errorf("unexpected output:\n%s", sb.String())
	}
}
