// Package report renders the lifetime-giving table for the console.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"donorledger/internal/core"
)

// WriteTable renders entries to w in donor-id order (the caller provides
// them sorted). A limit below the entry count truncates the listing; the
// trailing total always reflects the full table.
func WriteTable(w io.Writer, tableName string, entries []core.LedgerEntry, limit int) error {
	if _, err := fmt.Fprintf(w, "Contents of %s:\n", tableName); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DonorID\tName\tLifetimeAmount\tLastDonation")

	shown := entries
	if limit > 0 && limit < len(entries) {
		shown = entries[:limit]
	}
	for _, e := range shown {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.DonorID, e.Name, e.Lifetime, e.LastDonation.ISO())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(shown) < len(entries) {
		if _, err := fmt.Fprintf(w, "... showing %d of %d\n", len(shown), len(entries)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total records: %d\n", len(entries))
	return err
}
