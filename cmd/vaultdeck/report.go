package main

import (
	"fmt"
	"io"
	"time"

	"github.com/aretw0/vaultdeck"
)

// printReport writes the human summary of a run.
func printReport(w io.Writer, r *vaultdeck.Report) {
	if r.DryRun {
		fmt.Fprintln(w, "Dry run, nothing was changed.")
	}
	if r.Changed == 0 && len(r.Warnings) == 0 {
		fmt.Fprintf(w, "Scanned %d notes, none changed since the last sync.\n", r.Scanned)
		return
	}

	fmt.Fprintf(w, "Scanned %d notes, %d changed, %d cards found.\n", r.Scanned, r.Changed, r.Extracted)
	fmt.Fprintf(w, "Added %d, updated %d, deleted %d cards; uploaded %d media files (%s).\n",
		r.Added, r.Updated, r.Deleted, r.MediaUploaded, r.Duration().Round(time.Millisecond))

	if len(r.Duplicates) > 0 {
		fmt.Fprintf(w, "\n%d duplicate cards were not added:\n", len(r.Duplicates))
		for _, d := range r.Duplicates {
			fmt.Fprintf(w, "  %s: %s\n", d.Path, d.Front)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "\n%d warnings:\n", len(r.Warnings))
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  %s\n", warn)
		}
	}
}
