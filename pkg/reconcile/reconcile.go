// Package reconcile decides what must happen remotely for every extracted
// record and media file.
package reconcile

import (
	"fmt"
	"slices"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// Plan is the outcome of classifying the records of the changed documents.
// Every record lands in exactly one of Add, Update or Delete.
type Plan struct {
	Add    []*core.Record
	Update []*core.Record
	Delete []*core.Record
	Groups []string // every target group referenced, sorted
}

// Classify resolves record states against the identifiers present remotely.
//
//   - marked for deletion: deleted, whether or not the remote still knows it
//   - unknown and present remotely: existing, updated
//   - unknown and absent remotely: new again; its stale marker is replaced
//     once the record is re-created
//   - new: added
func Classify(records []*core.Record, remote map[int64]struct{}) Plan {
	var plan Plan
	groups := make(map[string]struct{})

	for _, r := range records {
		groups[r.Group] = struct{}{}

		switch r.State {
		case core.StateMarkedForDeletion:
			plan.Delete = append(plan.Delete, r)
		case core.StateUnknown:
			if _, ok := remote[r.ID]; ok {
				r.State = core.StateExisting
				plan.Update = append(plan.Update, r)
				continue
			}
			r.ID = 0
			r.State = core.StateNew
			plan.Add = append(plan.Add, r)
		case core.StateExisting:
			plan.Update = append(plan.Update, r)
		default:
			r.State = core.StateNew
			plan.Add = append(plan.Add, r)
		}
	}

	for g := range groups {
		if g != "" {
			plan.Groups = append(plan.Groups, g)
		}
	}
	slices.Sort(plan.Groups)
	return plan
}

// Payloads converts records to store payloads, preserving order.
func Payloads(records []*core.Record) []core.NotePayload {
	out := make([]core.NotePayload, len(records))
	for i, r := range records {
		out[i] = r.Payload()
	}
	return out
}

// IDs returns the identifiers of records, preserving order.
func IDs(records []*core.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// GroupChanges returns the target group of every record.
func GroupChanges(records []*core.Record) []core.GroupChange {
	out := make([]core.GroupChange, len(records))
	for i, r := range records {
		out[i] = core.GroupChange{ID: r.ID, Group: r.Group}
	}
	return out
}

// Documents returns the distinct documents owning records, in first-seen order.
func Documents(records []*core.Record) []*core.Document {
	var docs []*core.Document
	seen := make(map[*core.Document]struct{})
	for _, r := range records {
		if r.Doc == nil {
			continue
		}
		if _, ok := seen[r.Doc]; ok {
			continue
		}
		seen[r.Doc] = struct{}{}
		docs = append(docs, r.Doc)
	}
	return docs
}

// Added applies the positional result of a batched add. A nil identifier
// means the store refused the record as a duplicate: it keeps its state and
// is reported. Other records get their identifier and are queued for
// write-back into their document. It returns the number of records created.
func Added(records []*core.Record, ids []*int64, report *core.Report) (int, error) {
	if len(ids) != len(records) {
		return 0, fmt.Errorf("%w: add returned %d results for %d records", core.ErrRemote, len(ids), len(records))
	}
	added := 0
	for i, r := range records {
		if ids[i] == nil {
			report.AddDuplicate(r)
			continue
		}
		r.Assign(*ids[i])
		if r.Doc != nil {
			r.Doc.AddPending(r)
		}
		added++
	}
	return added, nil
}

// MarkDeleted moves deleted records to their final state and flags their
// documents for marker erasure.
func MarkDeleted(records []*core.Record) {
	for _, r := range records {
		r.State = core.StateDeleted
		if r.Doc != nil {
			r.Doc.Erase = true
		}
	}
}
