package core

import (
	"fmt"
	"strings"
)

// RecordState is the lifecycle state of a Record.
type RecordState int

const (
	// StateNew records carry no identifier yet.
	StateNew RecordState = iota
	// StateUnknown records carry an identifier whose remote existence is unconfirmed.
	StateUnknown
	// StateExisting records are confirmed (or were just created) remotely.
	StateExisting
	// StateMarkedForDeletion records carry an identifier and a deletion marker.
	StateMarkedForDeletion
	// StateDeleted records were removed from the remote store.
	StateDeleted
)

func (s RecordState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateUnknown:
		return "unknown"
	case StateExisting:
		return "existing"
	case StateMarkedForDeletion:
		return "marked-for-deletion"
	case StateDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	// DeleteToken follows an identifier marker to request remote deletion.
	DeleteToken = "#DELETE"
	// DefaultTag is attached to every record.
	DefaultTag = "Obsidian"
)

// IDMarker renders the identifier marker embedded in source documents.
func IDMarker(id int64) string {
	return fmt.Sprintf("<!--ID: %d-->", id)
}

// Field is one named content field of a record.
type Field struct {
	Name  string
	Raw   string
	Value string // result of the field's transformation pipeline
}

// Record is one flashcard extracted from a Document.
type Record struct {
	State   RecordState
	ID      int64 // zero until known
	Variant Variant
	Group   string
	Tags    []string
	Fields  []Field
	Media   []string // referenced media file names

	Span     Span // whole match in the original text
	InsertAt int  // where a new identifier marker goes
	Marker   Span // existing identifier marker, empty when absent

	Doc *Document
}

// HasID reports whether the record carries a remote identifier.
func (r *Record) HasID() bool {
	return r.ID > 0
}

// Front returns the raw text of the first field, used when reporting.
func (r *Record) Front() string {
	if len(r.Fields) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Fields[0].Raw)
}

// Assign records the identifier returned by a successful remote add.
func (r *Record) Assign(id int64) {
	r.ID = id
	r.State = StateExisting
}

// Edit returns the text edit writing this record's identifier back to its
// document. A stale marker left by a remotely removed record is replaced in
// place instead of being kept next to the new one.
func (r *Record) Edit() Edit {
	if r.Marker.Len() > 0 {
		return Edit{Offset: r.Marker.Start, Length: r.Marker.Len(), Text: IDMarker(r.ID)}
	}
	return Edit{Offset: r.InsertAt, Text: IDMarker(r.ID) + "\n"}
}

// Payload converts the record to the structure sent to the remote store.
func (r *Record) Payload() NotePayload {
	fields := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		fields[f.Name] = f.Value
	}
	tags := make([]string, len(r.Tags))
	copy(tags, r.Tags)
	return NotePayload{
		ID:     r.ID,
		Model:  r.Variant.ModelName(),
		Group:  r.Group,
		Fields: fields,
		Tags:   tags,
	}
}

// NotePayload is the store-facing representation of a record.
type NotePayload struct {
	ID     int64
	Model  string
	Group  string
	Fields map[string]string
	Tags   []string
}

// GroupChange moves an existing remote record to a target group.
type GroupChange struct {
	ID    int64
	Group string
}
