// Package core holds the domain model of vaultdeck: documents scanned from a
// vault, the flashcard records extracted from them, the media they reference
// and the port to the remote flashcard store.
package core

// Metadata represents the flexible key-value pairs read from a document's
// frontmatter block. Keys are lower-cased.
type Metadata map[string]any

// Span is a half-open byte range [Start, End) into a document's original text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Edit replaces Length bytes at Offset with Text. Offset always refers to the
// document's original text. A zero Length is a pure insertion.
type Edit struct {
	Offset int
	Length int
	Text   string
}

// Document is one scanned Markdown file of the vault.
//
// The original content is never modified; every rewrite is derived from it so
// that record offsets stay valid for the whole run.
type Document struct {
	Path    string // absolute path, the identity of the document
	RelPath string // slash separated, relative to the vault root
	Name    string // base file name

	Original     string
	Current      string
	OriginalHash string
	CurrentHash  string

	Metadata Metadata
	Tags     []string
	Group    string

	Records []*Record
	Pending []*Record

	// Erase is set when the document holds records deleted remotely, so
	// their paired identifier and deletion markers must be removed.
	Erase bool
}

// NewDocument builds a Document from its raw content. Current content and
// hash start equal to the original ones.
func NewDocument(path, relPath, name, content string) *Document {
	h := Hash([]byte(content))
	return &Document{
		Path:         path,
		RelPath:      relPath,
		Name:         name,
		Original:     content,
		Current:      content,
		OriginalHash: h,
		CurrentHash:  h,
		Metadata:     make(Metadata),
	}
}

// SetCurrent replaces the current content and recomputes the current hash.
func (d *Document) SetCurrent(content string) {
	d.Current = content
	d.CurrentHash = Hash([]byte(content))
}

// Modified reports whether the current content differs from the original.
func (d *Document) Modified() bool {
	return d.CurrentHash != d.OriginalHash
}

// AddPending registers a record whose new identifier must be written back.
func (d *Document) AddPending(r *Record) {
	d.Pending = append(d.Pending, r)
}

// Edits returns the identifier edits for every pending record, in the order
// the records were registered.
func (d *Document) Edits() []Edit {
	edits := make([]Edit, 0, len(d.Pending))
	for _, r := range d.Pending {
		edits = append(edits, r.Edit())
	}
	return edits
}
