package notes

import (
	"fmt"
	"strconv"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// Options controls how records are built from a document.
type Options struct {
	// VaultName is used to build the backlink of front fields.
	VaultName string
	// Tags are attached to every record in addition to core.DefaultTag.
	Tags []string
}

// Extractor turns documents into records. It holds no mutable state and is
// safe for concurrent use across documents.
type Extractor struct {
	templates []*Template
	opts      Options
}

// NewExtractor creates an Extractor running templates in the given order.
func NewExtractor(templates []*Template, opts Options) *Extractor {
	return &Extractor{templates: templates, opts: opts}
}

// Extract finds every record of doc. Each template performs a global,
// non-overlapping search over the original text; templates do not take
// precedence over each other. Extracted records are also stored on the
// document. Non-fatal problems are returned as warnings.
func (e *Extractor) Extract(doc *core.Document) ([]*core.Record, []string) {
	var (
		records  []*core.Record
		warnings []string
	)
	for _, t := range e.templates {
		for _, m := range t.re.FindAllStringSubmatchIndex(doc.Original, -1) {
			rec, warn := e.build(doc, t, m)
			if warn != "" {
				warnings = append(warnings, warn)
				continue
			}
			records = append(records, rec)
		}
	}
	doc.Records = records
	return records, warnings
}

func (e *Extractor) build(doc *core.Document, t *Template, m []int) (*core.Record, string) {
	text := doc.Original
	group := func(i int) (int, int, bool) {
		if i < 0 || m[2*i] < 0 {
			return 0, 0, false
		}
		return m[2*i], m[2*i+1], true
	}

	rec := &core.Record{
		Variant: t.Variant,
		Group:   doc.Group,
		Tags:    e.tags(doc),
		Span:    core.Span{Start: m[0], End: m[1]},
		Doc:     doc,
	}

	idStart, idEnd, hasID := group(t.idIndex)
	_, _, hasDelete := group(t.deleteIndex)
	switch {
	case hasDelete && !hasID:
		return nil, fmt.Sprintf("%s: deletion marker without identifier at offset %d, skipped", doc.RelPath, m[0])
	case hasID:
		id, err := strconv.ParseInt(text[idStart:idEnd], 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Sprintf("%s: invalid identifier %q, skipped", doc.RelPath, text[idStart:idEnd])
		}
		rec.ID = id
		rec.State = core.StateUnknown
		if hasDelete {
			rec.State = core.StateMarkedForDeletion
		}
		if start, end, ok := group(t.markerIndex); ok {
			rec.Marker = core.Span{Start: start, End: end}
		}
	default:
		rec.State = core.StateNew
	}

	// New markers go right after the last field.
	if _, end, ok := group(t.Variant.FieldCount()); ok {
		rec.InsertAt = end
	} else if rec.Marker.Len() > 0 {
		rec.InsertAt = rec.Marker.Start
	} else {
		rec.InsertAt = m[1]
	}

	names := t.Variant.FieldNames()
	rec.Fields = make([]core.Field, len(names))
	for i, name := range names {
		raw := ""
		if start, end, ok := group(i + 1); ok {
			raw = text[start:end]
		}
		rec.Fields[i] = core.Field{Name: name, Raw: raw}
	}

	var media []string
	for _, f := range rec.Fields {
		media = append(media, MediaRefs(f.Raw)...)
	}
	rec.Media = dedup(media)
	e.transform(rec)

	return rec, ""
}

func (e *Extractor) tags(doc *core.Document) []string {
	tags := make([]string, 0, 1+len(e.opts.Tags)+len(doc.Tags))
	tags = append(tags, core.DefaultTag)
	tags = append(tags, e.opts.Tags...)
	tags = append(tags, doc.Tags...)
	return dedup(tags)
}

func (e *Extractor) transform(rec *core.Record) {
	front := FrontPipeline(e.opts.VaultName, rec.Doc.Name)
	back := BackPipeline(e.opts.VaultName)
	for i := range rec.Fields {
		p := back
		if i == 0 {
			p = front
		}
		rec.Fields[i].Value = p.Apply(rec.Fields[i].Raw)
	}
}

func dedup(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
