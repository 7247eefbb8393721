package fs

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// ErrEditConflict is returned when an edit overlaps a previous one or falls
// outside the text it refers to.
var ErrEditConflict = errors.New("conflicting document edit")

// Apply produces the text obtained by applying edits to original. Offsets
// refer to original; edits are applied in ascending offset order (stable for
// equal offsets) while a running delta keeps later offsets aligned. It is the
// only place where offsets are translated.
//
// Edits that cannot be applied are left out and reported through an error
// wrapping ErrEditConflict. The returned text always carries the other edits.
func Apply(original string, edits []core.Edit) (string, error) {
	if len(edits) == 0 {
		return original, nil
	}
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b core.Edit) int {
		return a.Offset - b.Offset
	})

	var (
		b       strings.Builder
		skipped []error
	)
	b.Grow(len(original) + 32*len(sorted))
	pos := 0
	for _, e := range sorted {
		if e.Offset < pos || e.Length < 0 || e.Offset+e.Length > len(original) {
			skipped = append(skipped, fmt.Errorf("%w: %q at offset %d", ErrEditConflict, e.Text, e.Offset))
			continue
		}
		b.WriteString(original[pos:e.Offset])
		b.WriteString(e.Text)
		pos = e.Offset + e.Length
	}
	b.WriteString(original[pos:])
	return b.String(), errors.Join(skipped...)
}

var erasePattern = regexp.MustCompile(`<!--ID: \d+-->` + regexp.QuoteMeta(core.DeleteToken) + `(\r?\n)?`)

// Erase removes every identifier marker immediately followed by a deletion
// marker. Lone markers are kept. The line break after a pair goes with it only
// when that cannot join two lines: the pair sits alone on its line, or it is
// followed by a blank line or the end of the text, as left by an inserted
// marker.
func Erase(text string) string {
	matches := erasePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, m := range matches {
		end := m[1]
		if m[2] >= 0 && !ownsLineBreak(text, m[0], m[1]) {
			end = m[2]
		}
		b.WriteString(text[pos:m[0]])
		pos = end
	}
	b.WriteString(text[pos:])
	return b.String()
}

// ownsLineBreak reports whether the pair at text[start:end], which ends with
// a line break, can drop that break without merging lines.
func ownsLineBreak(text string, start, end int) bool {
	if start == 0 || text[start-1] == '\n' {
		return true
	}
	rest := text[end:]
	return rest == "" || strings.HasPrefix(rest, "\n") || strings.HasPrefix(rest, "\r\n")
}

// Rewrite recomputes the content of doc from its original text, its pending
// identifier edits and its erase flag, and writes it back when it changed.
// It reports whether the file was written.
//
// Edits that conflict are skipped: the rest of the document is still written
// and the returned error wraps ErrEditConflict.
func Rewrite(doc *core.Document) (bool, error) {
	content, conflict := Apply(doc.Original, doc.Edits())
	if doc.Erase {
		content = Erase(content)
	}
	if conflict != nil {
		conflict = fmt.Errorf("%s: %w", doc.RelPath, conflict)
	}
	if content == doc.Current {
		return false, conflict
	}
	if err := WriteAtomic(doc.Path, []byte(content)); err != nil {
		return false, fmt.Errorf("failed to rewrite %s: %w", doc.RelPath, err)
	}
	doc.SetCurrent(content)
	return true, conflict
}
