// Package notes extracts flashcard records from vault documents and builds
// their remote field values.
package notes

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// suffix follows every user pattern. It captures an optional identifier
// marker and an optional deletion marker right after the record body.
const suffix = `(?P<marker><!--ID: (?P<id>\d+)-->)?(?P<delete>` + core.DeleteToken + `)?`

var reservedGroups = []string{"marker", "id", "delete"}

// Template is a user pattern bound to a record variant.
type Template struct {
	Variant core.Variant
	Source  string

	re          *regexp.Regexp
	markerIndex int
	idIndex     int
	deleteIndex int
}

// NewTemplate compiles source for variant. Patterns run in multi-line mode
// over the whole document and must expose at least one capture group per
// field of the variant.
func NewTemplate(variant core.Variant, source string) (*Template, error) {
	body, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %v", core.ErrInvalidTemplate, variant, source, err)
	}
	if n := body.NumSubexp(); n < variant.FieldCount() {
		return nil, fmt.Errorf("%w: %s %q: needs %d capture groups, has %d",
			core.ErrInvalidTemplate, variant, source, variant.FieldCount(), n)
	}
	for _, name := range body.SubexpNames() {
		if slices.Contains(reservedGroups, name) {
			return nil, fmt.Errorf("%w: %s %q: group name %q is reserved",
				core.ErrInvalidTemplate, variant, source, name)
		}
	}

	re, err := regexp.Compile("(?m)" + source + suffix)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %v", core.ErrInvalidTemplate, variant, source, err)
	}
	return &Template{
		Variant:     variant,
		Source:      source,
		re:          re,
		markerIndex: re.SubexpIndex("marker"),
		idIndex:     re.SubexpIndex("id"),
		deleteIndex: re.SubexpIndex("delete"),
	}, nil
}

// MustTemplate is like NewTemplate but panics on error. Intended for tests
// and package-level defaults.
func MustTemplate(variant core.Variant, source string) *Template {
	t, err := NewTemplate(variant, source)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) String() string {
	return t.Variant.String() + ":" + t.Source
}
