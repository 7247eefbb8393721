package core

import "fmt"

// Variant is the closed set of record kinds vaultdeck can build.
type Variant int

const (
	Basic Variant = iota
	BasicReversed
	TypeAnswer
	Cloze
)

type variantInfo struct {
	key    string
	model  string
	fields []string
}

var variantTable = map[Variant]variantInfo{
	Basic:         {key: "basic", model: "Basic", fields: []string{"Front", "Back"}},
	BasicReversed: {key: "basic_reversed", model: "Basic (and reversed card)", fields: []string{"Front", "Back"}},
	TypeAnswer:    {key: "type_answer", model: "Basic (type in the answer)", fields: []string{"Front", "Back"}},
	Cloze:         {key: "cloze", model: "Cloze", fields: []string{"Text"}},
}

// Variants lists every variant in configuration order.
func Variants() []Variant {
	return []Variant{Basic, BasicReversed, TypeAnswer, Cloze}
}

// ParseVariant resolves a configuration key such as "basic_reversed".
func ParseVariant(key string) (Variant, error) {
	for v, info := range variantTable {
		if info.key == key {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown record variant %q", key)
}

func (v Variant) String() string {
	return variantTable[v].key
}

// ModelName is the remote note type name.
func (v Variant) ModelName() string {
	return variantTable[v].model
}

// FieldNames returns the remote field names, in capture-group order.
func (v Variant) FieldNames() []string {
	names := variantTable[v].fields
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// FieldCount is the number of capture groups a template must provide.
func (v Variant) FieldCount() int {
	return len(variantTable[v].fields)
}
