// Package mimeheader indexes, validates and reformats header fields read by
// mimeparse.
package mimeheader

import (
	"strings"

	"github.com/emurenMRz/mimeview/internal/mimeparse"
)

type keyFieldSet struct {
	index int    // field-index of the first occurrence
	name  string // original field-name
}

// Field is one unfolded header field.
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered header with case-insensitive lookup. Lookups return the
// first occurrence of a field.
type Fields struct {
	keys   map[string]keyFieldSet // keys[lowercased field-name]
	fields []Field                // Preserve header field order
	raw    []string
}

// NewFields indexes unfolded fields as returned by mimeparse.ReadHeader. Lines
// without a colon are skipped.
func NewFields(raw []string) Fields {
	keys := map[string]keyFieldSet{}
	var fields []Field
	for _, line := range raw {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if _, exists := keys[key]; !exists {
			keys[key] = keyFieldSet{index: len(fields), name: name}
		}
		fields = append(fields, Field{Name: name, Value: strings.TrimSpace(value)})
	}
	return Fields{keys: keys, fields: fields, raw: raw}
}

// Parse reads the header at the start of text. A text without a header gives
// empty Fields.
func Parse(text string) Fields {
	raw, err := mimeparse.ReadHeader(mimeparse.NewCursor(text))
	if err != nil {
		return NewFields(nil)
	}
	return NewFields(raw)
}

// Get returns the value of the first field named key.
func (h Fields) Get(key string) (string, bool) {
	keySet, exists := h.keys[strings.ToLower(key)]
	if !exists {
		return "", false
	}
	return h.fields[keySet.index].Value, true
}

// Has returns whether a field named key is present.
func (h Fields) Has(key string) bool {
	_, exists := h.keys[strings.ToLower(key)]
	return exists
}

// Values returns the values of all fields named key, in order.
func (h Fields) Values(key string) []string {
	var l []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, key) {
			l = append(l, f.Value)
		}
	}
	return l
}

// Name returns the spelling of the first field named key as it appears in the
// header.
func (h Fields) Name(key string) string {
	if keySet, exists := h.keys[strings.ToLower(key)]; exists {
		return keySet.name
	}
	return key
}

// All returns the fields in header order.
func (h Fields) All() []Field {
	return h.fields
}

// Raw returns the unfolded field lines the index was built from.
func (h Fields) Raw() []string {
	return h.raw
}

func (h Fields) Len() int {
	return len(h.fields)
}
