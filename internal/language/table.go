package language

import (
	"fmt"
	"sort"
)

// Auto is the canonical tag for automatic source language detection.
// It is valid as a source tag only and has no reverse mapping.
const Auto = "auto"

// Pair binds a canonical tag to a provider-specific code.
type Pair struct {
	Tag  string // canonical tag, e.g. "zh-CN"
	Code string // provider code, e.g. "zh-CHS"
}

// DefaultPairs lists the languages the provider endpoint supports.
// Most codes match the canonical tag; the Chinese variants differ.
func DefaultPairs() []Pair {
	return []Pair{
		{Tag: "en", Code: "en"},
		{Tag: "zh-CN", Code: "zh-CHS"},
		{Tag: "zh-TW", Code: "zh-CHT"},
		{Tag: "ja", Code: "ja"},
		{Tag: "ko", Code: "ko"},
		{Tag: "fr", Code: "fr"},
		{Tag: "de", Code: "de"},
		{Tag: "es", Code: "es"},
		{Tag: "it", Code: "it"},
		{Tag: "pt", Code: "pt"},
		{Tag: "ru", Code: "ru"},
		{Tag: "nl", Code: "nl"},
		{Tag: "pl", Code: "pl"},
		{Tag: "ar", Code: "ar"},
		{Tag: "tr", Code: "tr"},
		{Tag: "th", Code: "th"},
		{Tag: "vi", Code: "vi"},
	}
}

// Table is an immutable bidirectional lookup between canonical tags and
// provider codes. Both directions are fixed at construction.
type Table struct {
	tagToCode map[string]string
	codeToTag map[string]string
	tags      []string
}

// NewTable builds a table from the given pairs. Duplicate tags or codes
// are rejected so that reverse lookups stay unambiguous.
func NewTable(pairs []Pair) (*Table, error) {
	t := &Table{
		tagToCode: make(map[string]string, len(pairs)+1),
		codeToTag: make(map[string]string, len(pairs)),
		tags:      make([]string, 0, len(pairs)),
	}

	for _, p := range pairs {
		if p.Tag == "" || p.Code == "" {
			return nil, fmt.Errorf("empty language pair: %+v", p)
		}
		if _, ok := t.tagToCode[p.Tag]; ok {
			return nil, fmt.Errorf("duplicate canonical tag: %s", p.Tag)
		}
		if _, ok := t.codeToTag[p.Code]; ok {
			return nil, fmt.Errorf("duplicate provider code: %s", p.Code)
		}
		t.tagToCode[p.Tag] = p.Code
		t.codeToTag[p.Code] = p.Tag
		t.tags = append(t.tags, p.Tag)
	}

	// "auto" is forward-only: the provider reports a concrete code back
	t.tagToCode[Auto] = Auto

	sort.Strings(t.tags)
	return t, nil
}

// DefaultTable builds the table for the default pair list.
func DefaultTable() *Table {
	t, err := NewTable(DefaultPairs())
	if err != nil {
		// The default list is static; a failure here is a programming error
		panic(err)
	}
	return t
}

// ProviderCode returns the provider code for a canonical tag.
func (t *Table) ProviderCode(tag string) (string, bool) {
	code, ok := t.tagToCode[tag]
	return code, ok
}

// CanonicalTag returns the canonical tag for a provider code.
func (t *Table) CanonicalTag(code string) (string, bool) {
	tag, ok := t.codeToTag[code]
	return tag, ok
}

// Supported returns the sorted canonical tags, excluding "auto".
func (t *Table) Supported() []string {
	out := make([]string, len(t.tags))
	copy(out, t.tags)
	return out
}

// IsSupported reports whether tag can be used as a source language.
func (t *Table) IsSupported(tag string) bool {
	_, ok := t.tagToCode[tag]
	return ok
}
