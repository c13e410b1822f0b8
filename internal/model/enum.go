package model

import (
	"fmt"
	"strings"
)

// UnknownCodeError is returned whenever an external code or label does not map
// to a known enum value.
type UnknownCodeError struct {
	Kind  string
	Value string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}

type codeRow[E ~int16] struct {
	value E
	label string
}

// codeTable is the single source of truth for an enum. The enum's own integer
// value is its storage code and the label is the exact text the remote service uses.
type codeTable[E ~int16] struct {
	kind    string
	rows    []codeRow[E]
	byLabel map[string]E
	byValue map[E]string
}

func newCodeTable[E ~int16](kind string, rows ...codeRow[E]) codeTable[E] {
	t := codeTable[E]{
		kind:    kind,
		rows:    rows,
		byLabel: make(map[string]E, len(rows)),
		byValue: make(map[E]string, len(rows)),
	}
	for _, r := range rows {
		if _, dup := t.byValue[r.value]; dup {
			panic(fmt.Sprintf("%s: duplicate code %d", kind, r.value))
		}
		if _, dup := t.byLabel[r.label]; dup {
			panic(fmt.Sprintf("%s: duplicate label %q", kind, r.label))
		}
		t.byLabel[r.label] = r.value
		t.byValue[r.value] = r.label
	}
	return t
}

func (t codeTable[E]) fromLabel(label string) (E, error) {
	v, ok := t.byLabel[strings.TrimSpace(label)]
	if !ok {
		return 0, &UnknownCodeError{Kind: t.kind, Value: label}
	}
	return v, nil
}

func (t codeTable[E]) fromCode(code int) (E, error) {
	v := E(code)
	if int(v) != code {
		return 0, &UnknownCodeError{Kind: t.kind, Value: fmt.Sprint(code)}
	}
	if _, ok := t.byValue[v]; !ok {
		return 0, &UnknownCodeError{Kind: t.kind, Value: fmt.Sprint(code)}
	}
	return v, nil
}

func (t codeTable[E]) label(v E) string {
	label, ok := t.byValue[v]
	if !ok {
		return fmt.Sprintf("%s(%d)", t.kind, int16(v))
	}
	return label
}

func (t codeTable[E]) values() []E {
	out := make([]E, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.value
	}
	return out
}

// Lookup is one row of an enum lookup table as persisted next to the data.
type Lookup struct {
	Kind  string
	Code  int16
	Label string
}

func (t codeTable[E]) lookups() []Lookup {
	out := make([]Lookup, len(t.rows))
	for i, r := range t.rows {
		out[i] = Lookup{Kind: t.kind, Code: int16(r.value), Label: r.label}
	}
	return out
}

// AllLookups returns the rows of every enum lookup table.
func AllLookups() []Lookup {
	var out []Lookup
	out = append(out, statusTable.lookups()...)
	out = append(out, priorityTable.lookups()...)
	out = append(out, studyFormTable.lookups()...)
	out = append(out, offerTypeTable.lookups()...)
	out = append(out, regionTable.lookups()...)
	out = append(out, categoryTable.lookups()...)
	out = append(out, ownershipTable.lookups()...)
	out = append(out, degreeTable.lookups()...)
	return out
}
