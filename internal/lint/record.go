// Package lint holds the diagnostic records the oracle's lint-collection
// call produces, and the parsers for the two wire formats the core
// understands.
package lint

import "go/token"

// Kind classifies a diagnostic the way the lint-driven passes need it
// classified: is this something an unused-import deletion pass should
// consume, or a dead-item deletion pass?
type Kind string

const (
	KindUnusedImport Kind = "unused-import"
	KindDeadCode     Kind = "dead-code"
	KindOther        Kind = "other"
)

// Record is one diagnostic reported by the oracle's lint-collection call,
// addressed by file and source position.
type Record struct {
	File   string
	Line   int
	Column int
	Name   string // the linter/analyzer name that produced this, e.g. "unused"
	Kind   Kind
	Text   string
}

// Position renders the record's location as a token.Position for lookups
// against a *token.FileSet-backed tree.
func (r Record) Position() token.Position {
	return token.Position{Filename: r.File, Line: r.Line, Column: r.Column}
}

// Index maps a file path to the records collected for it. It is rebuilt
// wholesale after any pass that might have created new dead code; there is
// no incremental update.
type Index struct {
	byFile map[string][]Record
}

// NewIndex builds an Index from a flat list of records.
func NewIndex(records []Record) *Index {
	idx := &Index{byFile: make(map[string][]Record)}
	for _, r := range records {
		idx.byFile[r.File] = append(idx.byFile[r.File], r)
	}
	return idx
}

// For returns the records collected for the given file, classified as kind.
func (idx *Index) For(file string, kind Kind) []Record {
	if idx == nil {
		return nil
	}
	var out []Record
	for _, r := range idx.byFile[file] {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
