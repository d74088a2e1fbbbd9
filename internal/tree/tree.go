// Package tree is the Parser/Printer component: it converts a file between
// source text and a mutable syntax tree, and provides the item-level
// mutations (delete, stub, narrow) the passes apply. Built on go/ast,
// go/parser and go/printer, the way internal/fixer package
// round-trips source through parser.ParseFile and format.Node.
package tree

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
)

// Tree is a parsed file plus the FileSet needed to resolve its positions.
// A Tree is constructed fresh for every probe; passes never mutate one
// Tree across probes. A tree is constructed on entry to a (file, pass)
// episode and discarded when the pass finishes.
type Tree struct {
	Path string
	Fset *token.FileSet
	File *ast.File
}

// Parse converts source text into a Tree. A syntax error here is fatal for
// the file ("parse failure on input").
func Parse(path string, src []byte) (*Tree, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &Tree{Path: path, Fset: fset, File: f}, nil
}

// ParseError wraps a go/parser failure with the file it occurred in.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return "parse " + e.Path + ": " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Print renders t back to source text. It prefers go/format (which also
// normalizes formatting, matching Fixer.Fix use of
// format.Node after a transformation) and falls back to a raw
// printer.Fprint if format.Node balks at a tree that's mid-mutation -
// which still yields syntactically valid output for the parser to accept
// or reject on the next probe.
func Print(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, t.Fset, t.File); err == nil {
		return buf.Bytes(), nil
	}
	buf.Reset()
	cfg := printer.Config{Mode: printer.TabIndent | printer.UseSpaces, Tabwidth: 8}
	if err := cfg.Fprint(&buf, t.Fset, t.File); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone produces an independent copy of t by round-tripping it through
// Print and Parse. Passes rebuild a fresh tree for every candidate subset
// they try rather than mutating one tree in place, so a failed probe can
// never leave a corrupted tree for the next candidate to build on.
func Clone(t *Tree) (*Tree, error) {
	src, err := Print(t)
	if err != nil {
		return nil, err
	}
	return Parse(t.Path, src)
}

// ErrInvalidAfterTransform is returned when re-parsing a transformed tree
// fails; the bisection driver treats this identically to oracle=no.
type ErrInvalidAfterTransform struct {
	Path string
	Err  error
}

func (e *ErrInvalidAfterTransform) Error() string {
	return "invalid syntax after transform in " + e.Path + ": " + e.Err.Error()
}
func (e *ErrInvalidAfterTransform) Unwrap() error { return e.Err }

// reparse re-parses printed source after a mutation, wrapping any failure
// as ErrInvalidAfterTransform.
func reparse(path string, src []byte) (*Tree, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, &ErrInvalidAfterTransform{Path: path, Err: err}
	}
	return &Tree{Path: path, Fset: fset, File: f}, nil
}
