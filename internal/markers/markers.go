// Package markers parses the test-suite markers defines:
// ~MINIMIZE-ROOT and ~REQUIRE-DELETED line comments. The resolution rule
// mirrors //nolint comment scoping: a marker attaches to the top-level
// declaration starting on the line below it (or on its own line), falling
// back to a statement starting on the line below it (or on its own line),
// falling back to the comment's own position.
package markers

import (
	"go/ast"
	"go/token"
	"strings"
)

const (
	rootPrefix    = "~MINIMIZE-ROOT"
	deletedPrefix = "~REQUIRE-DELETED"
)

// Scope is a source range a marker applies to.
type Scope struct {
	Start token.Position
	End   token.Position
}

// Index records which scopes in a file are required-kept or
// required-deleted.
type Index struct {
	rootScopes    []Scope
	deletedScopes []Scope
}

// Parse walks f's comment groups looking for ~MINIMIZE-ROOT and
// ~REQUIRE-DELETED markers and resolves each to the declaration or
// statement it annotates.
func Parse(f *ast.File, fset *token.FileSet) *Index {
	idx := &Index{}
	declLine := indexDeclsByLine(f, fset)
	stmtLine := indexStmtsByLine(f, fset)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			text = strings.TrimSpace(text)
			switch {
			case strings.HasPrefix(text, rootPrefix):
				idx.rootScopes = append(idx.rootScopes, resolveScope(c, fset, declLine, stmtLine))
			case strings.HasPrefix(text, deletedPrefix):
				idx.deletedScopes = append(idx.deletedScopes, resolveScope(c, fset, declLine, stmtLine))
			}
		}
	}
	return idx
}

func resolveScope(c *ast.Comment, fset *token.FileSet, declLine map[int]ast.Decl, stmtLine map[int]ast.Stmt) Scope {
	pos := fset.Position(c.Slash)

	if decl, ok := declLine[pos.Line+1]; ok {
		return Scope{Start: fset.Position(decl.Pos()), End: fset.Position(decl.End())}
	}
	if decl, ok := declLine[pos.Line]; ok {
		return Scope{Start: fset.Position(decl.Pos()), End: fset.Position(decl.End())}
	}
	if stmt, ok := stmtLine[pos.Line+1]; ok {
		return Scope{Start: fset.Position(stmt.Pos()), End: fset.Position(stmt.End())}
	}
	if stmt, ok := stmtLine[pos.Line]; ok {
		return Scope{Start: fset.Position(stmt.Pos()), End: fset.Position(stmt.End())}
	}
	return Scope{Start: pos, End: pos}
}

func indexDeclsByLine(f *ast.File, fset *token.FileSet) map[int]ast.Decl {
	out := make(map[int]ast.Decl, len(f.Decls))
	for _, d := range f.Decls {
		out[fset.Position(d.Pos()).Line] = d
	}
	return out
}

func indexStmtsByLine(f *ast.File, fset *token.FileSet) map[int]ast.Stmt {
	out := make(map[int]ast.Stmt)
	ast.Inspect(f, func(n ast.Node) bool {
		if stmt, ok := n.(ast.Stmt); ok {
			out[fset.Position(stmt.Pos()).Line] = stmt
		}
		return true
	})
	return out
}

// RequiredKept reports whether pos falls within any scope marked
// ~MINIMIZE-ROOT.
func (idx *Index) RequiredKept(pos token.Position) bool {
	if idx == nil {
		return false
	}
	return withinAny(pos, idx.rootScopes)
}

// RequireDeleted reports whether pos falls within any scope marked
// ~REQUIRE-DELETED. The core never consults this itself ; it
// exists for an external verification harness to query.
func (idx *Index) RequireDeleted(pos token.Position) bool {
	if idx == nil {
		return false
	}
	return withinAny(pos, idx.deletedScopes)
}

func withinAny(pos token.Position, scopes []Scope) bool {
	for _, s := range scopes {
		if pos.Filename == s.Start.Filename && pos.Line >= s.Start.Line && pos.Line <= s.End.Line {
			return true
		}
	}
	return false
}
