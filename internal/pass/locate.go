package pass

import (
	"go/token"

	"github.com/gnolang/reduce/internal/lint"
	"github.com/gnolang/reduce/internal/tree"
)

// locateImport finds the import site that starts on the record's file and
// line (column and import path are not compared). Returns ok=false if no
// import spec matches, the
// drop rule for a lint whose location no longer corresponds to any item.
func locateImport(sites []tree.ImportSite, rec lint.Record) (tree.ImportSite, bool) {
	for _, s := range sites {
		if s.Pos.Filename == rec.File && s.Pos.Line == rec.Line {
			return s, true
		}
	}
	return tree.ImportSite{}, false
}

// locateDecl finds the smallest top-level declaration covering the
// record's position, for dead-item deletion. Returns ok=false for a lint
// on whitespace or a position with no covering item.
func locateDecl(t *tree.Tree, rec lint.Record) (tree.DeclSite, bool) {
	return tree.LocateCovering(t, token.Position{Filename: rec.File, Line: rec.Line, Column: rec.Column})
}
