package markers

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) (*Index, *token.FileSet, map[string]token.Pos) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "sample.go", src, parser.ParseComments)
	require.NoError(t, err)

	idx := Parse(f, fset)

	pos := make(map[string]token.Pos)
	for _, d := range f.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		pos[fn.Name.Name] = fn.Pos()
	}
	return idx, fset, pos
}

func TestRequiredKeptHonoredOnAnnotatedDecl(t *testing.T) {
	src := `package sample

// ~MINIMIZE-ROOT
func root() {
	helper()
}

func helper() {}
`
	idx, fset, pos := parseSrc(t, src)

	require.True(t, idx.RequiredKept(fset.Position(pos["root"])))
	require.False(t, idx.RequiredKept(fset.Position(pos["helper"])))
}

func TestRequireDeletedRecordedButNotConsultedByCore(t *testing.T) {
	src := `package sample

// ~REQUIRE-DELETED
func unwanted() {}

func keep() {}
`
	idx, fset, pos := parseSrc(t, src)

	require.True(t, idx.RequireDeleted(fset.Position(pos["unwanted"])))
	require.False(t, idx.RequireDeleted(fset.Position(pos["keep"])))
	// RequiredKept must never be satisfied by a ~REQUIRE-DELETED marker.
	require.False(t, idx.RequiredKept(fset.Position(pos["unwanted"])))
}

func TestNilIndexIsSafeToQuery(t *testing.T) {
	var idx *Index
	require.False(t, idx.RequiredKept(token.Position{}))
	require.False(t, idx.RequireDeleted(token.Position{}))
}
