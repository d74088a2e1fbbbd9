package pass

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnolang/reduce/internal/lint"
	"github.com/gnolang/reduce/internal/markers"
	"github.com/gnolang/reduce/internal/tree"
)

func parseAndMark(t *testing.T, src string) (*tree.Tree, *markers.Index) {
	t.Helper()
	tr, err := tree.Parse("sample.go", []byte(src))
	require.NoError(t, err)
	return tr, markers.Parse(tr.File, tr.Fset)
}

func TestVisibilityNarrowingSkipsRequiredKept(t *testing.T) {
	src := `package sample

// ~MINIMIZE-ROOT
func Root() {}

func Other() {}
`
	tr, kept := parseAndMark(t, src)

	p := &VisibilityNarrowing{}
	set := p.Enumerate(tr, kept, nil)

	var rootKept, otherActive bool
	for _, s := range tree.EnumerateExportedNames(tr) {
		switch s.Ident.Name {
		case "Root":
			rootKept = set[s.ID] == tree.StatusRequiredKept
		case "Other":
			otherActive = set[s.ID] == tree.StatusActive
		}
	}
	require.True(t, rootKept)
	require.True(t, otherActive)

	out, err := p.Apply(tr, set)
	require.NoError(t, err)
	printed, err := tree.Print(out)
	require.NoError(t, err)
	require.Contains(t, string(printed), "func Root()")
	require.Contains(t, string(printed), "func other()")
}

func TestBodyStubbingSkipsRequiredKept(t *testing.T) {
	src := `package sample

// ~MINIMIZE-ROOT
func root() {
	panic("x")
}

func other() {
	panic("y")
}
`
	tr, kept := parseAndMark(t, src)

	p := &BodyStubbing{}
	set := p.Enumerate(tr, kept, nil)

	out, err := p.Apply(tr, set)
	require.NoError(t, err)

	for _, d := range out.File.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		switch fn.Name.Name {
		case "root":
			require.Contains(t, bodyText(out, fn), `panic("x")`)
		case "other":
			require.NotContains(t, bodyText(out, fn), `panic("y")`)
		}
	}
}

func bodyText(t *tree.Tree, fn *ast.FuncDecl) string {
	printed, err := tree.Print(t)
	if err != nil {
		return ""
	}
	start := t.Fset.Position(fn.Pos()).Offset
	end := t.Fset.Position(fn.End()).Offset
	if start < 0 || end > len(printed) || start > end {
		return string(printed)
	}
	return string(printed[start:end])
}

func TestUnusedImportDeletionUsesLintIndex(t *testing.T) {
	src := `package sample

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("x")
}
`
	tr, kept := parseAndMark(t, src)

	lints := lint.NewIndex([]lint.Record{
		{File: "sample.go", Line: 5, Column: 2, Kind: lint.KindUnusedImport, Text: `"os" imported and not used`},
	})

	p := &UnusedImportDeletion{}
	set := p.Enumerate(tr, kept, lints)
	require.Len(t, set, 1)

	out, err := p.Apply(tr, set)
	require.NoError(t, err)
	printed, err := tree.Print(out)
	require.NoError(t, err)
	require.NotContains(t, string(printed), `"os"`)
}

func TestDeadItemDeletionUsesLintIndex(t *testing.T) {
	src := `package sample

func used() {}

func dead() {}
`
	tr, kept := parseAndMark(t, src)

	deadPos := tr.Fset.Position(tr.File.Decls[1].Pos())
	lints := lint.NewIndex([]lint.Record{
		{File: "sample.go", Line: deadPos.Line, Column: deadPos.Column, Kind: lint.KindDeadCode, Text: "dead is unused"},
	})

	p := &DeadItemDeletion{}
	set := p.Enumerate(tr, kept, lints)
	require.Len(t, set, 1)

	out, err := p.Apply(tr, set)
	require.NoError(t, err)
	require.Len(t, out.File.Decls, 1)
}
