package scheduler

import (
	"bytes"
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/reduce/internal/lint"
	"github.com/gnolang/reduce/internal/oracle"
	"github.com/gnolang/reduce/internal/workspace"
)

// funcNameAndPos extracts a top-level func decl's name and position, for
// test fakes that need to address lints by source location.
func funcNameAndPos(d ast.Decl) (string, token.Pos, bool) {
	fn, ok := d.(*ast.FuncDecl)
	if !ok {
		return "", token.NoPos, false
	}
	return fn.Name.Name, fn.Pos(), true
}

func writeTempFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func readTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

// substringOracle reproduces as long as a fixed substring is still present
// in the tracked file's current content; it never reports lints.
type substringOracle struct {
	path string
	must string
}

func (o *substringOracle) Reproduce(ctx context.Context, workdir string) (oracle.Result, error) {
	data, err := os.ReadFile(filepath.Join(workdir, o.path))
	if err != nil {
		return oracle.Result{}, err
	}
	if bytes.Contains(data, []byte(o.must)) {
		return oracle.Result{Verdict: oracle.Yes}, nil
	}
	return oracle.Result{Verdict: oracle.No}, nil
}

func (o *substringOracle) CollectLints(ctx context.Context, workdir string) ([]lint.Record, error) {
	return nil, nil
}

// TestStubSweepPreservesReproductionTrigger is the S1 scenario: a
// required-kept root function calls a helper whose body text the oracle's
// reproduction check depends on, alongside an unrelated helper with no
// bearing on reproduction. The scheduler must stub away the unrelated
// helper's body while leaving the root and the reproduction-relevant body
// untouched, and must never leave the workspace in a non-reproducing state.
func TestStubSweepPreservesReproductionTrigger(t *testing.T) {
	dir := t.TempDir()
	const path = "sample.go"
	writeTempFile(t, dir, path, `package sample

// ~MINIMIZE-ROOT
func root() {
	boom()
}

func boom() {
	panic("boom")
}

func other() {
	println("unrelated work")
}
`)

	ws := workspace.New(dir)
	o := &substringOracle{path: path, must: `panic("boom")`}
	sched := New(zap.NewNop(), o, ws, nil)

	report, err := sched.RunToFixpoint(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	require.Equal(t, path, report.Files[0].Path)
	require.Greater(t, report.Files[0].OriginalSize, report.Files[0].FinalSize, "stubbing away other() should shrink the file")

	final := readTempFile(t, dir, path)
	require.Contains(t, final, `panic("boom")`, "reproduction-relevant body must survive")
	require.Contains(t, final, "func root()", "required-kept decl must keep its identity")
	require.NotContains(t, final, "unrelated work", "harmless body should have been stubbed away")

	// the final state must still reproduce.
	res, err := o.Reproduce(context.Background(), dir)
	require.NoError(t, err)
	require.True(t, res.Reproduces())
}

// unexportedDeadCodeOracle always reproduces and reports every unexported,
// non-root top-level func as dead code at its declared position - modeling
// an analyzer that only flags unexported symbols as dead, so visibility
// narrowing is a precondition for the dead-item-deletion pass to ever see
// a candidate for an originally-exported helper (S2).
type unexportedDeadCodeOracle struct {
	oracle.NoVerifyOracle
	path string
}

func (o *unexportedDeadCodeOracle) CollectLints(ctx context.Context, workdir string) ([]lint.Record, error) {
	data, err := os.ReadFile(filepath.Join(workdir, o.path))
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, o.path, data, 0)
	if err != nil {
		return nil, err
	}

	var records []lint.Record
	for _, d := range f.Decls {
		name, pos, ok := funcNameAndPos(d)
		if !ok || name == "" {
			continue
		}
		if name == "root" || name == "main" {
			continue
		}
		if unicode.IsUpper(rune(name[0])) {
			continue // this fake only "sees" unexported symbols
		}
		p := fset.Position(pos)
		records = append(records, lint.Record{
			File: o.path, Line: p.Line, Column: p.Column,
			Kind: lint.KindDeadCode, Text: name + " is unused",
		})
	}
	return records, nil
}

// TestVisibilityNarrowingUnlocksDeadItemDeletion is the S2 scenario.
func TestVisibilityNarrowingUnlocksDeadItemDeletion(t *testing.T) {
	dir := t.TempDir()
	const path = "sample.go"
	writeTempFile(t, dir, path, `package sample

// ~MINIMIZE-ROOT
func Root() {
	println("entry")
}

func Helper() {
	println("dead weight")
}
`)

	ws := workspace.New(dir)
	o := &unexportedDeadCodeOracle{path: path}
	sched := New(zap.NewNop(), o, ws, nil)

	report, err := sched.RunToFixpoint(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	require.NotZero(t, report.Files[0].Deletions["dead-item-deletion"], "dead-item deletion should have been credited in the report")

	final := readTempFile(t, dir, path)
	require.Contains(t, final, "func Root()", "required-kept decl must survive, still exported")
	require.NotContains(t, strings.ToLower(final), "dead weight", "unlocked dead helper should be deleted")
}
