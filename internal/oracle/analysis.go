package oracle

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"

	"golang.org/x/tools/go/analysis"

	"github.com/gnolang/reduce/internal/lint"
)

// DirectAnalysisOracle is an in-process oracle for a single target file
// that needs no external script. It runs
// golang.org/x/tools/go/analysis passes in-process against the single
// target file, grounded on internal/types/analyzer.go
// RunAnalyzer helper (same Pass{Fset,Files,Report} wiring). It is a
// library type only: reduce run does not select it, with or without
// direct_compiler_mode.
//
// Match decides reproduction: a diagnostic satisfying Match means the
// regression is still present.
type DirectAnalysisOracle struct {
	Path      string
	Match     func(analysis.Diagnostic) bool
	Analyzers []*analysis.Analyzer
}

// NewDirectAnalysisOracle builds a DirectAnalysisOracle targeting path,
// defaulting to the two in-process analyzers this package provides.
func NewDirectAnalysisOracle(path string, match func(analysis.Diagnostic) bool) *DirectAnalysisOracle {
	return &DirectAnalysisOracle{
		Path:      path,
		Match:     match,
		Analyzers: []*analysis.Analyzer{unusedImportAnalyzer, deadFuncAnalyzer},
	}
}

func (o *DirectAnalysisOracle) parse() (*token.FileSet, *ast.File, error) {
	src, err := os.ReadFile(o.Path)
	if err != nil {
		return nil, nil, err
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, o.Path, src, parser.ParseComments)
	if err != nil {
		return nil, nil, err
	}
	return fset, f, nil
}

func (o *DirectAnalysisOracle) runAll() (*token.FileSet, []analysis.Diagnostic, error) {
	fset, f, err := o.parse()
	if err != nil {
		return nil, nil, err
	}
	var diags []analysis.Diagnostic
	for _, a := range o.Analyzers {
		pass := &analysis.Pass{
			Analyzer: a,
			Fset:     fset,
			Files:    []*ast.File{f},
			Report:   func(d analysis.Diagnostic) { diags = append(diags, d) },
		}
		if _, err := a.Run(pass); err != nil {
			return nil, nil, err
		}
	}
	return fset, diags, nil
}

// Reproduce reports reproduces=yes iff at least one diagnostic satisfies
// Match. A parse failure is an Unknown verdict, which callers treat as No.
func (o *DirectAnalysisOracle) Reproduce(ctx context.Context, workdir string) (Result, error) {
	_, diags, err := o.runAll()
	if err != nil {
		return Result{Verdict: Unknown}, nil
	}
	for _, d := range diags {
		if o.Match(d) {
			return Result{Verdict: Yes}, nil
		}
	}
	return Result{Verdict: No}, nil
}

// CollectLints runs the in-process analyzers and translates their
// diagnostics into lint.Records.
func (o *DirectAnalysisOracle) CollectLints(ctx context.Context, workdir string) ([]lint.Record, error) {
	fset, diags, err := o.runAll()
	if err != nil {
		return nil, nil // parse failure: empty candidate set, not fatal
	}
	records := make([]lint.Record, 0, len(diags))
	for _, d := range diags {
		pos := fset.Position(d.Pos)
		records = append(records, lint.Record{
			File:   pos.Filename,
			Line:   pos.Line,
			Column: pos.Column,
			Name:   d.Category,
			Kind:   lintKindFor(d.Category),
			Text:   d.Message,
		})
	}
	return records, nil
}

func lintKindFor(category string) lint.Kind {
	switch category {
	case "unused-import":
		return lint.KindUnusedImport
	case "dead-func":
		return lint.KindDeadCode
	default:
		return lint.KindOther
	}
}

// unusedImportAnalyzer flags imported packages with no reference anywhere
// in the file, mirroring go vet's "imported and not used" diagnostic.
var unusedImportAnalyzer = &analysis.Analyzer{
	Name: "unusedimport",
	Doc:  "reports imports with no reference in the file",
	Run:  runUnusedImport,
}

func runUnusedImport(pass *analysis.Pass) (interface{}, error) {
	for _, f := range pass.Files {
		used := make(map[string]bool)
		ast.Inspect(f, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if ident, ok := sel.X.(*ast.Ident); ok {
				used[ident.Name] = true
			}
			return true
		})
		for _, imp := range f.Imports {
			name := importedName(imp)
			if name == "_" || name == "." {
				continue
			}
			if !used[name] {
				pass.Report(analysis.Diagnostic{
					Pos:      imp.Pos(),
					End:      imp.End(),
					Category: "unused-import",
					Message:  "imported and not used: " + imp.Path.Value,
				})
			}
		}
	}
	return nil, nil
}

func importedName(imp *ast.ImportSpec) string {
	if imp.Name != nil {
		return imp.Name.Name
	}
	path := imp.Path.Value
	if len(path) >= 2 {
		path = path[1 : len(path)-1]
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// deadFuncAnalyzer flags top-level unexported functions that are never
// called within the file, re-expressed as an analysis.Analyzer so it
// composes with the rest of this package's oracle plumbing.
var deadFuncAnalyzer = &analysis.Analyzer{
	Name: "deadfunc",
	Doc:  "reports unexported top-level functions never called in the file",
	Run:  runDeadFunc,
}

func runDeadFunc(pass *analysis.Pass) (interface{}, error) {
	for _, f := range pass.Files {
		declared := make(map[string]*ast.FuncDecl)
		called := make(map[string]bool)
		ast.Inspect(f, func(n ast.Node) bool {
			switch x := n.(type) {
			case *ast.FuncDecl:
				if x.Recv == nil {
					declared[x.Name.Name] = x
				}
			case *ast.CallExpr:
				if ident, ok := x.Fun.(*ast.Ident); ok {
					called[ident.Name] = true
				}
			}
			return true
		})
		for name, decl := range declared {
			if name == "main" || name == "init" || ast.IsExported(name) || called[name] {
				continue
			}
			pass.Report(analysis.Diagnostic{
				Pos:      decl.Pos(),
				End:      decl.End(),
				Category: "dead-func",
				Message:  "function " + name + " is declared but not used",
			})
		}
	}
	return nil, nil
}
