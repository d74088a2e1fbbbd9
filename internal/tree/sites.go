package tree

import (
	"go/ast"
	"go/token"
)

// DeclSite is one top-level declaration, addressable for whole-item
// deletion (dead-item deletion pass).
type DeclSite struct {
	ID   CandidateID
	Decl ast.Decl
	Pos  token.Position
	End  token.Position
}

// EnumerateDecls returns every top-level declaration in t, in source
// order.
func EnumerateDecls(t *Tree) []DeclSite {
	out := make([]DeclSite, 0, len(t.File.Decls))
	for i, d := range t.File.Decls {
		out = append(out, DeclSite{
			ID:   Encode(PathStep{Kind: "Decl", Index: i}),
			Decl: d,
			Pos:  t.Fset.Position(d.Pos()),
			End:  t.Fset.Position(d.End()),
		})
	}
	return out
}

// NameSite is one identifier whose visibility (export status) could be
// narrowed: a top-level func name, or a name within a var/const/type
// GenDecl.
type NameSite struct {
	ID    CandidateID
	Ident *ast.Ident
	Pos   token.Position
}

// EnumerateExportedNames returns every exported top-level name, addressed
// relative to the declaration that introduces it.
func EnumerateExportedNames(t *Tree) []NameSite {
	var out []NameSite
	for i, d := range t.File.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			if decl.Name != nil && decl.Name.IsExported() {
				out = append(out, NameSite{
					ID:    Encode(PathStep{Kind: "Decl", Index: i}, PathStep{Kind: "Name", Index: 0}),
					Ident: decl.Name,
					Pos:   t.Fset.Position(decl.Name.Pos()),
				})
			}
		case *ast.GenDecl:
			j := 0
			for _, spec := range decl.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					if s.Name != nil && s.Name.IsExported() {
						out = append(out, NameSite{
							ID:    Encode(PathStep{Kind: "Decl", Index: i}, PathStep{Kind: "Name", Index: j}),
							Ident: s.Name,
							Pos:   t.Fset.Position(s.Name.Pos()),
						})
					}
					j++
				case *ast.ValueSpec:
					for _, name := range s.Names {
						if name.IsExported() {
							out = append(out, NameSite{
								ID:    Encode(PathStep{Kind: "Decl", Index: i}, PathStep{Kind: "Name", Index: j}),
								Ident: name,
								Pos:   t.Fset.Position(name.Pos()),
							})
						}
						j++
					}
				}
			}
		}
	}
	return out
}

// BodySite is one function-like body that body-stubbing could replace:
// a top-level func/method body, or a nested closure's body.
type BodySite struct {
	ID   CandidateID
	Body *ast.BlockStmt
	Pos  token.Position
}

// EnumerateFuncBodies returns every non-nil function-like body in t that
// isn't already stubbed. Closures nested anywhere inside a declaration are
// numbered in visitation order under that declaration's FuncLit path
// segment. Skipping already-stubbed bodies keeps body-stubbing idempotent
// across sweeps: re-offering a stubbed body as a candidate would let the
// bisection driver "accept" a no-op change every sweep and the scheduler
// would never reach a fixpoint.
func EnumerateFuncBodies(t *Tree) []BodySite {
	var out []BodySite
	for i, d := range t.File.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if ok && fn.Body != nil && !isStubBody(fn.Body) {
			out = append(out, BodySite{
				ID:   Encode(PathStep{Kind: "Decl", Index: i}, PathStep{Kind: "Body", Index: 0}),
				Body: fn.Body,
				Pos:  t.Fset.Position(fn.Body.Pos()),
			})
		}
		litIndex := 0
		ast.Inspect(d, func(n ast.Node) bool {
			lit, ok := n.(*ast.FuncLit)
			if !ok || lit.Body == nil {
				return true
			}
			if !isStubBody(lit.Body) {
				out = append(out, BodySite{
					ID: Encode(
						PathStep{Kind: "Decl", Index: i},
						PathStep{Kind: "FuncLit", Index: litIndex},
						PathStep{Kind: "Body", Index: 0},
					),
					Body: lit.Body,
					Pos:  t.Fset.Position(lit.Body.Pos()),
				})
			}
			litIndex++
			return true
		})
	}
	return out
}

// isStubBody reports whether b is already the never-returns idiom
// StubBodies installs, so a later sweep doesn't re-offer it as a
// candidate.
func isStubBody(b *ast.BlockStmt) bool {
	if len(b.List) != 1 {
		return false
	}
	loop, ok := b.List[0].(*ast.ForStmt)
	if !ok {
		return false
	}
	return loop.Init == nil && loop.Cond == nil && loop.Post == nil &&
		loop.Body != nil && len(loop.Body.List) == 0
}

// ImportSite is one import spec, addressable for unused-import deletion.
type ImportSite struct {
	ID   CandidateID
	Spec *ast.ImportSpec
	Path string
	Pos  token.Position
}

// EnumerateImports returns every import spec across every import
// declaration in t.
func EnumerateImports(t *Tree) []ImportSite {
	var out []ImportSite
	for i, d := range t.File.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.IMPORT {
			continue
		}
		for j, spec := range gd.Specs {
			is := spec.(*ast.ImportSpec)
			out = append(out, ImportSite{
				ID:   Encode(PathStep{Kind: "Decl", Index: i}, PathStep{Kind: "ImportSpec", Index: j}),
				Spec: is,
				Path: importPath(is),
				Pos:  t.Fset.Position(is.Pos()),
			})
		}
	}
	return out
}

func importPath(spec *ast.ImportSpec) string {
	if spec.Path == nil {
		return ""
	}
	v := spec.Path.Value
	if len(v) >= 2 {
		return v[1 : len(v)-1]
	}
	return v
}

// LocateCovering returns the smallest DeclSite (by line count) in pos's
// file whose first-to-last line range includes pos.Line; columns are not
// compared. It returns ok=false if no declaration spans that line (e.g. a
// lint on a blank line or a package-clause position). Used to translate a lint's span into a
// CandidateID for the dead-item deletion pass.
func LocateCovering(t *Tree, pos token.Position) (DeclSite, bool) {
	var best DeclSite
	found := false
	for _, site := range EnumerateDecls(t) {
		if site.Pos.Filename != pos.Filename {
			continue
		}
		if pos.Line < site.Pos.Line || pos.Line > site.End.Line {
			continue
		}
		if !found || declSpan(site) < declSpan(best) {
			best = site
			found = true
		}
	}
	return best, found
}

func declSpan(s DeclSite) int { return s.End.Line - s.Pos.Line }
