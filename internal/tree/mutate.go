package tree

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

// DeleteDecls removes every top-level declaration whose ID is in ids and
// returns a fresh, re-parsed Tree. t itself is never mutated: every
// mutate function clones it first, so two probes built from the same
// base tree never see each other's edits. Candidates that no longer
// exist in t (because an earlier acceptance already deleted their
// enclosing item) are silently ignored, matching disappearing-candidate
// rule.
func DeleteDecls(t *Tree, ids map[CandidateID]bool) (*Tree, error) {
	clone, err := Clone(t)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return clone, nil
	}
	kept := clone.File.Decls[:0:0]
	for i, d := range clone.File.Decls {
		id := Encode(PathStep{Kind: "Decl", Index: i})
		if ids[id] {
			continue
		}
		kept = append(kept, d)
	}
	clone.File.Decls = kept
	src, err := Print(clone)
	if err != nil {
		return nil, err
	}
	return reparse(clone.Path, src)
}

// neverReturnsBody is the body StubBodies installs: a body with
// equivalent never-returns semantics. An empty infinite loop type-checks
// in place of any statement list regardless of the function's return
// signature.
func neverReturnsBody() *ast.BlockStmt {
	return &ast.BlockStmt{
		List: []ast.Stmt{&ast.ForStmt{Body: &ast.BlockStmt{}}},
	}
}

// StubBodies replaces every function-like body whose ID is in ids with an
// infinite-empty body and returns a fresh, re-parsed Tree. t is cloned
// before any body is replaced.
func StubBodies(t *Tree, ids map[CandidateID]bool) (*Tree, error) {
	clone, err := Clone(t)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return clone, nil
	}
	for i, d := range clone.File.Decls {
		declID := PathStep{Kind: "Decl", Index: i}
		// collect closures before replacing any body, so they are numbered
		// exactly as EnumerateFuncBodies numbered them.
		var lits []*ast.FuncLit
		ast.Inspect(d, func(n ast.Node) bool {
			if lit, ok := n.(*ast.FuncLit); ok && lit.Body != nil {
				lits = append(lits, lit)
			}
			return true
		})
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Body != nil {
			id := Encode(declID, PathStep{Kind: "Body", Index: 0})
			if ids[id] {
				fn.Body = neverReturnsBody()
			}
		}
		for litIndex, lit := range lits {
			id := Encode(declID, PathStep{Kind: "FuncLit", Index: litIndex}, PathStep{Kind: "Body", Index: 0})
			if ids[id] {
				lit.Body = neverReturnsBody()
			}
		}
	}
	src, err := Print(clone)
	if err != nil {
		return nil, err
	}
	return reparse(clone.Path, src)
}

// NarrowNames rewrites every exported name whose ID is in ids to an
// unexported spelling, and renames matching references elsewhere in the
// file to keep it parseable. Renaming is name-based rather than
// type-checked: minimization is scoped to a single file and does not
// require semantic preservation, only the reproduction property, so an
// incorrect rename simply fails the next oracle probe and is rolled back.
func NarrowNames(t *Tree, ids map[CandidateID]bool) (*Tree, error) {
	clone, err := Clone(t)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return clone, nil
	}
	renames := make(map[string]string)
	for i, d := range clone.File.Decls {
		declID := PathStep{Kind: "Decl", Index: i}
		switch decl := d.(type) {
		case *ast.FuncDecl:
			id := Encode(declID, PathStep{Kind: "Name", Index: 0})
			if ids[id] && decl.Name.IsExported() {
				renames[decl.Name.Name] = lowerCollisionFree(decl.Name.Name, renames)
			}
		case *ast.GenDecl:
			j := 0
			for _, spec := range decl.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					id := Encode(declID, PathStep{Kind: "Name", Index: j})
					if ids[id] && s.Name.IsExported() {
						renames[s.Name.Name] = lowerCollisionFree(s.Name.Name, renames)
					}
					j++
				case *ast.ValueSpec:
					for _, name := range s.Names {
						id := Encode(declID, PathStep{Kind: "Name", Index: j})
						if ids[id] && name.IsExported() {
							renames[name.Name] = lowerCollisionFree(name.Name, renames)
						}
						j++
					}
				}
			}
		}
	}
	if len(renames) == 0 {
		return clone, nil
	}

	astutil.Apply(clone.File, nil, func(c *astutil.Cursor) bool {
		if ident, ok := c.Node().(*ast.Ident); ok {
			if to, ok := renames[ident.Name]; ok {
				ident.Name = to
			}
		}
		return true
	})

	src, err := Print(clone)
	if err != nil {
		return nil, err
	}
	return reparse(clone.Path, src)
}

func lowerCollisionFree(name string, taken map[string]string) string {
	lowered := strings.ToLower(name[:1]) + name[1:]
	candidate := lowered
	for i := 1; candidate == name || hasValue(taken, candidate); i++ {
		candidate = lowered + strings.Repeat("_", i)
	}
	return candidate
}

func hasValue(m map[string]string, v string) bool {
	for _, existing := range m {
		if existing == v {
			return true
		}
	}
	return false
}

// DeleteImports removes every import spec whose ID is in ids, using
// astutil.DeleteNamedImport with the spec's own name so aliased, blank and
// dot imports are removed as well as plain ones. sites is resolved against
// t (the name and path strings it carries are all DeleteImports needs), but
// the deletion itself runs against a clone so t is left untouched.
func DeleteImports(t *Tree, sites []ImportSite, ids map[CandidateID]bool) (*Tree, error) {
	clone, err := Clone(t)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return clone, nil
	}
	for _, site := range sites {
		if !ids[site.ID] {
			continue
		}
		name := ""
		if site.Spec != nil && site.Spec.Name != nil {
			name = site.Spec.Name.Name
		}
		astutil.DeleteNamedImport(clone.Fset, clone.File, name, site.Path)
	}
	src, err := Print(clone)
	if err != nil {
		return nil, err
	}
	return reparse(clone.Path, src)
}
