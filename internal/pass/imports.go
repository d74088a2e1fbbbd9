package pass

import (
	"github.com/gnolang/reduce/internal/lint"
	"github.com/gnolang/reduce/internal/markers"
	"github.com/gnolang/reduce/internal/tree"
)

// UnusedImportDeletion consumes the LintIndex's unused-import records and
// deletes each import statement at the reported span. Its candidate set
// is exactly those spans (pass 3).
type UnusedImportDeletion struct{}

func (*UnusedImportDeletion) Name() string        { return "unused-import-deletion" }
func (*UnusedImportDeletion) ConsumesLints() bool { return true }

func (*UnusedImportDeletion) Enumerate(t *tree.Tree, kept *markers.Index, lints *lint.Index) tree.CandidateSet {
	sites := tree.EnumerateImports(t)
	var ids []tree.CandidateID
	keptIDs := make(map[tree.CandidateID]bool)
	for _, rec := range lints.For(t.Path, lint.KindUnusedImport) {
		site, ok := locateImport(sites, rec)
		if !ok {
			continue // lint didn't cover any known item: dropped
		}
		ids = append(ids, site.ID)
		if kept.RequiredKept(site.Pos) {
			keptIDs[site.ID] = true
		}
	}
	return tree.NewCandidateSet(ids, func(id tree.CandidateID) bool { return keptIDs[id] })
}

func (*UnusedImportDeletion) Apply(t *tree.Tree, subset tree.CandidateSet) (*tree.Tree, error) {
	sites := tree.EnumerateImports(t)
	ids := make(map[tree.CandidateID]bool, len(subset))
	for id, status := range subset {
		if status == tree.StatusActive {
			ids[id] = true
		}
	}
	return tree.DeleteImports(t, sites, ids)
}
