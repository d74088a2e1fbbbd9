package pass

import (
	"github.com/gnolang/reduce/internal/lint"
	"github.com/gnolang/reduce/internal/markers"
	"github.com/gnolang/reduce/internal/tree"
)

// DeadItemDeletion consumes the LintIndex's dead-code records; for each
// flagged item, it deletes the entire item subtree. Its candidate set has
// one member per flagged item (pass 4).
type DeadItemDeletion struct{}

func (*DeadItemDeletion) Name() string        { return "dead-item-deletion" }
func (*DeadItemDeletion) ConsumesLints() bool { return true }

func (*DeadItemDeletion) Enumerate(t *tree.Tree, kept *markers.Index, lints *lint.Index) tree.CandidateSet {
	var ids []tree.CandidateID
	keptIDs := make(map[tree.CandidateID]bool)
	for _, rec := range lints.For(t.Path, lint.KindDeadCode) {
		site, ok := locateDecl(t, rec)
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

func (*DeadItemDeletion) Apply(t *tree.Tree, subset tree.CandidateSet) (*tree.Tree, error) {
	ids := make(map[tree.CandidateID]bool, len(subset))
	for id, status := range subset {
		if status == tree.StatusActive {
			ids[id] = true
		}
	}
	return tree.DeleteDecls(t, ids)
}
