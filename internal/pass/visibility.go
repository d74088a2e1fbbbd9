package pass

import (
	"go/token"

	"github.com/gnolang/reduce/internal/lint"
	"github.com/gnolang/reduce/internal/markers"
	"github.com/gnolang/reduce/internal/tree"
)

// VisibilityNarrowing rewrites every maximally-public visibility marker on
// an item to crate-visible (in Go terms: exported -> unexported). It makes
// no behavior change by itself, but exposes items to the dead-code
// detection the lint-driven passes later consume (pass 1).
type VisibilityNarrowing struct{}

func (*VisibilityNarrowing) Name() string        { return "visibility-narrowing" }
func (*VisibilityNarrowing) ConsumesLints() bool { return false }

func (*VisibilityNarrowing) Enumerate(t *tree.Tree, kept *markers.Index, _ *lint.Index) tree.CandidateSet {
	sites := tree.EnumerateExportedNames(t)
	ids := make([]tree.CandidateID, len(sites))
	posByID := make(map[tree.CandidateID]token.Position, len(sites))
	for i, s := range sites {
		ids[i] = s.ID
		posByID[s.ID] = s.Pos
	}
	return tree.NewCandidateSet(ids, func(id tree.CandidateID) bool {
		return kept.RequiredKept(posByID[id])
	})
}

func (*VisibilityNarrowing) Apply(t *tree.Tree, subset tree.CandidateSet) (*tree.Tree, error) {
	ids := make(map[tree.CandidateID]bool, len(subset))
	for id, status := range subset {
		if status == tree.StatusActive {
			ids[id] = true
		}
	}
	return tree.NarrowNames(t, ids)
}
