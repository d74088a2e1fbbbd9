package pass

import (
	"go/token"

	"github.com/gnolang/reduce/internal/lint"
	"github.com/gnolang/reduce/internal/markers"
	"github.com/gnolang/reduce/internal/tree"
)

// BodyStubbing replaces function, method, and closure bodies with a body
// with equivalent never-returns semantics. Most bodies are noise; stubbing
// them preserves type-checking of signatures, which often preserves the
// regression, while making almost every called function appear unused to
// the later lint-driven passes (pass 2).
type BodyStubbing struct{}

func (*BodyStubbing) Name() string        { return "body-stubbing" }
func (*BodyStubbing) ConsumesLints() bool { return false }

func (*BodyStubbing) Enumerate(t *tree.Tree, kept *markers.Index, _ *lint.Index) tree.CandidateSet {
	sites := tree.EnumerateFuncBodies(t)
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

func (*BodyStubbing) Apply(t *tree.Tree, subset tree.CandidateSet) (*tree.Tree, error) {
	ids := make(map[tree.CandidateID]bool, len(subset))
	for id, status := range subset {
		if status == tree.StatusActive {
			ids[id] = true
		}
	}
	return tree.StubBodies(t, ids)
}
