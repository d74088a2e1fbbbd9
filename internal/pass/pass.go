// Package pass implements the four transformation passes: visibility
// narrowing, body stubbing, unused-import deletion, and dead-item
// deletion. Each pass pairs a candidate-set enumerator with an apply step
// that rewrites a tree at a chosen subset of those candidates.
package pass

import (
	"github.com/gnolang/reduce/internal/lint"
	"github.com/gnolang/reduce/internal/markers"
	"github.com/gnolang/reduce/internal/tree"
)

// Pass pairs a candidate enumerator with an apply step: enumerate(tree) ->
// CandidateSet, apply(tree, subset) -> tree'.
type Pass interface {
	// Name identifies the pass for logging and the scheduler's fixed
	// ordering.
	Name() string

	// ConsumesLints reports whether this pass's candidate set is derived
	// from the previous oracle call's lint output rather than the tree
	// alone: the two deletion passes are diagnostic-driven.
	ConsumesLints() bool

	// Enumerate returns every candidate site this pass could apply at,
	// marking sites covered by a required-kept marker scope so the
	// bisection driver never transforms them. lints is nil for
	// syntactic passes.
	Enumerate(t *tree.Tree, kept *markers.Index, lints *lint.Index) tree.CandidateSet

	// Apply rewrites t at every StatusActive candidate in subset and
	// returns a fresh, re-parsed Tree. A parse failure on the result
	// surfaces as *tree.ErrInvalidAfterTransform.
	Apply(t *tree.Tree, subset tree.CandidateSet) (*tree.Tree, error)
}

// All returns the four passes in fixed sweep order:
// visibility narrowing, body stubbing, unused-import deletion, dead-item
// deletion.
func All() []Pass {
	return []Pass{
		&VisibilityNarrowing{},
		&BodyStubbing{},
		&UnusedImportDeletion{},
		&DeadItemDeletion{},
	}
}
