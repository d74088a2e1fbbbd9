package bisect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnolang/reduce/internal/tree"
)

func makeCandidates(n int) ([]tree.CandidateID, tree.CandidateSet) {
	ids := make([]tree.CandidateID, n)
	for i := 0; i < n; i++ {
		ids[i] = tree.Encode(tree.PathStep{Kind: "Decl", Index: i})
	}
	set := tree.NewCandidateSet(ids, nil)
	return ids, set
}

// probeCounter models an oracle that stops reproducing as soon as any
// item in p.required is among the candidates applied (deleted) in a
// probe's subset, and counts how many probes it takes the driver to
// converge (S3's O(log N) assertion).
type probeCounter struct {
	required map[tree.CandidateID]bool
	calls    int
}

func (p *probeCounter) probe(subset tree.CandidateSet) (bool, error) {
	p.calls++
	for id := range p.required {
		if _, applied := subset[id]; applied {
			return false, nil
		}
	}
	return true, nil
}

func TestBisectionAcceptsFullSetWhenItReproduces(t *testing.T) {
	_, set := makeCandidates(5)
	result, err := Run(set, func(tree.CandidateSet) (bool, error) { return true, nil }, nil)
	require.NoError(t, err)
	require.Len(t, result.Active(), 5)
}

func TestBisectionEmptySetSucceedsImmediately(t *testing.T) {
	empty := tree.CandidateSet{}
	result, err := Run(empty, func(tree.CandidateSet) (bool, error) {
		t.Fatal("probe should not be called for an empty candidate set")
		return false, nil
	}, nil)
	require.NoError(t, err)
	require.Empty(t, result)
}

func TestBisectionKeepsRequiredItems(t *testing.T) {
	ids, set := makeCandidates(16)
	required := map[tree.CandidateID]bool{ids[3]: true, ids[11]: true}

	pc := &probeCounter{required: required}
	result, err := Run(set, pc.probe, nil)
	require.NoError(t, err)

	// Items the oracle cannot live without survive (their deletion is
	// never accepted); everything else gets deleted.
	require.Equal(t, tree.StatusInactive, result[ids[3]])
	require.Equal(t, tree.StatusInactive, result[ids[11]])

	for i, id := range ids {
		if i == 3 || i == 11 {
			continue
		}
		require.Equal(t, tree.StatusActive, result[id], "unrequired item %d should be deleted", i)
	}

	// O(log N) probes per kept item: generously bound by a small multiple
	// of log2(16)=4 per kept item plus the initial full-set probe.
	require.Lessf(t, pc.calls, 40, "expected O(log N) probes, got %d", pc.calls)
}

func TestBisectionNeverAcceptsAFailingSubset(t *testing.T) {
	ids, set := makeCandidates(8)
	calls := 0
	probe := func(subset tree.CandidateSet) (bool, error) {
		calls++
		// only the full set reproduces; every proper subset fails.
		return len(subset.Active()) == len(ids), nil
	}
	result, err := Run(set, probe, nil)
	require.NoError(t, err)
	require.Len(t, result.Active(), len(ids))
}

func TestBisectionDropsInvalidatedCandidates(t *testing.T) {
	ids, set := makeCandidates(4)
	invalidated := ids[2]

	// reenumerate models a candidate that disappeared from the tree
	// (its enclosing item was already deleted by an earlier acceptance).
	reenumerate := func() tree.CandidateSet {
		out := tree.CandidateSet{}
		for id, status := range set {
			if id == invalidated {
				continue
			}
			out[id] = status
		}
		return out
	}

	probe := func(subset tree.CandidateSet) (bool, error) {
		_, appliedInvalidated := subset[invalidated]
		return !appliedInvalidated, nil
	}

	result, err := Run(set, probe, reenumerate)
	require.NoError(t, err)
	// Never folded into accepted or rejected, so it never gets deleted.
	require.NotEqual(t, tree.StatusActive, result[invalidated])
	for i, id := range ids {
		if id == invalidated {
			continue
		}
		require.Equal(t, tree.StatusActive, result[id], "candidate %d should be deleted", i)
	}
}

func ExampleRun() {
	ids, set := makeCandidates(3)
	probe := func(subset tree.CandidateSet) (bool, error) {
		return len(subset.Active()) == len(ids), nil
	}
	result, _ := Run(set, probe, nil)
	fmt.Println(len(result.Active()))
	// Output: 3
}
