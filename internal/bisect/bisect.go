// Package bisect implements the bisection driver: given
// a pass and its candidate set for one file, find a maximal subset whose
// application preserves the oracle, by recursive halving with rollback.
package bisect

import (
	"sort"

	"github.com/gnolang/reduce/internal/tree"
)

// Probe applies a subset of active candidates and reports whether the
// resulting state still reproduces. A probe cycle is
// snapshot -> write -> oracle -> rollback-or-commit; the driver never
// sees anything but a probe's boolean result.
type Probe func(subset tree.CandidateSet) (bool, error)

// Reenumerate recomputes the current candidate set against the tree's
// latest accepted state, used to drop candidates invalidated by an
// earlier acceptance within the same pass. When supplied, Run calls it
// before processing each queued partition rather than only at pass
// boundaries; DESIGN.md records that choice.
type Reenumerate func() tree.CandidateSet

// Run finds a maximal subset of candidates whose application (folded into
// whatever is already accepted) preserves the oracle.
//
// Algorithm: probe the full set first; if it
// reproduces, accept and return. Otherwise seed a work queue with the
// single partition holding every active candidate. Repeatedly take a
// partition, split it into halves, probe each half in combination with
// the currently-accepted set. A successful half folds into accepted; a
// failing half with more than one element is re-queued as two sub-halves.
// A failing singleton is recorded as permanently rejected. Splits are by
// midpoint of the stable CandidateID ordering; the smaller half is probed
// first.
func Run(candidates tree.CandidateSet, probe Probe, reenumerate Reenumerate) (tree.CandidateSet, error) {
	active := candidates.Active()
	if len(active) == 0 {
		return candidates, nil
	}

	ok, err := probe(candidates.Subset(active))
	if err != nil {
		return nil, err
	}
	if ok {
		return candidates, nil
	}

	accepted := make(map[tree.CandidateID]bool)
	rejected := make(map[tree.CandidateID]bool)

	queue := [][]tree.CandidateID{active}
	for len(queue) > 0 {
		partition := queue[0]
		queue = queue[1:]

		partition = dropInvalidated(partition, reenumerate)
		if len(partition) == 0 {
			continue
		}
		if len(partition) == 1 {
			id := partition[0]
			yes, err := probeWith(probe, candidates, accepted, []tree.CandidateID{id})
			if err != nil {
				return nil, err
			}
			if yes {
				accepted[id] = true
			} else {
				rejected[id] = true
			}
			continue
		}

		left, right := splitSorted(partition)
		// smaller half first (equal-size halves: left is probed first
		// by construction, a deliberate tie-break).
		halves := [][]tree.CandidateID{left, right}
		if len(right) < len(left) {
			halves[0], halves[1] = right, left
		}

		for _, half := range halves {
			yes, err := probeWith(probe, candidates, accepted, half)
			if err != nil {
				return nil, err
			}
			if yes {
				for _, id := range half {
					accepted[id] = true
				}
				continue
			}
			if len(half) > 1 {
				l, r := splitSorted(half)
				queue = append(queue, l, r)
			} else {
				rejected[half[0]] = true
			}
		}
	}

	result := make(tree.CandidateSet, len(candidates))
	for id, status := range candidates {
		if status == tree.StatusRequiredKept {
			result[id] = tree.StatusRequiredKept
			continue
		}
		if accepted[id] {
			result[id] = tree.StatusActive
		} else {
			result[id] = tree.StatusInactive
		}
	}
	return result, nil
}

// probeWith builds the subset = accepted ∪ extra and probes it.
func probeWith(probe Probe, candidates tree.CandidateSet, accepted map[tree.CandidateID]bool, extra []tree.CandidateID) (bool, error) {
	ids := make([]tree.CandidateID, 0, len(accepted)+len(extra))
	for id := range accepted {
		ids = append(ids, id)
	}
	ids = append(ids, extra...)
	return probe(candidates.Subset(ids))
}

// dropInvalidated removes candidates no longer present in a fresh
// enumeration of the tree: a candidate disappears when an enclosing
// item was deleted by an earlier acceptance within the same pass.
func dropInvalidated(partition []tree.CandidateID, reenumerate Reenumerate) []tree.CandidateID {
	if reenumerate == nil {
		return partition
	}
	current := reenumerate()
	out := partition[:0:0]
	for _, id := range partition {
		if _, ok := current[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// splitSorted splits ids (already in stable CandidateID order) at its
// midpoint.
func splitSorted(ids []tree.CandidateID) ([]tree.CandidateID, []tree.CandidateID) {
	sorted := make([]tree.CandidateID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	left := sorted[:mid]
	right := sorted[mid:]
	return left, right
}
