package tree

import (
	"fmt"
	"sort"
	"strings"
)

// PathStep is one hop of a structural path from the file root to a
// candidate site, e.g. {"Decl", 2} then {"FuncLit", 0}.
type PathStep struct {
	Kind  string
	Index int
}

// CandidateID is a stable, structural path to a site within a tree,
// encoded as a string so it can be used as a map key and sorts in
// structural (DFS preorder) order. The same ID refers to the same
// semantic site across re-parses as long as no enclosing item was
// deleted.
type CandidateID string

// Encode builds a CandidateID from a sequence of PathSteps. Indices are
// zero-padded so lexicographic string ordering matches structural
// ordering for any realistic sibling count.
func Encode(steps ...PathStep) CandidateID {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprintf("%s#%05d", s.Kind, s.Index)
	}
	return CandidateID(strings.Join(parts, "/"))
}

// Status is a CandidateSet member's transformation eligibility.
type Status int

const (
	StatusActive Status = iota
	StatusInactive
	StatusRequiredKept
)

// CandidateSet is a finite set of CandidateIDs annotated with their
// status. The required-kept members come from test markers and must
// never be transformed.
type CandidateSet map[CandidateID]Status

// NewCandidateSet builds a CandidateSet with every id marked active,
// except those present in kept which are marked required-kept instead.
func NewCandidateSet(ids []CandidateID, kept func(CandidateID) bool) CandidateSet {
	set := make(CandidateSet, len(ids))
	for _, id := range ids {
		if kept != nil && kept(id) {
			set[id] = StatusRequiredKept
		} else {
			set[id] = StatusActive
		}
	}
	return set
}

// Active returns the active (non-kept, non-inactive) candidate IDs in
// stable sorted order.
func (cs CandidateSet) Active() []CandidateID {
	out := make([]CandidateID, 0, len(cs))
	for id, status := range cs {
		if status == StatusActive {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

// Subset builds a new CandidateSet containing only the given ids, each
// marked active, except that an id which is required-kept in this set
// keeps that status. Required-kept members not among ids are left out.
func (cs CandidateSet) Subset(ids []CandidateID) CandidateSet {
	out := make(CandidateSet, len(ids))
	for _, id := range ids {
		if status, ok := cs[id]; ok && status == StatusRequiredKept {
			out[id] = StatusRequiredKept
			continue
		}
		out[id] = StatusActive
	}
	return out
}

func sortIDs(ids []CandidateID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
