// Package scheduler drives every tracked file through the fixed pass
// order to a fixpoint: visibility narrowing, body stubbing, a lint
// refresh, unused-import deletion, dead-item deletion, and a lint
// refresh if anything was deleted. Bisection within one (file, pass)
// episode is strictly sequential; independent files within one pass step
// are fanned out with an errgroup, since each file is reduced
// independently but one file's own sweep stays single-threaded.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/reduce/internal/bisect"
	"github.com/gnolang/reduce/internal/interrupt"
	"github.com/gnolang/reduce/internal/lint"
	"github.com/gnolang/reduce/internal/markers"
	"github.com/gnolang/reduce/internal/oracle"
	"github.com/gnolang/reduce/internal/pass"
	"github.com/gnolang/reduce/internal/tree"
	"github.com/gnolang/reduce/internal/workspace"
)

// ErrInterrupted is returned by RunToFixpoint when a Guard observed a
// termination signal mid-run. It is not treated as fatal: the workspace is
// left in its last-committed, reproducing state.
var ErrInterrupted = errors.New("scheduler: interrupted")

// Scheduler owns one run of the fixpoint loop over a fixed set of tracked
// files, all sharing one Workspace and one Oracle.
type Scheduler struct {
	logger *zap.Logger
	oracle oracle.Oracle
	ws     *workspace.Workspace
	guard  *interrupt.Guard
}

// New builds a Scheduler. guard may be nil, in which case RunToFixpoint
// never checks for an interrupt between probes.
func New(logger *zap.Logger, o oracle.Oracle, ws *workspace.Workspace, guard *interrupt.Guard) *Scheduler {
	return &Scheduler{logger: logger, oracle: o, ws: ws, guard: guard}
}

// fileState is the scheduler's working set entry for one tracked file.
type fileState struct {
	path         string
	tree         *tree.Tree
	originalSize int
}

// FileReport summarizes one tracked file's reduction: its size before and
// after the fixpoint loop, and how many candidates each pass accepted
// against it, keyed by pass name.
type FileReport struct {
	Path         string
	OriginalSize int
	FinalSize    int
	Deletions    map[string]int
}

// Report summarizes a complete RunToFixpoint call, one FileReport per
// successfully tracked file (files skipped for being unreadable or
// unparseable never appear here).
type Report struct {
	Files []*FileReport
}

// fileReport returns f's entry in r, creating it on first use. It is not
// safe for concurrent use: runFilePass calls it only while holding the
// scheduler's report mutex.
func (r *Report) fileReport(path string) *FileReport {
	for _, f := range r.Files {
		if f.Path == path {
			return f
		}
	}
	f := &FileReport{Path: path, Deletions: make(map[string]int)}
	r.Files = append(r.Files, f)
	return f
}

// RunToFixpoint reduces every file in paths (workspace-root-relative) to a
// fixpoint: repeated sweeps of the fixed pass order until a full sweep
// accepts nothing, The returned Report reflects the
// workspace's state as of the last committed probe, even if ctx was
// cancelled or a Guard interrupted the run partway through a sweep.
func (s *Scheduler) RunToFixpoint(ctx context.Context, paths []string) (*Report, error) {
	states := make([]*fileState, 0, len(paths))
	report := &Report{}
	var mu sync.Mutex

	for _, p := range paths {
		src, err := os.ReadFile(filepath.Join(s.ws.Root(), p))
		if err != nil {
			s.logger.Warn("skipping unreadable file", zap.String("path", p), zap.Error(err))
			continue
		}
		t, err := tree.Parse(p, src)
		if err != nil {
			s.logger.Warn("skipping file with parse error", zap.String("path", p), zap.Error(err))
			continue
		}
		states = append(states, &fileState{path: p, tree: t, originalSize: len(src)})
		fr := report.fileReport(p)
		fr.OriginalSize = len(src)
		fr.FinalSize = len(src)
	}

	for sweep := 1; ; sweep++ {
		commits, err := s.runSweep(ctx, states, report, &mu)
		if err != nil {
			return report, err
		}
		s.logger.Info("sweep complete", zap.Int("sweep", sweep), zap.Int("commits", commits))
		if commits == 0 {
			return report, nil
		}
	}
}

// runSweep runs the six fixed steps of one sweep across
// every tracked file and returns the total number of candidates accepted.
func (s *Scheduler) runSweep(ctx context.Context, states []*fileState, report *Report, mu *sync.Mutex) (int, error) {
	total := 0

	n, err := s.runStructuralStep(ctx, &pass.VisibilityNarrowing{}, states, report, mu)
	if err != nil {
		return total, err
	}
	total += n

	n, err = s.runStructuralStep(ctx, &pass.BodyStubbing{}, states, report, mu)
	if err != nil {
		return total, err
	}
	total += n

	lints, err := s.refreshLints(ctx)
	if err != nil {
		return total, err
	}

	n, err = s.runDiagnosticStep(ctx, &pass.UnusedImportDeletion{}, states, lints, report, mu)
	if err != nil {
		return total, err
	}
	total += n
	deleted := n

	n, err = s.runDiagnosticStep(ctx, &pass.DeadItemDeletion{}, states, lints, report, mu)
	if err != nil {
		return total, err
	}
	total += n
	deleted += n

	if deleted > 0 {
		// lint refresh-if-deleted: a deletion can make previously live
		// code dead. The refreshed index itself is discarded; the next
		// sweep collects lints again after its structural passes.
		if _, err := s.refreshLints(ctx); err != nil {
			return total, err
		}
	}

	return total, nil
}

// refreshLints calls the oracle's lint-collection action once for the
// whole workspace. Diagnostic-driven passes filter the result per file via
// lint.Index.For.
func (s *Scheduler) refreshLints(ctx context.Context) (*lint.Index, error) {
	records, err := s.oracle.CollectLints(ctx, s.ws.Root())
	if err != nil {
		var transportErr *oracle.TransportError
		if errors.As(err, &transportErr) {
			return nil, err
		}
		s.logger.Warn("lint collection failed, continuing with an empty index", zap.Error(err))
		return lint.NewIndex(nil), nil
	}
	return lint.NewIndex(records), nil
}

// runStructuralStep runs p (a non-lint-driven pass) across every file
// concurrently, bounded by GOMAXPROCS, and updates each file's tree with
// the result.
func (s *Scheduler) runStructuralStep(ctx context.Context, p pass.Pass, states []*fileState, report *Report, mu *sync.Mutex) (int, error) {
	return s.runStep(ctx, p, states, nil, report, mu)
}

// runDiagnosticStep runs p (a lint-driven pass) across every file
// concurrently, using the shared lint index.
func (s *Scheduler) runDiagnosticStep(ctx context.Context, p pass.Pass, states []*fileState, lints *lint.Index, report *Report, mu *sync.Mutex) (int, error) {
	return s.runStep(ctx, p, states, lints, report, mu)
}

func (s *Scheduler) runStep(ctx context.Context, p pass.Pass, states []*fileState, lints *lint.Index, report *Report, mu *sync.Mutex) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	counts := make([]int, len(states))
	for i, st := range states {
		i, st := i, st
		g.Go(func() error {
			commits, err := s.runFilePass(gctx, p, st, lints, report, mu)
			counts[i] = commits
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	return total, nil
}

// runFilePass enumerates p's candidates for one file, bisects them against
// the oracle, applies the accepted subset, and leaves st.tree pointing at
// the resulting tree (re-read from disk, so it always matches the
// workspace's last committed content exactly). report is updated under mu
// with p's accepted count and the file's new size. When bisection stops
// early on an error or an interrupt, only the file's size is updated:
// probes committed before that point stay on disk, but their count is not
// added to the report.
func (s *Scheduler) runFilePass(ctx context.Context, p pass.Pass, st *fileState, lints *lint.Index, report *Report, mu *sync.Mutex) (int, error) {
	kept := markers.Parse(st.tree.File, st.tree.Fset)

	candidates := p.Enumerate(st.tree, kept, lints)
	if len(candidates.Active()) == 0 {
		return 0, nil
	}

	probe := s.makeProbe(ctx, p, st)
	result, err := bisect.Run(candidates, probe, nil)
	if err != nil {
		if src, readErr := os.ReadFile(filepath.Join(s.ws.Root(), st.path)); readErr == nil {
			mu.Lock()
			report.fileReport(st.path).FinalSize = len(src)
			mu.Unlock()
		}
		if errors.Is(err, ErrInterrupted) {
			return 0, err
		}
		return 0, fmt.Errorf("bisect %s/%s: %w", st.path, p.Name(), err)
	}

	commits := 0
	for _, status := range result {
		if status == tree.StatusActive {
			commits++
		}
	}
	if commits == 0 {
		return 0, nil
	}

	src, err := os.ReadFile(filepath.Join(s.ws.Root(), st.path))
	if err != nil {
		return 0, fmt.Errorf("%w: re-read %s after %s: %v", workspace.ErrCorrupt, st.path, p.Name(), err)
	}
	newTree, err := tree.Parse(st.path, src)
	if err != nil {
		return 0, fmt.Errorf("re-parse %s after %s: %w", st.path, p.Name(), err)
	}
	st.tree = newTree

	mu.Lock()
	fr := report.fileReport(st.path)
	fr.Deletions[p.Name()] += commits
	fr.FinalSize = len(src)
	mu.Unlock()

	return commits, nil
}

// makeProbe builds a bisect.Probe closing over this scheduler's workspace
// and oracle: apply subset to base, write the result, ask the oracle,
// commit or roll back. Every call applies subset against the pass's
// original tree, never a previously mutated one, so probes stay
// independent of each other (owned-tree-rebuild choice).
func (s *Scheduler) makeProbe(ctx context.Context, p pass.Pass, st *fileState) bisect.Probe {
	base := st.tree
	path := st.path

	return func(subset tree.CandidateSet) (bool, error) {
		if s.guard != nil && s.guard.Triggered() {
			return false, ErrInterrupted
		}

		mutated, err := p.Apply(base, subset)
		if err != nil {
			var invalid *tree.ErrInvalidAfterTransform
			if errors.As(err, &invalid) {
				return false, nil
			}
			return false, err
		}

		printed, err := tree.Print(mutated)
		if err != nil {
			return false, err
		}

		anchor, err := s.ws.Snapshot([]string{path})
		if err != nil {
			return false, err
		}
		if err := s.ws.Write(path, printed); err != nil {
			return false, err
		}

		res, err := s.oracle.Reproduce(ctx, s.ws.Root())
		if err != nil {
			if rbErr := s.ws.Rollback(anchor); rbErr != nil {
				return false, rbErr
			}
			var transportErr *oracle.TransportError
			if errors.As(err, &transportErr) {
				return false, err
			}
			return false, nil
		}

		if res.Reproduces() {
			if err := s.ws.Commit(anchor); err != nil {
				return false, err
			}
			return true, nil
		}
		if err := s.ws.Rollback(anchor); err != nil {
			return false, err
		}
		return false, nil
	}
}
