// Package workspace is the on-disk snapshot component with transactional
// semantics: checkpoint, commit, rollback. Every write goes
// through an atomic write-to-temp-then-rename, and rollback restores every
// tracked file from a snapshot in one shot - no partial rollback.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// ErrCorrupt is returned when a filesystem error occurs during commit or
// rollback. The workspace is presumed corrupt at that point; 
// treats this as fatal.
var ErrCorrupt = errors.New("workspace: filesystem error, workspace may be corrupt")

// Anchor names a snapshot taken by Snapshot. It is opaque to callers.
type Anchor uuid.UUID

func (a Anchor) String() string { return uuid.UUID(a).String() }

// Workspace manages files under a root directory and provides
// checkpoint/commit/rollback around them. The files a snapshot covers are
// named on each Snapshot call.
type Workspace struct {
	root    string
	mu      sync.Mutex
	history map[Anchor]map[string][]byte // anchor -> relative path -> snapshotted bytes
	order   []Anchor                     // oldest first, for Commit's history trim
}

// New creates a Workspace rooted at root with an empty snapshot history.
func New(root string) *Workspace {
	return &Workspace{
		root:    root,
		history: make(map[Anchor]map[string][]byte),
	}
}

// Snapshot records the current on-disk contents of each root-relative path
// in paths and returns an opaque anchor referring to that moment.
func (w *Workspace) Snapshot(paths []string) (Anchor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := make(map[string][]byte, len(paths))
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(w.root, rel))
		if err != nil {
			return Anchor{}, fmt.Errorf("%w: snapshot %s: %v", ErrCorrupt, rel, err)
		}
		snap[rel] = data
	}

	id := Anchor(uuid.New())
	w.history[id] = snap
	w.order = append(w.order, id)
	return id, nil
}

// Write atomically replaces the contents of a tracked file. The oracle is
// never allowed to observe a half-written file: the new content is
// written to a temp file in the same directory, then renamed into place.
func (w *Workspace) Write(rel string, content []byte) error {
	full := filepath.Join(w.root, rel)
	dir := filepath.Dir(full)

	tmp, err := os.CreateTemp(dir, ".reduce-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", ErrCorrupt, rel, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write temp for %s: %v", ErrCorrupt, rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp for %s: %v", ErrCorrupt, rel, err)
	}
	if err := os.Rename(tmpPath, full); err != nil {
		return fmt.Errorf("%w: rename into place for %s: %v", ErrCorrupt, rel, err)
	}
	return nil
}

// Rollback restores every file snapshotted under a to its recorded
// contents. Rollback is total: every tracked file snapshotted under this
// anchor is restored, or the call fails entirely.
func (w *Workspace) Rollback(a Anchor) error {
	w.mu.Lock()
	snap, ok := w.history[a]
	w.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: unknown anchor %s", ErrCorrupt, a)
	}
	for rel, data := range snap {
		if err := w.Write(rel, data); err != nil {
			return err
		}
	}
	return nil
}

// Commit discards rollback history up to and including a, keeping only
// anchors taken after it.
func (w *Workspace) Commit(a Anchor) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := -1
	for i, id := range w.order {
		if id == a {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: unknown anchor %s", ErrCorrupt, a)
	}
	for _, id := range w.order[:idx+1] {
		delete(w.history, id)
	}
	w.order = w.order[idx+1:]
	return nil
}

// Root returns the workspace's root directory.
func (w *Workspace) Root() string { return w.root }
