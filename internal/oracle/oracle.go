// Package oracle adapts the external reproduction predicate 
// behind a single interface the bisection driver and scheduler consume.
package oracle

import (
	"context"

	"github.com/gnolang/reduce/internal/lint"
)

// Verdict is the three-valued oracle result. Unknown is treated as No by
// every caller.
type Verdict int

const (
	No Verdict = iota
	Yes
	Unknown
)

// Result carries the verdict plus whatever raw output the oracle produced,
// so a Config.VerifyFn predicate can inspect it.
type Result struct {
	Verdict  Verdict
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Reproduces collapses the three-valued verdict to the boolean the
// bisection driver actually needs.
func (r Result) Reproduces() bool { return r.Verdict == Yes }

// Oracle is the external collaborator: a boolean predicate over a
// workspace snapshot, plus a lint-collection call the diagnostic-driven
// passes depend on.
type Oracle interface {
	Reproduce(ctx context.Context, workdir string) (Result, error)
	CollectLints(ctx context.Context, workdir string) ([]lint.Record, error)
}
