package oracle

import (
	"context"

	"github.com/gnolang/reduce/internal/lint"
)

// VerifyFn overrides exit-code semantics with a user-supplied predicate
// over the oracle's raw output, the `verify_fn` config knob.
type VerifyFn func(Result) bool

// PredicateOracle wraps another Oracle, re-deriving the verdict from fn
// instead of trusting the inner oracle's exit-code-based verdict.
type PredicateOracle struct {
	Inner Oracle
	Fn    VerifyFn
}

func (p *PredicateOracle) Reproduce(ctx context.Context, workdir string) (Result, error) {
	res, err := p.Inner.Reproduce(ctx, workdir)
	if err != nil {
		return res, err
	}
	if p.Fn(res) {
		res.Verdict = Yes
	} else {
		res.Verdict = No
	}
	return res, nil
}

func (p *PredicateOracle) CollectLints(ctx context.Context, workdir string) ([]lint.Record, error) {
	return p.Inner.CollectLints(ctx, workdir)
}
