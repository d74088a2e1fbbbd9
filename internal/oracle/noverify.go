package oracle

import (
	"context"

	"github.com/gnolang/reduce/internal/lint"
)

// NoVerifyOracle suppresses the real oracle entirely: every probe is
// treated as reproduces=yes, the behavior the `no_verify` config knob
// selects. For demonstration only.
type NoVerifyOracle struct{}

func (NoVerifyOracle) Reproduce(ctx context.Context, workdir string) (Result, error) {
	return Result{Verdict: Yes}, nil
}

func (NoVerifyOracle) CollectLints(ctx context.Context, workdir string) ([]lint.Record, error) {
	return nil, nil
}
