package interrupt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGuardCancelsContextOnSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := NewGuard(cancel)
	g.Install()
	defer g.Release()

	require.False(t, g.Triggered())

	g.ch <- interruptSignal{}

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled after simulated signal")
	}
	require.True(t, g.Triggered())
}

// TestOracleCallStopsOnCancel models S5: a fake oracle call blocks on
// ctx.Done() the way os/exec.CommandContext's process wait would, and must
// return as soon as the Guard cancels its context.
func TestOracleCallStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := NewGuard(cancel)
	g.Install()
	defer g.Release()

	done := make(chan struct{})
	go func() {
		defer close(done)
		blockingOracleCall(ctx)
	}()

	g.ch <- interruptSignal{}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocking oracle call did not observe cancellation")
	}
}

// interruptSignal is a minimal os.Signal for tests, avoiding a dependency
// on delivering a real OS signal to the test process.
type interruptSignal struct{}

func (interruptSignal) String() string { return "interrupt" }
func (interruptSignal) Signal()        {}

func blockingOracleCall(ctx context.Context) {
	<-ctx.Done()
}
