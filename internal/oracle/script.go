package oracle

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/gnolang/reduce/internal/config"
	"github.com/gnolang/reduce/internal/lint"
)

// ScriptOracle shells out to a user script or build-tool subcommand,
// grounded on internal/lints.RunGolangciLint's pattern of exec.Command +
// CombinedOutput. Exit code 0 means reproduces; nonzero or
// signal-terminated means it does not.
type ScriptOracle struct {
	cfg *config.Config
}

// NewScriptOracle builds a ScriptOracle from cfg.
func NewScriptOracle(cfg *config.Config) *ScriptOracle {
	return &ScriptOracle{cfg: cfg}
}

func (o *ScriptOracle) command(ctx context.Context, workdir, scriptPath, subcommand string) *exec.Cmd {
	var cmd *exec.Cmd
	if scriptPath != "" {
		cmd = exec.CommandContext(ctx, scriptPath, o.cfg.ExtraArgs...)
	} else {
		args := append([]string{subcommand}, o.cfg.ExtraArgs...)
		cmd = exec.CommandContext(ctx, "go", args...)
	}
	cmd.Dir = pickDir(o.cfg.ProjectDir, workdir)
	cmd.Env = append(os.Environ(), o.cfg.EnvSlice()...)
	return cmd
}

func pickDir(configured, workdir string) string {
	if configured != "" && configured != "." {
		return configured
	}
	return workdir
}

// Reproduce runs the oracle's reproduction action and maps its exit status
// to a Verdict.
func (o *ScriptOracle) Reproduce(ctx context.Context, workdir string) (Result, error) {
	cmd := o.command(ctx, workdir, o.cfg.ScriptPath, o.cfg.Subcommand)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	switch {
	case err == nil:
		res.Verdict = Yes
		res.ExitCode = 0
	case ctx.Err() != nil:
		return res, ErrTransport(ctx.Err())
	default:
		res.Verdict = No
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
		} else {
			// could not spawn or could not read output: transport failure
			return res, ErrTransport(err)
		}
	}
	return res, nil
}

// CollectLints runs the oracle's lint-collection action and parses its
// output using the wire format advertised by the first line of stdout.
// Only stdout is scanned for the header; stderr is never treated as a
// lint payload.
func (o *ScriptOracle) CollectLints(ctx context.Context, workdir string) ([]lint.Record, error) {
	cmd := o.command(ctx, workdir, o.cfg.EffectiveScriptPathLints(), o.cfg.EffectiveSubcommandLints())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ErrTransport(ctx.Err())
		}
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, ErrTransport(err)
		}
		// nonzero exit from a lint-collection call still carries useful
		// diagnostic output (e.g. golangci-lint exits nonzero when it
		// finds issues); keep parsing stdout.
	}

	format, rest, ok := sniffFirstLine(stdout.Bytes())
	if !ok {
		return nil, nil // malformed/unrecognized payload: empty candidate set, not fatal
	}
	return lint.Parse(format, bufio.NewReader(bytes.NewReader(rest))), nil
}

// sniffFirstLine reads the oracle-advertised format header from the first
// line of out and returns the remaining payload to parse.
func sniffFirstLine(out []byte) (lint.Format, []byte, bool) {
	idx := bytes.IndexByte(out, '\n')
	line := out
	rest := []byte(nil)
	if idx >= 0 {
		line = out[:idx]
		rest = out[idx+1:]
	}
	format, ok := lint.SniffFormat(string(line))
	return format, rest, ok
}

// TransportError wraps a failure to spawn the oracle or read its output,
// classified as fatal
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return "oracle transport failure: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ErrTransport wraps err as a *TransportError.
func ErrTransport(err error) error { return &TransportError{Err: err} }
