// Package render formats a scheduler.Report for terminal display, the way
// internal/print.go and formatter/builder.go format lint
// issues: a small table of color.New style variables, never touched by
// pass logic, only ever called from cmd/reduce.
package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/gnolang/reduce/internal/scheduler"
)

var (
	fileStyle      = color.New(color.FgCyan, color.Bold)
	passStyle      = color.New(color.FgYellow, color.Bold)
	countStyle     = color.New(color.FgRed, color.Bold)
	shrinkStyle    = color.New(color.FgGreen, color.Bold)
	unchangedStyle = color.New(color.FgBlue)
)

// Summary renders r as a human-readable summary: one block per file,
// its byte count before and after, and a per-pass breakdown of how many
// candidates each pass accepted against it.
func Summary(r *scheduler.Report) string {
	var b strings.Builder
	for _, f := range r.Files {
		b.WriteString(fileStyle.Sprint(f.Path))
		b.WriteString("\n")

		if f.FinalSize < f.OriginalSize {
			b.WriteString(shrinkStyle.Sprintf("  %d -> %d bytes (-%d)\n", f.OriginalSize, f.FinalSize, f.OriginalSize-f.FinalSize))
		} else {
			b.WriteString(unchangedStyle.Sprintf("  %d bytes, unchanged\n", f.OriginalSize))
		}

		for _, name := range passOrder(f.Deletions) {
			n := f.Deletions[name]
			if n == 0 {
				continue
			}
			b.WriteString("  ")
			b.WriteString(passStyle.Sprint(name))
			b.WriteString(": ")
			b.WriteString(countStyle.Sprintf("%d accepted\n", n))
		}
	}
	return b.String()
}

// passOrder returns the fixed sweep order's pass names that appear in
// deletions, so the summary's breakdown always reads in the same order
// the scheduler actually ran them, regardless of map iteration order.
func passOrder(deletions map[string]int) []string {
	fixed := []string{
		"visibility-narrowing",
		"body-stubbing",
		"unused-import-deletion",
		"dead-item-deletion",
	}
	out := make([]string, 0, len(fixed))
	for _, name := range fixed {
		if _, ok := deletions[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Totals renders a one-line grand total across every file in r.
func Totals(r *scheduler.Report) string {
	origin, final := 0, 0
	for _, f := range r.Files {
		origin += f.OriginalSize
		final += f.FinalSize
	}
	if origin == 0 {
		return "no files reduced"
	}
	pct := 100 * float64(origin-final) / float64(origin)
	return fmt.Sprintf("%d file(s): %d -> %d bytes (%.1f%% smaller)", len(r.Files), origin, final, pct)
}
