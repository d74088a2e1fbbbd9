package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnolang/reduce/internal/scheduler"
)

func TestSummaryReportsShrinkageAndPassBreakdown(t *testing.T) {
	r := &scheduler.Report{
		Files: []*scheduler.FileReport{
			{
				Path:         "sample.go",
				OriginalSize: 120,
				FinalSize:    80,
				Deletions: map[string]int{
					"body-stubbing":     1,
					"dead-item-deletion": 2,
				},
			},
		},
	}

	out := Summary(r)
	require.Contains(t, out, "sample.go")
	require.Contains(t, out, "120 -> 80 bytes (-40)")
	require.Contains(t, out, "body-stubbing")
	require.Contains(t, out, "dead-item-deletion")
}

func TestSummaryReportsUnchangedFile(t *testing.T) {
	r := &scheduler.Report{
		Files: []*scheduler.FileReport{
			{Path: "untouched.go", OriginalSize: 50, FinalSize: 50, Deletions: map[string]int{}},
		},
	}

	out := Summary(r)
	require.Contains(t, out, "untouched.go")
	require.Contains(t, out, "50 bytes, unchanged")
}

func TestTotalsComputesPercentShrinkage(t *testing.T) {
	r := &scheduler.Report{
		Files: []*scheduler.FileReport{
			{Path: "a.go", OriginalSize: 100, FinalSize: 50, Deletions: map[string]int{}},
			{Path: "b.go", OriginalSize: 100, FinalSize: 100, Deletions: map[string]int{}},
		},
	}

	out := Totals(r)
	require.Contains(t, out, "2 file(s)")
	require.Contains(t, out, "200 -> 150 bytes")
	require.Contains(t, out, "25.0% smaller")
}

func TestTotalsWithNoFiles(t *testing.T) {
	require.Equal(t, "no files reduced", Totals(&scheduler.Report{}))
}
