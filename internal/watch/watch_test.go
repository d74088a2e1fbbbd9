package watch

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestRelevantOnlyMatchesGoWrites(t *testing.T) {
	require.True(t, relevant(fsnotify.Event{Name: "a.go", Op: fsnotify.Write}))
	require.False(t, relevant(fsnotify.Event{Name: "a.txt", Op: fsnotify.Write}))
	require.False(t, relevant(fsnotify.Event{Name: "a.go", Op: fsnotify.Chmod}))
	require.False(t, relevant(fsnotify.Event{Name: "a.go", Op: fsnotify.Remove}))
}
