package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanFindsGoFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.go":        "package a",
		"b.txt":       "not go",
		"nested/c.go": "package nested",
	}
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	s := New(dir, ".go")
	got, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, got, 2)

	paths := Paths(got)
	require.Contains(t, paths, "a.go")
	require.Contains(t, paths, filepath.Join("nested", "c.go"))
	require.NotContains(t, paths, "b.txt")
}

func TestScanSingleFileTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "only.go")
	require.NoError(t, os.WriteFile(target, []byte("package only"), 0o644))

	s := New(target, ".go")
	got, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "only.go", got[0].Path)
}

func TestScanWithNoExtensionFilterMatchesEverything(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.txt"), []byte("x"), 0o644))

	s := New(dir)
	got, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, got, 1)
}
