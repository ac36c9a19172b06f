package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMapsCommandListsCountries(t *testing.T) {
	out, err := execute(t, "maps")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 9)
	require.Contains(t, lines[4], "Andorra")
}

func TestMapsCommandListsRegions(t *testing.T) {
	out, err := execute(t, "maps", "ad")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	require.True(t, strings.HasPrefix(lines[1], "2 "))

	_, err = execute(t, "maps", "zz")
	require.ErrorContains(t, err, `unknown country "zz"`)
}

func TestReindexCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.md"), []byte("---\nid: \"1\"\ntitle: One\n---\nbody\n"), 0o644))

	cfgPath := filepath.Join(dir, "site.yaml")
	cfgYAML := "content:\n  source_dir: " + src + "\n  index_path: " + filepath.Join(dir, "index.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	out, err := execute(t, "reindex", "--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, "indexed 1 posts")
	require.Contains(t, out, "description is empty")
}
