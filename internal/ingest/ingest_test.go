package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseFrontMatter(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("---\r\nid: \"42\"\r\ntitle: Breaking News!\r\nprovince: 14\r\n---\r\n# Hello\r\n"))
	require.NoError(t, err)
	require.Equal(t, "42", fm.ID)
	require.Equal(t, "Breaking News!", fm.Title)
	require.Equal(t, 14, fm.Province)
	require.Equal(t, "# Hello", string(body))

	_, _, err = ParseFrontMatter([]byte("# just markdown"))
	require.ErrorIs(t, err, errNoFrontMatter)

	_, _, err = ParseFrontMatter([]byte("---\ntitle: never closed\n"))
	require.ErrorIs(t, err, errInvalidFrontMatter)

	fm, body, err = ParseFrontMatter([]byte("---\ntitle: no body\n---"))
	require.NoError(t, err)
	require.Equal(t, "no body", fm.Title)
	require.Empty(t, body)
}

func TestResolveIDFallsBackToPathHash(t *testing.T) {
	require.Equal(t, "7", ResolveID(FrontMatter{ID: " 7 "}, "/src", "/src/a.md"))

	a := ResolveID(FrontMatter{}, "/src", "/src/world/a.md")
	b := ResolveID(FrontMatter{}, "/other", "/other/world/a.md")
	require.Len(t, a, 12)
	require.Equal(t, a, b, "ids depend on the path relative to the root only")
}

func TestParseTime(t *testing.T) {
	require.True(t, ParseTime("").IsZero())
	require.True(t, ParseTime("yesterday").IsZero())
	require.Equal(t, 2024, ParseTime("2024-03-01").Year())
	require.Equal(t, 15, ParseTime("2024-03-01T15:04:05Z").Hour())
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", `---
id: "1"
title: Kabul opens
description: First post
country: af
province: 14
created: 2024-03-01
tags: [World, world]
---
Body`)
	writeFile(t, dir, "b.md", `---
id: "1"
title: Duplicate id
---`)
	writeFile(t, dir, "c.md", `---
title: No id here
country: XX
---`)
	writeFile(t, dir, "d.md", `---
id: "4"
title: Bad province
description: x
country: AD
province: 1
---`)
	writeFile(t, dir, "e.md", "---\ntitle: [broken\n---\nbody")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, ".hidden/x.md", "---\nid: h\n---")

	posts, warns, err := Ingest(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	first := posts[0]
	require.Equal(t, "1", first.ID)
	require.Equal(t, "Kabul opens", first.Title)
	require.Equal(t, 1, first.CountryID)
	require.Equal(t, 14, first.ProvinceID)
	require.Equal(t, []string{"world"}, first.Tags)
	require.Equal(t, time.March, first.CreatedAt.Month())
	require.NotEmpty(t, first.Body.ContentHash)

	require.Len(t, posts[1].ID, 12)
	require.Zero(t, posts[1].CountryID)

	require.Equal(t, "4", posts[2].ID)
	require.Zero(t, posts[2].CountryID, "invalid province leaves the post unplaced")

	msgs := make(map[string][]string)
	for _, w := range warns {
		msgs[filepath.Base(w.Path)] = append(msgs[filepath.Base(w.Path)], w.Msg)
	}
	require.Contains(t, msgs["b.md"], "duplicate id, skipped: 1")
	require.Contains(t, msgs["c.md"], "unknown country XX, post left unplaced")
	require.Contains(t, msgs["d.md"], "country AD has no province 1")
	require.Len(t, msgs["e.md"], 1)
}

func TestIngestHonoursCancellation(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		writeFile(t, dir, name, "---\ntitle: x\n---")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Ingest(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIngestMissingDir(t *testing.T) {
	_, _, err := Ingest(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
