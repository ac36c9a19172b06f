package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gazette/internal/domain/config"
	"gazette/internal/domain/content"
	"gazette/internal/index"
	"gazette/internal/render"

	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Content.SourceDir = t.TempDir()
	cfg.Content.IndexPath = filepath.Join(t.TempDir(), "index.db")
	return cfg
}

func TestRunRebuildsIndex(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg.Content.SourceDir, "a.md", "---\nid: \"42\"\ntitle: Breaking News!\ndescription: d\ncountry: AF\nprovince: 14\n---\n# Hello\n")
	writePost(t, cfg.Content.SourceDir, "b.md", "---\nid: \"43\"\ntitle: Second\ndescription: d\n---\nbody\n")

	b := &Builder{Cfg: cfg}
	res, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Posts)
	require.Len(t, res.Fingerprint.Revision, 64)

	st, err := index.Open(index.OpenOptions{Path: cfg.Content.IndexPath})
	require.NoError(t, err)
	defer st.Close()

	rev, err := st.Revision()
	require.NoError(t, err)
	require.Equal(t, res.Fingerprint.Revision, rev)

	p, err := st.GetPost("42")
	require.NoError(t, err)
	require.Equal(t, 1, p.CountryID)
	require.Equal(t, 14, p.ProvinceID)
}

func TestRunIntoChangesRevisionWithContent(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg.Content.SourceDir, "a.md", "---\nid: \"1\"\ntitle: One\ndescription: d\n---\nv1\n")

	st, err := index.Open(index.OpenOptions{Path: cfg.Content.IndexPath})
	require.NoError(t, err)
	defer st.Close()

	b := &Builder{Cfg: cfg}
	first, err := b.RunInto(context.Background(), st)
	require.NoError(t, err)

	again, err := b.RunInto(context.Background(), st)
	require.NoError(t, err)
	require.Equal(t, first.Fingerprint.Revision, again.Fingerprint.Revision)

	writePost(t, cfg.Content.SourceDir, "a.md", "---\nid: \"1\"\ntitle: One\ndescription: d\n---\nv2\n")
	second, err := b.RunInto(context.Background(), st)
	require.NoError(t, err)
	require.NotEqual(t, first.Fingerprint.Revision, second.Fingerprint.Revision)
}

func TestFingerprintDependsOnConfig(t *testing.T) {
	posts := []content.Post{{ID: "1", Body: content.BodyRef{ContentHash: "abc"}}}
	a, err := Fingerprint(config.Default(), posts)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Site.Title = "Other"
	b, err := Fingerprint(cfg, posts)
	require.NoError(t, err)

	require.Equal(t, a.ContentHash, b.ContentHash)
	require.NotEqual(t, a.Revision, b.Revision)
}

func TestRenderBodySkipsFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\ntitle: x\n---\n## Section\n\ntext\n")

	res, err := RenderBody(render.NewMarkdownRenderer(), content.Post{ID: "1", Body: content.BodyRef{SourcePath: filepath.Join(dir, "a.md")}})
	require.NoError(t, err)
	require.NotContains(t, string(res.HTML), "title: x")
	require.Len(t, res.Headings, 1)

	_, err = RenderBody(render.NewMarkdownRenderer(), content.Post{ID: "2", Body: content.BodyRef{SourcePath: filepath.Join(dir, "missing.md")}})
	require.Error(t, err)
}
