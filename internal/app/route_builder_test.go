package app

import (
	"path/filepath"
	"strings"
	"testing"

	"gazette/internal/domain/content"
	"gazette/internal/domain/site"
	"gazette/internal/geo"
	"gazette/internal/index"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestBuildAll(t *testing.T) {
	st, err := index.Open(index.OpenOptions{Path: filepath.Join(t.TempDir(), "index.db")})
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Rebuild([]content.Post{
		{ID: "42", Title: "Breaking News!"},
		{ID: "43", Title: "Hidden", Draft: true},
	}, index.RebuildOptions{}))

	rb := &RouteBuilder{Index: st}
	routes, err := rb.BuildAll()
	require.NoError(t, err)

	var posts []site.Route
	for _, r := range routes {
		if r.Kind == site.RoutePost {
			posts = append(posts, r)
		}
	}
	require.Len(t, posts, 1)
	require.Equal(t, "/posts/42/breaking-news", posts[0].Path)
	require.Equal(t, "breaking-news", posts[0].Slug)

	// home + post + maps index + countries + templates
	require.Len(t, routes, 1+1+1+len(geo.Countries())+1)
}

func TestSitemap(t *testing.T) {
	out, err := Sitemap("https://news.example.com/", []site.Route{
		{Kind: site.RouteHome, Path: "/"},
		{Kind: site.RoutePost, Path: "/posts/1/a"},
		{Kind: site.RouteNotFound},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "<?xml"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(out)))
	require.NoError(t, err)
	var locs []string
	doc.Find("loc").Each(func(_ int, s *goquery.Selection) { locs = append(locs, s.Text()) })
	require.Equal(t, []string{"https://news.example.com/", "https://news.example.com/posts/1/a"}, locs)
}
