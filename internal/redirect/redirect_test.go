package redirect

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gazette/internal/domain/content"
	domainerr "gazette/internal/domain/errors"
	"gazette/internal/permalink"

	"github.com/stretchr/testify/require"
)

type recordingNav struct {
	paths []string
}

func (n *recordingNav) Replace(path string) error {
	n.paths = append(n.paths, path)
	return nil
}

func staticSource(p *content.Post, err error) (PostSource, *int) {
	calls := 0
	return PostSourceFunc(func(ctx context.Context, id string) (*content.Post, error) {
		calls++
		return p, err
	}), &calls
}

func TestResolveNavigatesOnceToCanonicalURL(t *testing.T) {
	src, calls := staticSource(&content.Post{ID: "42", Title: "Breaking News!"}, nil)
	nav := &recordingNav{}
	f := NewFlow(src, nav)
	require.Equal(t, Loading, f.State())

	state, err := f.Resolve(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, Redirecting, state)
	require.Equal(t, []string{"/posts/42/" + permalink.Slugify("Breaking News!")}, nav.paths)
	require.Equal(t, "/posts/42/breaking-news", f.Target())

	state, err = f.Resolve(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, Redirecting, state)
	require.Len(t, nav.paths, 1)
	require.Equal(t, 1, *calls)
}

func TestResolveFetchFailure(t *testing.T) {
	src, _ := staticSource(nil, errors.New("boom"))
	nav := &recordingNav{}
	f := NewFlow(src, nav)

	state, err := f.Resolve(context.Background(), "7")
	require.Error(t, err)
	require.Equal(t, Error, state)
	require.Empty(t, nav.paths)
}

func TestResolveMissingPost(t *testing.T) {
	src, _ := staticSource(nil, nil)
	nav := &recordingNav{}
	f := NewFlow(src, nav)

	state, err := f.Resolve(context.Background(), "7")
	require.ErrorIs(t, err, domainerr.ErrNotFound)
	require.Equal(t, Error, state)
	require.Empty(t, nav.paths)
}

func TestResolveEmptyTitleStaysLoading(t *testing.T) {
	src, _ := staticSource(&content.Post{ID: "9", Title: "  "}, nil)
	nav := &recordingNav{}
	f := NewFlow(src, nav)

	state, err := f.Resolve(context.Background(), "9")
	require.NoError(t, err)
	require.Equal(t, Loading, state)
	require.Empty(t, nav.paths)
	require.NotNil(t, f.Post())
}

func TestCanonicalIsStableAfterRedirect(t *testing.T) {
	for _, title := range []string{"Breaking News!", "Crème brûlée -- recipe", "???", "Ünïcödé  2024"} {
		target := Canonical(content.Post{ID: "1", Title: title}, "")
		slug := target[len("/posts/1/"):]
		require.True(t, permalink.IsCanonical(slug, title), title)
	}
	require.Equal(t, "/posts/5/x", Canonical(content.Post{Title: "x"}, "5"))
}

func TestHTTPNavigatorRedirectsOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	nav := NewHTTPNavigator(rec)

	require.NoError(t, nav.Replace("/posts/42/breaking-news"))
	require.ErrorIs(t, nav.Replace("/posts/42/other"), ErrAlreadyNavigated)
	require.True(t, nav.Navigated())

	require.Equal(t, http.StatusPermanentRedirect, rec.Code)
	require.Equal(t, "/posts/42/breaking-news", rec.Header().Get("Location"))
}
