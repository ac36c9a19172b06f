package index

import (
	"path/filepath"
	"testing"
	"time"

	"gazette/internal/domain/content"
	domainerr "gazette/internal/domain/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "idx", "index.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 9, 0, 0, 0, time.UTC)
}

func fixture() []content.Post {
	return []content.Post{
		{ID: "1", Title: "Kabul opens", CreatedAt: day(1), CountryID: 1, ProvinceID: 14},
		{ID: "2", Title: "Herat rains", CreatedAt: day(2), CountryID: 1, ProvinceID: 12},
		{ID: "3", Title: "Kabul traffic", CreatedAt: day(3), CountryID: 1, ProvinceID: 14, Aliases: []string{"old-3"}},
		{ID: "4", Title: "Berlin art", CreatedAt: day(4), CountryID: 6, ProvinceID: 3},
		{ID: "5", Title: "Unplaced", CreatedAt: day(5)},
		{ID: "6", Title: "Draft", CreatedAt: day(6), CountryID: 1, ProvinceID: 14, Draft: true},
		{ID: "", Title: "No id"},
	}
}

func ids(posts []content.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(OpenOptions{})
	require.Error(t, err)
}

func TestRebuildAndGet(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.Rebuild(fixture(), RebuildOptions{Revision: "rev-1"}))

	p, err := st.GetPost("3")
	require.NoError(t, err)
	require.Equal(t, "Kabul traffic", p.Title)
	require.True(t, p.CreatedAt.Equal(day(3)))

	_, err = st.GetPost("6")
	require.ErrorIs(t, err, domainerr.ErrNotFound, "drafts are excluded by default")
	_, err = st.GetPost(" ")
	require.ErrorIs(t, err, ErrNotFound)

	rev, err := st.Revision()
	require.NoError(t, err)
	require.Equal(t, "rev-1", rev)
}

func TestResolveAlias(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.Rebuild(fixture(), RebuildOptions{}))

	id, err := st.ResolveAlias("old-3")
	require.NoError(t, err)
	require.Equal(t, "3", id)

	id, err = st.ResolveAlias("2")
	require.NoError(t, err)
	require.Equal(t, "2", id)

	_, err = st.ResolveAlias("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirstWithPaging(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.Rebuild(fixture(), RebuildOptions{IncludeDraft: true}))

	all, err := st.List(ListOptions{Size: 10, IncludeDraft: true})
	require.NoError(t, err)
	require.Equal(t, []string{"6", "5", "4", "3", "2", "1"}, ids(all))

	published, err := st.List(ListOptions{Size: 2, Page: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"3", "2"}, ids(published))
}

func TestListByRegion(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.Rebuild(fixture(), RebuildOptions{IncludeDraft: true}))

	cases := []struct {
		name     string
		country  int
		province int
		want     []string
	}{
		{"province", 1, 14, []string{"3", "1"}},
		{"whole country", 1, Any, []string{"2", "3", "1"}},
		{"province anywhere", Any, 3, []string{"4"}},
		{"everything placed", Any, Any, []string{"4", "3", "2", "1"}},
		{"empty province", 1, 99, nil},
		{"unknown country", 42, Any, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := st.ListByRegion(tc.country, tc.province, ListOptions{Size: 50})
			require.NoError(t, err)
			if tc.want == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tc.want, ids(got))
		})
	}
}

func TestRebuildReplacesPreviousCorpus(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.Rebuild(fixture(), RebuildOptions{Revision: "a"}))
	require.NoError(t, st.Rebuild([]content.Post{{ID: "9", Title: "Only", CountryID: 2, ProvinceID: 1}}, RebuildOptions{Revision: "b"}))

	_, err := st.GetPost("1")
	require.ErrorIs(t, err, ErrNotFound)

	got, err := st.ListByRegion(1, Any, ListOptions{})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = st.ListByRegion(2, 1, ListOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"9"}, ids(got))
}

func TestQueriesOnEmptyStore(t *testing.T) {
	st := openStore(t)

	got, err := st.List(ListOptions{})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = st.ListByRegion(Any, Any, ListOptions{})
	require.NoError(t, err)
	require.Empty(t, got)

	rev, err := st.Revision()
	require.NoError(t, err)
	require.Empty(t, rev)
}

func TestPreEpochPostsSortLast(t *testing.T) {
	st := openStore(t)
	old := time.Date(1965, time.July, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.Rebuild([]content.Post{
		{ID: "old", Title: "Archive", CreatedAt: old, CountryID: 1, ProvinceID: 14},
		{ID: "new", Title: "Fresh", CreatedAt: day(2), CountryID: 1, ProvinceID: 14},
	}, RebuildOptions{}))

	got, err := st.List(ListOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"new", "old"}, ids(got))

	got, err = st.ListByRegion(1, 14, ListOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"new", "old"}, ids(got))
}

func TestKeyRoundTrip(t *testing.T) {
	k := makeRegionKey(14, day(1).UnixNano(), "abc")
	require.Equal(t, "abc", idFromRegionKey(k))
	require.Equal(t, "", idFromTimeIDKey([]byte{1, 2}))
}
