package permalink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Breaking News!", "breaking-news"},
		{"  Hello   World  ", "hello-world"},
		{"Crème brûlée à la carte", "creme-brulee-a-la-carte"},
		{"Go 1.22 -- released_today", "go-1-22-released-today"},
		{"ALL CAPS", "all-caps"},
		{"---", Fallback},
		{"", Fallback},
		{"Zürich: Ärger über Öl", "zurich-arger-uber-ol"},
		{"新闻 速报", "新闻-速报"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	titles := []string{
		"Breaking News!",
		"Crème brûlée",
		"a--b__c..d",
		"Ångström units",
		"İstanbul'da kar",
		"!!!",
	}
	for _, title := range titles {
		once := Slugify(title)
		require.Equal(t, once, Slugify(once), "re-slugifying %q must be stable", title)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	pairs := [][2]string{
		{"42", "Breaking News!"},
		{"abc", "Crème brûlée"},
		{"7", ""},
	}
	for _, p := range pairs {
		first := Generate(p[0], p[1])
		second := Generate(p[0], p[1])
		require.Equal(t, first, second)
	}
	require.Equal(t, "/posts/42/breaking-news", Generate("42", "Breaking News!"))
	require.Equal(t, "/posts/a%2Fb/untitled", Generate("a/b", "?"))
}

func TestIsCanonical(t *testing.T) {
	require.True(t, IsCanonical("breaking-news", "Breaking News!"))
	require.False(t, IsCanonical("breaking", "Breaking News!"))
	require.True(t, IsCanonical("%E6%96%B0%E9%97%BB", "新闻"))
}
