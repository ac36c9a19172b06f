// Package permalink derives the canonical URLs posts are served under.
//
// A post lives at /posts/<id>/<slug>, where the slug is derived from the
// current title. The slug is purely cosmetic: lookups go by id, and a request
// carrying a stale slug is redirected to the canonical form.
package permalink

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	PostsPrefix = "/posts/"

	// Fallback is used when a title has no letters or digits at all.
	Fallback = "untitled"
)

// Slugify maps a title to a lowercase, hyphenated, URL-safe slug.
// Diacritics are folded ("Crème brûlée" -> "creme-brulee") and every run of
// other characters collapses into a single '-'. Slugify(Slugify(s)) == Slugify(s).
func Slugify(title string) string {
	s := strings.TrimSpace(fold(title))
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out = append(out, unicode.ToLower(r))
			lastDash = false
		default:
			if !lastDash && len(out) > 0 {
				out = append(out, '-')
				lastDash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return Fallback
	}
	return string(out)
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Generate returns the canonical path for a post.
func Generate(id, title string) string {
	return PostsPrefix + url.PathEscape(id) + "/" + url.PathEscape(Slugify(title))
}

// IsCanonical reports whether slug is the one Generate would emit for title.
// slug may arrive percent-encoded.
func IsCanonical(slug, title string) bool {
	if u, err := url.PathUnescape(slug); err == nil {
		slug = u
	}
	return slug == Slugify(title)
}
