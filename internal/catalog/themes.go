package catalog

import (
	"net/http"
	"time"
)

// ThemeCookie carries the reader's selected theme.
const ThemeCookie = "theme"

const DefaultTheme = "light"

type Theme struct {
	Name     string
	Activate func(w http.ResponseWriter)
}

var themeNames = [...]string{
	"light",
	"dark",
	"cupcake",
	"bumblebee",
	"emerald",
	"corporate",
	"synthwave",
	"retro",
	"cyberpunk",
	"valentine",
	"halloween",
}

// Themes returns the theme list. Each entry's Activate persists the choice in
// the reader's theme cookie.
func Themes() []Theme {
	out := make([]Theme, len(themeNames))
	for i, name := range themeNames {
		out[i] = Theme{Name: name, Activate: activator(name)}
	}
	return out
}

func LookupTheme(name string) (Theme, bool) {
	for _, th := range Themes() {
		if th.Name == name {
			return th, true
		}
	}
	return Theme{}, false
}

// ThemeFromRequest returns the theme stored in the request cookie, falling
// back to DefaultTheme for missing or unknown values.
func ThemeFromRequest(r *http.Request) string {
	c, err := r.Cookie(ThemeCookie)
	if err != nil {
		return DefaultTheme
	}
	if _, ok := LookupTheme(c.Value); !ok {
		return DefaultTheme
	}
	return c.Value
}

func activator(name string) func(http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		http.SetCookie(w, &http.Cookie{
			Name:     ThemeCookie,
			Value:    name,
			Path:     "/",
			MaxAge:   int((365 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
