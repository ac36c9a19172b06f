package render

import (
	"html/template"

	"gazette/internal/domain/config"
	"gazette/internal/domain/content"
	"gazette/internal/geo"
)

type Heading struct {
	Level int
	ID    string
	Text  string
}

// Layout is the chrome shared by every full page.
type Layout struct {
	Site   config.SiteConfig
	Theme  string
	Themes []string
	Title  string
	Path   string
	Dev    bool
}

type HomePage struct {
	Layout
	Cards []PostCard
}

type PostPage struct {
	Layout
	Post      content.Post
	Card      PostCard
	HTML      template.HTML
	TOC       []Heading
	Canonical string
	// Place links back to the post's province on its country map.
	Place     string
	PlaceHref string
}

type RedirectPage struct {
	Layout
	Target string
}

type NotFoundPage struct {
	Layout
	Callout Callout
}

type MapsPage struct {
	Layout
	Countries []geo.Country
}

type MapPage struct {
	Layout
	Country      geo.Country
	SVG          template.HTML
	Selected     string
	SelectedName string
	Help         Callout
	Clear        Button
	Content      MapContentView
}

type TemplatesPage struct {
	Layout
	Cards []PostCard
}

type MapContentState string

const (
	MapContentLoading MapContentState = "loading"
	MapContentEmpty   MapContentState = "empty"
	MapContentLoaded  MapContentState = "loaded"
)

const NoContentMessage = "No Content found for this province."

// MapContentView is the province content panel under a map.
type MapContentView struct {
	State    MapContentState
	Cards    []PostCard
	Message  string
	FetchURL string
}

// NewMapContentView builds the panel for a finished or pending load. Cards
// are embedded previews, so links and hover effects are always off.
func NewMapContentView(posts []content.Post, loading bool, fetchURL, defaultImage string) MapContentView {
	v := MapContentView{FetchURL: fetchURL}
	switch {
	case loading:
		v.State = MapContentLoading
	case len(posts) == 0:
		v.State = MapContentEmpty
		v.Message = NoContentMessage
	default:
		v.State = MapContentLoaded
		v.Cards = make([]PostCard, 0, len(posts))
		for _, p := range posts {
			v.Cards = append(v.Cards, NewPostCard(p, CardOptions{
				DisableLinks:       true,
				DisableHoverEffect: true,
				DefaultImage:       defaultImage,
			}))
		}
	}
	return v
}
