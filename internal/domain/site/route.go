package site

import (
	"strings"
)

type RouteKind string

const (
	RouteHome       RouteKind = "home"
	RoutePost       RouteKind = "post"
	RouteRedirect   RouteKind = "redirect"
	RouteMaps       RouteKind = "maps"
	RouteMap        RouteKind = "map"
	RouteMapContent RouteKind = "map-content"
	RouteTemplates  RouteKind = "templates"
	RouteTheme      RouteKind = "theme"
	RouteSitemap    RouteKind = "sitemap"
	RouteNotFound   RouteKind = "404"
)

type Route struct {
	Kind RouteKind
	ID   string
	Slug string
	Key  string
	Path string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.ID != "" {
		parts = append(parts, "id="+r.ID)
	}
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.Path != "" {
		parts = append(parts, "path="+r.Path)
	}
	return strings.Join(parts, " ")
}
