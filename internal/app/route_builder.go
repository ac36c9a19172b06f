package app

import (
	"encoding/xml"
	"strings"

	"gazette/internal/domain/content"
	"gazette/internal/domain/site"
	"gazette/internal/geo"
	"gazette/internal/index"
	"gazette/internal/permalink"
)

// RouteBuilder enumerates every public page of the site.
type RouteBuilder struct {
	Index *index.Store
}

func (rb *RouteBuilder) BuildPostRoutes(posts []content.Post) []site.Route {
	routes := make([]site.Route, 0, len(posts))
	for _, p := range posts {
		routes = append(routes, site.Route{
			Kind: site.RoutePost,
			ID:   p.ID,
			Slug: permalink.Slugify(p.Title),
			Path: permalink.Generate(p.ID, p.Title),
		})
	}
	return routes
}

func (rb *RouteBuilder) BuildMapRoutes() []site.Route {
	countries := geo.Countries()
	routes := make([]site.Route, 0, len(countries)+1)
	routes = append(routes, site.Route{Kind: site.RouteMaps, Path: "/maps"})
	for _, c := range countries {
		routes = append(routes, site.Route{Kind: site.RouteMap, Key: c.Code, Path: "/maps/" + c.Code})
	}
	return routes
}

// BuildAll lists the home page, every published post, the maps and the
// template catalog.
func (rb *RouteBuilder) BuildAll() ([]site.Route, error) {
	routes := []site.Route{{Kind: site.RouteHome, Path: "/"}}

	const size = 100
	for page := 1; ; page++ {
		posts, err := rb.Index.List(index.ListOptions{Page: page, Size: size})
		if err != nil {
			return nil, err
		}
		routes = append(routes, rb.BuildPostRoutes(posts)...)
		if len(posts) < size {
			break
		}
	}

	routes = append(routes, rb.BuildMapRoutes()...)
	routes = append(routes, site.Route{Kind: site.RouteTemplates, Path: "/templates"})
	return routes, nil
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// Sitemap encodes routes as a sitemaps.org urlset rooted at baseURL.
func Sitemap(baseURL string, routes []site.Route) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, r := range routes {
		if r.Path == "" {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: base + r.Path})
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
