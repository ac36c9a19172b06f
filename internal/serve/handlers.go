package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gazette/internal/app"
	"gazette/internal/build"
	"gazette/internal/catalog"
	"gazette/internal/domain/content"
	domainerr "gazette/internal/domain/errors"
	"gazette/internal/geo"
	"gazette/internal/index"
	"gazette/internal/mapcontent"
	"gazette/internal/mapview"
	"gazette/internal/permalink"
	"gazette/internal/redirect"
	"gazette/internal/render"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const homePageSize = 12

func (s *Server) theme(r *http.Request) string {
	if _, err := r.Cookie(catalog.ThemeCookie); err == nil {
		return catalog.ThemeFromRequest(r)
	}
	return s.cfg.Site.Theme
}

func (s *Server) layout(r *http.Request, title string) render.Layout {
	themes := catalog.Themes()
	names := make([]string, 0, len(themes))
	for _, th := range themes {
		names = append(names, th.Name)
	}
	return render.Layout{
		Site:   s.cfg.Site,
		Theme:  s.theme(r),
		Themes: names,
		Title:  title,
		Path:   r.URL.RequestURI(),
		Dev:    s.cfg.Server.Dev,
	}
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	s.log.Error(what, zap.Error(err))
	http.Error(w, what, http.StatusInternalServerError)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	posts, err := s.idx.List(index.ListOptions{
		Page:         page,
		Size:         homePageSize,
		IncludeDraft: s.cfg.Content.IncludeDraft,
	})
	if err != nil {
		s.fail(w, "home query error", err)
		return
	}

	cards := make([]render.PostCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, render.NewPostCard(p, render.CardOptions{
			ShowFooter:   true,
			DefaultImage: s.cfg.Content.DefaultImage,
		}))
	}
	out, err := s.tpl.RenderHome(r.Context(), render.HomePage{Layout: s.layout(r, "Home"), Cards: cards})
	if err != nil {
		s.fail(w, "render home error", err)
		return
	}
	writeHTML(w, out)
}

// postSource resolves aliases before fetching, so retired ids land on the
// current post.
func (s *Server) postSource() redirect.PostSource {
	return redirect.PostSourceFunc(func(ctx context.Context, id string) (*content.Post, error) {
		cur, err := s.idx.ResolveAlias(id)
		if errors.Is(err, domainerr.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		p, err := s.idx.GetPost(cur)
		if errors.Is(err, domainerr.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
}

// postID returns the id route param with path escapes removed. chi matches
// on the raw path, so an id holding "/" arrives as "%2F".
func postID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

func (s *Server) handlePostRedirect(w http.ResponseWriter, r *http.Request) {
	s.redirectToCanonical(w, r, postID(r))
}

func (s *Server) redirectToCanonical(w http.ResponseWriter, r *http.Request, id string) {
	flow := redirect.NewFlow(s.postSource(), redirect.NewHTTPNavigator(w))
	state, err := flow.Resolve(r.Context(), id)

	switch state {
	case redirect.Redirecting:
		out, err := s.tpl.RenderRedirect(r.Context(), render.RedirectPage{
			Layout: s.layout(r, "Redirecting"),
			Target: flow.Target(),
		})
		if err != nil {
			s.log.Error("render redirect error", zap.Error(err))
			return
		}
		_, _ = w.Write(out)
	case redirect.Error:
		if !errors.Is(err, domainerr.ErrNotFound) {
			s.log.Warn("post fetch failed", zap.String("id", id), zap.Error(err))
		}
		s.handleNotFound(w, r)
	default:
		s.handleNotFound(w, r)
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id := postID(r)
	slug := chi.URLParam(r, "slug")

	p, err := s.idx.GetPost(id)
	if errors.Is(err, domainerr.ErrNotFound) {
		s.redirectToCanonical(w, r, id)
		return
	}
	if err != nil {
		s.fail(w, "post query error", err)
		return
	}
	if strings.TrimSpace(p.Title) == "" {
		s.handleNotFound(w, r)
		return
	}
	if !permalink.IsCanonical(slug, p.Title) {
		s.redirectToCanonical(w, r, id)
		return
	}

	body, err := build.RenderBody(s.md, p)
	if err != nil {
		s.fail(w, "markdown render error", err)
		return
	}
	pp := render.PostPage{
		Layout: s.layout(r, p.Title),
		Post:   p,
		Card: render.NewPostCard(p, render.CardOptions{
			ShowFooter:   true,
			DefaultImage: s.cfg.Content.DefaultImage,
		}),
		HTML:      template.HTML(body.HTML),
		TOC:       body.Headings,
		Canonical: strings.TrimRight(s.cfg.Site.SiteURL, "/") + permalink.Generate(p.ID, p.Title),
	}
	if c, ok := geo.ByID(p.CountryID); ok {
		pp.Place, pp.PlaceHref = c.Name, "/maps/"+c.Code
		if region, ok := c.Region(strconv.Itoa(p.ProvinceID)); ok {
			pp.Place = region.Name + ", " + c.Name
			pp.PlaceHref += "?province=" + url.QueryEscape(region.SecID)
		}
	}
	out, err := s.tpl.RenderPost(r.Context(), pp)
	if err != nil {
		s.fail(w, "render post error", err)
		return
	}
	writeHTML(w, out)
}

func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	out, err := s.tpl.RenderMaps(r.Context(), render.MapsPage{
		Layout:    s.layout(r, "Maps"),
		Countries: geo.Countries(),
	})
	if err != nil {
		s.fail(w, "render maps error", err)
		return
	}
	writeHTML(w, out)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	country, ok := geo.Lookup(chi.URLParam(r, "country"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	secid := strings.TrimSpace(r.URL.Query().Get("province"))
	if _, ok := country.Region(secid); !ok {
		secid = ""
	}

	widget, err := mapview.Render(country, secid)
	if err != nil {
		s.fail(w, "render map error", err)
		return
	}
	page := render.MapPage{
		Layout:   s.layout(r, country.Name),
		Country:  country,
		SVG:      template.HTML(widget.SVG),
		Selected: widget.Selected,
		Help: render.Callout{
			Title: "Browse by province",
			Body:  "<p>Select a province on the map or in the list below to see posts from there.</p>",
		},
		Clear: render.Button{
			Label: "Clear selection",
			Color: "btn-ghost",
			Class: "btn-sm",
			Attrs: []render.Attr{{Name: "type", Value: "submit"}},
		},
	}

	if widget.Selected != "" {
		region, _ := country.Region(widget.Selected)
		page.SelectedName = region.Name
		province, _ := strconv.Atoi(widget.Selected)
		fetchURL := fmt.Sprintf("/maps/%s/content?province=%s", country.Code, url.QueryEscape(widget.Selected))

		posts, ready, err := s.loader.LoadWithin(r.Context(), s.wait, s.fingerprint().Revision, country.ID, province)
		if err != nil {
			s.log.Warn("map content load failed", zap.String("country", country.Code),
				zap.Int("province", province), zap.Error(err))
			posts, ready = nil, true
		}
		page.Content = render.NewMapContentView(posts, !ready, fetchURL, s.cfg.Content.DefaultImage)
	}

	out, err := s.tpl.RenderMap(r.Context(), page)
	if err != nil {
		s.fail(w, "render map error", err)
		return
	}
	writeHTML(w, out)
}

// handleMapContent serves the province panel alone. A missing province
// lists the whole country.
func (s *Server) handleMapContent(w http.ResponseWriter, r *http.Request) {
	country, ok := geo.Lookup(chi.URLParam(r, "country"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	province := mapcontent.Any
	if raw := strings.TrimSpace(r.URL.Query().Get("province")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "bad province", http.StatusBadRequest)
			return
		}
		province = n
	}

	posts, err := s.loader.Load(r.Context(), s.fingerprint().Revision, country.ID, province)
	if err != nil {
		s.log.Warn("map content load failed", zap.String("country", country.Code),
			zap.Int("province", province), zap.Error(err))
		posts = nil
	}
	out, err := s.tpl.RenderMapContent(r.Context(), render.NewMapContentView(posts, false, "", s.cfg.Content.DefaultImage))
	if err != nil {
		s.fail(w, "render map content error", err)
		return
	}
	writeHTML(w, out)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	entries := catalog.Templates()
	cards := make([]render.PostCard, 0, len(entries))
	for _, t := range entries {
		cards = append(cards, render.NewPostCard(content.Post{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			ImageURL:    t.ImageURL,
			Link:        t.Link,
		}, render.CardOptions{DefaultImage: s.cfg.Content.DefaultImage}))
	}
	out, err := s.tpl.RenderTemplates(r.Context(), render.TemplatesPage{Layout: s.layout(r, "Templates"), Cards: cards})
	if err != nil {
		s.fail(w, "render templates error", err)
		return
	}
	writeHTML(w, out)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	th, ok := catalog.LookupTheme(chi.URLParam(r, "name"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	th.Activate(w)
	http.Redirect(w, r, localPath(r.FormValue("back")), http.StatusSeeOther)
}

// localPath keeps redirects on this site.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, `/\`) {
		return "/"
	}
	return p
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	routes, err := s.routes.BuildAll()
	if err != nil {
		s.fail(w, "sitemap query error", err)
		return
	}
	out, err := app.Sitemap(s.cfg.Site.SiteURL, routes)
	if err != nil {
		s.fail(w, "sitemap encode error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":   "ok",
		"revision": s.fingerprint().Revision,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	out, err := s.tpl.RenderNotFound(r.Context(), render.NotFoundPage{
		Layout: s.layout(r, "Not found"),
		Callout: render.Callout{
			Title: "Page not found",
			Color: "amber",
			Body:  `<p>The page you are looking for does not exist.</p><p><a class="link" href="/">Back to the front page</a></p>`,
		},
	})
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(out)
}
