package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"time"
)

//go:embed templates
var embedded embed.FS

var pageTemplates = []string{
	"home.tmpl",
	"post.tmpl",
	"redirect.tmpl",
	"404.tmpl",
	"maps.tmpl",
	"map.tmpl",
	"templates.tmpl",
}

// TemplateRenderer executes one template set per page. Each set is the
// shared partials plus that page's file.
type TemplateRenderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

// NewTemplateRenderer loads the embedded templates, or the ones under dir
// when dir is non-empty.
func NewTemplateRenderer(dir string) (*TemplateRenderer, error) {
	fsys, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	if err := CheckTemplates(fsys); err != nil {
		return nil, err
	}

	partials, err := template.New("").Funcs(templateFuncs()).ParseFS(fsys, "partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse partials: %w", err)
	}
	r := &TemplateRenderer{pages: make(map[string]*template.Template, len(pageTemplates)), partials: partials}
	for _, name := range pageTemplates {
		set, err := partials.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(fsys, path.Join("pages", name)); err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", name, err)
		}
		r.pages[name] = set
	}
	return r, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"nowYear": func() int {
			return time.Now().Year()
		},
		"themeButton": ThemeButton,
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderRedirect(ctx context.Context, page RedirectPage) ([]byte, error) {
	return r.exec("redirect.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) RenderMaps(ctx context.Context, page MapsPage) ([]byte, error) {
	return r.exec("maps.tmpl", page)
}

func (r *TemplateRenderer) RenderMap(ctx context.Context, page MapPage) ([]byte, error) {
	return r.exec("map.tmpl", page)
}

func (r *TemplateRenderer) RenderTemplates(ctx context.Context, page TemplatesPage) ([]byte, error) {
	return r.exec("templates.tmpl", page)
}

// RenderMapContent renders the content panel alone, for fragment requests.
func (r *TemplateRenderer) RenderMapContent(ctx context.Context, view MapContentView) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.partials.ExecuteTemplate(&buf, "map-content", view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	t := r.pages[name]
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CheckTemplates reports the first page or partial missing from fsys.
func CheckTemplates(fsys fs.FS) error {
	required := []string{"partials/layout.tmpl", "partials/components.tmpl"}
	for _, name := range pageTemplates {
		required = append(required, path.Join("pages", name))
	}
	for _, name := range required {
		if _, err := fs.Stat(fsys, name); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
