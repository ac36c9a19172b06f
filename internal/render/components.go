package render

import (
	"html"
	"html/template"
	"net/url"
	"strings"

	"gazette/internal/domain/content"
	"gazette/internal/permalink"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// MissingDate stands in for posts without a creation time.
	MissingDate = "2 hours ago"
	// MissingAuthor stands in for posts without an author.
	MissingAuthor = "unknown"

	DefaultImage = "/static/Image/logo.jpg"

	linkHoverClass = "group-hover:text-indigo-700"
	footerDate     = "Jan 2"
)

var hoverClasses = []string{"ease-in-out", "duration-500", "transition-transform", "md:hover:scale-105"}

// LinkWrapper wraps card content in either a link or a plain container.
// Both variants take the same class arguments; linkClass only applies to
// the interactive one.
type LinkWrapper interface {
	Open(class, linkClass string) template.HTML
	Close() template.HTML
}

type Interactive struct {
	Href  string
	Title string
}

func (w Interactive) Open(class, linkClass string) template.HTML {
	cls := strings.TrimSpace(class + " " + linkClass)
	return template.HTML(`<a href="` + html.EscapeString(w.Href) + `" title="` + html.EscapeString(w.Title) +
		`" class="` + html.EscapeString(cls) + `">`)
}

func (Interactive) Close() template.HTML { return "</a>" }

type Static struct{}

func (Static) Open(class, _ string) template.HTML {
	return template.HTML(`<div class="` + html.EscapeString(strings.TrimSpace(class)) + `">`)
}

func (Static) Close() template.HTML { return "</div>" }

type CardOptions struct {
	ShowFooter         bool
	DisableLinks       bool
	DisableHoverEffect bool
	DefaultImage       string
}

type CardFooter struct {
	Date   string
	Author string
}

// PostCard is the view model for one post summary card.
type PostCard struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	Href        string
	Wrapper     LinkWrapper
	CardClass   string
	Footer      *CardFooter
}

var stripTags = bluemonday.StrictPolicy()

func NewPostCard(p content.Post, opt CardOptions) PostCard {
	card := PostCard{
		ID:          p.ID,
		Title:       p.Title,
		Description: html.UnescapeString(stripTags.Sanitize(p.Description)),
		ImageURL:    p.ImageURL,
	}
	if card.ImageURL == "" {
		card.ImageURL = opt.DefaultImage
		if card.ImageURL == "" {
			card.ImageURL = DefaultImage
		}
	}

	if opt.DisableLinks {
		card.Wrapper = Static{}
	} else {
		card.Href = safeHref(ResolveLink(p))
		card.Wrapper = Interactive{Href: card.Href, Title: p.Title}
	}

	classes := []string{"group", "card", "h-full", "rounded-xl", "bg-base-300", "shadow-xl"}
	if !opt.DisableHoverEffect {
		classes = append(classes, hoverClasses...)
	}
	card.CardClass = strings.Join(classes, " ")

	if opt.ShowFooter {
		f := CardFooter{Date: MissingDate, Author: MissingAuthor}
		if !p.CreatedAt.IsZero() {
			f.Date = p.CreatedAt.Format(footerDate)
		}
		if p.Author != "" {
			f.Author = p.Author
		}
		card.Footer = &f
	}
	return card
}

// ResolveLink prefers the post's explicit link over its canonical path.
func ResolveLink(p content.Post) string {
	if p.Link != "" {
		return p.Link
	}
	return permalink.Generate(p.ID, p.Title)
}

func safeHref(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return s
	default:
		return "#"
	}
}

type Attr struct {
	Name  string
	Value string
}

var buttonColors = map[string]bool{
	"btn-primary": true, "btn-secondary": true, "btn-neutral": true, "btn-accent": true,
	"btn-info": true, "btn-success": true, "btn-warning": true, "btn-error": true,
	"btn-ghost": true, "btn-link": true, "btn-null": true,
}

// Button renders a <button>. Color defaults to btn-primary; btn-null keeps
// the base class without a colour.
type Button struct {
	Label              template.HTML
	Color              string
	Class              string
	RemoveDefaultStyle bool
	Attrs              []Attr
}

func (b Button) ClassName() string {
	if b.RemoveDefaultStyle {
		return strings.Join(strings.Fields(b.Class), " ")
	}
	color := b.Color
	if !buttonColors[color] {
		color = "btn-primary"
	}
	if color == "btn-null" {
		color = ""
	}
	return strings.Join(strings.Fields("btn "+color+" "+b.Class), " ")
}

var calloutColors = map[string]bool{"indigo": true, "amber": true, "rose": true, "emerald": true}

// Callout is a titled, colour-accented box.
type Callout struct {
	Title string
	Color string
	Class string
	Body  template.HTML
}

func (c Callout) color() string {
	if calloutColors[c.Color] {
		return c.Color
	}
	return "indigo"
}

func (c Callout) BoxClass() string {
	return strings.Join(strings.Fields(c.Class+" rounded-lg border-l-4 border-"+c.color()+"-500 bg-base-200 p-4 md:p-6"), " ")
}

func (c Callout) TitleClass() string {
	return "mb-4 text-2xl font-bold text-" + c.color() + "-800"
}

// ThemeButton is the switcher entry for one theme; the active one is
// highlighted.
func ThemeButton(name, current string) Button {
	b := Button{
		Label: template.HTML(html.EscapeString(name)),
		Color: "btn-ghost",
		Class: "btn-sm btn-block justify-start",
		Attrs: []Attr{{Name: "type", Value: "submit"}, {Name: "aria-pressed", Value: "false"}},
	}
	if name == current {
		b.Color = "btn-primary"
		b.Attrs[1].Value = "true"
	}
	return b
}
