package content

import (
	"strings"
	"time"
)

// Post is the unit of published content. Only ID, Title, Description and
// ImageURL are expected on every post; the rest may be zero.
type Post struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	CreatedAt   time.Time
	Link        string
	Author      string

	// Region placement; zero means unplaced.
	CountryID  int
	ProvinceID int

	Tags    []string
	Aliases []string // retired ids that should resolve to this post
	Draft   bool

	Body BodyRef
}

type BodyRef struct {
	SourcePath  string
	ContentHash string
}

func (p *Post) Normalize() {
	p.ID = strings.TrimSpace(p.ID)
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Link = strings.TrimSpace(p.Link)
	p.Author = strings.TrimSpace(p.Author)
	if p.CountryID < 0 {
		p.CountryID = 0
	}
	if p.ProvinceID < 0 {
		p.ProvinceID = 0
	}

	p.Tags = normalizeStrings(p.Tags, true)
	p.Aliases = normalizeStrings(p.Aliases, false)
}

func normalizeStrings(items []string, lower bool) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if lower {
			item = strings.ToLower(item)
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
