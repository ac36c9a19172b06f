package ingest

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"gazette/internal/domain/content"
	"gazette/internal/geo"
)

type Warning struct {
	Path string
	Msg  string
}

type Result struct {
	Post  content.Post
	Warns []Warning
	Skip  bool
	Err   error
}

// Ingest reads every markdown file below sourceDir into posts. Files are
// parsed on a worker pool; the returned posts are ordered by source path and
// carry unique ids.
func Ingest(ctx context.Context, sourceDir string) ([]content.Post, []Warning, error) {
	files, err := DiscoverSource(sourceDir)
	if err != nil {
		return nil, nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan SourceFile)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sf := range jobs {
				results <- parseFile(sourceDir, sf)
			}
		}()
	}

	go func() {
		defer close(results)
		defer wg.Wait()
		defer close(jobs)
		for _, f := range files {
			select {
			case jobs <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	var out []content.Post
	var warns []Warning
	var firstErr error
	for r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		warns = append(warns, r.Warns...)
		if r.Skip {
			continue
		}
		out = append(out, r.Post)
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Body.SourcePath < out[j].Body.SourcePath
	})
	seen := make(map[string]struct{}, len(out))
	filtered := make([]content.Post, 0, len(out))
	for _, p := range out {
		if _, ok := seen[p.ID]; ok {
			warns = append(warns, Warning{Path: p.Body.SourcePath, Msg: "duplicate id, skipped: " + p.ID})
			continue
		}
		seen[p.ID] = struct{}{}
		filtered = append(filtered, p)
	}
	sort.SliceStable(warns, func(i, j int) bool { return warns[i].Path < warns[j].Path })
	return filtered, warns, nil
}

func parseFile(root string, sf SourceFile) Result {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return Result{Err: err}
	}
	st, err := os.Stat(sf.Path)
	if err != nil {
		return Result{Err: err}
	}

	fm, _, fmErr := ParseFrontMatter(raw)
	var warns []Warning
	if fmErr != nil && fmErr != errNoFrontMatter {
		warns = append(warns, Warning{
			Path: sf.Path,
			Msg:  "failed to parse front matter: " + fmErr.Error(),
		})
		return Result{Warns: warns, Skip: true}
	}

	p := content.Post{
		ID:          ResolveID(fm, root, sf.Path),
		Title:       fm.Title,
		Description: fm.Description,
		ImageURL:    fm.Image,
		Link:        fm.Link,
		Author:      fm.Author,
		CreatedAt:   ParseTime(fm.Created),
		Tags:        fm.Tags,
		Aliases:     fm.Aliases,
		Draft:       fm.Draft,
		Body: content.BodyRef{
			SourcePath:  sf.Path,
			ContentHash: HashBytes(raw),
		},
	}
	if fm.Created != "" && p.CreatedAt.IsZero() {
		warns = append(warns, Warning{Path: sf.Path, Msg: fmt.Sprintf("unparseable created date %q, using file modification time", fm.Created)})
		p.CreatedAt = st.ModTime()
	}

	if code := strings.TrimSpace(fm.Country); code != "" {
		country, ok := geo.Lookup(code)
		switch {
		case !ok:
			warns = append(warns, Warning{Path: sf.Path, Msg: "unknown country " + code + ", post left unplaced"})
		case fm.Province != 0:
			if _, ok := country.Region(fmt.Sprint(fm.Province)); !ok {
				warns = append(warns, Warning{Path: sf.Path, Msg: fmt.Sprintf("country %s has no province %d", country.Code, fm.Province)})
			} else {
				p.CountryID = country.ID
				p.ProvinceID = fm.Province
			}
		default:
			p.CountryID = country.ID
		}
	}

	p.Normalize()
	if p.Title == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "title is empty"})
	}
	if p.Description == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "description is empty"})
	}
	return Result{Post: p, Warns: warns}
}
