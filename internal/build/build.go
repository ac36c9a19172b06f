package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	dbuild "gazette/internal/domain/build"
	"gazette/internal/domain/config"
	"gazette/internal/domain/content"
	"gazette/internal/index"
	"gazette/internal/ingest"
	"gazette/internal/render"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Builder turns the content directory into a fresh index generation.
type Builder struct {
	Cfg config.Config
	Log *zap.Logger
}

type Result struct {
	Posts       int
	Warnings    []ingest.Warning
	Fingerprint dbuild.Fingerprint
}

// Run opens the configured index, rebuilds it and closes it again.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Content.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()
	return b.RunInto(ctx, st)
}

// RunInto rebuilds an index the caller already holds open.
func (b *Builder) RunInto(ctx context.Context, st *index.Store) (*Result, error) {
	log := b.logger()

	posts, warns, err := ingest.Ingest(ctx, b.Cfg.Content.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	for _, w := range warns {
		log.Warn("ingest", zap.String("path", w.Path), zap.String("msg", w.Msg))
	}

	fp, err := Fingerprint(b.Cfg, posts)
	if err != nil {
		return nil, err
	}
	if err := st.Rebuild(posts, index.RebuildOptions{
		IncludeDraft: b.Cfg.Content.IncludeDraft,
		Revision:     fp.Revision,
	}); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	log.Info("index rebuilt",
		zap.Int("posts", len(posts)),
		zap.Int("warnings", len(warns)),
		zap.String("revision", fp.Revision[:12]))
	return &Result{Posts: len(posts), Warnings: warns, Fingerprint: fp}, nil
}

func (b *Builder) logger() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}

// Fingerprint hashes every post body together with the config.
func Fingerprint(cfg config.Config, posts []content.Post) (dbuild.Fingerprint, error) {
	hashes := make([]string, 0, len(posts))
	for _, p := range posts {
		hashes = append(hashes, p.ID+":"+p.Body.ContentHash)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return dbuild.Fingerprint{}, fmt.Errorf("hash config: %w", err)
	}
	sum := sha256.Sum256(raw)

	fp := dbuild.Fingerprint{
		ContentHash: dbuild.HashContent(hashes),
		ConfigHash:  hex.EncodeToString(sum[:]),
	}
	fp.ComputeRevision()
	return fp, nil
}

// RenderBody reads a post's source file and renders the markdown after its
// front matter.
func RenderBody(md *render.MarkdownRenderer, p content.Post) (render.MarkdownResult, error) {
	if p.Body.SourcePath == "" {
		return render.MarkdownResult{}, nil
	}
	src, err := os.ReadFile(p.Body.SourcePath)
	if err != nil {
		return render.MarkdownResult{}, fmt.Errorf("read post source(%s): %w", p.Body.SourcePath, err)
	}

	_, body, fmErr := ingest.ParseFrontMatter(src)
	if fmErr != nil {
		body = src
	}
	res, err := md.Render(body)
	if err != nil {
		return render.MarkdownResult{}, fmt.Errorf("markdown render(%s): %w", p.ID, err)
	}
	return res, nil
}
