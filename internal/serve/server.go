package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"gazette/internal/app"
	"gazette/internal/build"
	dbuild "gazette/internal/domain/build"
	"gazette/internal/domain/config"
	"gazette/internal/index"
	"gazette/internal/mapcontent"
	"gazette/internal/render"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// defaultMapContentWait bounds how long a map page waits for its province
// listing before rendering the loading panel instead.
const defaultMapContentWait = 150 * time.Millisecond

type Options struct {
	Logger *zap.Logger
	// TemplateDir overrides the embedded templates when set.
	TemplateDir    string
	MapContentWait time.Duration
}

type Server struct {
	cfg config.Config
	log *zap.Logger

	idx     *index.Store
	md      *render.MarkdownRenderer
	tpl     render.Renderer
	builder *build.Builder
	loader  *mapcontent.Loader
	routes  *app.RouteBuilder
	wait    time.Duration

	mu sync.RWMutex
	fp dbuild.Fingerprint

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
	watchDone chan struct{}
}

func New(cfg config.Config, opt Options) (*Server, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tpl, err := render.NewTemplateRenderer(opt.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	st, err := index.Open(index.OpenOptions{Path: cfg.Content.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	wait := opt.MapContentWait
	if wait <= 0 {
		wait = defaultMapContentWait
	}
	s := &Server{
		cfg:      cfg,
		log:      log.Named("serve"),
		idx:      st,
		md:       render.NewMarkdownRenderer(),
		tpl:      tpl,
		builder:  &build.Builder{Cfg: cfg, Log: log.Named("build")},
		loader:   mapcontent.New(st, mapcontent.WithLogger(log.Named("mapcontent"))),
		routes:   &app.RouteBuilder{Index: st},
		wait:     wait,
		sseConns: make(map[chan string]struct{}),
	}
	return s, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
		<-s.watchDone
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

// ListenAndServe rebuilds the index, starts the content watcher in dev mode
// and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}
	if s.cfg.Server.Dev {
		if err := s.StartWatch(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		IdleTimeout:       60 * time.Second,
	}
	// the SSE stream stays open indefinitely
	if !s.cfg.Server.Dev {
		srv.WriteTimeout = s.cfg.Server.WriteTimeout
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", srv.Addr), zap.Bool("dev", s.cfg.Server.Dev))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Rebuild reindexes the content directory, drops cached region listings and
// tells dev clients to reload.
func (s *Server) Rebuild(ctx context.Context) error {
	res, err := s.builder.RunInto(ctx, s.idx)
	if err != nil {
		return fmt.Errorf("serve: rebuild: %w", err)
	}

	s.mu.Lock()
	s.fp = res.Fingerprint
	s.mu.Unlock()

	s.loader.Invalidate()
	s.broadcastSSE("reload")
	return nil
}

func (s *Server) fingerprint() dbuild.Fingerprint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fp
}
