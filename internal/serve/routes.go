package serve

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Post("/themes/{name}", s.handleTheme)
	r.Get("/maps/{country}/content", s.handleMapContent)

	r.Group(func(r chi.Router) {
		r.Use(s.etag)
		r.Get("/", s.handleHome)
		r.Get("/posts/{id}", s.handlePostRedirect)
		r.Get("/posts/{id}/{slug}", s.handlePost)
		r.Get("/maps", s.handleMaps)
		r.Get("/maps/{country}", s.handleMap)
		r.Get("/templates", s.handleTemplates)
	})

	if dir := s.cfg.Server.StaticDir; dir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}
	if s.cfg.Server.Dev {
		r.Get("/dev/events", s.handleSSE)
	}

	r.NotFound(s.handleNotFound)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		}()
		next.ServeHTTP(ww, r)
	})
}

// etag tags pages with the corpus revision and the reader's theme, and
// answers 304 when the client already holds that generation. Only 200
// responses carry the tag; redirects and not-found pages stay untagged.
func (s *Server) etag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := s.fingerprint().ETag()
		if tag == "" {
			next.ServeHTTP(w, r)
			return
		}
		tag = strings.TrimSuffix(tag, `"`) + "-" + s.theme(r) + `"`

		for _, t := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(t) == tag {
				w.Header().Set("ETag", tag)
				w.Header().Add("Vary", "Cookie")
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		next.ServeHTTP(&etagWriter{ResponseWriter: w, tag: tag}, r)
	})
}

type etagWriter struct {
	http.ResponseWriter
	tag         string
	wroteHeader bool
}

func (w *etagWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		if code == http.StatusOK {
			w.Header().Set("ETag", w.tag)
			w.Header().Add("Vary", "Cookie")
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *etagWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *etagWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
