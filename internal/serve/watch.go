package serve

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	rebuildDebounce = 200 * time.Millisecond
	rebuildTimeout  = 10 * time.Second
)

// StartWatch rebuilds whenever a file under the content directory changes.
// The watch loop exits when ctx is cancelled or the server is closed.
func (s *Server) StartWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w
		s.watchDone = make(chan struct{})

		err = filepath.WalkDir(s.cfg.Content.SourceDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != s.cfg.Content.SourceDir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return w.Add(path)
			}
			return nil
		})
		if err != nil {
			err = fmt.Errorf("serve: watch %s: %w", s.cfg.Content.SourceDir, err)
		}
		go s.watchLoop(ctx)
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	defer close(s.watchDone)
	log := s.log.Named("watch")
	log.Info("watching for file changes", zap.String("dir", s.cfg.Content.SourceDir))

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := s.watcher.Add(ev.Name); err != nil {
						log.Warn("watch new directory", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(rebuildDebounce)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", zap.Error(err))
		case <-debounce.C:
			rctx, cancel := context.WithTimeout(ctx, rebuildTimeout)
			if err := s.Rebuild(rctx); err != nil {
				log.Error("rebuild failed", zap.Error(err))
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) subscribers() int {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	return len(s.sseConns)
}
