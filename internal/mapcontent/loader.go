// Package mapcontent loads the posts shown under a map for one region.
package mapcontent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gazette/internal/domain/content"
	"gazette/internal/index"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Any disables filtering on the country or province dimension.
const Any = index.Any

// pageSize is the most posts one region panel shows.
const pageSize = 100

type Source interface {
	ListByRegion(country, province int, opt index.ListOptions) ([]content.Post, error)
}

type cacheKey struct {
	key      string
	country  int
	province int
}

// Loader caches region listings per (key, country, province) and collapses
// concurrent identical loads into one source call. Invalidate drops the
// cache; loads started before it are not stored.
type Loader struct {
	src   Source
	log   *zap.Logger
	group singleflight.Group

	mu    sync.RWMutex
	gen   uint64
	cache map[cacheKey][]content.Post
}

type Option func(*Loader)

func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

func New(src Source, opts ...Option) *Loader {
	l := &Loader{src: src, log: zap.NewNop(), cache: make(map[cacheKey][]content.Post)}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the posts placed in (country, province), newest first within
// each province. It blocks until the listing is available or ctx is done.
func (l *Loader) Load(ctx context.Context, key string, country, province int) ([]content.Post, error) {
	if posts, ok := l.Peek(key, country, province); ok {
		return posts, nil
	}
	select {
	case res := <-l.start(key, country, province):
		if res.Err != nil {
			return nil, res.Err
		}
		return clonePosts(res.Val.([]content.Post)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LoadWithin waits at most d. When the listing is not ready by then it
// reports ready=false and the load keeps running in the background, filling
// the cache for the next call.
func (l *Loader) LoadWithin(ctx context.Context, d time.Duration, key string, country, province int) ([]content.Post, bool, error) {
	if posts, ok := l.Peek(key, country, province); ok {
		return posts, true, nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case res := <-l.start(key, country, province):
		if res.Err != nil {
			return nil, true, res.Err
		}
		return clonePosts(res.Val.([]content.Post)), true, nil
	case <-timer.C:
		return nil, false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (l *Loader) Peek(key string, country, province int) ([]content.Post, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	posts, ok := l.cache[cacheKey{key, country, province}]
	if !ok {
		return nil, false
	}
	return clonePosts(posts), true
}

func (l *Loader) start(key string, country, province int) <-chan singleflight.Result {
	l.mu.RLock()
	gen := l.gen
	l.mu.RUnlock()

	ck := cacheKey{key, country, province}
	flight := fmt.Sprintf("%d|%s|%d|%d", gen, key, country, province)
	return l.group.DoChan(flight, func() (any, error) {
		posts, err := l.src.ListByRegion(country, province, index.ListOptions{Size: pageSize})
		if err != nil {
			l.log.Warn("region listing failed", zap.String("key", key),
				zap.Int("country", country), zap.Int("province", province), zap.Error(err))
			return nil, fmt.Errorf("mapcontent: list %d/%d: %w", country, province, err)
		}
		if posts == nil {
			posts = []content.Post{}
		}

		l.mu.Lock()
		if l.gen == gen {
			l.cache[ck] = posts
		}
		l.mu.Unlock()
		l.log.Debug("region listing loaded", zap.String("key", key),
			zap.Int("country", country), zap.Int("province", province), zap.Int("posts", len(posts)))
		return posts, nil
	})
}

// Invalidate forgets every cached listing.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.gen++
	clear(l.cache)
	l.mu.Unlock()
}

func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

func clonePosts(in []content.Post) []content.Post {
	out := make([]content.Post, len(in))
	copy(out, in)
	return out
}
