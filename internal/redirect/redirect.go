// Package redirect sends requests for a post id to the post's canonical URL.
package redirect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gazette/internal/domain/content"
	domainerr "gazette/internal/domain/errors"
	"gazette/internal/permalink"
)

type State string

const (
	Loading     State = "loading"
	Error       State = "error"
	Redirecting State = "redirecting"
)

// PostSource fetches one post. A nil post with a nil error counts as missing.
type PostSource interface {
	Post(ctx context.Context, id string) (*content.Post, error)
}

type PostSourceFunc func(ctx context.Context, id string) (*content.Post, error)

func (f PostSourceFunc) Post(ctx context.Context, id string) (*content.Post, error) {
	return f(ctx, id)
}

type Navigator interface {
	Replace(path string) error
}

var ErrAlreadyNavigated = errors.New("redirect: navigation already issued")

// Flow drives a single redirect. Error and Redirecting are terminal: once
// reached, Resolve returns the same state without fetching or navigating
// again.
type Flow struct {
	src    PostSource
	nav    Navigator
	state  State
	target string
	post   *content.Post
	err    error
}

func NewFlow(src PostSource, nav Navigator) *Flow {
	return &Flow{src: src, nav: nav, state: Loading}
}

func (f *Flow) State() State        { return f.state }
func (f *Flow) Target() string      { return f.target }
func (f *Flow) Post() *content.Post { return f.post }
func (f *Flow) Err() error          { return f.err }

// Resolve fetches id and, when the post has a title, navigates to its
// canonical URL. A post without a title leaves the flow in Loading.
func (f *Flow) Resolve(ctx context.Context, id string) (State, error) {
	if f.state != Loading {
		return f.state, f.err
	}

	p, err := f.src.Post(ctx, id)
	switch {
	case err != nil:
		return f.fail(fmt.Errorf("redirect: fetch %q: %w", id, err))
	case p == nil:
		return f.fail(domainerr.NotFoundError{Kind: "post", Key: id})
	}
	f.post = p
	if strings.TrimSpace(p.Title) == "" {
		return f.state, nil
	}

	target := Canonical(*p, id)
	if err := f.nav.Replace(target); err != nil {
		return f.fail(fmt.Errorf("redirect: navigate: %w", err))
	}
	f.target = target
	f.state = Redirecting
	return f.state, nil
}

func (f *Flow) fail(err error) (State, error) {
	f.state = Error
	f.err = err
	return f.state, err
}

// Canonical is the URL p is served under; fallbackID is used when the post
// carries no id of its own.
func Canonical(p content.Post, fallbackID string) string {
	id := p.ID
	if id == "" {
		id = fallbackID
	}
	return permalink.Generate(id, p.Title)
}

// HTTPNavigator answers with a permanent redirect. It only sets the status
// and Location header; the caller writes the body.
type HTTPNavigator struct {
	w    http.ResponseWriter
	done bool
}

func NewHTTPNavigator(w http.ResponseWriter) *HTTPNavigator {
	return &HTTPNavigator{w: w}
}

func (n *HTTPNavigator) Replace(path string) error {
	if n.done {
		return ErrAlreadyNavigated
	}
	n.done = true
	n.w.Header().Set("Location", path)
	n.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	n.w.WriteHeader(http.StatusPermanentRedirect)
	return nil
}

func (n *HTTPNavigator) Navigated() bool { return n.done }
