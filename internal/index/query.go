package index

import (
	"bytes"
	"encoding/json"
	"strings"

	"gazette/internal/domain/content"
	domainerr "gazette/internal/domain/errors"

	bolt "go.etcd.io/bbolt"
)

// Any disables filtering on a region dimension.
const Any = -1

var ErrNotFound = domainerr.ErrNotFound

type ListOptions struct {
	Page         int
	Size         int
	IncludeDraft bool
}

func (s *Store) GetPost(id string) (content.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return content.Post{}, domainerr.NotFoundError{Kind: "post"}
	}
	var p content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bPosts)
		if b == nil {
			return domainerr.NotFoundError{Kind: "post", Key: id}
		}
		v := b.Get([]byte(id))
		if v == nil {
			return domainerr.NotFoundError{Kind: "post", Key: id}
		}
		return json.Unmarshal(v, &p)
	})
	return p, err
}

// ResolveAlias maps a current or retired id to the current one.
func (s *Store) ResolveAlias(idOrOld string) (string, error) {
	idOrOld = strings.TrimSpace(idOrOld)
	if idOrOld == "" {
		return "", domainerr.NotFoundError{Kind: "post"}
	}

	if _, err := s.GetPost(idOrOld); err == nil {
		return idOrOld, nil
	}

	var mapped string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bAlias)
		if b == nil {
			return domainerr.NotFoundError{Kind: "post", Key: idOrOld}
		}
		v := b.Get([]byte(idOrOld))
		if v == nil {
			return domainerr.NotFoundError{Kind: "post", Key: idOrOld}
		}
		mapped = string(v)
		return nil
	})
	return mapped, err
}

// Revision returns the fingerprint stored by the last Rebuild.
func (s *Store) Revision() (string, error) {
	var rev string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bInfo)
		if b == nil {
			return nil
		}
		rev = string(b.Get(kRevision))
		return nil
	})
	return rev, err
}

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// pager applies draft filtering and page windowing while a cursor is walked.
type pager struct {
	skip  int
	size  int
	draft bool
	out   []content.Post
}

func newPager(opt ListOptions) *pager {
	page, size := normalizePaging(opt.Page, opt.Size)
	return &pager{skip: (page - 1) * size, size: size, draft: opt.IncludeDraft}
}

// take reports whether the walk should stop.
func (p *pager) take(postsB *bolt.Bucket, id string, keep func(content.Post) bool) bool {
	if id == "" {
		return false
	}
	v := postsB.Get([]byte(id))
	if v == nil {
		return false
	}
	var m content.Post
	if err := json.Unmarshal(v, &m); err != nil {
		return false
	}
	if m.Draft && !p.draft {
		return false
	}
	if keep != nil && !keep(m) {
		return false
	}
	if p.skip > 0 {
		p.skip--
		return false
	}
	p.out = append(p.out, m)
	return len(p.out) >= p.size
}

// List returns posts newest first.
func (s *Store) List(opt ListOptions) ([]content.Post, error) {
	pg := newPager(opt)
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bIdxCreated)
		postsB := tx.Bucket(bPosts)
		if idx == nil || postsB == nil {
			return nil
		}
		cur := idx.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			if pg.take(postsB, idFromTimeIDKey(k), nil) {
				break
			}
		}
		return nil
	})
	return pg.out, err
}

// ListByRegion returns posts placed in country/province, newest first within
// a province. Either dimension may be Any. With country Any the province
// filter applies across every country.
func (s *Store) ListByRegion(country, province int, opt ListOptions) ([]content.Post, error) {
	if country == Any {
		var keep func(content.Post) bool
		if province != Any {
			keep = func(p content.Post) bool { return p.CountryID > 0 && p.ProvinceID == province }
		} else {
			keep = func(p content.Post) bool { return p.CountryID > 0 }
		}
		pg := newPager(opt)
		err := s.db.View(func(tx *bolt.Tx) error {
			idx := tx.Bucket(bIdxCreated)
			postsB := tx.Bucket(bPosts)
			if idx == nil || postsB == nil {
				return nil
			}
			cur := idx.Cursor()
			for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
				if pg.take(postsB, idFromTimeIDKey(k), keep) {
					break
				}
			}
			return nil
		})
		return pg.out, err
	}

	pg := newPager(opt)
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bIdxRegion)
		postsB := tx.Bucket(bPosts)
		if parent == nil || postsB == nil {
			return nil
		}
		sb := parent.Bucket(countryKey(country))
		if sb == nil {
			return nil
		}
		cur := sb.Cursor()
		if province == Any {
			for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
				if pg.take(postsB, idFromRegionKey(k), nil) {
					break
				}
			}
			return nil
		}
		prefix := provincePrefix(province)
		for k, _ := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
			if pg.take(postsB, idFromRegionKey(k), nil) {
				break
			}
		}
		return nil
	})
	return pg.out, err
}
