package index

import (
	"encoding/json"
	"errors"
	"strings"

	"gazette/internal/domain/content"

	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

type RebuildOptions struct {
	IncludeDraft bool
	Revision     string
}

// Rebuild replaces the whole index with posts in a single transaction.
func (s *Store) Rebuild(posts []content.Post, opt RebuildOptions) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bPosts, bAlias, bIdxCreated, bIdxRegion, bInfo} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, berrors.ErrBucketNotFound) {
				return err
			}
		}

		postsB, err := tx.CreateBucket(bPosts)
		if err != nil {
			return err
		}
		aliasB, err := tx.CreateBucket(bAlias)
		if err != nil {
			return err
		}
		createdB, err := tx.CreateBucket(bIdxCreated)
		if err != nil {
			return err
		}
		regionB, err := tx.CreateBucket(bIdxRegion)
		if err != nil {
			return err
		}
		infoB, err := tx.CreateBucket(bInfo)
		if err != nil {
			return err
		}

		for _, p := range posts {
			if p.Draft && !opt.IncludeDraft {
				continue
			}
			if strings.TrimSpace(p.ID) == "" {
				continue
			}
			pb, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := postsB.Put([]byte(p.ID), pb); err != nil {
				return err
			}

			ts := p.CreatedAt.UnixNano()
			if p.CreatedAt.IsZero() {
				ts = 0
			}
			if err := createdB.Put(makeTimeIDKey(ts, p.ID), []byte{1}); err != nil {
				return err
			}

			if p.CountryID > 0 {
				sb, err := regionB.CreateBucketIfNotExists(countryKey(p.CountryID))
				if err != nil {
					return err
				}
				if err := sb.Put(makeRegionKey(p.ProvinceID, ts, p.ID), []byte{1}); err != nil {
					return err
				}
			}

			for _, old := range p.Aliases {
				old = strings.TrimSpace(old)
				if old == "" || old == p.ID {
					continue
				}
				if err := aliasB.Put([]byte(old), []byte(p.ID)); err != nil {
					return err
				}
			}
		}
		return infoB.Put(kRevision, []byte(opt.Revision))
	})
}
