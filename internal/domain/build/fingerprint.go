package build

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Fingerprint identifies one generation of the indexed corpus. It changes
// whenever any post body or the site config changes.
type Fingerprint struct {
	ContentHash string
	ConfigHash  string
	Revision    string
}

// HashContent folds per-post hashes into one, independent of input order.
func HashContent(hashes []string) string {
	sorted := append([]string(nil), hashes...)
	sort.Strings(sorted)
	h := sha256.New()
	for _, s := range sorted {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (f *Fingerprint) ComputeRevision() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.ConfigHash))
	f.Revision = hex.EncodeToString(h.Sum(nil))
}

// ETag renders the revision as a weak HTTP entity tag.
func (f Fingerprint) ETag() string {
	if len(f.Revision) < 16 {
		return ""
	}
	return `W/"` + f.Revision[:16] + `"`
}
