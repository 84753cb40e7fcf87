package router

import (
	"encoding/base64"
	"encoding/binary"
	"hash"

	"github.com/minio/blake2b-simd"
)

// Fingerprinter computes content fingerprints of route trees. Two trees
// with the same segments, slots and rendering metadata have the same
// fingerprint no matter how their nodes are shared.
//
// Fingerprints of subtrees are memoized by node identity, so a tree that
// was produced by merging a patch only hashes the nodes on the patched path.
type Fingerprinter struct {
	cache NodeCache
}

// NewFingerprinter returns a Fingerprinter memoizing into cache. A nil cache
// disables memoization.
func NewFingerprinter(cache NodeCache) *Fingerprinter {
	return &Fingerprinter{cache: cache}
}

// Fingerprint returns the fingerprint of t, or "" for a nil tree.
func (f *Fingerprinter) Fingerprint(t *RouteTree) string {
	if t == nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(f.sum(t))
}

func (f *Fingerprinter) sum(t *RouteTree) []byte {
	if f.cache != nil {
		if v, ok := f.cache.Get(t); ok {
			return v.([]byte)
		}
	}
	h := blake2b.New256()
	writeField(h, t.Segment.Name)
	writeField(h, t.Segment.Param)
	writeField(h, t.Segment.Value)
	writeField(h, string(t.Segment.Kind))
	writeField(h, t.URL)
	writeField(h, string(t.Refresh))
	if t.IsRootLayout {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	for _, slot := range t.Slots() {
		writeField(h, slot)
		child := t.ParallelRoutes[slot]
		if child == nil {
			writeField(h, "")
			continue
		}
		h.Write(f.sum(child))
	}
	sum := h.Sum(nil)
	if f.cache != nil {
		f.cache.Add(t, sum)
	}
	return sum
}

func writeField(h hash.Hash, s string) {
	var n [binary.MaxVarintLen64]byte
	h.Write(n[:binary.PutUvarint(n[:], uint64(len(s)))])
	h.Write([]byte(s))
}
