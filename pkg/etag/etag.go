// Package etag computes the deterministic, insertion-order-independent
// content hash CardDAV clients use for conditional requests.
package etag

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/kithhq/kith/pkg/fact"
)

// Compute returns a quoted ETag string for view, stable across reorderings
// of view.ActiveFacts: collect (fact_id, recorded_at) pairs, sort by
// fact_id, feed fact_id_bytes‖recorded_at_microseconds (little-endian) into
// SHA-256, hex-encode, and wrap in double quotes.
func Compute(view fact.ContactView) string {
	type pair struct {
		id    [16]byte
		micro int64
	}
	pairs := make([]pair, 0, len(view.ActiveFacts))
	for _, f := range view.ActiveFacts {
		pairs = append(pairs, pair{id: f.ID, micro: f.RecordedAt.UnixMicro()})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return lessBytes(pairs[i].id[:], pairs[j].id[:])
	})

	h := sha256.New()
	var microBuf [8]byte
	for _, p := range pairs {
		h.Write(p.id[:])
		binary.LittleEndian.PutUint64(microBuf[:], uint64(p.micro))
		h.Write(microBuf[:])
	}

	return `"` + hex.EncodeToString(h.Sum(nil)) + `"`
}

func lessBytes(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Strip removes at most one pair of surrounding double quotes from s, so an
// If-Match header can be compared against the current ETag regardless of
// whether the client quoted it.
func Strip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Matches compares two ETag strings after stripping quotes from each side.
func Matches(a, b string) bool {
	return Strip(a) == Strip(b)
}
