// Package ids allocates collision-resistant entity identifiers and the
// client-local temporary identifiers used before an entity is persisted.
package ids

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Kind names an identifier namespace. The kind prefix keeps ids readable in
// logs and URLs without affecting uniqueness.
type Kind string

const (
	KindBoard     Kind = "board"
	KindSection   Kind = "section"
	KindItem      Kind = "item"
	KindVolunteer Kind = "volunteer"
)

const tempPrefix = "temp-"

var kindPrefixes = map[Kind]string{
	KindBoard:     "brd",
	KindSection:   "sec",
	KindItem:      "itm",
	KindVolunteer: "vol",
}

// New returns a URL-safe globally unique identifier for the given kind,
// e.g. "sec_9f2c4a...". 12 random bytes keep the id at 28 characters.
func New(kind Kind) string {
	prefix, ok := kindPrefixes[kind]
	if !ok {
		prefix = "id"
	}
	bytes := make([]byte, 12)
	_, _ = rand.Read(bytes)
	return prefix + "_" + hex.EncodeToString(bytes)
}

// NewToken returns an opaque bearer token value. Longer than entity ids
// since the token string is the entire capability.
func NewToken() string {
	bytes := make([]byte, 24)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// NewTemp returns a client-local identifier such as "temp-section-3".
// Temp ids never reach the server, so uniqueness only matters within one
// client session; the caller supplies a monotonic counter.
func NewTemp(kind Kind, counter int) string {
	return fmt.Sprintf("%s%s-%d", tempPrefix, kind, counter)
}

// IsTemp reports whether id is a client-local temporary identifier.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}

// FromSlug extracts the trailing board id from a slug-prefixed URL segment
// like "summer-picnic-brd_9f2c4a1b0d3e5f678901a2b3". A segment that is
// already a bare id is returned unchanged.
func FromSlug(segment string) string {
	if idx := strings.LastIndex(segment, "brd_"); idx > 0 {
		return segment[idx:]
	}
	return segment
}
