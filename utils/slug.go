package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Marker tokens embedded in generated slugs to signal which entity type a
// slug was machine-generated for.
const (
	CategoryMarker = "cat"
	ProduceMarker  = "pro"
)

// EnsureSlug returns the slug to store for an entity with the given name.
// A supplied slug that already carries the marker token is accepted as-is,
// so re-saving an entity keeps its slug stable. Anything else, including an
// empty value, is replaced by a generated slug.
func EnsureSlug(name, supplied, marker string) string {
	if supplied != "" && strings.Contains(supplied, marker) {
		return supplied
	}
	return GenerateSlug(name, marker)
}

// GenerateSlug derives a URL-safe slug from the name, the marker token and
// a nanosecond timestamp suffix. The suffix keeps slugs practically unique
// even when entities with identical names are created concurrently; true
// uniqueness is still enforced by the database constraint.
func GenerateSlug(name, marker string) string {
	return slug.Make(fmt.Sprintf("%s %s %d", name, marker, time.Now().UnixNano()))
}
