// Package cache provides short-lived storage for search responses.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain/types"
)

// Cache stores serialized search responses under derived keys. A lookup
// error is reported alongside the miss so callers can degrade to a
// fresh search.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key derives a stable cache key from search parameters. Country order
// does not affect the key.
func Key(params types.SearchParams) string {
	countries := make([]string, len(params.Countries))
	copy(countries, params.Countries)
	sort.Strings(countries)

	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(params.Query)))
	b.WriteByte('|')
	b.WriteString(strings.ToLower(strings.TrimSpace(params.Location)))
	b.WriteByte('|')
	b.WriteString(strings.Join(countries, ","))
	b.WriteByte('|')
	b.WriteString(params.UserID)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(params.Offset))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(params.Limit))

	sum := sha256.Sum256([]byte(b.String()))
	return "search:" + hex.EncodeToString(sum[:16])
}
