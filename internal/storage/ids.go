package storage

import (
	"strings"

	"github.com/google/uuid"
)

const (
	matchIDLen      = 8
	matchIDAttempts = 16
)

// newMatchID generates a short hex id. taken reports whether a candidate
// already exists; on collision we generate again instead of overwriting.
func newMatchID(taken func(string) bool) (string, error) {
	for i := 0; i < matchIDAttempts; i++ {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:matchIDLen]
		if !taken(id) {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}
