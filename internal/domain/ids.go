package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseID returns the canonical form of a uuid identifier. A malformed id wraps invalid, so callers
// pick ErrNotFound for ids taken from a path and ErrInvalidInput for ids taken from a body.
func ParseID(raw string, invalid error) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: malformed id %q", invalid, raw)
	}
	return id.String(), nil
}
