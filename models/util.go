package models

import (
	"strings"

	"github.com/google/uuid"
)

// MarketID generates a new identifier as a hyphenless UUIDv4 32-char string.
func MarketID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
