package id

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
// Backed by a random (v4) UUID so ids stay unique across instances.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Valid reports whether s is a public identifier: 32-char lowercase hex.
func Valid(s string) bool { return reHex32.MatchString(s) }
