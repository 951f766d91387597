package entity

import (
	"encoding/base32"
	"encoding/hex"
	"log/slog"
	"regexp"
	"time"
)

var reSeed = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Seed is the 32-byte shared secret in its canonical form: exactly 64
// lowercase hex characters. Only values built by ParseSeed are valid.
type Seed string

// ParseSeed validates s without trimming or case folding.
func ParseSeed(s string) (Seed, error) {
	if !reSeed.MatchString(s) {
		return "", ErrFormat
	}
	return Seed(s), nil
}

// Base32 returns the unpadded standard Base32 encoding of the raw seed bytes,
// the secret form expected by authenticator apps.
func (s Seed) Base32() string {
	raw, err := hex.DecodeString(string(s))
	if err != nil {
		return ""
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)
}

// String hides the value in fmt output.
func (s Seed) String() string {
	return "[REDACTED]"
}

// LogValue hides the value in slog output.
func (s Seed) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}

// GeneratedCode is a freshly derived code and the seconds it stays current.
type GeneratedCode struct {
	Code     string
	ValidFor int
	At       time.Time
}
