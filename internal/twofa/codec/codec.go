// Package codec turns an encrypted seed into a validated seed and derives the
// Base32 secret used for code generation.
package codec

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
)

// DecryptSeed decodes encryptedB64 (standard Base64), decrypts it with
// RSA-OAEP using SHA-256 for both the hash and MGF1 with an empty label, and
// validates the plaintext as a seed. Surrounding whitespace is trimmed from
// the input and from the plaintext.
//
// Errors are entity.ErrDecode, entity.ErrDecryption or entity.ErrFormat. A
// partial seed is never returned.
func DecryptSeed(encryptedB64 string, key *rsa.PrivateKey) (entity.Seed, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encryptedB64))
	if err != nil {
		return "", errors.Join(entity.ErrDecode, err)
	}

	if key == nil {
		return "", entity.ErrDecryption
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), nil, key, ciphertext, nil)
	if err != nil {
		return "", entity.ErrDecryption
	}
	defer clear(plaintext)

	if !utf8.Valid(plaintext) {
		return "", entity.ErrDecode
	}

	return entity.ParseSeed(strings.TrimSpace(string(plaintext)))
}

// SeedToBase32 returns the unpadded Base32 secret for seed.
func SeedToBase32(seed entity.Seed) string {
	return seed.Base32()
}
