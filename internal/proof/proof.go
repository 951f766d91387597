// Package proof produces the encrypted commit signature used to prove
// ownership of the student key: an RSA-PSS signature over the commit hash,
// encrypted with RSA-OAEP to the instructor key and Base64 encoded.
package proof

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/validator"
)

var (
	// ErrInvalidCommit is returned for anything but a 40-character hex commit hash.
	ErrInvalidCommit = errors.New("proof: commit hash must be exactly 40 hex characters")
	// ErrInstructorKeyTooSmall is returned when the OAEP-SHA256 capacity of the
	// instructor key cannot hold a signature made with the student key.
	ErrInstructorKeyTooSmall = errors.New("proof: instructor key too small for student signature")
)

// oaepOverhead is the OAEP padding size for SHA-256.
const oaepOverhead = 2*sha256.Size + 2

type Input struct {
	Commit string `validate:"required,commit"`
}

type Output struct {
	Commit             string
	EncryptedSignature string
}

// Generator signs with the student key and encrypts for the instructor key.
type Generator struct {
	validator  validator.Validator
	student    *rsa.PrivateKey
	instructor *rsa.PublicKey
}

func New(v validator.Validator, student *rsa.PrivateKey, instructor *rsa.PublicKey) *Generator {
	return &Generator{validator: v, student: student, instructor: instructor}
}

// Generate builds the proof for in.Commit.
func (g *Generator) Generate(in Input) (*Output, error) {
	in.Commit = strings.TrimSpace(in.Commit)
	if err := g.validator.Validate(in); err != nil {
		return nil, errors.Join(ErrInvalidCommit, err)
	}

	if g.instructor.Size() < g.student.Size()+oaepOverhead {
		return nil, ErrInstructorKeyTooSmall
	}

	sig, err := Sign(in.Commit, g.student)
	if err != nil {
		return nil, err
	}

	ct, err := Encrypt(sig, g.instructor)
	if err != nil {
		return nil, err
	}

	return &Output{
		Commit:             in.Commit,
		EncryptedSignature: base64.StdEncoding.EncodeToString(ct),
	}, nil
}

// Sign returns an RSA-PSS signature over the UTF-8 bytes of message, using
// SHA-256 with MGF1-SHA-256 and the largest salt the key allows.
func Sign(message string, key *rsa.PrivateKey) ([]byte, error) {
	digest := sha256.Sum256([]byte(message))
	return rsa.SignPSS(rand.Reader, key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
}

// Encrypt encrypts data with RSA-OAEP, SHA-256 and an empty label.
func Encrypt(data []byte, pub *rsa.PublicKey) ([]byte, error) {
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, data, nil)
}
