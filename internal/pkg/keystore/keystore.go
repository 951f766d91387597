package keystore

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrInvalidPEM indicates the input holds no usable PEM block.
	ErrInvalidPEM = errors.New("keystore: no PEM key block found")
	// ErrEncryptedKey indicates a passphrase-protected key, which is not supported.
	ErrEncryptedKey = errors.New("keystore: encrypted private keys are not supported")
	// ErrNotRSA indicates a well-formed key of a different algorithm.
	ErrNotRSA = errors.New("keystore: key is not RSA")
)

// PrivateKeyLoader returns the RSA private key used to decrypt seeds.
type PrivateKeyLoader interface {
	PrivateKey() (*rsa.PrivateKey, error)
}

// File loads a private key from a PEM file on every call. Nothing is cached,
// so replacing the file on disk takes effect on the next operation.
type File struct {
	path string
}

// NewFile returns a loader for the PEM file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// PrivateKey reads and parses the key file.
func (f *File) PrivateKey() (*rsa.PrivateKey, error) {
	return LoadPrivateKey(f.path)
}

// LoadPrivateKey reads an unencrypted PKCS#1 or PKCS#8 RSA private key from path.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keystore: read %s: %w", path, err)
	}

	return ParsePrivateKeyPEM(data)
}

// ParsePrivateKeyPEM parses the first private key block found in data.
func ParsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	for rest := data; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, ErrInvalidPEM
		}

		if block.Type == "ENCRYPTED PRIVATE KEY" || strings.Contains(block.Headers["Proc-Type"], "ENCRYPTED") {
			return nil, ErrEncryptedKey
		}

		switch block.Type {
		case "RSA PRIVATE KEY":
			key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err != nil {
				return nil, errors.Join(ErrInvalidPEM, err)
			}
			return key, nil
		case "PRIVATE KEY":
			parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, errors.Join(ErrInvalidPEM, err)
			}
			key, ok := parsed.(*rsa.PrivateKey)
			if !ok {
				return nil, ErrNotRSA
			}
			return key, nil
		}
	}
}

// LoadPublicKey reads a PKIX ("PUBLIC KEY") or PKCS#1 ("RSA PUBLIC KEY") RSA
// public key from path.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keystore: read %s: %w", path, err)
	}

	return ParsePublicKeyPEM(data)
}

// ParsePublicKeyPEM parses the first public key block found in data.
func ParsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	for rest := data; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, ErrInvalidPEM
		}

		switch block.Type {
		case "PUBLIC KEY":
			parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
			if err != nil {
				return nil, errors.Join(ErrInvalidPEM, err)
			}
			key, ok := parsed.(*rsa.PublicKey)
			if !ok {
				return nil, ErrNotRSA
			}
			return key, nil
		case "RSA PUBLIC KEY":
			key, err := x509.ParsePKCS1PublicKey(block.Bytes)
			if err != nil {
				return nil, errors.Join(ErrInvalidPEM, err)
			}
			return key, nil
		}
	}
}
