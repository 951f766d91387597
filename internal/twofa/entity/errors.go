package entity

import "errors"

var (
	// ErrKeyLoad reports a private key that is missing, unreadable or unusable.
	ErrKeyLoad = errors.New("private key could not be loaded")
	// ErrDecode reports ciphertext that is not valid Base64, or plaintext that is not UTF-8.
	ErrDecode = errors.New("seed could not be decoded")
	// ErrDecryption reports any RSA-OAEP failure, without detail.
	ErrDecryption = errors.New("seed decryption failed")
	// ErrFormat reports plaintext that is not a 64 character lowercase hex string.
	ErrFormat = errors.New("seed must be 64 lowercase hex characters")
	// ErrStorage reports a failure to persist or read back the seed.
	ErrStorage = errors.New("seed storage failed")
	// ErrTOTP reports an internal failure while deriving a code.
	ErrTOTP = errors.New("totp derivation failed")
	// ErrSeedAbsent reports that no seed has been provisioned yet.
	ErrSeedAbsent = errors.New("seed not decrypted yet")
)
