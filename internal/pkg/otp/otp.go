package otp

import (
	"crypto/subtle"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// DefaultPeriod is the RFC 6238 time step in seconds.
const DefaultPeriod uint = 30

// DefaultSkew is the number of adjacent steps accepted on each side.
const DefaultSkew uint = 1

// OTP defines the contract for TOTP operations over a Base32 secret.
type OTP interface {
	// GenerateCode creates a TOTP code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
	// Validate checks whether a code is valid at the given time with the default skew.
	Validate(code, secret string, at time.Time) bool
	// ValidateWindow checks a code against every step in [-window, +window].
	ValidateWindow(code, secret string, at time.Time, window uint) bool
	// Remaining returns the seconds left in the step containing at, in [1, period].
	Remaining(at time.Time) int
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP instance with sensible defaults.
//
// If digits is not 6 or 8, it falls back to 6 digits. If period is 0, it uses
// the common 30-second period. A zero skew accepts the current step only.
func NewTOTP(period, skew uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = DefaultPeriod
	}

	return &TOTP{
		period: period,
		skew:   skew,
		digits: digits,
	}
}

func (o *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.period,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// GenerateCode creates a TOTP code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, o.opts())
}

// Validate checks whether a code is valid at the given time.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	return o.ValidateWindow(code, secret, at, o.skew)
}

// ValidateWindow reports whether code matches any step from at-window to
// at+window. Every candidate is derived and compared in constant time; there
// is no early exit on a match. Any derivation failure yields false.
func (o *TOTP) ValidateWindow(code, secret string, at time.Time, window uint) bool {
	if len(code) != o.digits.Length() {
		return false
	}

	step := time.Duration(o.period) * time.Second
	matched := 0
	failed := false

	for offset := -int64(window); offset <= int64(window); offset++ {
		t := at.Add(time.Duration(offset) * step)
		if t.Unix() < 0 {
			continue
		}

		candidate, err := totp.GenerateCodeCustom(secret, t, o.opts())
		if err != nil {
			failed = true
			continue
		}

		matched |= subtle.ConstantTimeCompare([]byte(candidate), []byte(code))
	}

	return !failed && matched == 1
}

// Remaining returns the seconds left before the code at the given time rolls over.
func (o *TOTP) Remaining(at time.Time) int {
	p := int64(o.period)
	unix := at.Unix()
	return int(p - ((unix%p)+p)%p)
}
