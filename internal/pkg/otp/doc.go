// Package otp generates and verifies time-based one-time passwords (RFC 6238)
// on top of github.com/pquerna/otp.
//
// Secrets are unpadded Base32 strings. Verification accepts a configurable
// number of adjacent time steps and compares candidates in constant time.
package otp
