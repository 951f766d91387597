// Package keystore loads RSA keys from PEM files.
//
// Only unencrypted keys are accepted. Private keys may be PKCS#1 or PKCS#8,
// public keys PKIX or PKCS#1.
package keystore
