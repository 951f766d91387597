package keystore

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePEM(t *testing.T, dir, name string, blocks ...*pem.Block) string {
	t.Helper()

	var data []byte
	for _, b := range blocks {
		data = append(data, pem.EncodeToMemory(b)...)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadPrivateKey(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	ecPKCS8, err := x509.MarshalPKCS8PrivateKey(ecKey)
	require.NoError(t, err)

	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name: "pkcs1",
			path: writePEM(t, dir, "pkcs1.pem", &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
		},
		{
			name: "pkcs8",
			path: writePEM(t, dir, "pkcs8.pem", &pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}),
		},
		{
			name: "key after a certificate-like block",
			path: writePEM(t, dir, "bundle.pem",
				&pem.Block{Type: "CERTIFICATE", Bytes: []byte("ignored")},
				&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8},
			),
		},
		{
			name:    "encrypted pkcs8",
			path:    writePEM(t, dir, "enc8.pem", &pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: []byte("opaque")}),
			wantErr: ErrEncryptedKey,
		},
		{
			name: "legacy encrypted pkcs1",
			path: writePEM(t, dir, "enc1.pem", &pem.Block{
				Type:    "RSA PRIVATE KEY",
				Headers: map[string]string{"Proc-Type": "4,ENCRYPTED", "DEK-Info": "AES-256-CBC,00"},
				Bytes:   []byte("opaque"),
			}),
			wantErr: ErrEncryptedKey,
		},
		{
			name:    "not rsa",
			path:    writePEM(t, dir, "ec.pem", &pem.Block{Type: "PRIVATE KEY", Bytes: ecPKCS8}),
			wantErr: ErrNotRSA,
		},
		{
			name:    "garbage der",
			path:    writePEM(t, dir, "bad.pem", &pem.Block{Type: "RSA PRIVATE KEY", Bytes: []byte("nope")}),
			wantErr: ErrInvalidPEM,
		},
		{
			name:    "not pem",
			path:    writePEM(t, dir, "empty.pem"),
			wantErr: ErrInvalidPEM,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadPrivateKey(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.True(t, key.Equal(got))
		})
	}
}

func TestLoadPrivateKey_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadPrivateKey(filepath.Join(t.TempDir(), "absent.pem"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_ReloadsEachCall(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	second, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	path := writePEM(t, dir, "key.pem", &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(first)})
	f := NewFile(path)

	got, err := f.PrivateKey()
	require.NoError(t, err)
	assert.True(t, first.Equal(got))

	writePEM(t, dir, "key.pem", &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(second)})

	got, err = f.PrivateKey()
	require.NoError(t, err)
	assert.True(t, second.Equal(got))
}

func TestLoadPublicKey(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pkix, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	dir := t.TempDir()

	got, err := LoadPublicKey(writePEM(t, dir, "pkix.pem", &pem.Block{Type: "PUBLIC KEY", Bytes: pkix}))
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(got))

	got, err = LoadPublicKey(writePEM(t, dir, "pkcs1.pem", &pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey)}))
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(got))

	_, err = LoadPublicKey(writePEM(t, dir, "none.pem", &pem.Block{Type: "PRIVATE KEY", Bytes: []byte("x")}))
	assert.ErrorIs(t, err, ErrInvalidPEM)
}
