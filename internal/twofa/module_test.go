package twofa

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	libOTP "github.com/pquerna/otp"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/config"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/keystore"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/router"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/validator"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/outbound/snapshot"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/outbound/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MissingDependency(t *testing.T) {
	t.Parallel()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	assert.Error(t, New(Dependency{Validator: v}))
	assert.ErrorIs(t, New(Dependency{}), errValidatorRequired)
}

func TestModule_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyPath := filepath.Join(dir, "student_private.pem")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0o600))

	cfg, err := config.NewViperFromBytes("yaml", nil, nil)
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	ins := instrument.NewNoop()
	r := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: ins})
	seedPath := filepath.Join(dir, "data", "seed.txt")

	require.NoError(t, New(Dependency{
		Router:     r,
		SeedStore:  store.NewFile(seedPath, ins),
		Snapshot:   snapshot.NewFile(filepath.Join(dir, "cron", "last_code.txt"), ins),
		Keys:       keystore.NewFile(keyPath),
		Config:     cfg,
		Instrument: ins,
		UUID:       uid.NewUUID(),
		Clock:      clock.NewFixedUnix(1_700_000_010),
		Totp:       otp.NewTOTP(otp.DefaultPeriod, otp.DefaultSkew, libOTP.DigitsSix),
		Validator:  v,
	}))

	do := func(method, path, body string) (int, map[string]any) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		var out map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return rec.Code, out
	}

	code, body := do(http.MethodGet, "/generate-2fa", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Seed not decrypted yet", body["error"])

	ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, &key.PublicKey, []byte(strings.Repeat("a", 64)), nil)
	require.NoError(t, err)
	payload := `{"encrypted_seed":"` + base64.StdEncoding.EncodeToString(ct) + `"}`

	code, body = do(http.MethodPost, "/decrypt-seed", payload)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	raw, err := os.ReadFile(seedPath)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 64)+"\n", string(raw))

	code, body = do(http.MethodGet, "/generate-2fa", "")
	require.Equal(t, http.StatusOK, code)
	totpCode, ok := body["code"].(string)
	require.True(t, ok)
	assert.Regexp(t, `^[0-9]{6}$`, totpCode)
	assert.EqualValues(t, 30, body["valid_for"])

	code, body = do(http.MethodPost, "/verify-2fa", `{"code":"`+totpCode+`"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["valid"])

	code, body = do(http.MethodPost, "/verify-2fa", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing code", body["error"])
}
