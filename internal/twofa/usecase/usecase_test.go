package usecase

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/validator"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepStart is the first second of a 30s step.
const stepStart int64 = 1_700_000_010

var (
	testKeys = sync.OnceValues(func() ([2]*rsa.PrivateKey, error) {
		var keys [2]*rsa.PrivateKey
		for i := range keys {
			k, err := rsa.GenerateKey(rand.Reader, 2048)
			if err != nil {
				return keys, err
			}
			keys[i] = k
		}
		return keys, nil
	})
)

func keyPair(t *testing.T) (*rsa.PrivateKey, *rsa.PrivateKey) {
	t.Helper()

	keys, err := testKeys()
	require.NoError(t, err)
	return keys[0], keys[1]
}

func encrypt(t *testing.T, pub *rsa.PublicKey, plaintext string) string {
	t.Helper()

	ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, []byte(plaintext), nil)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(ct)
}

type memSeed struct {
	mu       sync.Mutex
	seed     entity.Seed
	writeErr error
	readErr  error
	writes   int
}

func (m *memSeed) Write(_ context.Context, seed entity.Seed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.seed = seed
	m.writes++
	return nil
}

func (m *memSeed) Read(context.Context) (entity.Seed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	if m.seed == "" {
		return "", entity.ErrSeedAbsent
	}
	return m.seed, nil
}

type memSnapshot struct {
	lines []string
	err   error
}

func (m *memSnapshot) Write(_ context.Context, line string) error {
	if m.err != nil {
		return m.err
	}
	m.lines = append(m.lines, line)
	return nil
}

type staticKey struct {
	key *rsa.PrivateKey
	err error
}

func (s staticKey) PrivateKey() (*rsa.PrivateKey, error) {
	return s.key, s.err
}

type fixture struct {
	uc       *Usecase
	seeds    *memSeed
	snapshot *memSnapshot
	clock    *clock.FixedClocker
	key      *rsa.PrivateKey
	other    *rsa.PrivateKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, other := keyPair(t)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		seeds:    &memSeed{},
		snapshot: &memSnapshot{},
		clock:    clock.NewFixedUnix(stepStart),
		key:      key,
		other:    other,
	}
	f.uc = New(Dependency{
		RepoSeed:     f.seeds,
		RepoSnapshot: f.snapshot,
		Keys:         staticKey{key: key},
		Totp:         otp.NewTOTP(otp.DefaultPeriod, otp.DefaultSkew, libOTP.DigitsSix),
		Clock:        f.clock,
		Validator:    v,
		Instrument:   instrument.NewNoop(),
	})
	return f
}

func assertClientError(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, status, gerr.StatusCode())
	assert.Equal(t, msg, gerr.Msg())
}

func TestUsecase_DecryptSeed(t *testing.T) {
	t.Parallel()

	seedA := strings.Repeat("a", 64)

	tests := []struct {
		name       string
		input      func(f *fixture) string
		setup      func(f *fixture)
		wantStatus int
		wantMsg    string
		wantSeed   entity.Seed
	}{
		{
			name:     "valid ciphertext",
			input:    func(f *fixture) string { return encrypt(t, &f.key.PublicKey, seedA) },
			wantSeed: entity.Seed(seedA),
		},
		{
			name:       "empty input",
			input:      func(*fixture) string { return "" },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing encrypted_seed",
		},
		{
			name:       "key cannot be loaded",
			input:      func(f *fixture) string { return encrypt(t, &f.key.PublicKey, seedA) },
			setup:      func(f *fixture) { f.uc.keys = staticKey{err: errors.New("open: no such file")} },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Private key not found",
		},
		{
			name:       "malformed base64",
			input:      func(*fixture) string { return "%%%" },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Decryption failed",
		},
		{
			name:       "invalid seed format",
			input:      func(f *fixture) string { return encrypt(t, &f.key.PublicKey, strings.ToUpper(seedA)) },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Decryption failed",
		},
		{
			name: "storage failure",
			input: func(f *fixture) string {
				return encrypt(t, &f.key.PublicKey, seedA)
			},
			setup:      func(f *fixture) { f.seeds.writeErr = errors.Join(entity.ErrStorage, errors.New("read-only fs")) },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Failed to store seed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			err := f.uc.DecryptSeed(context.Background(), DecryptSeedInput{EncryptedSeed: tt.input(f)})
			if tt.wantMsg != "" {
				assertClientError(t, err, tt.wantStatus, tt.wantMsg)
				assert.Zero(t, f.seeds.writes)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSeed, f.seeds.seed)
		})
	}
}

func TestUsecase_ValidSeedThenCode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.DecryptSeed(ctx, DecryptSeedInput{EncryptedSeed: encrypt(t, &f.key.PublicKey, strings.Repeat("a", 64))}))

	out, err := f.uc.GenerateCode(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, out.Code)
	assert.Equal(t, 30, out.ValidFor)

	f.clock.Advance(17 * time.Second)
	again, err := f.uc.GenerateCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, out.Code, again.Code)
	assert.Equal(t, 13, again.ValidFor)
}

func TestUsecase_WrongKeyKeepsPriorSeed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	prior := strings.Repeat("1", 64)

	require.NoError(t, f.uc.DecryptSeed(ctx, DecryptSeedInput{EncryptedSeed: encrypt(t, &f.key.PublicKey, prior)}))

	err := f.uc.DecryptSeed(ctx, DecryptSeedInput{EncryptedSeed: encrypt(t, &f.other.PublicKey, strings.Repeat("2", 64))})
	assertClientError(t, err, http.StatusInternalServerError, "Decryption failed")

	assert.Equal(t, entity.Seed(prior), f.seeds.seed)
	assert.Equal(t, 1, f.seeds.writes)
}

func TestUsecase_AbsentSeed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.GenerateCode(ctx)
	assertClientError(t, err, http.StatusInternalServerError, "Seed not decrypted yet")

	_, err = f.uc.VerifyCode(ctx, VerifyCodeInput{Code: "123456"})
	assertClientError(t, err, http.StatusInternalServerError, "Seed not decrypted yet")
}

func TestUsecase_ReadFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seeds.readErr = errors.Join(entity.ErrStorage, errors.New("permission denied"))

	_, err := f.uc.GenerateCode(context.Background())
	assertClientError(t, err, http.StatusInternalServerError, "Failed to read seed")
}

func TestUsecase_VerifyCode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.seeds.seed = entity.Seed(strings.Repeat("0", 64))

	issued, err := f.uc.GenerateCode(ctx)
	require.NoError(t, err)

	tests := []struct {
		name   string
		offset int64
		code   string
		want   bool
	}{
		{name: "same step at T+29", offset: 29, code: issued.Code, want: true},
		{name: "next step at T+31", offset: 31, code: issued.Code, want: true},
		{name: "previous step at T-1", offset: -1, code: issued.Code, want: true},
		{name: "two steps later at T+61", offset: 61, code: issued.Code, want: false},
		{name: "two steps earlier at T-31", offset: -31, code: issued.Code, want: false},
		{name: "surrounding whitespace", offset: 0, code: " " + issued.Code + "\n", want: false},
		{name: "wrong length", offset: 0, code: issued.Code[:5], want: false},
		{name: "not digits", offset: 0, code: "abcdef", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := newFixture(t)
			g.seeds.seed = f.seeds.seed
			g.clock.Set(f.clock.Now().Add(time.Duration(tt.offset) * time.Second))

			out, err := g.uc.VerifyCode(ctx, VerifyCodeInput{Code: tt.code})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Valid)
		})
	}
}

func TestUsecase_VerifyCode_Missing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seeds.seed = entity.Seed(strings.Repeat("0", 64))

	for _, code := range []string{"", "   "} {
		_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Code: code})
		assertClientError(t, err, http.StatusBadRequest, "Missing code")
	}
}

func TestUsecase_Snapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("absent seed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		out, err := f.uc.Snapshot(ctx)
		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.Equal(t, []string{"Seed not found\n"}, f.snapshot.lines)
	})

	t.Run("unreadable seed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.seeds.readErr = entity.ErrStorage
		out, err := f.uc.Snapshot(ctx)
		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.Equal(t, []string{"Error: failed to generate code\n"}, f.snapshot.lines)
	})

	t.Run("active seed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.seeds.seed = entity.Seed(strings.Repeat("0", 64))
		f.clock.Advance(5 * time.Second)

		code, err := f.uc.GenerateCode(ctx)
		require.NoError(t, err)

		out, err := f.uc.Snapshot(ctx)
		require.NoError(t, err)
		assert.True(t, out.OK)
		assert.Equal(t, "1700000015,"+code.Code+",25\n", out.Line)
		assert.Equal(t, []string{out.Line}, f.snapshot.lines)
	})

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.snapshot.err = errors.New("disk full")
		_, err := f.uc.Snapshot(ctx)
		assert.Error(t, err)
	})
}
