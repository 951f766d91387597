package inbound

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/config"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/router"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUC struct {
	decryptIn  usecase.DecryptSeedInput
	decryptErr error
	genOut     *usecase.GenerateCodeOutput
	genErr     error
	verifyIn   usecase.VerifyCodeInput
	verifyOut  *usecase.VerifyCodeOutput
	verifyErr  error
}

func (f *fakeUC) DecryptSeed(_ context.Context, in usecase.DecryptSeedInput) error {
	f.decryptIn = in
	return f.decryptErr
}

func (f *fakeUC) GenerateCode(context.Context) (*usecase.GenerateCodeOutput, error) {
	return f.genOut, f.genErr
}

func (f *fakeUC) VerifyCode(_ context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error) {
	f.verifyIn = in
	return f.verifyOut, f.verifyErr
}

func newServer(t *testing.T, f *fakeUC) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", nil, nil)
	require.NoError(t, err)

	r := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: instrument.NewNoop()})
	RegisterHTTPEndpoint(r, f)
	return r
}

func TestHTTPEndpoint(t *testing.T) {
	t.Parallel()

	absent := goerror.NewServerMsg(errors.New("absent"), "Seed not decrypted yet")

	tests := []struct {
		name     string
		uc       *fakeUC
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
		check    func(t *testing.T, f *fakeUC)
	}{
		{
			name:     "decrypt ok",
			uc:       &fakeUC{},
			method:   http.MethodPost,
			path:     "/decrypt-seed",
			body:     `{"encrypted_seed":"QUJD"}`,
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok"}`,
			check: func(t *testing.T, f *fakeUC) {
				assert.Equal(t, "QUJD", f.decryptIn.EncryptedSeed)
			},
		},
		{
			name:     "decrypt malformed json",
			uc:       &fakeUC{},
			method:   http.MethodPost,
			path:     "/decrypt-seed",
			body:     `not json`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Missing encrypted_seed"}`,
		},
		{
			name:     "decrypt failure message",
			uc:       &fakeUC{decryptErr: goerror.NewServerMsg(errors.New("crypto/rsa: decryption error"), "Decryption failed")},
			method:   http.MethodPost,
			path:     "/decrypt-seed",
			body:     `{"encrypted_seed":"QUJD"}`,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Decryption failed"}`,
		},
		{
			name:     "generate ok",
			uc:       &fakeUC{genOut: &usecase.GenerateCodeOutput{Code: "012345", ValidFor: 17}},
			method:   http.MethodGet,
			path:     "/generate-2fa",
			wantCode: http.StatusOK,
			wantBody: `{"code":"012345","valid_for":17}`,
		},
		{
			name:     "generate absent",
			uc:       &fakeUC{genErr: absent},
			method:   http.MethodGet,
			path:     "/generate-2fa",
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Seed not decrypted yet"}`,
		},
		{
			name:     "verify ok",
			uc:       &fakeUC{verifyOut: &usecase.VerifyCodeOutput{Valid: true}},
			method:   http.MethodPost,
			path:     "/verify-2fa",
			body:     `{"code":"123456"}`,
			wantCode: http.StatusOK,
			wantBody: `{"valid":true}`,
			check: func(t *testing.T, f *fakeUC) {
				assert.Equal(t, "123456", f.verifyIn.Code)
			},
		},
		{
			name:     "verify invalid",
			uc:       &fakeUC{verifyOut: &usecase.VerifyCodeOutput{Valid: false}},
			method:   http.MethodPost,
			path:     "/verify-2fa",
			body:     `{"code":"000000"}`,
			wantCode: http.StatusOK,
			wantBody: `{"valid":false}`,
		},
		{
			name:     "verify empty body",
			uc:       &fakeUC{},
			method:   http.MethodPost,
			path:     "/verify-2fa",
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Missing code"}`,
		},
		{
			name:     "verify absent",
			uc:       &fakeUC{verifyErr: absent},
			method:   http.MethodPost,
			path:     "/verify-2fa",
			body:     `{"code":"123456"}`,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Seed not decrypted yet"}`,
		},
		{
			name:     "generate with wrong method",
			uc:       &fakeUC{},
			method:   http.MethodPost,
			path:     "/generate-2fa",
			wantCode: http.StatusMethodNotAllowed,
			wantBody: `{"error":"method not allowed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newServer(t, tt.uc)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			if tt.check != nil {
				tt.check(t, tt.uc)
			}
		})
	}
}
