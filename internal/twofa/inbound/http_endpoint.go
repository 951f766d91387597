package inbound

import (
	"github.com/shandysiswandi/seedkeeper/internal/pkg/router"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/usecase"
)

// HTTPEndpoint exposes HTTP handlers for seed provisioning and TOTP.
type HTTPEndpoint struct {
	uc uc
}

// DecryptSeed accepts an RSA-OAEP encrypted seed and makes it the active one.
// @Summary Provision seed
// @Description Decrypts a Base64 RSA-OAEP (SHA-256) ciphertext with the service key and stores the 64-hex seed, replacing any previous one.
// @Tags TwoFA
// @Accept json
// @Produce json
// @Param request body DecryptSeedRequest true "Encrypted seed payload"
// @Success 200 {object} DecryptSeedResponse "Seed stored"
// @Failure 400 {object} router.errorResponse "Missing encrypted_seed"
// @Failure 500 {object} router.errorResponse "Decryption failed or storage error"
// @Router /decrypt-seed [post]
func (h *HTTPEndpoint) DecryptSeed(r *router.Request) (any, error) {
	var req DecryptSeedRequest
	if err := r.DecodeBody(&req, "Missing encrypted_seed"); err != nil {
		return nil, err
	}

	if err := h.uc.DecryptSeed(r.Context(), usecase.DecryptSeedInput{
		EncryptedSeed: req.EncryptedSeed,
	}); err != nil {
		return nil, err
	}

	return DecryptSeedResponse{Status: "ok"}, nil
}

// GenerateCode returns the current code and the seconds it stays valid.
// @Summary Current TOTP code
// @Description Returns the 6-digit TOTP code for the active seed and the seconds left in the current step.
// @Tags TwoFA
// @Produce json
// @Success 200 {object} GenerateCodeResponse "Current code"
// @Failure 500 {object} router.errorResponse "Seed not decrypted yet"
// @Router /generate-2fa [get]
func (h *HTTPEndpoint) GenerateCode(r *router.Request) (any, error) {
	resp, err := h.uc.GenerateCode(r.Context())
	if err != nil {
		return nil, err
	}

	return GenerateCodeResponse{
		Code:     resp.Code,
		ValidFor: resp.ValidFor,
	}, nil
}

// VerifyCode checks a submitted code against the active seed.
// @Summary Verify TOTP code
// @Description Accepts the code when it matches the current step or one step either side.
// @Tags TwoFA
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Code payload"
// @Success 200 {object} VerifyCodeResponse "Verification result"
// @Failure 400 {object} router.errorResponse "Missing code"
// @Failure 500 {object} router.errorResponse "Seed not decrypted yet"
// @Router /verify-2fa [post]
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req, "Missing code"); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		Code: req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyCodeResponse{Valid: resp.Valid}, nil
}
