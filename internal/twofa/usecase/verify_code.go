package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/codec"
)

type VerifyCodeInput struct {
	Code string `validate:"required"`
}

type VerifyCodeOutput struct {
	Valid bool
}

// VerifyCode reports whether in.Code, exactly as submitted, matches the active
// seed within the configured step tolerance. A blank code is missing; any other
// malformed code is invalid.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	if err := s.validator.Validate(VerifyCodeInput{Code: strings.TrimSpace(in.Code)}); err != nil {
		return nil, goerror.NewInvalidFormat("Missing code")
	}

	seed, err := s.activeSeed(ctx)
	if err != nil {
		return nil, err
	}

	valid := s.totp.Validate(in.Code, codec.SeedToBase32(seed), s.clock.Now())
	if !valid {
		slog.InfoContext(ctx, "totp code rejected")
	}

	return &VerifyCodeOutput{Valid: valid}, nil
}
