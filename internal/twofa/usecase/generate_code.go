package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/codec"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
)

type GenerateCodeOutput struct {
	Code     string
	ValidFor int
}

func (s *Usecase) GenerateCode(ctx context.Context) (*GenerateCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "GenerateCode")
	defer span.End()

	seed, err := s.activeSeed(ctx)
	if err != nil {
		return nil, err
	}

	gc, err := s.currentCode(seed, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp code", "error", err)
		return nil, goerror.NewServerMsg(err, "Failed to generate code")
	}

	return &GenerateCodeOutput{Code: gc.Code, ValidFor: gc.ValidFor}, nil
}

// activeSeed reads the persisted seed and maps the Absent state and storage
// failures to client errors.
func (s *Usecase) activeSeed(ctx context.Context) (entity.Seed, error) {
	seed, err := s.repoSeed.Read(ctx)
	if errors.Is(err, entity.ErrSeedAbsent) {
		slog.WarnContext(ctx, "seed requested before decryption")
		return "", goerror.NewServerMsg(err, "Seed not decrypted yet")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo read seed", "error", err)
		return "", goerror.NewServerMsg(err, "Failed to read seed")
	}

	return seed, nil
}

func (s *Usecase) currentCode(seed entity.Seed, now time.Time) (entity.GeneratedCode, error) {
	code, err := s.totp.GenerateCode(codec.SeedToBase32(seed), now)
	if err != nil {
		return entity.GeneratedCode{}, errors.Join(entity.ErrTOTP, err)
	}

	return entity.GeneratedCode{
		Code:     code,
		ValidFor: s.totp.Remaining(now),
		At:       now,
	}, nil
}
