package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/codec"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
)

type DecryptSeedInput struct {
	EncryptedSeed string `validate:"required"`
}

// DecryptSeed decrypts, validates and persists a new seed. The previous seed
// stays active unless every step succeeds.
func (s *Usecase) DecryptSeed(ctx context.Context, in DecryptSeedInput) error {
	ctx, span := s.startSpan(ctx, "DecryptSeed")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidFormat("Missing encrypted_seed")
	}

	key, err := s.keys.PrivateKey()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load private key", "error", err)
		return goerror.NewServerMsg(errors.Join(entity.ErrKeyLoad, err), "Private key not found")
	}

	seed, err := codec.DecryptSeed(in.EncryptedSeed, key)
	if err != nil {
		slog.WarnContext(ctx, "failed to decrypt seed", "error", err)
		return goerror.NewServerMsg(err, "Decryption failed")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repoSeed.Write(ctx, seed); err != nil {
		slog.ErrorContext(ctx, "failed to repo write seed", "error", err)
		return goerror.NewServerMsg(err, "Failed to store seed")
	}

	slog.InfoContext(ctx, "seed stored")

	return nil
}
