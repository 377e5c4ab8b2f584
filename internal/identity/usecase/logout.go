package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
)

type LogoutInput struct {
	RefreshToken string
}

// Logout revokes the caller's refresh token. An empty or unknown token is not
// an error.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	if in.RefreshToken == "" {
		return nil
	}

	tokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.RevokeRefreshToken(ctx, clm.UserID, string(tokenHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo revoke refresh token", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
