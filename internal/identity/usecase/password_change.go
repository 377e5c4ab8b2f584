package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
)

type PasswordChangeInput struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,password,nefield=CurrentPassword"`
}

func (s *Usecase) PasswordChange(ctx context.Context, in PasswordChangeInput) error {
	ctx, span := s.startSpan(ctx, "PasswordChange")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	user, err := s.repoDB.GetUserCredentialInfo(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.UserID)
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user credential info", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return err
	}

	ok, err := s.password.Check(user.Password, in.CurrentPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check current credential", "user_id", user.ID, "error", err)
		if errors.Is(err, hash.ErrMalformedHash) {
			return goerror.NewBusiness("invalid password", goerror.CodeUnauthorized)
		}
		return goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "current password mismatch", "user_id", user.ID)
		return goerror.NewBusiness("invalid password", goerror.CodeUnauthorized)
	}

	newHash, err := s.password.Hash(in.NewPassword)
	if errors.Is(err, hash.ErrInvalidInput) {
		return goerror.NewInvalidInput(nil, "new_password", "new password is too long")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserCredential(ctx, user.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to update user password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.RevokeAllRefreshToken(ctx, user.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo revoke all refresh token", "user_id", user.ID, "error", err)
	}

	if err := s.repoMessaging.PublishUserPasswordChanged(ctx, UserPasswordChangedEvent{
		UserID:    user.ID,
		ChangedAt: s.clock.Now().Unix(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user password changed", "user_id", user.ID, "error", err)
	}

	return nil
}
