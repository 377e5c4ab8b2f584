package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
)

type ProfileInput struct{}

type ProfileOutput struct {
	ID       int64
	Email    string
	FullName string
	Phone    string
	Role     string
	Status   string
}

func (s *Usecase) Profile(ctx context.Context, _ ProfileInput) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.repoDB.GetUserByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.UserID)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	return &ProfileOutput{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Role:     user.Role.String(),
		Status:   user.Status.String(),
	}, nil
}
