package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/medibook/internal/identity/entity"
	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
)

type RegisterInput struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,password"`
	FullName string `validate:"required,min=3,max=100,alphaspace"`
	Phone    string `validate:"omitempty,e164"`
}

type RegisterOutput struct {
	ID    int64
	Email string
	Role  string
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	hashed, err := s.password.Hash(in.Password)
	if errors.Is(err, hash.ErrInvalidInput) {
		return nil, goerror.NewInvalidInput(nil, "password", "password is too long")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	newUser := entity.NewUser{
		ID:       s.uid.Generate(),
		Email:    in.Email,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     entity.RolePatient,
		Status:   entity.UserStatusActive,
	}

	err = s.repoDB.NewRegistration(ctx, newUser, string(hashed))
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "email already registered", "email", in.Email)
		return nil, goerror.NewBusiness("email already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo user registration", "email", newUser.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID:   newUser.ID,
		Email:    newUser.Email,
		FullName: newUser.FullName,
		Role:     newUser.Role,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registered", "user_id", newUser.ID, "error", err)
	}

	return &RegisterOutput{
		ID:    newUser.ID,
		Email: newUser.Email,
		Role:  newUser.Role.String(),
	}, nil
}
