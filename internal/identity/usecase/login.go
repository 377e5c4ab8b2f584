package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/medibook/internal/identity/entity"
	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
	"github.com/shandysiswandi/medibook/internal/pkg/idempotency"
	"github.com/shandysiswandi/medibook/internal/pkg/jwt"
	"github.com/shandysiswandi/medibook/internal/pkg/valueobject"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`

	UserAgent string
	ClientIP  string
}

type LoginOutput struct {
	AccessToken  string
	RefreshToken string
}

var errInvalidCredential = goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	throttleKey := "login:" + in.Email
	if res, err := s.limiter.Allow(ctx, throttleKey); err != nil {
		slog.ErrorContext(ctx, "failed to check login throttle", "error", err)
	} else if !res.Allowed {
		slog.WarnContext(ctx, "login throttled", "email", in.Email, "retry_after", res.RetryAfter)
		return nil, goerror.NewBusiness("too many login attempts, try again later", goerror.CodeTooManyRequest)
	}

	user, err := s.repoDB.GetUserLoginInfo(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		s.verifyDummy(ctx, in.Password)
		s.recordFailure(ctx, throttleKey)
		slog.WarnContext(ctx, "user account not found", "email", in.Email)
		return nil, errInvalidCredential
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user login info", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	ok, err := s.password.Check(user.Password, in.Password)
	if errors.Is(err, hash.ErrMalformedHash) {
		s.verifyDummy(ctx, in.Password)
		s.recordFailure(ctx, throttleKey)
		slog.ErrorContext(ctx, "stored credential is not a valid hash", "user_id", user.ID, "algorithm", hash.Detect(user.Password))
		return nil, errInvalidCredential
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to check credential", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		s.recordFailure(ctx, throttleKey)
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, errInvalidCredential
	}

	if err := s.limiter.Reset(ctx, throttleKey); err != nil {
		slog.WarnContext(ctx, "failed to reset login throttle", "user_id", user.ID, "error", err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	if s.password.NeedsRehash(user.Password) {
		s.upgradeCredential(ctx, user.ID, user.Password, in.Password)
	}

	acToken, refToken, err := s.issueTokens(ctx,
		jwt.Subject{UserID: user.ID, Email: user.Email, Role: user.Role.String()},
		entity.RefreshToken{Metadata: valueobject.ClientMetadata(in.UserAgent, in.ClientIP)},
	)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		AccessToken:  acToken,
		RefreshToken: refToken,
	}, nil
}

func (s *Usecase) recordFailure(ctx context.Context, key string) {
	if _, err := s.limiter.Hit(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to record login failure", "error", err)
	}
}

// upgradeCredential re-hashes a just-verified plaintext with the current
// parameters in the background. The swap only happens if the stored hash is
// still the one that was verified, and only one upgrade per user runs at a time.
func (s *Usecase) upgradeCredential(ctx context.Context, userID int64, oldHash, plaintext string) {
	key := "rehash:" + strconv.FormatInt(userID, 10)

	accepted := s.goroutine.Go(ctx, func(ctx context.Context) error {
		err := s.idemp.Run(ctx, key, func(ctx context.Context) error {
			newHash, err := s.password.Hash(plaintext)
			if err != nil {
				slog.ErrorContext(ctx, "failed to rehash credential", "user_id", userID, "error", err)
				return err
			}

			replaced, err := s.repoDB.ReplaceUserCredential(ctx, userID, oldHash, string(newHash))
			if err != nil {
				slog.ErrorContext(ctx, "failed to repo replace user credential", "user_id", userID, "error", err)
				return err
			}

			slog.InfoContext(ctx, "credential rehashed", "user_id", userID, "replaced", replaced, "algorithm", s.password.Algorithm())
			return nil
		},
			idempotency.WithLock(s.cfg.GetSecond("modules.identity.rehash_lock_seconds")),
			idempotency.WithTTL(s.cfg.GetMinute("modules.identity.rehash_guard_minutes")),
		)
		if errors.Is(err, idempotency.ErrInProgress) || errors.Is(err, idempotency.ErrCompleted) {
			slog.DebugContext(ctx, "credential rehash already handled", "user_id", userID)
			return nil
		}
		return err
	})
	if !accepted {
		slog.WarnContext(ctx, "credential rehash skipped", "user_id", userID)
	}
}
