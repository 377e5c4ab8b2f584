package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/medibook/internal/identity/entity"
	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
	"github.com/shandysiswandi/medibook/internal/pkg/instrument"
	"github.com/shandysiswandi/medibook/internal/pkg/pgtest"
	"github.com/shandysiswandi/medibook/internal/pkg/valueobject"
)

const bcryptSample = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func TestDB_Postgres(t *testing.T) {
	pool, _ := pgtest.New(t)
	repo := NewDB(pool, instrument.NewNoop())
	ctx := context.Background()

	user := entity.NewUser{
		ID: 101, Email: "sari@medibook.id", FullName: "Sari Wulandari",
		Phone: "+6281234567890", Role: entity.RoleDoctor, Status: entity.UserStatusActive,
	}

	t.Run("registration stores user and credential", func(t *testing.T) {
		// Act
		err := repo.NewRegistration(ctx, user, bcryptSample)

		// Assert
		if err != nil {
			t.Fatalf("new registration: %v", err)
		}

		info, err := repo.GetUserLoginInfo(ctx, "SARI@medibook.id")
		if err != nil {
			t.Fatalf("login info: %v", err)
		}
		if info.ID != 101 || info.Password != bcryptSample || info.Role != entity.RoleDoctor || info.Status != entity.UserStatusActive {
			t.Fatalf("info = %+v", info)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		// Arrange
		dup := user
		dup.ID = 102
		dup.Email = "Sari@MediBook.id"

		// Act
		err := repo.NewRegistration(ctx, dup, bcryptSample)

		// Assert
		if !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("err = %v, want %v", err, goerror.ErrConflict)
		}
		if _, err := repo.GetUserByID(ctx, 102); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("partial registration left behind: %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetUserLoginInfo(ctx, "nobody@medibook.id")
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("err = %v, want %v", err, goerror.ErrNotFound)
		}
	})

	t.Run("replace credential only when unchanged", func(t *testing.T) {
		// Arrange
		const upgraded = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

		// Act
		stale, err := repo.ReplaceUserCredential(ctx, 101, "$2a$04$not-the-stored-one", upgraded)
		if err != nil {
			t.Fatalf("replace stale: %v", err)
		}
		fresh, err := repo.ReplaceUserCredential(ctx, 101, bcryptSample, upgraded)
		if err != nil {
			t.Fatalf("replace fresh: %v", err)
		}

		// Assert
		if stale || !fresh {
			t.Fatalf("stale = %v, fresh = %v", stale, fresh)
		}
		cred, err := repo.GetUserCredentialInfo(ctx, 101)
		if err != nil {
			t.Fatalf("credential info: %v", err)
		}
		if cred.Password != upgraded || cred.UpdatedAt.IsZero() {
			t.Fatalf("cred = %+v", cred)
		}
	})

	t.Run("update credential of unknown user", func(t *testing.T) {
		err := repo.UpdateUserCredential(ctx, 999, bcryptSample)
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("err = %v, want %v", err, goerror.ErrNotFound)
		}
	})

	t.Run("refresh token lifecycle", func(t *testing.T) {
		// Arrange
		expires := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
		if err := repo.CreateRefreshToken(ctx, entity.RefreshToken{
			ID: 501, UserID: 101, Token: "hash-501", ExpiresAt: expires,
			Metadata: valueobject.ClientMetadata("ios/1.0", "10.1.1.1"),
		}); err != nil {
			t.Fatalf("create refresh token: %v", err)
		}

		// Act
		err := repo.RotateRefreshToken(ctx, entity.RotateRefreshToken{
			NewID: 502, OldID: 501, UserID: 101, NewToken: "hash-502", NewExpiresAt: expires,
		})
		if err != nil {
			t.Fatalf("rotate: %v", err)
		}
		again := repo.RotateRefreshToken(ctx, entity.RotateRefreshToken{
			NewID: 503, OldID: 501, UserID: 101, NewToken: "hash-503", NewExpiresAt: expires,
		})

		// Assert
		if !errors.Is(again, goerror.ErrNotFound) {
			t.Fatalf("second rotation = %v, want %v", again, goerror.ErrNotFound)
		}

		old, err := repo.GetUserRefreshToken(ctx, "hash-501")
		if err != nil {
			t.Fatalf("get old: %v", err)
		}
		if !old.RefreshRevoked || old.RefreshReplacedByTokenID == nil || *old.RefreshReplacedByTokenID != 502 {
			t.Fatalf("old = %+v", old)
		}

		if err := repo.RevokeAllRefreshToken(ctx, 101); err != nil {
			t.Fatalf("revoke all: %v", err)
		}
		current, err := repo.GetUserRefreshToken(ctx, "hash-502")
		if err != nil {
			t.Fatalf("get current: %v", err)
		}
		if !current.RefreshRevoked || current.UserRole != entity.RoleDoctor {
			t.Fatalf("current = %+v", current)
		}
	})
}
