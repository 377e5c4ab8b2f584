package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/medibook/internal/identity/entity"
	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
)

func TestRefreshToken(t *testing.T) {
	seed := func(t *testing.T, h *harness, token string, rt entity.UserRefreshToken) {
		t.Helper()
		hashed, err := h.hmac.Hash(token)
		if err != nil {
			t.Fatalf("hmac: %v", err)
		}
		h.db.tokens[string(hashed)] = &rt
	}

	t.Run("rotates", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		seed(t, h, "old-token", entity.UserRefreshToken{
			UserID: 7, UserEmail: "dina@medibook.id", UserRole: entity.RoleAdmin, UserStatus: entity.UserStatusActive,
			RefreshID: 55, RefreshExpiresAt: fixedNow.Add(time.Hour),
		})

		// Act
		out, err := h.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-token"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.AccessToken != "access-7-admin" || out.RefreshToken == "old-token" {
			t.Fatalf("out = %+v", out)
		}
		if len(h.db.rotated) != 1 || h.db.rotated[0].OldID != 55 || !h.hmac.Verify(h.db.rotated[0].NewToken, out.RefreshToken) {
			t.Fatalf("rotated = %+v", h.db.rotated)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		_, err := h.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "nope"})

		// Assert
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		seed(t, h, "old-token", entity.UserRefreshToken{
			UserID: 7, UserStatus: entity.UserStatusActive, RefreshID: 55, RefreshExpiresAt: fixedNow.Add(-time.Second),
		})

		// Act
		_, err := h.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-token"})

		// Assert
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("reuse of rotated token revokes every session", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		next := int64(56)
		seed(t, h, "old-token", entity.UserRefreshToken{
			UserID: 7, UserStatus: entity.UserStatusActive, RefreshID: 55, RefreshRevoked: true,
			RefreshReplacedByTokenID: &next, RefreshExpiresAt: fixedNow.Add(time.Hour),
		})

		// Act
		_, err := h.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-token"})

		// Assert
		assertCode(t, err, goerror.CodeForbidden)
		if len(h.db.revokedAll) != 1 || h.db.revokedAll[0] != 7 {
			t.Fatalf("revoked all = %v", h.db.revokedAll)
		}
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes the hashed token", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.uc.Logout(authCtx(7, entity.RolePatient), LogoutInput{RefreshToken: "refresh-token-1"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(h.db.revoked) != 1 || !h.hmac.Verify(h.db.revoked[0], "refresh-token-1") {
			t.Fatalf("revoked = %v", h.db.revoked)
		}
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.uc.Logout(authCtx(7, entity.RolePatient), LogoutInput{})

		// Assert
		if err != nil || len(h.db.revoked) != 0 {
			t.Fatalf("err = %v, revoked = %v", err, h.db.revoked)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		err := h.uc.Logout(context.Background(), LogoutInput{RefreshToken: "x"})

		// Assert
		assertCode(t, err, goerror.CodeUnauthorized)
	})
}
