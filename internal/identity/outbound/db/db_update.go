package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/medibook/internal/identity/entity"
	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
)

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateRefreshToken, in.ID, in.UserID, in.Token, in.ExpiresAt, in.Metadata)
	return s.mapError(err)
}

// NewRegistration stores the account and its credential together.
func (s *DB) NewRegistration(ctx context.Context, user entity.NewUser, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "NewRegistration")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryCreateUser,
			user.ID, user.Email, user.FullName, user.Phone, user.Role.String(), user.Status); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, queryCreateUserCredential, user.ID, hash)
		return err
	})
}

func (s *DB) RevokeRefreshToken(ctx context.Context, userID int64, token string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryRevokeRefreshToken, userID, token)
	return s.mapError(err)
}

func (s *DB) RevokeAllRefreshToken(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryRevokeAllRefreshToken, userID)
	return s.mapError(err)
}

// RotateRefreshToken revokes OldID, pointing it at NewID, and stores the new
// token. It returns ErrNotFound when OldID was already revoked.
func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, queryReplaceRefreshToken, ro.OldID, ro.NewID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return goerror.ErrNotFound
		}

		_, err = tx.Exec(ctx, queryCreateRefreshToken, ro.NewID, ro.UserID, ro.NewToken, ro.NewExpiresAt, ro.Metadata)
		return err
	})
}

func (s *DB) UpdateUserCredential(ctx context.Context, userID int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserCredential")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryUpdateUserCredential, userID, hash)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}

func (s *DB) ReplaceUserCredential(ctx context.Context, userID int64, oldHash, newHash string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ReplaceUserCredential")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryReplaceUserCredential, userID, oldHash, newHash)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}
