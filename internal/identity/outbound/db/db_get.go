package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/medibook/internal/identity/entity"
)

func (s *DB) GetUserLoginInfo(ctx context.Context, email string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	var (
		out  entity.UserLoginInfo
		role string
	)
	err = s.conn.QueryRow(ctx, queryGetUserLoginInfo, email).Scan(&out.ID, &out.Email, &role, &out.Status, &out.Password)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.Role = entity.ParseRole(role)

	return &out, nil
}

func (s *DB) GetUserCredentialInfo(ctx context.Context, id int64) (_ *entity.UserCredentialInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserCredentialInfo")
	defer func() { s.endSpan(span, err) }()

	var out entity.UserCredentialInfo
	err = s.conn.QueryRow(ctx, queryGetUserCredentialInfo, id).Scan(&out.ID, &out.Email, &out.Status, &out.Password, &out.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	var (
		out  entity.User
		role string
	)
	err = s.conn.QueryRow(ctx, queryGetUserByID, id).
		Scan(&out.ID, &out.Email, &out.FullName, &out.Phone, &role, &out.Status, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.Role = entity.ParseRole(role)

	return &out, nil
}

func (s *DB) GetUserRefreshToken(ctx context.Context, token string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var (
		out        entity.UserRefreshToken
		role       string
		replacedBy pgtype.Int8
	)
	err = s.conn.QueryRow(ctx, queryGetUserRefreshToken, token).Scan(
		&out.UserID, &out.UserEmail, &role, &out.UserStatus,
		&out.RefreshID, &out.RefreshRevoked, &replacedBy, &out.RefreshExpiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	out.UserRole = entity.ParseRole(role)
	if replacedBy.Valid {
		out.RefreshReplacedByTokenID = &replacedBy.Int64
	}

	return &out, nil
}
