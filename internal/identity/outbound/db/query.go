package db

const (
	queryGetUserLoginInfo = `
SELECT u.id, u.email, u.role, u.status, c.password
FROM identity_users u
JOIN identity_user_credentials c ON c.user_id = u.id
WHERE LOWER(u.email) = LOWER($1) AND u.deleted_at IS NULL`

	queryGetUserCredentialInfo = `
SELECT u.id, u.email, u.status, c.password, c.updated_at
FROM identity_users u
JOIN identity_user_credentials c ON c.user_id = u.id
WHERE u.id = $1 AND u.deleted_at IS NULL`

	queryGetUserByID = `
SELECT id, email, full_name, phone, role, status, created_at, updated_at
FROM identity_users
WHERE id = $1 AND deleted_at IS NULL`

	queryGetUserRefreshToken = `
SELECT u.id, u.email, u.role, u.status, r.id, r.revoked, r.replaced_by_token_id, r.expires_at
FROM identity_refresh_tokens r
JOIN identity_users u ON u.id = r.user_id
WHERE r.token = $1 AND u.deleted_at IS NULL`

	queryCreateUser = `
INSERT INTO identity_users (id, email, full_name, phone, role, status)
VALUES ($1, $2, $3, $4, $5, $6)`

	queryCreateUserCredential = `
INSERT INTO identity_user_credentials (user_id, password)
VALUES ($1, $2)`

	queryCreateRefreshToken = `
INSERT INTO identity_refresh_tokens (id, user_id, token, expires_at, metadata)
VALUES ($1, $2, $3, $4, $5)`

	queryReplaceRefreshToken = `
UPDATE identity_refresh_tokens
SET revoked = TRUE, replaced_by_token_id = $2
WHERE id = $1 AND NOT revoked`

	queryRevokeRefreshToken = `
UPDATE identity_refresh_tokens
SET revoked = TRUE
WHERE user_id = $1 AND token = $2 AND NOT revoked`

	queryRevokeAllRefreshToken = `
UPDATE identity_refresh_tokens
SET revoked = TRUE
WHERE user_id = $1 AND NOT revoked`

	queryUpdateUserCredential = `
UPDATE identity_user_credentials
SET password = $2, updated_at = NOW()
WHERE user_id = $1`

	queryReplaceUserCredential = `
UPDATE identity_user_credentials
SET password = $3, updated_at = NOW()
WHERE user_id = $1 AND password = $2`
)
