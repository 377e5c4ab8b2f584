// Package jwt issues and verifies the HS512 access tokens of the API and
// carries verified Claims through a request context.
package jwt
