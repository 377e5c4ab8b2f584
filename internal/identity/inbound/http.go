package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/medibook/internal/identity/entity"
	"github.com/shandysiswandi/medibook/internal/identity/usecase"
	"github.com/shandysiswandi/medibook/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error

	PasswordChange(ctx context.Context, in usecase.PasswordChangeInput) error
	Profile(ctx context.Context, in usecase.ProfileInput) (*usecase.ProfileOutput, error)

	CredentialReport(ctx context.Context, in usecase.CredentialReportInput) (*entity.CredentialReport, error)
}

// PublicEndpoints lists the routes served without a bearer token.
var PublicEndpoints = map[string][]string{
	http.MethodPost: {
		"/api/v1/identity/register",
		"/api/v1/identity/login",
		"/api/v1/identity/refresh",
	},
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Authentication
	r.POST("/api/v1/identity/register", end.Register)
	r.POST("/api/v1/identity/login", end.Login)
	r.POST("/api/v1/identity/refresh", end.RefreshToken)
	r.POST("/api/v1/identity/logout", end.Logout) // need authenticated

	// Account (need authenticated)
	r.POST("/api/v1/identity/password/change", end.PasswordChange)
	r.GET("/api/v1/identity/profile", end.Profile)

	// Operator (need authenticated & authorization)
	r.GET("/api/v1/identity/users/:id/credential", end.CredentialReport)
}
