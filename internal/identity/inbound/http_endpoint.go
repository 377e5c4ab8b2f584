package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/medibook/internal/identity/usecase"
	"github.com/shandysiswandi/medibook/internal/pkg/router"
)

const tokenTypeBearer = "Bearer"

// HTTPEndpoint exposes HTTP handlers for authentication and account workflows.
type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{ID: resp.ID, Email: resp.Email, Role: resp.Role}, nil
}

func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
		ClientIP:  r.ClientIP(),
	})
	if err != nil {
		return nil, err
	}

	return TokenResponse{
		TokenType:    tokenTypeBearer,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.ClientIP(),
	})
	if err != nil {
		return nil, err
	}

	return TokenResponse{
		TokenType:    tokenTypeBearer,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) PasswordChange(r *router.Request) (any, error) {
	var req PasswordChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordChange(r.Context(), usecase.PasswordChangeInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context(), usecase.ProfileInput{})
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:       resp.ID,
		Email:    resp.Email,
		FullName: resp.FullName,
		Phone:    resp.Phone,
		Role:     resp.Role,
		Status:   resp.Status,
	}, nil
}

func (h *HTTPEndpoint) CredentialReport(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.CredentialReport(r.Context(), usecase.CredentialReportInput{UserID: id})
	if err != nil {
		return nil, err
	}

	return CredentialReportResponse{
		UserID:      resp.UserID,
		Algorithm:   resp.Algorithm,
		Cost:        resp.Cost,
		WellFormed:  resp.WellFormed,
		NeedsRehash: resp.NeedsRehash,
		UpdatedAt:   lo.Ternary(resp.UpdatedAt.IsZero(), nil, &resp.UpdatedAt),
	}, nil
}
