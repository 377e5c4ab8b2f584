package inbound

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type RegisterResponse struct {
	ID    int64  `json:"id,string"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (RegisterResponse) Message() string {
	return "Registration successful"
}

func (RegisterResponse) StatusCode() int {
	return 201
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ProfileResponse struct {
	ID       int64  `json:"id,string"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type CredentialReportResponse struct {
	UserID      int64      `json:"user_id,string"`
	Algorithm   string     `json:"algorithm"`
	Cost        int        `json:"cost,omitempty"`
	WellFormed  bool       `json:"well_formed"`
	NeedsRehash bool       `json:"needs_rehash"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
