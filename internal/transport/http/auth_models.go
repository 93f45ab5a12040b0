package http

import (
	"time"

	"github.com/devhaven/account-api/internal/domain"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid email or password"`
}

// AuthUser is the sanitized user representation returned to clients. The
// password digest is never part of it.
type AuthUser struct {
	ID        string    `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Name      string    `json:"name" example:"Asha Rao"`
	Email     string    `json:"email" example:"user@example.com"`
	Photo     string    `json:"photo" example:"https://cdn.example.com/avatars/a.png"`
	Phone     string    `json:"phone" example:"+91-9876543210"`
	Bio       string    `json:"bio" example:"Bio - building things"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-02T09:30:00Z"`
}

func toAuthUser(u *domain.User) AuthUser {
	return AuthUser{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Photo:     u.PhotoURL,
		Phone:     u.Phone,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthTokenResponse is returned by endpoints that issue a session token.
type AuthTokenResponse struct {
	Token     string   `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt string   `json:"expires_at" example:"2024-01-02T09:30:00Z"`
	User      AuthUser `json:"user"`
}

// AuthUserResponse wraps a user object.
type AuthUserResponse struct {
	User AuthUser `json:"user"`
}

// MessageResponse carries a human-readable success message.
type MessageResponse struct {
	Message string `json:"message" example:"password reset email sent"`
}

// RegisterRequest carries registration fields.
type RegisterRequest struct {
	Name     string `json:"name" example:"Asha Rao"`
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass23"`
}

// LoginRequest carries login fields.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass23"`
}

// UpdateProfileRequest carries the optional profile patch. Absent fields are
// left untouched; an email field, if sent, is ignored.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" example:"Asha R."`
	Photo *string `json:"photo,omitempty" example:"https://cdn.example.com/avatars/b.png"`
	Phone *string `json:"phone,omitempty" example:"+91-9876543210"`
	Bio   *string `json:"bio,omitempty" example:"Bio - still building things"`
}

// ChangePasswordRequest captures the payload for password updates.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" example:"OldPass23"`
	NewPassword string `json:"new_password" example:"NewPass45"`
}

// ForgotPasswordRequest captures the payload for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// ResetPasswordRequest captures the new password for a reset confirmation.
type ResetPasswordRequest struct {
	Password string `json:"password" example:"NewPass45"`
}
