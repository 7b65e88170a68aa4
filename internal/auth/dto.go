package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// SendOTPRequest carries the mobile number and, for self-registering roles,
// the profile fields kept until the code is exchanged.
type SendOTPRequest struct {
	Mobile       string  `json:"mobile" validate:"required,numeric,min=10,max=15"`
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Email        *string `json:"email" validate:"omitempty,email"`
	BusinessName *string `json:"business_name" validate:"omitempty,max=255"`
}

type VerifyOTPRequest struct {
	Mobile   string  `json:"mobile" validate:"required,numeric,min=10,max=15"`
	OTP      string  `json:"otp" validate:"required,len=6,numeric"`
	FCMToken *string `json:"fcm_token" validate:"omitempty,max=512"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SendOTPResponse struct {
	ExpiresIn int64 `json:"expires_in"`
}

// AuthResponse is returned by every successful sign in. Message is rendered
// in the envelope rather than in data.
type AuthResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresIn int64      `json:"expires_in"`
	Role      enums.Role `json:"role"`
	User      any        `json:"user"`
	Message   string     `json:"-"`
}

type AdminDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Status      enums.AdminStatus `json:"status"`
	LastLoginAt *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func AdminFromModel(m models.Admin) AdminDTO {
	return AdminDTO{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Status:      m.Status,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}
