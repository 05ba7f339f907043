package auth

import (
	"time"

	"concerthall/internal/domain"
)

type SignupRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	FullName    string `json:"full_name" binding:"required,notblank,max=255"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=32"`
	Password    string `json:"password" binding:"required,pwd"`
	Role        string `json:"role" binding:"required"`
}

// LoginRequest accepts JSON {email, password} or the OAuth2 password form
// (username, password).
type LoginRequest struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UserPublic struct {
	ID          int64           `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	PhoneNumber string          `json:"phone_number,omitempty"`
	Role        domain.UserRole `json:"role"`
	Verified    bool            `json:"verified"`
	CreatedAt   time.Time       `json:"created_at"`
}

func ToUserPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Verified:    u.Verified,
		CreatedAt:   u.CreatedAt,
	}
}
