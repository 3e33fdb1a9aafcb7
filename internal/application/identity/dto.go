package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/lms/backend/internal/domain/identity"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	TenantID    uuid.UUID
	Email       string
	Password    string
	DisplayName string
}

// RegisterResult contains the result of a successful registration
type RegisterResult struct {
	User UserInfo
}

// LoginInput contains the input for user login
type LoginInput struct {
	TenantID uuid.UUID
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned to callers
type UserInfo struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Email       string
	DisplayName string
	Role        string
	Status      string
	LastLoginAt *time.Time
}

func userInfoFrom(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role.String(),
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
	}
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID      uuid.UUID
	TenantID    uuid.UUID
	AccessToken string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// GetCurrentUserInput contains the input for getting current user info
type GetCurrentUserInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// CurrentUserResult contains the current user's information
type CurrentUserResult struct {
	User UserInfo
}
