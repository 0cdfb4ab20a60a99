package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/identity"
)

// CreateUserRequest represents a request to create a staff account
type CreateUserRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"omitempty,max=20"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required"`
	Permissions string `json:"permissions" binding:"omitempty,max=500"`
}

// UpdateUserRequest represents a partial staff-account update. An empty
// password leaves the stored hash untouched.
type UpdateUserRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Password    *string `json:"password"`
	Role        *string `json:"role"`
	Permissions *string `json:"permissions"`
}

// SetStatusRequest writes an explicit account state
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// LoginRequest represents a staff login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserListFilter represents list filters for staff accounts
type UserListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Role     string `form:"role"`
	Status   string `form:"status"`
	Search   string `form:"search"`
}

// UserResponse represents a staff account in API responses. It never
// carries the password hash.
type UserResponse struct {
	ID          uuid.UUID           `json:"id"`
	InstituteID uuid.UUID           `json:"institute_id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone,omitempty"`
	Role        identity.Role       `json:"role"`
	Status      identity.UserStatus `json:"status"`
	Permissions string              `json:"permissions"`
	LastLogin   *time.Time          `json:"last_login,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// LoginResponse carries the issued token alongside the authenticated user
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ToUserResponse maps a domain user to its response DTO
func ToUserResponse(u *identity.InstituteUser) UserResponse {
	return UserResponse{
		ID:          u.ID,
		InstituteID: u.InstituteID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      u.Status,
		Permissions: u.Permissions,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserResponses maps a slice of users
func ToUserResponses(list []identity.InstituteUser) []UserResponse {
	out := make([]UserResponse, len(list))
	for i := range list {
		out[i] = ToUserResponse(&list[i])
	}
	return out
}
