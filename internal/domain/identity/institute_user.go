package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the staff role inside an institute
type Role string

const (
	RolePrincipal   Role = "Principal"
	RoleAccountant  Role = "Accountant"
	RoleTeacher     Role = "Teacher"
	RoleOfficeStaff Role = "Office Staff"
	RoleAdmin       Role = "Admin"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RolePrincipal, RoleAccountant, RoleTeacher, RoleOfficeStaff, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// UserStatus is the account state
type UserStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
)

// IsValid checks if the status is a valid UserStatus
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// DefaultPermissions is granted when the caller supplies none
const DefaultPermissions = "Basic Access"

// InstituteUser is a staff account scoped to one institute.
// PasswordHash never leaves the domain; DTOs carry no credential field.
type InstituteUser struct {
	shared.InstituteAggregateRoot
	Name         string     `json:"name" gorm:"type:varchar(200);not null"`
	Email        string     `json:"email" gorm:"type:varchar(200);not null;index"`
	Phone        string     `json:"phone,omitempty" gorm:"type:varchar(20)"`
	PasswordHash string     `json:"-" gorm:"type:varchar(100);not null;column:password_hash"`
	Role         Role       `json:"role" gorm:"type:varchar(20);not null"`
	Status       UserStatus `json:"status" gorm:"type:varchar(10);not null;default:'Active';index"`
	Permissions  string     `json:"permissions" gorm:"type:varchar(500);not null"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// TableName returns the table name for GORM
func (InstituteUser) TableName() string {
	return "institute_users"
}

// NewInstituteUser creates a staff account with a freshly hashed password
func NewInstituteUser(instituteID uuid.UUID, name, email, phone, password string, role Role, permissions string) (*InstituteUser, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_USER", "User name cannot be empty")
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "User role is not valid")
	}
	if permissions == "" {
		permissions = DefaultPermissions
	}

	user := &InstituteUser{
		InstituteAggregateRoot: shared.NewInstituteAggregateRoot(instituteID),
		Name:                   name,
		Email:                  email,
		Phone:                  phone,
		Role:                   role,
		Status:                 UserStatusActive,
		Permissions:            permissions,
	}

	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// SetPassword re-hashes the credential. An empty password is rejected here;
// the update path drops empty strings before ever reaching this method.
func (u *InstituteUser) SetPassword(password string) error {
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_FAILED", "Failed to hash password")
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword checks a login attempt against the stored hash
func (u *InstituteUser) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps a successful authentication
func (u *InstituteUser) RecordLogin() {
	now := time.Now()
	u.LastLogin = &now
	u.UpdatedAt = now
}

// SetProfile updates the descriptive fields
func (u *InstituteUser) SetProfile(name, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_USER", "User name cannot be empty")
	}
	u.Name = name
	u.Phone = phone
	u.UpdatedAt = time.Now()
	return nil
}

// SetEmail changes the login email
func (u *InstituteUser) SetEmail(email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	u.Email = email
	u.UpdatedAt = time.Now()
	return nil
}

// SetRole changes the staff role
func (u *InstituteUser) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "User role is not valid")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

// SetStatus writes an explicit account state, not a toggle
func (u *InstituteUser) SetStatus(status UserStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "User status is not valid")
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	return nil
}

// SetPermissions replaces the free-text permission string
func (u *InstituteUser) SetPermissions(permissions string) {
	if permissions == "" {
		permissions = DefaultPermissions
	}
	u.Permissions = permissions
	u.UpdatedAt = time.Now()
}

// IsActive reports whether the account may authenticate
func (u *InstituteUser) IsActive() bool {
	return u.Status == UserStatusActive
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
