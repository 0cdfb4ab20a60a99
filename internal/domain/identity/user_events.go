package identity

import (
	"github.com/learn2pay/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInstituteUser = "InstituteUser"

// Event type constants
const (
	EventTypeUserCreated = "InstituteUserCreated"
	EventTypeUserLoggedIn = "InstituteUserLoggedIn"
)

// UserCreatedEvent is published when a staff account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *InstituteUser) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeInstituteUser, u.ID, u.InstituteID),
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
	}
}
