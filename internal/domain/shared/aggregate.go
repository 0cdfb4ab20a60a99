package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// InstituteAggregateRoot extends BaseAggregateRoot with institute scoping.
// The institute is the tenant boundary: every business aggregate belongs to
// exactly one institute and all queries filter on it.
type InstituteAggregateRoot struct {
	BaseAggregateRoot
	InstituteID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid;index"`
}

// NewInstituteAggregateRoot creates a new institute-scoped aggregate root
func NewInstituteAggregateRoot(instituteID uuid.UUID) InstituteAggregateRoot {
	return InstituteAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		InstituteID:       instituteID,
	}
}

// NewInstituteAggregateRootWithCreator creates a new institute-scoped aggregate root with creator info
func NewInstituteAggregateRootWithCreator(instituteID, createdBy uuid.UUID) InstituteAggregateRoot {
	return InstituteAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		InstituteID:       instituteID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (t *InstituteAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (t *InstituteAggregateRoot) GetCreatedBy() *uuid.UUID {
	return t.CreatedBy
}
