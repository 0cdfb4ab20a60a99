package activity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// EntityKind discriminates which aggregate an activity entry refers to
type EntityKind string

const (
	EntityKindLead       EntityKind = "Lead"
	EntityKindOnboarding EntityKind = "Onboarding"
)

// IsValid checks if the kind is a valid EntityKind
func (k EntityKind) IsValid() bool {
	return k == EntityKindLead || k == EntityKindOnboarding
}

// ActivityType classifies what happened
type ActivityType string

const (
	ActivityTypeCreated           ActivityType = "Created"
	ActivityTypeUpdated           ActivityType = "Updated"
	ActivityTypeStageChanged      ActivityType = "Stage Changed"
	ActivityTypeDocumentUpdated   ActivityType = "Document Updated"
	ActivityTypeSetupUpdated      ActivityType = "Setup Updated"
	ActivityTypeTrainingScheduled ActivityType = "Training Scheduled"
	ActivityTypeTrainingCompleted ActivityType = "Training Completed"
	ActivityTypeTestingUpdated    ActivityType = "Testing Updated"
	ActivityTypeGoLiveUpdated     ActivityType = "Go-Live Updated"
	ActivityTypeMilestoneAdded    ActivityType = "Milestone Added"
	ActivityTypeOnHold            ActivityType = "Put On Hold"
	ActivityTypeHoldReleased      ActivityType = "Hold Released"
	ActivityTypeNote              ActivityType = "Note"
)

// Priority grades how urgent the entry is for a reviewer
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Changes is the structured field diff stored as JSONB
type Changes []shared.FieldChange

// Value implements driver.Valuer for GORM to store as JSONB
func (c Changes) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (c *Changes) Scan(value interface{}) error {
	if value == nil {
		*c = Changes{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Changes: unsupported type")
	}

	if len(bytes) == 0 {
		*c = Changes{}
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Metadata carries reviewer hints stored as JSONB
type Metadata struct {
	Source     string   `json:"source,omitempty"`
	Priority   Priority `json:"priority,omitempty"`
	Outcome    string   `json:"outcome,omitempty"`
	NextAction string   `json:"next_action,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Value implements driver.Valuer for GORM to store as JSONB
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Metadata: unsupported type")
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// ActivityLog is one append-only audit entry against a lead or onboarding
// case. Entries are never updated or deleted by the application.
type ActivityLog struct {
	shared.BaseEntity
	EntityKind        EntityKind   `json:"entity_kind" gorm:"type:varchar(20);not null;index:idx_activity_entity,priority:1"`
	EntityID          uuid.UUID    `json:"entity_id" gorm:"type:uuid;not null;index:idx_activity_entity,priority:2"`
	ActivityType      ActivityType `json:"activity_type" gorm:"type:varchar(30);not null"`
	Title             string       `json:"title" gorm:"type:varchar(200);not null"`
	Description       string       `json:"description,omitempty" gorm:"type:text"`
	PerformedBy       *uuid.UUID   `json:"performed_by,omitempty" gorm:"type:uuid"`
	PerformedAt       time.Time    `json:"performed_at" gorm:"not null;index"`
	Changes           Changes      `json:"changes" gorm:"type:jsonb"`
	Metadata          Metadata     `json:"metadata" gorm:"type:jsonb"`
	IsSystemGenerated bool         `json:"is_system_generated" gorm:"not null;default:false"`
	IsVisible         bool         `json:"is_visible" gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// NewActivityLog creates an audit entry
func NewActivityLog(kind EntityKind, entityID uuid.UUID, activityType ActivityType, title string) (*ActivityLog, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_KIND", "Unknown activity entity kind")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTIVITY", "Activity entity ID is required")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_ACTIVITY", "Activity title cannot be empty")
	}

	return &ActivityLog{
		BaseEntity:   shared.NewBaseEntity(),
		EntityKind:   kind,
		EntityID:     entityID,
		ActivityType: activityType,
		Title:        title,
		PerformedAt:  time.Now(),
		Changes:      Changes{},
		IsVisible:    true,
	}, nil
}

// WithDescription sets the free-text body
func (a *ActivityLog) WithDescription(description string) *ActivityLog {
	a.Description = description
	return a
}

// WithPerformer records who triggered the entry
func (a *ActivityLog) WithPerformer(userID uuid.UUID) *ActivityLog {
	a.PerformedBy = &userID
	return a
}

// WithChanges attaches the structured field diff
func (a *ActivityLog) WithChanges(changes []shared.FieldChange) *ActivityLog {
	a.Changes = Changes(changes)
	return a
}

// WithMetadata attaches reviewer hints
func (a *ActivityLog) WithMetadata(meta Metadata) *ActivityLog {
	a.Metadata = meta
	return a
}

// SystemGenerated marks the entry as machine-written
func (a *ActivityLog) SystemGenerated() *ActivityLog {
	a.IsSystemGenerated = true
	return a
}
