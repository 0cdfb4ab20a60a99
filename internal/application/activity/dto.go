package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/activity"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// ActivityListFilter represents list filters for an entity's activity feed
type ActivityListFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// ActivityResponse represents one audit entry in API responses
type ActivityResponse struct {
	ID                uuid.UUID             `json:"id"`
	EntityKind        activity.EntityKind   `json:"entity_kind"`
	EntityID          uuid.UUID             `json:"entity_id"`
	ActivityType      activity.ActivityType `json:"activity_type"`
	Title             string                `json:"title"`
	Description       string                `json:"description,omitempty"`
	PerformedBy       *uuid.UUID            `json:"performed_by,omitempty"`
	PerformedAt       time.Time             `json:"performed_at"`
	Changes           []shared.FieldChange  `json:"changes"`
	Metadata          activity.Metadata     `json:"metadata"`
	IsSystemGenerated bool                  `json:"is_system_generated"`
	CreatedAt         time.Time             `json:"created_at"`
}

// ToActivityResponse maps a domain entry to its response DTO
func ToActivityResponse(a *activity.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:                a.ID,
		EntityKind:        a.EntityKind,
		EntityID:          a.EntityID,
		ActivityType:      a.ActivityType,
		Title:             a.Title,
		Description:       a.Description,
		PerformedBy:       a.PerformedBy,
		PerformedAt:       a.PerformedAt,
		Changes:           a.Changes,
		Metadata:          a.Metadata,
		IsSystemGenerated: a.IsSystemGenerated,
		CreatedAt:         a.CreatedAt,
	}
}

// ToActivityResponses maps a slice of entries
func ToActivityResponses(list []activity.ActivityLog) []ActivityResponse {
	out := make([]ActivityResponse, len(list))
	for i := range list {
		out[i] = ToActivityResponse(&list[i])
	}
	return out
}
