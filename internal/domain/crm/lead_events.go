package crm

import (
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeLead = "Lead"

// Event type constants
const (
	EventTypeLeadCreated      = "LeadCreated"
	EventTypeLeadStageChanged = "LeadStageChanged"
	EventTypeLeadDeleted      = "LeadDeleted"
)

// LeadCreatedEvent is published when a new lead enters the pipeline
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	LeadName      string    `json:"lead_name"`
	InstituteName string    `json:"institute_name"`
	Stage         LeadStage `json:"stage"`
}

// NewLeadCreatedEvent creates a new LeadCreatedEvent
func NewLeadCreatedEvent(l *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadCreated, AggregateTypeLead, l.ID, uuid.Nil),
		LeadName:        l.LeadName,
		InstituteName:   l.InstituteName,
		Stage:           l.Stage,
	}
}

// LeadStageChangedEvent is published on every pipeline stage transition
type LeadStageChangedEvent struct {
	shared.BaseDomainEvent
	LeadName      string    `json:"lead_name"`
	PreviousStage LeadStage `json:"previous_stage"`
	NewStage      LeadStage `json:"new_stage"`
	LostReason    string    `json:"lost_reason,omitempty"`
}

// NewLeadStageChangedEvent creates a new LeadStageChangedEvent
func NewLeadStageChangedEvent(l *Lead, previous LeadStage) *LeadStageChangedEvent {
	return &LeadStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadStageChanged, AggregateTypeLead, l.ID, uuid.Nil),
		LeadName:        l.LeadName,
		PreviousStage:   previous,
		NewStage:        l.Stage,
		LostReason:      l.LostReason,
	}
}
