package onboarding

import (
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOnboardingCase = "OnboardingCase"

// Event type constants
const (
	EventTypeCaseCreated           = "OnboardingCaseCreated"
	EventTypeCaseUpdated           = "OnboardingCaseUpdated"
	EventTypeCaseStageChanged      = "OnboardingStageChanged"
	EventTypeDocumentStatusChanged = "OnboardingDocumentStatusChanged"
	EventTypeTechnicalSetupUpdated = "OnboardingTechnicalSetupUpdated"
	EventTypeTrainingScheduled     = "OnboardingTrainingScheduled"
	EventTypeTrainingCompleted     = "OnboardingTrainingCompleted"
	EventTypeTestingUpdated        = "OnboardingTestingUpdated"
	EventTypeGoLiveUpdated         = "OnboardingGoLiveUpdated"
	EventTypeMilestoneAdded        = "OnboardingMilestoneAdded"
	EventTypeCaseHeld              = "OnboardingCaseHeld"
	EventTypeCaseReleased          = "OnboardingCaseReleased"
)

func newCaseEvent(eventType string, c *OnboardingCase) shared.BaseDomainEvent {
	instituteID := uuid.Nil
	if c.InstituteID != nil {
		instituteID = *c.InstituteID
	}
	return shared.NewBaseDomainEvent(eventType, AggregateTypeOnboardingCase, c.ID, instituteID)
}

// CaseCreatedEvent is published when an onboarding starts
type CaseCreatedEvent struct {
	shared.BaseDomainEvent
	InstituteName string `json:"institute_name"`
	ContractValue string `json:"contract_value"`
}

// NewCaseCreatedEvent creates a new CaseCreatedEvent
func NewCaseCreatedEvent(c *OnboardingCase) *CaseCreatedEvent {
	return &CaseCreatedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeCaseCreated, c),
		InstituteName:   c.InstituteName,
		ContractValue:   c.ContractValue.String(),
	}
}

// CaseUpdatedEvent carries the change diff of a generic update
type CaseUpdatedEvent struct {
	shared.BaseDomainEvent
	InstituteName string              `json:"institute_name"`
	Changes       []shared.FieldChange `json:"changes"`
}

// NewCaseUpdatedEvent creates a new CaseUpdatedEvent
func NewCaseUpdatedEvent(c *OnboardingCase, changes []shared.FieldChange) *CaseUpdatedEvent {
	return &CaseUpdatedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeCaseUpdated, c),
		InstituteName:   c.InstituteName,
		Changes:         changes,
	}
}

// CaseStageChangedEvent is published on every stage transition
type CaseStageChangedEvent struct {
	shared.BaseDomainEvent
	InstituteName string    `json:"institute_name"`
	PreviousStage CaseStage `json:"previous_stage"`
	NewStage      CaseStage `json:"new_stage"`
}

// NewCaseStageChangedEvent creates a new CaseStageChangedEvent
func NewCaseStageChangedEvent(c *OnboardingCase, previous CaseStage) *CaseStageChangedEvent {
	return &CaseStageChangedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeCaseStageChanged, c),
		InstituteName:   c.InstituteName,
		PreviousStage:   previous,
		NewStage:        c.Stage,
	}
}

// DocumentStatusChangedEvent is published when a document moves through verification
type DocumentStatusChangedEvent struct {
	shared.BaseDomainEvent
	InstituteName   string     `json:"institute_name"`
	DocumentKey     string     `json:"document_key"`
	Status          TaskStatus `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

// NewDocumentStatusChangedEvent creates a new DocumentStatusChangedEvent
func NewDocumentStatusChangedEvent(c *OnboardingCase, key string, status TaskStatus, reason string) *DocumentStatusChangedEvent {
	return &DocumentStatusChangedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeDocumentStatusChanged, c),
		InstituteName:   c.InstituteName,
		DocumentKey:     key,
		Status:          status,
		RejectionReason: reason,
	}
}

// TechnicalSetupUpdatedEvent is published when a setup task changes status
type TechnicalSetupUpdatedEvent struct {
	shared.BaseDomainEvent
	InstituteName string     `json:"institute_name"`
	TaskKey       string     `json:"task_key"`
	Status        TaskStatus `json:"status"`
}

// NewTechnicalSetupUpdatedEvent creates a new TechnicalSetupUpdatedEvent
func NewTechnicalSetupUpdatedEvent(c *OnboardingCase, key string, status TaskStatus) *TechnicalSetupUpdatedEvent {
	return &TechnicalSetupUpdatedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeTechnicalSetupUpdated, c),
		InstituteName:   c.InstituteName,
		TaskKey:         key,
		Status:          status,
	}
}

// TrainingScheduledEvent is published when a session is booked
type TrainingScheduledEvent struct {
	shared.BaseDomainEvent
	InstituteName string    `json:"institute_name"`
	TrainingKey   string    `json:"training_key"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

// NewTrainingScheduledEvent creates a new TrainingScheduledEvent
func NewTrainingScheduledEvent(c *OnboardingCase, key string, scheduledDate time.Time) *TrainingScheduledEvent {
	return &TrainingScheduledEvent{
		BaseDomainEvent: newCaseEvent(EventTypeTrainingScheduled, c),
		InstituteName:   c.InstituteName,
		TrainingKey:     key,
		ScheduledDate:   scheduledDate,
	}
}

// TrainingCompletedEvent is published when a session is closed
type TrainingCompletedEvent struct {
	shared.BaseDomainEvent
	InstituteName string `json:"institute_name"`
	TrainingKey   string `json:"training_key"`
	Feedback      string `json:"feedback,omitempty"`
}

// NewTrainingCompletedEvent creates a new TrainingCompletedEvent
func NewTrainingCompletedEvent(c *OnboardingCase, key, feedback string) *TrainingCompletedEvent {
	return &TrainingCompletedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeTrainingCompleted, c),
		InstituteName:   c.InstituteName,
		TrainingKey:     key,
		Feedback:        feedback,
	}
}

// TestingUpdatedEvent is published when a test task changes status
type TestingUpdatedEvent struct {
	shared.BaseDomainEvent
	InstituteName string     `json:"institute_name"`
	TestKey       string     `json:"test_key"`
	Status        TaskStatus `json:"status"`
}

// NewTestingUpdatedEvent creates a new TestingUpdatedEvent
func NewTestingUpdatedEvent(c *OnboardingCase, key string, status TaskStatus) *TestingUpdatedEvent {
	return &TestingUpdatedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeTestingUpdated, c),
		InstituteName:   c.InstituteName,
		TestKey:         key,
		Status:          status,
	}
}

// GoLiveUpdatedEvent is published when the cut-over block changes
type GoLiveUpdatedEvent struct {
	shared.BaseDomainEvent
	InstituteName string     `json:"institute_name"`
	Status        TaskStatus `json:"status"`
}

// NewGoLiveUpdatedEvent creates a new GoLiveUpdatedEvent
func NewGoLiveUpdatedEvent(c *OnboardingCase, status TaskStatus) *GoLiveUpdatedEvent {
	return &GoLiveUpdatedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeGoLiveUpdated, c),
		InstituteName:   c.InstituteName,
		Status:          status,
	}
}

// MilestoneAddedEvent is published when a milestone is appended
type MilestoneAddedEvent struct {
	shared.BaseDomainEvent
	InstituteName string     `json:"institute_name"`
	MilestoneName string     `json:"milestone_name"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// NewMilestoneAddedEvent creates a new MilestoneAddedEvent
func NewMilestoneAddedEvent(c *OnboardingCase, m Milestone) *MilestoneAddedEvent {
	return &MilestoneAddedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeMilestoneAdded, c),
		InstituteName:   c.InstituteName,
		MilestoneName:   m.Name,
		DueDate:         m.DueDate,
	}
}

// CaseHeldEvent is published when the onboarding is paused
type CaseHeldEvent struct {
	shared.BaseDomainEvent
	InstituteName string `json:"institute_name"`
	Reason        string `json:"reason"`
}

// NewCaseHeldEvent creates a new CaseHeldEvent
func NewCaseHeldEvent(c *OnboardingCase, reason string) *CaseHeldEvent {
	return &CaseHeldEvent{
		BaseDomainEvent: newCaseEvent(EventTypeCaseHeld, c),
		InstituteName:   c.InstituteName,
		Reason:          reason,
	}
}

// CaseReleasedEvent is published when a hold is lifted
type CaseReleasedEvent struct {
	shared.BaseDomainEvent
	InstituteName string    `json:"institute_name"`
	ResumedStage  CaseStage `json:"resumed_stage"`
}

// NewCaseReleasedEvent creates a new CaseReleasedEvent
func NewCaseReleasedEvent(c *OnboardingCase) *CaseReleasedEvent {
	return &CaseReleasedEvent{
		BaseDomainEvent: newCaseEvent(EventTypeCaseReleased, c),
		InstituteName:   c.InstituteName,
		ResumedStage:    c.Stage,
	}
}
