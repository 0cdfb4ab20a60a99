package activity

import (
	"context"
	"fmt"

	"github.com/learn2pay/backend/internal/domain/activity"
	"github.com/learn2pay/backend/internal/domain/crm"
	"github.com/learn2pay/backend/internal/domain/onboarding"
	"github.com/learn2pay/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Recorder subscribes to lead and onboarding events and writes the audit
// trail. It runs behind the event bus, so a failed write is logged and
// swallowed; audit logging never blocks or fails a business mutation.
type Recorder struct {
	activityRepo activity.ActivityLogRepository
	logger       *zap.Logger
}

// NewRecorder creates a new activity Recorder
func NewRecorder(activityRepo activity.ActivityLogRepository, logger *zap.Logger) *Recorder {
	return &Recorder{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// EventTypes lists the events the recorder listens for
func (r *Recorder) EventTypes() []string {
	return []string{
		crm.EventTypeLeadCreated,
		crm.EventTypeLeadStageChanged,
		onboarding.EventTypeCaseCreated,
		onboarding.EventTypeCaseUpdated,
		onboarding.EventTypeCaseStageChanged,
		onboarding.EventTypeDocumentStatusChanged,
		onboarding.EventTypeTechnicalSetupUpdated,
		onboarding.EventTypeTrainingScheduled,
		onboarding.EventTypeTrainingCompleted,
		onboarding.EventTypeTestingUpdated,
		onboarding.EventTypeGoLiveUpdated,
		onboarding.EventTypeMilestoneAdded,
		onboarding.EventTypeCaseHeld,
		onboarding.EventTypeCaseReleased,
	}
}

// Handle converts one domain event into an audit entry
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry, err := r.buildEntry(event)
	if err != nil {
		r.logger.Warn("failed to build activity entry",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return nil
	}
	if entry == nil {
		return nil
	}

	entry.SystemGenerated()

	if err := r.activityRepo.Save(ctx, entry); err != nil {
		r.logger.Warn("failed to write activity entry",
			zap.String("event_type", event.EventType()),
			zap.String("entity_id", entry.EntityID.String()),
			zap.Error(err))
	}

	return nil
}

func (r *Recorder) buildEntry(event shared.DomainEvent) (*activity.ActivityLog, error) {
	switch e := event.(type) {
	case *crm.LeadCreatedEvent:
		entry, err := activity.NewActivityLog(activity.EntityKindLead, e.AggregateID(), activity.ActivityTypeCreated, "Lead Created")
		if err != nil {
			return nil, err
		}
		return entry.
			WithDescription(fmt.Sprintf("Lead %q created for %s", e.LeadName, e.InstituteName)).
			WithMetadata(activity.Metadata{Source: "Web", Priority: activity.PriorityMedium}), nil

	case *crm.LeadStageChangedEvent:
		title := fmt.Sprintf("Stage Changed: %s → %s", e.PreviousStage, e.NewStage)
		entry, err := activity.NewActivityLog(activity.EntityKindLead, e.AggregateID(), activity.ActivityTypeStageChanged, title)
		if err != nil {
			return nil, err
		}
		entry.WithChanges([]shared.FieldChange{{Field: "stage", OldValue: string(e.PreviousStage), NewValue: string(e.NewStage)}})
		if e.LostReason != "" {
			entry.WithDescription("Lost reason: " + e.LostReason)
		}
		return entry, nil

	case *onboarding.CaseCreatedEvent:
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeCreated, "Onboarding Started")
		if err != nil {
			return nil, err
		}
		return entry.
			WithDescription(fmt.Sprintf("Onboarding started for %s (contract value %s)", e.InstituteName, e.ContractValue)).
			WithMetadata(activity.Metadata{Source: "Web", Priority: activity.PriorityHigh}), nil

	case *onboarding.CaseUpdatedEvent:
		title := "Updated"
		activityType := activity.ActivityTypeUpdated
		for _, change := range e.Changes {
			if change.Field == "stage" {
				title = fmt.Sprintf("Stage Changed: %v → %v", change.OldValue, change.NewValue)
				activityType = activity.ActivityTypeStageChanged
				break
			}
		}
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activityType, title)
		if err != nil {
			return nil, err
		}
		return entry.WithChanges(e.Changes), nil

	case *onboarding.CaseStageChangedEvent:
		title := fmt.Sprintf("Stage Changed: %s → %s", e.PreviousStage, e.NewStage)
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeStageChanged, title)
		if err != nil {
			return nil, err
		}
		return entry.WithChanges([]shared.FieldChange{{Field: "stage", OldValue: string(e.PreviousStage), NewValue: string(e.NewStage)}}), nil

	case *onboarding.DocumentStatusChangedEvent:
		title := fmt.Sprintf("Document %s: %s", e.DocumentKey, e.Status)
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeDocumentUpdated, title)
		if err != nil {
			return nil, err
		}
		priority := activity.PriorityMedium
		if e.Status == onboarding.TaskStatusRejected {
			priority = activity.PriorityHigh
			entry.WithDescription("Rejection reason: " + e.RejectionReason)
		}
		return entry.WithMetadata(activity.Metadata{Priority: priority}), nil

	case *onboarding.TechnicalSetupUpdatedEvent:
		title := fmt.Sprintf("Setup %s: %s", e.TaskKey, e.Status)
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeSetupUpdated, title)
		if err != nil {
			return nil, err
		}
		return entry, nil

	case *onboarding.TrainingScheduledEvent:
		title := fmt.Sprintf("Training Scheduled: %s", e.TrainingKey)
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeTrainingScheduled, title)
		if err != nil {
			return nil, err
		}
		return entry.WithMetadata(activity.Metadata{NextAction: "Training on " + e.ScheduledDate.Format("2006-01-02")}), nil

	case *onboarding.TrainingCompletedEvent:
		title := fmt.Sprintf("Training Completed: %s", e.TrainingKey)
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeTrainingCompleted, title)
		if err != nil {
			return nil, err
		}
		if e.Feedback != "" {
			entry.WithDescription("Feedback: " + e.Feedback)
		}
		return entry, nil

	case *onboarding.TestingUpdatedEvent:
		title := fmt.Sprintf("Testing %s: %s", e.TestKey, e.Status)
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeTestingUpdated, title)
		if err != nil {
			return nil, err
		}
		return entry, nil

	case *onboarding.GoLiveUpdatedEvent:
		title := fmt.Sprintf("Go-Live: %s", e.Status)
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeGoLiveUpdated, title)
		if err != nil {
			return nil, err
		}
		return entry, nil

	case *onboarding.MilestoneAddedEvent:
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeMilestoneAdded, "Milestone Added: "+e.MilestoneName)
		if err != nil {
			return nil, err
		}
		meta := activity.Metadata{}
		if e.DueDate != nil {
			meta.NextAction = "Due " + e.DueDate.Format("2006-01-02")
		}
		return entry.WithMetadata(meta), nil

	case *onboarding.CaseHeldEvent:
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeOnHold, "Onboarding Put On Hold")
		if err != nil {
			return nil, err
		}
		return entry.
			WithDescription("Reason: " + e.Reason).
			WithMetadata(activity.Metadata{Priority: activity.PriorityHigh}), nil

	case *onboarding.CaseReleasedEvent:
		entry, err := activity.NewActivityLog(activity.EntityKindOnboarding, e.AggregateID(), activity.ActivityTypeHoldReleased, "Onboarding Hold Released")
		if err != nil {
			return nil, err
		}
		return entry.WithDescription(fmt.Sprintf("Resumed at stage %s", e.ResumedStage)), nil
	}

	return nil, nil
}
