package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/activity"
	"github.com/learn2pay/backend/internal/domain/crm"
	"github.com/learn2pay/backend/internal/domain/onboarding"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockActivityLogRepository is a mock implementation of ActivityLogRepository
type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Save(ctx context.Context, entry *activity.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityLogRepository) FindByEntity(ctx context.Context, kind activity.EntityKind, entityID uuid.UUID, filter shared.Filter) ([]activity.ActivityLog, error) {
	args := m.Called(ctx, kind, entityID, filter)
	return args.Get(0).([]activity.ActivityLog), args.Error(1)
}

func (m *MockActivityLogRepository) CountByEntity(ctx context.Context, kind activity.EntityKind, entityID uuid.UUID) (int64, error) {
	args := m.Called(ctx, kind, entityID)
	return args.Get(0).(int64), args.Error(1)
}

func newRecorderLead(t *testing.T) *crm.Lead {
	t.Helper()
	lead, err := crm.NewLead("Greenfield Expansion", "Greenfield Public School", "+91-9800000001", "")
	require.NoError(t, err)
	return lead
}

func newRecorderCase(t *testing.T) *onboarding.OnboardingCase {
	t.Helper()
	c, err := onboarding.NewOnboardingCase(uuid.New(), "Sunrise Academy", onboarding.ContactPerson{FirstName: "Meera"}, decimal.NewFromInt(500000))
	require.NoError(t, err)
	return c
}

func captureEntry(repo *MockActivityLogRepository) *[]*activity.ActivityLog {
	saved := new([]*activity.ActivityLog)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*activity.ActivityLog")).Run(func(args mock.Arguments) {
		*saved = append(*saved, args.Get(1).(*activity.ActivityLog))
	}).Return(nil)
	return saved
}

func TestRecorderLeadEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("lead creation writes a medium priority entry", func(t *testing.T) {
		lead := newRecorderLead(t)
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		err := recorder.Handle(ctx, crm.NewLeadCreatedEvent(lead))

		require.NoError(t, err)
		require.Len(t, *saved, 1)
		entry := (*saved)[0]
		assert.Equal(t, activity.EntityKindLead, entry.EntityKind)
		assert.Equal(t, lead.ID, entry.EntityID)
		assert.Equal(t, "Lead Created", entry.Title)
		assert.Equal(t, activity.PriorityMedium, entry.Metadata.Priority)
		assert.True(t, entry.IsSystemGenerated)
	})

	t.Run("stage change carries the transition in title and diff", func(t *testing.T) {
		lead := newRecorderLead(t)
		require.NoError(t, lead.ChangeStage(crm.LeadStageContacted, ""))
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		err := recorder.Handle(ctx, crm.NewLeadStageChangedEvent(lead, crm.LeadStageNew))

		require.NoError(t, err)
		require.Len(t, *saved, 1)
		entry := (*saved)[0]
		assert.Equal(t, "Stage Changed: New → Contacted", entry.Title)
		require.Len(t, entry.Changes, 1)
		assert.Equal(t, "stage", entry.Changes[0].Field)
	})

	t.Run("lost stage records the reason", func(t *testing.T) {
		lead := newRecorderLead(t)
		require.NoError(t, lead.ChangeStage(crm.LeadStageLost, "budget frozen"))
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		err := recorder.Handle(ctx, crm.NewLeadStageChangedEvent(lead, crm.LeadStageNew))

		require.NoError(t, err)
		require.Len(t, *saved, 1)
		assert.Contains(t, (*saved)[0].Description, "budget frozen")
	})
}

func TestRecorderOnboardingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("case creation writes a high priority start entry", func(t *testing.T) {
		c := newRecorderCase(t)
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		err := recorder.Handle(ctx, onboarding.NewCaseCreatedEvent(c))

		require.NoError(t, err)
		require.Len(t, *saved, 1)
		entry := (*saved)[0]
		assert.Equal(t, activity.EntityKindOnboarding, entry.EntityKind)
		assert.Equal(t, "Onboarding Started", entry.Title)
		assert.Equal(t, activity.PriorityHigh, entry.Metadata.Priority)
		assert.Contains(t, entry.Description, "500000")
	})

	t.Run("an update diff with a stage field becomes a stage change entry", func(t *testing.T) {
		c := newRecorderCase(t)
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		changes := []shared.FieldChange{
			{Field: "institute_name", OldValue: "Sunrise Academy", NewValue: "Sunrise International"},
			{Field: "stage", OldValue: "Documentation", NewValue: "Setup"},
		}
		err := recorder.Handle(ctx, onboarding.NewCaseUpdatedEvent(c, changes))

		require.NoError(t, err)
		require.Len(t, *saved, 1)
		entry := (*saved)[0]
		assert.Equal(t, activity.ActivityTypeStageChanged, entry.ActivityType)
		assert.Equal(t, "Stage Changed: Documentation → Setup", entry.Title)
		assert.Len(t, entry.Changes, 2)
	})

	t.Run("a rejected document is flagged high priority with the reason", func(t *testing.T) {
		c := newRecorderCase(t)
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		err := recorder.Handle(ctx, onboarding.NewDocumentStatusChangedEvent(c, "pan_card", onboarding.TaskStatusRejected, "blurred scan"))

		require.NoError(t, err)
		require.Len(t, *saved, 1)
		entry := (*saved)[0]
		assert.Equal(t, activity.PriorityHigh, entry.Metadata.Priority)
		assert.Contains(t, entry.Description, "blurred scan")
	})

	t.Run("a verified document stays medium priority", func(t *testing.T) {
		c := newRecorderCase(t)
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		err := recorder.Handle(ctx, onboarding.NewDocumentStatusChangedEvent(c, "pan_card", onboarding.TaskStatusVerified, ""))

		require.NoError(t, err)
		require.Len(t, *saved, 1)
		assert.Equal(t, activity.PriorityMedium, (*saved)[0].Metadata.Priority)
	})

	t.Run("scheduled training records the date as the next action", func(t *testing.T) {
		c := newRecorderCase(t)
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		date := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
		err := recorder.Handle(ctx, onboarding.NewTrainingScheduledEvent(c, "admin_training", date))

		require.NoError(t, err)
		require.Len(t, *saved, 1)
		assert.Equal(t, "Training on 2026-09-15", (*saved)[0].Metadata.NextAction)
	})

	t.Run("a milestone due date becomes the next action", func(t *testing.T) {
		c := newRecorderCase(t)
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		err := recorder.Handle(ctx, onboarding.NewMilestoneAddedEvent(c, onboarding.Milestone{Name: "Gateway sign-off", DueDate: &due}))

		require.NoError(t, err)
		require.Len(t, *saved, 1)
		entry := (*saved)[0]
		assert.Equal(t, "Milestone Added: Gateway sign-off", entry.Title)
		assert.Equal(t, "Due 2026-10-01", entry.Metadata.NextAction)
	})

	t.Run("hold and release are both recorded", func(t *testing.T) {
		c := newRecorderCase(t)
		repo := new(MockActivityLogRepository)
		saved := captureEntry(repo)
		recorder := NewRecorder(repo, zap.NewNop())

		require.NoError(t, recorder.Handle(ctx, onboarding.NewCaseHeldEvent(c, "awaiting signed agreement")))
		require.NoError(t, recorder.Handle(ctx, onboarding.NewCaseReleasedEvent(c)))

		require.Len(t, *saved, 2)
		assert.Equal(t, activity.ActivityTypeOnHold, (*saved)[0].ActivityType)
		assert.Contains(t, (*saved)[0].Description, "awaiting signed agreement")
		assert.Equal(t, activity.ActivityTypeHoldReleased, (*saved)[1].ActivityType)
	})
}

func TestRecorderResilience(t *testing.T) {
	ctx := context.Background()

	t.Run("a failed write is swallowed", func(t *testing.T) {
		lead := newRecorderLead(t)
		repo := new(MockActivityLogRepository)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*activity.ActivityLog")).Return(errors.New("connection reset"))
		recorder := NewRecorder(repo, zap.NewNop())

		err := recorder.Handle(ctx, crm.NewLeadCreatedEvent(lead))

		assert.NoError(t, err)
	})

	t.Run("unrelated events are ignored", func(t *testing.T) {
		repo := new(MockActivityLogRepository)
		recorder := NewRecorder(repo, zap.NewNop())

		event := shared.NewBaseDomainEvent("SomethingElse", "Other", uuid.New(), uuid.Nil)
		err := recorder.Handle(ctx, &event)

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "Save")
	})
}
