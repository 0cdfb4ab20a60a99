package activity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivityLog(t *testing.T) {
	t.Run("creates a visible entry stamped with the write time", func(t *testing.T) {
		entityID := uuid.New()

		entry, err := NewActivityLog(EntityKindOnboarding, entityID, ActivityTypeCreated, "Onboarding Started")

		require.NoError(t, err)
		assert.Equal(t, EntityKindOnboarding, entry.EntityKind)
		assert.Equal(t, entityID, entry.EntityID)
		assert.True(t, entry.IsVisible)
		assert.False(t, entry.IsSystemGenerated)
		assert.False(t, entry.PerformedAt.IsZero())
	})

	t.Run("rejects unknown entity kind", func(t *testing.T) {
		entry, err := NewActivityLog(EntityKind("Invoice"), uuid.New(), ActivityTypeCreated, "x")

		assert.Error(t, err)
		assert.Nil(t, entry)
	})

	t.Run("rejects missing entity id and empty title", func(t *testing.T) {
		_, err := NewActivityLog(EntityKindLead, uuid.Nil, ActivityTypeCreated, "x")
		assert.Error(t, err)

		_, err = NewActivityLog(EntityKindLead, uuid.New(), ActivityTypeCreated, "")
		assert.Error(t, err)
	})

	t.Run("builder attaches diff, performer and metadata", func(t *testing.T) {
		performer := uuid.New()

		entry, err := NewActivityLog(EntityKindLead, uuid.New(), ActivityTypeStageChanged, "Stage Changed: New → Contacted")
		require.NoError(t, err)

		entry.WithPerformer(performer).
			WithChanges([]shared.FieldChange{{Field: "stage", OldValue: "New", NewValue: "Contacted"}}).
			WithMetadata(Metadata{Source: "Web", Priority: PriorityHigh}).
			SystemGenerated()

		require.NotNil(t, entry.PerformedBy)
		assert.Equal(t, performer, *entry.PerformedBy)
		require.Len(t, entry.Changes, 1)
		assert.Equal(t, "stage", entry.Changes[0].Field)
		assert.Equal(t, PriorityHigh, entry.Metadata.Priority)
		assert.True(t, entry.IsSystemGenerated)
	})
}
