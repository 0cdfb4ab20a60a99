package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Lead", uuid.New(), uuid.Nil)
	return &e
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers events to subscribed handlers only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		leadHandler := &recordingHandler{types: []string{"LeadCreated"}}
		caseHandler := &recordingHandler{types: []string{"OnboardingCaseCreated"}}
		bus.Subscribe(leadHandler)
		bus.Subscribe(caseHandler)

		err := bus.Publish(ctx, newEvent("LeadCreated"))

		require.NoError(t, err)
		assert.Len(t, leadHandler.received, 1)
		assert.Empty(t, caseHandler.received)
	})

	t.Run("a handler with no event types receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		wildcard := &recordingHandler{}
		bus.Subscribe(wildcard)

		err := bus.Publish(ctx, newEvent("LeadCreated"), newEvent("OnboardingCaseCreated"))

		require.NoError(t, err)
		assert.Len(t, wildcard.received, 2)
	})

	t.Run("a failing handler does not fail the publish", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"LeadCreated"}, err: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"LeadCreated"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newEvent("LeadCreated"))

		require.NoError(t, err)
		assert.Len(t, healthy.received, 1)
	})

	t.Run("unsubscribed handlers stop receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"LeadCreated"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		err := bus.Publish(ctx, newEvent("LeadCreated"))

		require.NoError(t, err)
		assert.Empty(t, handler.received)
	})
}
