package onboarding

import (
	"context"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// CaseRepository defines the interface for onboarding case persistence
type CaseRepository interface {
	// FindByID finds a case by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*OnboardingCase, error)

	// FindAll finds all cases matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]OnboardingCase, error)

	// FindByLead finds the case created from a lead
	FindByLead(ctx context.Context, leadID uuid.UUID) (*OnboardingCase, error)

	// Save creates or updates a case
	Save(ctx context.Context, c *OnboardingCase) error

	// Delete deletes a case
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts cases matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
