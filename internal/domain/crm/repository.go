package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// LeadRepository defines the interface for lead persistence
type LeadRepository interface {
	// FindByID finds a lead by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)

	// FindAll finds all leads matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Lead, error)

	// FindByPhone finds a lead by contact phone
	FindByPhone(ctx context.Context, phone string) (*Lead, error)

	// ExistsByPhone checks if a lead with the given contact phone exists
	ExistsByPhone(ctx context.Context, phone string) (bool, error)

	// ExistsByPhoneExcluding checks phone uniqueness against all other leads
	ExistsByPhoneExcluding(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error)

	// Save creates or updates a lead
	Save(ctx context.Context, lead *Lead) error

	// Delete deletes a lead
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts leads matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
