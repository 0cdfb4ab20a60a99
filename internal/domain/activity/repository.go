package activity

import (
	"context"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// ActivityLogRepository defines the interface for audit-trail persistence.
// The store is append-only; there is no update or delete.
type ActivityLogRepository interface {
	// Save appends an entry
	Save(ctx context.Context, entry *ActivityLog) error

	// FindByEntity lists entries for one lead or onboarding case, newest first
	FindByEntity(ctx context.Context, kind EntityKind, entityID uuid.UUID, filter shared.Filter) ([]ActivityLog, error)

	// CountByEntity counts entries for one entity
	CountByEntity(ctx context.Context, kind EntityKind, entityID uuid.UUID) (int64, error)
}
