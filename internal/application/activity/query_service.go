package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/activity"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// QueryService serves the read side of the audit trail
type QueryService struct {
	activityRepo activity.ActivityLogRepository
}

// NewQueryService creates a new activity QueryService
func NewQueryService(activityRepo activity.ActivityLogRepository) *QueryService {
	return &QueryService{
		activityRepo: activityRepo,
	}
}

// ListByEntity returns the activity feed of one lead or onboarding case,
// newest first
func (s *QueryService) ListByEntity(ctx context.Context, kind activity.EntityKind, entityID uuid.UUID, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
	if !kind.IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_ENTITY_KIND", "Unknown activity entity kind")
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "performed_at"
	domainFilter.OrderDir = "desc"

	entries, err := s.activityRepo.FindByEntity(ctx, kind, entityID, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}

	total, err := s.activityRepo.CountByEntity(ctx, kind, entityID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	return ToActivityResponses(entries), total, nil
}
