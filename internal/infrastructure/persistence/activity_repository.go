package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/activity"
	"github.com/learn2pay/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormActivityLogRepository implements ActivityLogRepository using GORM.
// The table is append-only; the repository exposes no update or delete.
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Save appends an entry
func (r *GormActivityLogRepository) Save(ctx context.Context, entry *activity.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByEntity lists entries for one lead or onboarding case, newest first
func (r *GormActivityLogRepository) FindByEntity(ctx context.Context, kind activity.EntityKind, entityID uuid.UUID, filter shared.Filter) ([]activity.ActivityLog, error) {
	var entries []activity.ActivityLog
	query := r.db.WithContext(ctx).
		Model(&activity.ActivityLog{}).
		Where("entity_kind = ? AND entity_id = ? AND is_visible = true", kind, entityID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := "performed_at"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if strings.ToLower(filter.OrderDir) == "asc" {
		orderDir = "ASC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByEntity counts entries for one entity
func (r *GormActivityLogRepository) CountByEntity(ctx context.Context, kind activity.EntityKind, entityID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&activity.ActivityLog{}).
		Where("entity_kind = ? AND entity_id = ? AND is_visible = true", kind, entityID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormActivityLogRepository implements ActivityLogRepository
var _ activity.ActivityLogRepository = (*GormActivityLogRepository)(nil)
