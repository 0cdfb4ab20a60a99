package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/onboarding"
	"github.com/learn2pay/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCaseRepository implements CaseRepository using GORM
type GormCaseRepository struct {
	db *gorm.DB
}

// NewGormCaseRepository creates a new GormCaseRepository
func NewGormCaseRepository(db *gorm.DB) *GormCaseRepository {
	return &GormCaseRepository{db: db}
}

// FindByID finds a case by its ID
func (r *GormCaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*onboarding.OnboardingCase, error) {
	var c onboarding.OnboardingCase
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds all cases matching the filter
func (r *GormCaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]onboarding.OnboardingCase, error) {
	var cases []onboarding.OnboardingCase
	query := r.applyFilter(r.db.WithContext(ctx).Model(&onboarding.OnboardingCase{}), filter)

	if err := query.Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

// FindByLead finds the case created from a lead
func (r *GormCaseRepository) FindByLead(ctx context.Context, leadID uuid.UUID) (*onboarding.OnboardingCase, error) {
	var c onboarding.OnboardingCase
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save creates or updates a case
func (r *GormCaseRepository) Save(ctx context.Context, c *onboarding.OnboardingCase) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete deletes a case
func (r *GormCaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&onboarding.OnboardingCase{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts cases matching the filter
func (r *GormCaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&onboarding.OnboardingCase{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("start_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("institute_name ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "stage":
			query = query.Where("stage = ?", value)
		case "lead_id":
			query = query.Where("lead_id = ?", value)
		case "is_on_hold":
			query = query.Where("is_on_hold = ?", value)
		case "assigned_to":
			if value == nil {
				query = query.Where("assigned_to IS NULL")
			} else {
				query = query.Where("assigned_to = ?", value)
			}
		}
	}

	return query
}

// Ensure GormCaseRepository implements CaseRepository
var _ onboarding.CaseRepository = (*GormCaseRepository)(nil)
