package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/fees"
	"github.com/learn2pay/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormFeeStructureRepository implements FeeStructureRepository using GORM
type GormFeeStructureRepository struct {
	db *gorm.DB
}

// NewGormFeeStructureRepository creates a new GormFeeStructureRepository
func NewGormFeeStructureRepository(db *gorm.DB) *GormFeeStructureRepository {
	return &GormFeeStructureRepository{db: db}
}

// FindByID finds a fee structure by its ID
func (r *GormFeeStructureRepository) FindByID(ctx context.Context, id uuid.UUID) (*fees.FeeStructure, error) {
	var fs fees.FeeStructure
	if err := r.db.WithContext(ctx).First(&fs, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &fs, nil
}

// FindByIDForInstitute finds a fee structure by ID within an institute
func (r *GormFeeStructureRepository) FindByIDForInstitute(ctx context.Context, instituteID, id uuid.UUID) (*fees.FeeStructure, error) {
	var fs fees.FeeStructure
	if err := r.db.WithContext(ctx).
		Where("institute_id = ? AND id = ?", instituteID, id).
		First(&fs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &fs, nil
}

// FindAllForInstitute finds all fee structures for an institute
func (r *GormFeeStructureRepository) FindAllForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) ([]fees.FeeStructure, error) {
	var structures []fees.FeeStructure
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fees.FeeStructure{}).Where("institute_id = ?", instituteID),
		filter,
	)

	if err := query.Find(&structures).Error; err != nil {
		return nil, err
	}
	return structures, nil
}

// FindByClass finds the fee structure for a class and academic year
func (r *GormFeeStructureRepository) FindByClass(ctx context.Context, instituteID uuid.UUID, className, academicYear string) (*fees.FeeStructure, error) {
	var fs fees.FeeStructure
	if err := r.db.WithContext(ctx).
		Where("institute_id = ? AND class_name = ? AND academic_year = ?", instituteID, className, academicYear).
		First(&fs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &fs, nil
}

// Save creates or updates a fee structure
func (r *GormFeeStructureRepository) Save(ctx context.Context, fs *fees.FeeStructure) error {
	return r.db.WithContext(ctx).Save(fs).Error
}

// DeleteForInstitute deletes a fee structure within an institute
func (r *GormFeeStructureRepository) DeleteForInstitute(ctx context.Context, instituteID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&fees.FeeStructure{}, "institute_id = ? AND id = ?", instituteID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForInstitute counts fee structures for an institute
func (r *GormFeeStructureRepository) CountForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&fees.FeeStructure{}).Where("institute_id = ?", instituteID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormFeeStructureRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("class_name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormFeeStructureRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("class_name ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "class_name":
			query = query.Where("class_name = ?", value)
		case "academic_year":
			query = query.Where("academic_year = ?", value)
		}
	}

	return query
}

// Ensure GormFeeStructureRepository implements FeeStructureRepository
var _ fees.FeeStructureRepository = (*GormFeeStructureRepository)(nil)
