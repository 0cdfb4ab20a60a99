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

// GormStudentLedgerRepository implements StudentFeeLedgerRepository using GORM
type GormStudentLedgerRepository struct {
	db *gorm.DB
}

// NewGormStudentLedgerRepository creates a new GormStudentLedgerRepository
func NewGormStudentLedgerRepository(db *gorm.DB) *GormStudentLedgerRepository {
	return &GormStudentLedgerRepository{db: db}
}

// FindByID finds a ledger by its ID
func (r *GormStudentLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*fees.StudentFeeLedger, error) {
	var ledger fees.StudentFeeLedger
	if err := r.db.WithContext(ctx).First(&ledger, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

// FindByIDForInstitute finds a ledger by ID within an institute
func (r *GormStudentLedgerRepository) FindByIDForInstitute(ctx context.Context, instituteID, id uuid.UUID) (*fees.StudentFeeLedger, error) {
	var ledger fees.StudentFeeLedger
	if err := r.db.WithContext(ctx).
		Where("institute_id = ? AND id = ?", instituteID, id).
		First(&ledger).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

// FindAllForInstitute finds all ledgers for an institute
func (r *GormStudentLedgerRepository) FindAllForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) ([]fees.StudentFeeLedger, error) {
	var ledgers []fees.StudentFeeLedger
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fees.StudentFeeLedger{}).Where("institute_id = ?", instituteID),
		filter,
	)

	if err := query.Find(&ledgers).Error; err != nil {
		return nil, err
	}
	return ledgers, nil
}

// FindByRollNumber finds the ledger for a roll number and academic year
func (r *GormStudentLedgerRepository) FindByRollNumber(ctx context.Context, instituteID uuid.UUID, rollNumber, academicYear string) (*fees.StudentFeeLedger, error) {
	var ledger fees.StudentFeeLedger
	if err := r.db.WithContext(ctx).
		Where("institute_id = ? AND roll_number = ? AND academic_year = ?", instituteID, rollNumber, academicYear).
		First(&ledger).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

// FindLatestByRollNumber finds the most recent ledger for a roll number,
// ordered by academic year descending
func (r *GormStudentLedgerRepository) FindLatestByRollNumber(ctx context.Context, instituteID uuid.UUID, rollNumber string) (*fees.StudentFeeLedger, error) {
	var ledger fees.StudentFeeLedger
	if err := r.db.WithContext(ctx).
		Where("institute_id = ? AND roll_number = ?", instituteID, rollNumber).
		Order("academic_year DESC").
		First(&ledger).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

// FindByStudent finds every ledger for a student across academic years
func (r *GormStudentLedgerRepository) FindByStudent(ctx context.Context, instituteID uuid.UUID, studentID string) ([]fees.StudentFeeLedger, error) {
	var ledgers []fees.StudentFeeLedger
	if err := r.db.WithContext(ctx).
		Where("institute_id = ? AND student_id = ?", instituteID, studentID).
		Order("academic_year DESC").
		Find(&ledgers).Error; err != nil {
		return nil, err
	}
	return ledgers, nil
}

// ExistsForStudentYear checks if a ledger already exists for (student, institute, academic year)
func (r *GormStudentLedgerRepository) ExistsForStudentYear(ctx context.Context, instituteID uuid.UUID, studentID, academicYear string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&fees.StudentFeeLedger{}).
		Where("institute_id = ? AND student_id = ? AND academic_year = ?", instituteID, studentID, academicYear).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a ledger
func (r *GormStudentLedgerRepository) Save(ctx context.Context, ledger *fees.StudentFeeLedger) error {
	return r.db.WithContext(ctx).Save(ledger).Error
}

// SaveWithLock saves a ledger with optimistic locking. The update only
// matches the row at the version the ledger was loaded with; a concurrent
// payment that got there first leaves nothing to update.
func (r *GormStudentLedgerRepository) SaveWithLock(ctx context.Context, ledger *fees.StudentFeeLedger) error {
	loadedVersion := ledger.Version
	ledger.IncrementVersion()

	result := r.db.WithContext(ctx).
		Model(ledger).
		Where("id = ? AND version = ?", ledger.ID, loadedVersion).
		Updates(ledger)

	if result.Error != nil {
		ledger.Version = loadedVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		ledger.Version = loadedVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForInstitute deletes a ledger within an institute
func (r *GormStudentLedgerRepository) DeleteForInstitute(ctx context.Context, instituteID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&fees.StudentFeeLedger{}, "institute_id = ? AND id = ?", instituteID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForInstitute counts ledgers for an institute
func (r *GormStudentLedgerRepository) CountForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&fees.StudentFeeLedger{}).Where("institute_id = ?", instituteID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStudentLedgerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("roll_number ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStudentLedgerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("student_name ILIKE ? OR roll_number ILIKE ? OR student_id ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "class_name":
			query = query.Where("class_name = ?", value)
		case "academic_year":
			query = query.Where("academic_year = ?", value)
		case "student_id":
			query = query.Where("student_id = ?", value)
		case "overdue":
			if value == true {
				query = query.Where("due_date < NOW() AND status != ?", fees.LedgerStatusPaid)
			}
		}
	}

	return query
}

// Ensure GormStudentLedgerRepository implements StudentFeeLedgerRepository
var _ fees.StudentFeeLedgerRepository = (*GormStudentLedgerRepository)(nil)
