package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/identity"
	"github.com/learn2pay/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByIDForInstitute finds a user scoped to an institute
func (r *GormUserRepository) FindByIDForInstitute(ctx context.Context, id, instituteID uuid.UUID) (*identity.InstituteUser, error) {
	var user identity.InstituteUser
	if err := r.db.WithContext(ctx).
		Where("institute_id = ? AND id = ?", instituteID, id).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAllForInstitute lists an institute's users
func (r *GormUserRepository) FindAllForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) ([]identity.InstituteUser, error) {
	var users []identity.InstituteUser
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&identity.InstituteUser{}).Where("institute_id = ?", instituteID),
		filter,
	)

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByEmail finds a user by login email within an institute
func (r *GormUserRepository) FindByEmail(ctx context.Context, instituteID uuid.UUID, email string) (*identity.InstituteUser, error) {
	var user identity.InstituteUser
	if err := r.db.WithContext(ctx).
		Where("institute_id = ? AND email = ?", instituteID, strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks email uniqueness within an institute
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, instituteID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.InstituteUser{}).
		Where("institute_id = ? AND email = ?", instituteID, strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.InstituteUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// DeleteForInstitute hard-deletes a user scoped to an institute
func (r *GormUserRepository) DeleteForInstitute(ctx context.Context, id, instituteID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.InstituteUser{}, "institute_id = ? AND id = ?", instituteID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForInstitute counts an institute's users
func (r *GormUserRepository) CountForInstitute(ctx context.Context, instituteID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.InstituteUser{}).
		Where("institute_id = ?", instituteID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormUserRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

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
		query = query.Order("name ASC")
	}

	return query
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
