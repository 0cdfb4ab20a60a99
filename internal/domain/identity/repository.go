package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// UserRepository defines the interface for institute-user persistence
type UserRepository interface {
	// FindByIDForInstitute finds a user scoped to an institute
	FindByIDForInstitute(ctx context.Context, id, instituteID uuid.UUID) (*InstituteUser, error)

	// FindAllForInstitute lists an institute's users
	FindAllForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) ([]InstituteUser, error)

	// FindByEmail finds a user by login email within an institute
	FindByEmail(ctx context.Context, instituteID uuid.UUID, email string) (*InstituteUser, error)

	// ExistsByEmail checks email uniqueness within an institute
	ExistsByEmail(ctx context.Context, instituteID uuid.UUID, email string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *InstituteUser) error

	// DeleteForInstitute hard-deletes a user scoped to an institute
	DeleteForInstitute(ctx context.Context, id, instituteID uuid.UUID) error

	// CountForInstitute counts an institute's users
	CountForInstitute(ctx context.Context, instituteID uuid.UUID) (int64, error)
}
