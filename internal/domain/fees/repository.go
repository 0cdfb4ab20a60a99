package fees

import (
	"context"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// FeeStructureRepository defines the interface for fee structure persistence
type FeeStructureRepository interface {
	// FindByID finds a fee structure by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*FeeStructure, error)

	// FindByIDForInstitute finds a fee structure by ID within an institute
	FindByIDForInstitute(ctx context.Context, instituteID, id uuid.UUID) (*FeeStructure, error)

	// FindAllForInstitute finds all fee structures for an institute
	FindAllForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) ([]FeeStructure, error)

	// FindByClass finds the fee structure for a class and academic year
	FindByClass(ctx context.Context, instituteID uuid.UUID, className, academicYear string) (*FeeStructure, error)

	// Save creates or updates a fee structure
	Save(ctx context.Context, fs *FeeStructure) error

	// DeleteForInstitute deletes a fee structure within an institute
	DeleteForInstitute(ctx context.Context, instituteID, id uuid.UUID) error

	// CountForInstitute counts fee structures for an institute
	CountForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) (int64, error)
}

// StudentFeeLedgerRepository defines the interface for ledger persistence
type StudentFeeLedgerRepository interface {
	// FindByID finds a ledger by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StudentFeeLedger, error)

	// FindByIDForInstitute finds a ledger by ID within an institute
	FindByIDForInstitute(ctx context.Context, instituteID, id uuid.UUID) (*StudentFeeLedger, error)

	// FindAllForInstitute finds all ledgers for an institute
	FindAllForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) ([]StudentFeeLedger, error)

	// FindByRollNumber finds the ledger for a roll number and academic year
	FindByRollNumber(ctx context.Context, instituteID uuid.UUID, rollNumber, academicYear string) (*StudentFeeLedger, error)

	// FindLatestByRollNumber finds the most recent ledger for a roll number,
	// ordered by academic year descending
	FindLatestByRollNumber(ctx context.Context, instituteID uuid.UUID, rollNumber string) (*StudentFeeLedger, error)

	// FindByStudent finds every ledger for a student across academic years,
	// ordered by academic year descending
	FindByStudent(ctx context.Context, instituteID uuid.UUID, studentID string) ([]StudentFeeLedger, error)

	// ExistsForStudentYear checks if a ledger already exists for
	// (student, institute, academic year)
	ExistsForStudentYear(ctx context.Context, instituteID uuid.UUID, studentID, academicYear string) (bool, error)

	// Save creates or updates a ledger
	Save(ctx context.Context, ledger *StudentFeeLedger) error

	// SaveWithLock saves a ledger with optimistic locking (version check).
	// Returns a concurrency conflict error if the version has changed, which
	// guards concurrent payment additions against lost updates.
	SaveWithLock(ctx context.Context, ledger *StudentFeeLedger) error

	// DeleteForInstitute deletes a ledger within an institute
	DeleteForInstitute(ctx context.Context, instituteID, id uuid.UUID) error

	// CountForInstitute counts ledgers for an institute
	CountForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) (int64, error)
}
