package fees

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeItemType tags an itemized fee component
type FeeItemType string

const (
	FeeItemTypeOneTime   FeeItemType = "one-time"
	FeeItemTypeRecurring FeeItemType = "recurring"
	FeeItemTypeOptional  FeeItemType = "optional"
)

// IsValid checks if the fee item type is valid
func (t FeeItemType) IsValid() bool {
	switch t {
	case FeeItemTypeOneTime, FeeItemTypeRecurring, FeeItemTypeOptional:
		return true
	}
	return false
}

// FeeItem is an itemized fee component within a FeeStructure.
// It is a value object stored as JSONB.
type FeeItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Type   FeeItemType     `json:"type"`
}

// FeeItems is a slice of FeeItem that implements GORM Scanner/Valuer for JSONB storage
type FeeItems []FeeItem

// Value implements driver.Valuer for GORM to store as JSONB
func (f FeeItems) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (f *FeeItems) Scan(value interface{}) error {
	if value == nil {
		*f = FeeItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan FeeItems: unsupported type")
	}

	if len(bytes) == 0 {
		*f = FeeItems{}
		return nil
	}

	return json.Unmarshal(bytes, f)
}

// FeeStructure defines a class's fee composition for one academic year.
// TotalFee is always the sum of the three components and is recomputed
// inside every mutator before the aggregate is persisted.
type FeeStructure struct {
	shared.InstituteAggregateRoot
	ClassName    string          `json:"class_name" gorm:"type:varchar(100);not null;index"`
	TuitionFee   decimal.Decimal `json:"tuition_fee" gorm:"type:decimal(18,2);not null;default:0"`
	AdmissionFee decimal.Decimal `json:"admission_fee" gorm:"type:decimal(18,2);not null;default:0"`
	ExamFee      decimal.Decimal `json:"exam_fee" gorm:"type:decimal(18,2);not null;default:0"`
	TotalFee     decimal.Decimal `json:"total_fee" gorm:"type:decimal(18,2);not null;default:0"`
	AcademicYear string          `json:"academic_year" gorm:"type:varchar(20);not null;index"`
	FeeItems     FeeItems        `json:"fee_items" gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (FeeStructure) TableName() string {
	return "fee_structures"
}

// CurrentAcademicYear returns the default academic year range, e.g. "2026-2027"
func CurrentAcademicYear() string {
	year := time.Now().Year()
	return fmt.Sprintf("%d-%d", year, year+1)
}

// NewFeeStructure creates a new fee structure for a class
func NewFeeStructure(instituteID uuid.UUID, className string, tuition, admission, exam decimal.Decimal, academicYear string) (*FeeStructure, error) {
	if className == "" {
		return nil, shared.NewDomainError("INVALID_CLASS", "Class name cannot be empty")
	}
	if tuition.IsNegative() || admission.IsNegative() || exam.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee components cannot be negative")
	}
	if academicYear == "" {
		academicYear = CurrentAcademicYear()
	}

	fs := &FeeStructure{
		InstituteAggregateRoot: shared.NewInstituteAggregateRoot(instituteID),
		ClassName:              className,
		TuitionFee:             tuition,
		AdmissionFee:           admission,
		ExamFee:                exam,
		AcademicYear:           academicYear,
		FeeItems:               FeeItems{},
	}
	fs.recalculateTotal()

	fs.AddDomainEvent(NewFeeStructureCreatedEvent(fs))

	return fs, nil
}

// recalculateTotal derives TotalFee from the three components.
// Called from every mutator that touches a component.
func (fs *FeeStructure) recalculateTotal() {
	fs.TotalFee = fs.TuitionFee.Add(fs.AdmissionFee).Add(fs.ExamFee)
}

// UpdateFees replaces the fee components and recomputes the total
func (fs *FeeStructure) UpdateFees(tuition, admission, exam decimal.Decimal) error {
	if tuition.IsNegative() || admission.IsNegative() || exam.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Fee components cannot be negative")
	}

	fs.TuitionFee = tuition
	fs.AdmissionFee = admission
	fs.ExamFee = exam
	fs.recalculateTotal()
	fs.UpdatedAt = time.Now()

	fs.AddDomainEvent(NewFeeStructureUpdatedEvent(fs))

	return nil
}

// SetClassName renames the class this structure applies to
func (fs *FeeStructure) SetClassName(className string) error {
	if className == "" {
		return shared.NewDomainError("INVALID_CLASS", "Class name cannot be empty")
	}
	fs.ClassName = className
	fs.UpdatedAt = time.Now()
	return nil
}

// SetAcademicYear changes the academic year label
func (fs *FeeStructure) SetAcademicYear(year string) {
	if year == "" {
		year = CurrentAcademicYear()
	}
	fs.AcademicYear = year
	fs.UpdatedAt = time.Now()
}

// AddFeeItem appends an itemized fee component
func (fs *FeeStructure) AddFeeItem(name string, amount decimal.Decimal, itemType FeeItemType) error {
	if name == "" {
		return shared.NewDomainError("INVALID_FEE_ITEM", "Fee item name cannot be empty")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Fee item amount cannot be negative")
	}
	if !itemType.IsValid() {
		return shared.NewDomainError("INVALID_FEE_ITEM", "Fee item type is not valid")
	}

	fs.FeeItems = append(fs.FeeItems, FeeItem{Name: name, Amount: amount, Type: itemType})
	fs.UpdatedAt = time.Now()
	return nil
}

// ReplaceFeeItems replaces the whole itemized list
func (fs *FeeStructure) ReplaceFeeItems(items FeeItems) error {
	for _, item := range items {
		if item.Name == "" {
			return shared.NewDomainError("INVALID_FEE_ITEM", "Fee item name cannot be empty")
		}
		if item.Amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Fee item amount cannot be negative")
		}
		if !item.Type.IsValid() {
			return shared.NewDomainError("INVALID_FEE_ITEM", "Fee item type is not valid")
		}
	}
	fs.FeeItems = items
	fs.UpdatedAt = time.Now()
	return nil
}
