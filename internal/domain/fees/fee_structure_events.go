package fees

import (
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeFeeStructure = "FeeStructure"

// Event type constants
const (
	EventTypeFeeStructureCreated = "FeeStructureCreated"
	EventTypeFeeStructureUpdated = "FeeStructureUpdated"
	EventTypeFeeStructureDeleted = "FeeStructureDeleted"
)

// FeeStructureCreatedEvent is published when a new fee structure is created
type FeeStructureCreatedEvent struct {
	shared.BaseDomainEvent
	ClassName    string          `json:"class_name"`
	AcademicYear string          `json:"academic_year"`
	TotalFee     decimal.Decimal `json:"total_fee"`
}

// NewFeeStructureCreatedEvent creates a new FeeStructureCreatedEvent
func NewFeeStructureCreatedEvent(fs *FeeStructure) *FeeStructureCreatedEvent {
	return &FeeStructureCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeStructureCreated, AggregateTypeFeeStructure, fs.ID, fs.InstituteID),
		ClassName:       fs.ClassName,
		AcademicYear:    fs.AcademicYear,
		TotalFee:        fs.TotalFee,
	}
}

// FeeStructureUpdatedEvent is published when fee components change
type FeeStructureUpdatedEvent struct {
	shared.BaseDomainEvent
	ClassName string          `json:"class_name"`
	TotalFee  decimal.Decimal `json:"total_fee"`
}

// NewFeeStructureUpdatedEvent creates a new FeeStructureUpdatedEvent
func NewFeeStructureUpdatedEvent(fs *FeeStructure) *FeeStructureUpdatedEvent {
	return &FeeStructureUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeStructureUpdated, AggregateTypeFeeStructure, fs.ID, fs.InstituteID),
		ClassName:       fs.ClassName,
		TotalFee:        fs.TotalFee,
	}
}

// FeeStructureDeletedEvent is published when a fee structure is hard-deleted
type FeeStructureDeletedEvent struct {
	shared.BaseDomainEvent
	ClassName    string `json:"class_name"`
	AcademicYear string `json:"academic_year"`
}

// NewFeeStructureDeletedEvent creates a new FeeStructureDeletedEvent
func NewFeeStructureDeletedEvent(fs *FeeStructure) *FeeStructureDeletedEvent {
	return &FeeStructureDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeStructureDeleted, AggregateTypeFeeStructure, fs.ID, fs.InstituteID),
		ClassName:       fs.ClassName,
		AcademicYear:    fs.AcademicYear,
	}
}
