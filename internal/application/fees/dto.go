package fees

import (
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/fees"
	"github.com/shopspring/decimal"
)

// CreateFeeStructureRequest represents a request to create a fee structure
type CreateFeeStructureRequest struct {
	ClassName    string           `json:"class_name" binding:"required,min=1,max=50"`
	TuitionFee   decimal.Decimal  `json:"tuition_fee" binding:"required"`
	AdmissionFee decimal.Decimal  `json:"admission_fee"`
	ExamFee      decimal.Decimal  `json:"exam_fee"`
	AcademicYear string           `json:"academic_year" binding:"omitempty,max=20"`
	FeeItems     []FeeItemRequest `json:"fee_items" binding:"omitempty,dive"`
	CreatedBy    *uuid.UUID       `json:"-"`
}

// FeeItemRequest is one itemized component in a create/update payload
type FeeItemRequest struct {
	Name   string          `json:"name" binding:"required,min=1,max=100"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Type   string          `json:"type" binding:"omitempty,oneof=one-time recurring optional"`
}

// UpdateFeeStructureRequest represents a partial fee structure update.
// TotalFee is never accepted from clients.
type UpdateFeeStructureRequest struct {
	ClassName    *string          `json:"class_name" binding:"omitempty,min=1,max=50"`
	TuitionFee   *decimal.Decimal `json:"tuition_fee"`
	AdmissionFee *decimal.Decimal `json:"admission_fee"`
	ExamFee      *decimal.Decimal `json:"exam_fee"`
	AcademicYear *string          `json:"academic_year" binding:"omitempty,max=20"`
	FeeItems     []FeeItemRequest `json:"fee_items" binding:"omitempty,dive"`
}

// FeeStructureListFilter represents list filters for fee structures
type FeeStructureListFilter struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	ClassName    string `form:"class_name"`
	AcademicYear string `form:"academic_year"`
}

// FeeStructureResponse represents a fee structure in API responses
type FeeStructureResponse struct {
	ID           uuid.UUID       `json:"id"`
	InstituteID  uuid.UUID       `json:"institute_id"`
	ClassName    string          `json:"class_name"`
	TuitionFee   decimal.Decimal `json:"tuition_fee"`
	AdmissionFee decimal.Decimal `json:"admission_fee"`
	ExamFee      decimal.Decimal `json:"exam_fee"`
	TotalFee     decimal.Decimal `json:"total_fee"`
	AcademicYear string          `json:"academic_year"`
	FeeItems     fees.FeeItems   `json:"fee_items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToFeeStructureResponse maps a domain fee structure to its response DTO
func ToFeeStructureResponse(fs *fees.FeeStructure) FeeStructureResponse {
	return FeeStructureResponse{
		ID:           fs.ID,
		InstituteID:  fs.InstituteID,
		ClassName:    fs.ClassName,
		TuitionFee:   fs.TuitionFee,
		AdmissionFee: fs.AdmissionFee,
		ExamFee:      fs.ExamFee,
		TotalFee:     fs.TotalFee,
		AcademicYear: fs.AcademicYear,
		FeeItems:     fs.FeeItems,
		CreatedAt:    fs.CreatedAt,
		UpdatedAt:    fs.UpdatedAt,
	}
}

// ToFeeStructureResponses maps a slice of fee structures
func ToFeeStructureResponses(list []fees.FeeStructure) []FeeStructureResponse {
	out := make([]FeeStructureResponse, len(list))
	for i := range list {
		out[i] = ToFeeStructureResponse(&list[i])
	}
	return out
}

// CreateLedgerRequest represents a request to open a student fee ledger
type CreateLedgerRequest struct {
	StudentID      string     `json:"student_id" binding:"required,min=1,max=50"`
	RollNumber     string     `json:"roll_number" binding:"required,min=1,max=50"`
	StudentName    string     `json:"student_name" binding:"required,min=1,max=200"`
	FeeStructureID uuid.UUID  `json:"fee_structure_id" binding:"required"`
	DueDate        *time.Time `json:"due_date"`
	CreatedBy      *uuid.UUID `json:"-"`
}

// UpdateLedgerRequest represents a partial ledger update. Derived fields
// (pending amount, status, last payment date) are not accepted from clients.
type UpdateLedgerRequest struct {
	StudentName *string    `json:"student_name" binding:"omitempty,min=1,max=200"`
	ClassName   *string    `json:"class_name" binding:"omitempty,max=50"`
	DueDate     *time.Time `json:"due_date"`
}

// RecordPaymentRequest represents one payment against a ledger
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	TransactionID string          `json:"transaction_id" binding:"omitempty,max=100"`
	Remarks       string          `json:"remarks" binding:"omitempty,max=500"`
}

// RecordPaymentByRollRequest records a payment located by roll number
type RecordPaymentByRollRequest struct {
	RollNumber    string          `json:"roll_number" binding:"required,min=1,max=50"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	TransactionID string          `json:"transaction_id" binding:"omitempty,max=100"`
	Remarks       string          `json:"remarks" binding:"omitempty,max=500"`
}

// LedgerListFilter represents list filters for ledgers
type LedgerListFilter struct {
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
	PaymentStatus string `form:"payment_status"`
	ClassName     string `form:"class_name"`
	AcademicYear  string `form:"academic_year"`
	Search        string `form:"search"`
}

// LedgerResponse represents a student fee ledger in API responses
type LedgerResponse struct {
	ID              uuid.UUID         `json:"id"`
	InstituteID     uuid.UUID         `json:"institute_id"`
	StudentID       string            `json:"student_id"`
	RollNumber      string            `json:"roll_number"`
	StudentName     string            `json:"student_name"`
	ClassName       string            `json:"class_name"`
	AcademicYear    string            `json:"academic_year"`
	FeeStructureID  uuid.UUID         `json:"fee_structure_id"`
	TotalFeeAmount  decimal.Decimal   `json:"total_fee_amount"`
	PaidAmount      decimal.Decimal   `json:"paid_amount"`
	PendingAmount   decimal.Decimal   `json:"pending_amount"`
	Status          fees.LedgerStatus `json:"payment_status"`
	DueDate         *time.Time        `json:"due_date"`
	Payments        fees.Payments     `json:"payments"`
	LastPaymentDate *time.Time        `json:"last_payment_date"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Version         int               `json:"version"`
}

// ToLedgerResponse maps a domain ledger to its response DTO
func ToLedgerResponse(l *fees.StudentFeeLedger) LedgerResponse {
	return LedgerResponse{
		ID:              l.ID,
		InstituteID:     l.InstituteID,
		StudentID:       l.StudentID,
		RollNumber:      l.RollNumber,
		StudentName:     l.StudentName,
		ClassName:       l.ClassName,
		AcademicYear:    l.AcademicYear,
		FeeStructureID:  l.FeeStructureID,
		TotalFeeAmount:  l.TotalFeeAmount,
		PaidAmount:      l.PaidAmount,
		PendingAmount:   l.PendingAmount,
		Status:          l.Status,
		DueDate:         l.DueDate,
		Payments:        l.Payments,
		LastPaymentDate: l.LastPaymentDate,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		Version:         l.Version,
	}
}

// ToLedgerResponses maps a slice of ledgers
func ToLedgerResponses(list []fees.StudentFeeLedger) []LedgerResponse {
	out := make([]LedgerResponse, len(list))
	for i := range list {
		out[i] = ToLedgerResponse(&list[i])
	}
	return out
}

// PaymentHistoryEntry is one flattened payment annotated with ledger context
type PaymentHistoryEntry struct {
	LedgerID      uuid.UUID       `json:"ledger_id"`
	AcademicYear  string          `json:"academic_year"`
	ClassName     string          `json:"class_name"`
	TotalFee      decimal.Decimal `json:"total_fee"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Remarks       string          `json:"remarks,omitempty"`
}
