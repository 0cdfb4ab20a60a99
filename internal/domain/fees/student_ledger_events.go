package fees

import (
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeStudentFeeLedger = "StudentFeeLedger"

// Event type constants
const (
	EventTypeLedgerCreated         = "LedgerCreated"
	EventTypeLedgerPaymentRecorded = "LedgerPaymentRecorded"
	EventTypeLedgerSettled         = "LedgerSettled"
)

// LedgerCreatedEvent is published when a student fee ledger is opened
type LedgerCreatedEvent struct {
	shared.BaseDomainEvent
	StudentID    string          `json:"student_id"`
	RollNumber   string          `json:"roll_number"`
	AcademicYear string          `json:"academic_year"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewLedgerCreatedEvent creates a new LedgerCreatedEvent
func NewLedgerCreatedEvent(l *StudentFeeLedger) *LedgerCreatedEvent {
	return &LedgerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerCreated, AggregateTypeStudentFeeLedger, l.ID, l.InstituteID),
		StudentID:       l.StudentID,
		RollNumber:      l.RollNumber,
		AcademicYear:    l.AcademicYear,
		TotalAmount:     l.TotalFeeAmount,
	}
}

// LedgerPaymentRecordedEvent is published for each payment that leaves a balance
type LedgerPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	RollNumber    string          `json:"roll_number"`
	Amount        decimal.Decimal `json:"amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	Method        PaymentMethod   `json:"method"`
}

// NewLedgerPaymentRecordedEvent creates a new LedgerPaymentRecordedEvent
func NewLedgerPaymentRecordedEvent(l *StudentFeeLedger, p *Payment) *LedgerPaymentRecordedEvent {
	return &LedgerPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerPaymentRecorded, AggregateTypeStudentFeeLedger, l.ID, l.InstituteID),
		RollNumber:      l.RollNumber,
		Amount:          p.Amount,
		PendingAmount:   l.PendingAmount,
		Method:          p.Method,
	}
}

// LedgerSettledEvent is published when the ledger reaches fully paid status
type LedgerSettledEvent struct {
	shared.BaseDomainEvent
	RollNumber  string          `json:"roll_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewLedgerSettledEvent creates a new LedgerSettledEvent
func NewLedgerSettledEvent(l *StudentFeeLedger) *LedgerSettledEvent {
	return &LedgerSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerSettled, AggregateTypeStudentFeeLedger, l.ID, l.InstituteID),
		RollNumber:      l.RollNumber,
		TotalAmount:     l.TotalFeeAmount,
	}
}
