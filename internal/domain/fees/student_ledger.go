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

// LedgerStatus represents the derived payment status of a student fee ledger
type LedgerStatus string

const (
	LedgerStatusUnpaid  LedgerStatus = "Unpaid"  // No payment recorded yet
	LedgerStatusPartial LedgerStatus = "Partial" // 0 < paid < total
	LedgerStatusPaid    LedgerStatus = "Paid"    // paid >= total
)

// IsValid checks if the status is a valid LedgerStatus
func (s LedgerStatus) IsValid() bool {
	switch s {
	case LedgerStatusUnpaid, LedgerStatusPartial, LedgerStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of LedgerStatus
func (s LedgerStatus) String() string {
	return string(s)
}

// PaymentMethod represents how a fee payment was made
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Cash"
	PaymentMethodCheque PaymentMethod = "Cheque"
	PaymentMethodUPI    PaymentMethod = "UPI"
	PaymentMethodCard   PaymentMethod = "Card"
	PaymentMethodOnline PaymentMethod = "Online"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheque, PaymentMethodUPI, PaymentMethodCard, PaymentMethodOnline:
		return true
	}
	return false
}

// Payment is one payment event applied to the ledger.
// It is a value object within the StudentFeeLedger aggregate, stored as JSONB.
type Payment struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paid_at"`
	Method        PaymentMethod   `json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Remarks       string          `json:"remarks,omitempty"`
}

// Payments is a slice of Payment that implements GORM Scanner/Valuer for JSONB storage
type Payments []Payment

// Value implements driver.Valuer for GORM to store as JSONB
func (p Payments) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (p *Payments) Scan(value interface{}) error {
	if value == nil {
		*p = Payments{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Payments: unsupported type")
	}

	if len(bytes) == 0 {
		*p = Payments{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// StudentFeeLedger tracks one student's fee obligation for one academic year.
// TotalFeeAmount is a snapshot of the referenced FeeStructure's total at
// creation time and is not live-linked. PendingAmount, Status and
// LastPaymentDate are derived and only ever recomputed through recalculate.
type StudentFeeLedger struct {
	shared.InstituteAggregateRoot
	StudentID       string          `json:"student_id" gorm:"type:varchar(50);not null;index"`
	RollNumber      string          `json:"roll_number" gorm:"type:varchar(50);not null;index"`
	StudentName     string          `json:"student_name" gorm:"type:varchar(200);not null"`
	ClassName       string          `json:"class_name" gorm:"type:varchar(100)"`
	AcademicYear    string          `json:"academic_year" gorm:"type:varchar(20);not null;index"`
	FeeStructureID  uuid.UUID       `json:"fee_structure_id" gorm:"type:uuid;not null;index"`
	TotalFeeAmount  decimal.Decimal `json:"total_fee_amount" gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount      decimal.Decimal `json:"paid_amount" gorm:"type:decimal(18,2);not null;default:0"`
	PendingAmount   decimal.Decimal `json:"pending_amount" gorm:"type:decimal(18,2);not null;default:0"`
	Status          LedgerStatus    `json:"status" gorm:"type:varchar(20);not null;default:'Unpaid';index"`
	DueDate         *time.Time      `json:"due_date"`
	Payments        Payments        `json:"payments" gorm:"type:jsonb"`
	LastPaymentDate *time.Time      `json:"last_payment_date"`
}

// TableName returns the table name for GORM
func (StudentFeeLedger) TableName() string {
	return "student_fee_ledgers"
}

// NewStudentFeeLedger creates a ledger seeded from a fee structure snapshot
func NewStudentFeeLedger(instituteID uuid.UUID, studentID, rollNumber, studentName string, structure *FeeStructure) (*StudentFeeLedger, error) {
	if rollNumber == "" {
		return nil, shared.NewDomainError("INVALID_ROLL_NUMBER", "Roll number cannot be empty")
	}
	if studentID == "" {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if studentName == "" {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student name cannot be empty")
	}
	if structure == nil {
		return nil, shared.NewDomainError("INVALID_FEE_STRUCTURE", "Fee structure is required")
	}

	due := time.Now().AddDate(0, 0, 30)
	ledger := &StudentFeeLedger{
		InstituteAggregateRoot: shared.NewInstituteAggregateRoot(instituteID),
		StudentID:              studentID,
		RollNumber:             rollNumber,
		StudentName:            studentName,
		ClassName:              structure.ClassName,
		AcademicYear:           structure.AcademicYear,
		FeeStructureID:         structure.ID,
		TotalFeeAmount:         structure.TotalFee,
		PaidAmount:             decimal.Zero,
		DueDate:                &due,
		Payments:               Payments{},
	}
	ledger.recalculate()

	ledger.AddDomainEvent(NewLedgerCreatedEvent(ledger))

	return ledger, nil
}

// recalculate derives PendingAmount, Status and LastPaymentDate from
// TotalFeeAmount, PaidAmount and the payment list. Every mutation path
// funnels through here; the derivation exists exactly once.
func (l *StudentFeeLedger) recalculate() {
	pending := l.TotalFeeAmount.Sub(l.PaidAmount)
	if pending.IsNegative() {
		pending = decimal.Zero
	}
	l.PendingAmount = pending

	switch {
	case l.PaidAmount.IsZero():
		l.Status = LedgerStatusUnpaid
	case l.PaidAmount.GreaterThanOrEqual(l.TotalFeeAmount):
		l.Status = LedgerStatusPaid
	default:
		l.Status = LedgerStatusPartial
	}

	if n := len(l.Payments); n > 0 {
		last := l.Payments[n-1].PaidAt
		l.LastPaymentDate = &last
	}
}

// RecordPayment appends a payment event and recomputes the derived fields.
// A payment must be positive and must not push PaidAmount past TotalFeeAmount.
func (l *StudentFeeLedger) RecordPayment(amount decimal.Decimal, method PaymentMethod, transactionID, remarks string) (*Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(l.PendingAmount) {
		return nil, shared.NewDomainError("PAYMENT_EXCEEDS_DUE",
			fmt.Sprintf("Payment amount %s exceeds pending amount %s", amount.String(), l.PendingAmount.String()))
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	payment := Payment{
		ID:            uuid.New(),
		Amount:        amount,
		PaidAt:        time.Now(),
		Method:        method,
		TransactionID: transactionID,
		Remarks:       remarks,
	}
	l.Payments = append(l.Payments, payment)
	l.PaidAmount = l.PaidAmount.Add(amount)
	l.recalculate()
	l.UpdatedAt = time.Now()

	if l.Status == LedgerStatusPaid {
		l.AddDomainEvent(NewLedgerSettledEvent(l))
	} else {
		l.AddDomainEvent(NewLedgerPaymentRecordedEvent(l, &payment))
	}

	return &payment, nil
}

// SetDueDate updates the payment due date
func (l *StudentFeeLedger) SetDueDate(due *time.Time) {
	l.DueDate = due
	l.UpdatedAt = time.Now()
}

// SetStudentDetails updates the mutable student descriptors
func (l *StudentFeeLedger) SetStudentDetails(studentName, className string) error {
	if studentName == "" {
		return shared.NewDomainError("INVALID_STUDENT", "Student name cannot be empty")
	}
	l.StudentName = studentName
	if className != "" {
		l.ClassName = className
	}
	l.UpdatedAt = time.Now()
	return nil
}

// IsSettled returns true when the full fee amount has been paid
func (l *StudentFeeLedger) IsSettled() bool {
	return l.Status == LedgerStatusPaid
}

// IsOverdue returns true if the due date has passed with fees still pending
func (l *StudentFeeLedger) IsOverdue() bool {
	if l.DueDate == nil || l.IsSettled() {
		return false
	}
	return time.Now().After(*l.DueDate)
}

// PaymentCount returns the number of payments recorded
func (l *StudentFeeLedger) PaymentCount() int {
	return len(l.Payments)
}
