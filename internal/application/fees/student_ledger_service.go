package fees

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/fees"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StudentLedgerService handles student fee ledger business operations
type StudentLedgerService struct {
	ledgerRepo     fees.StudentFeeLedgerRepository
	structureRepo  fees.FeeStructureRepository
	eventPublisher shared.EventPublisher
}

// NewStudentLedgerService creates a new StudentLedgerService
func NewStudentLedgerService(
	ledgerRepo fees.StudentFeeLedgerRepository,
	structureRepo fees.FeeStructureRepository,
	eventPublisher shared.EventPublisher,
) *StudentLedgerService {
	return &StudentLedgerService{
		ledgerRepo:     ledgerRepo,
		structureRepo:  structureRepo,
		eventPublisher: eventPublisher,
	}
}

// Create opens a ledger for a student, seeding the total from the referenced
// fee structure. At most one ledger may exist per (student, institute, year).
func (s *StudentLedgerService) Create(ctx context.Context, instituteID uuid.UUID, req CreateLedgerRequest) (*LedgerResponse, error) {
	structure, err := s.structureRepo.FindByIDForInstitute(ctx, instituteID, req.FeeStructureID)
	if err != nil {
		return nil, err
	}

	exists, err := s.ledgerRepo.ExistsForStudentYear(ctx, instituteID, req.StudentID, structure.AcademicYear)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A fee ledger already exists for this student and academic year")
	}

	ledger, err := fees.NewStudentFeeLedger(instituteID, req.StudentID, req.RollNumber, req.StudentName, structure)
	if err != nil {
		return nil, err
	}

	if req.CreatedBy != nil {
		ledger.SetCreatedBy(*req.CreatedBy)
	}
	if req.DueDate != nil {
		ledger.SetDueDate(req.DueDate)
	}

	if err := s.ledgerRepo.Save(ctx, ledger); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, ledger)

	response := ToLedgerResponse(ledger)
	return &response, nil
}

// GetByID retrieves a ledger scoped to the institute
func (s *StudentLedgerService) GetByID(ctx context.Context, instituteID, id uuid.UUID) (*LedgerResponse, error) {
	ledger, err := s.ledgerRepo.FindByIDForInstitute(ctx, instituteID, id)
	if err != nil {
		return nil, err
	}

	response := ToLedgerResponse(ledger)
	return &response, nil
}

// GetByRollNumber looks a student's ledger up by roll number, preferring the
// current academic year and falling back to the most recent one.
func (s *StudentLedgerService) GetByRollNumber(ctx context.Context, instituteID uuid.UUID, rollNumber string) (*LedgerResponse, error) {
	ledger, err := s.findLedgerByRoll(ctx, instituteID, rollNumber)
	if err != nil {
		return nil, err
	}

	response := ToLedgerResponse(ledger)
	return &response, nil
}

// List retrieves an institute's ledgers with filtering and pagination
func (s *StudentLedgerService) List(ctx context.Context, instituteID uuid.UUID, filter LedgerListFilter) ([]LedgerResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.PaymentStatus != "" {
		domainFilter.Filters["status"] = filter.PaymentStatus
	}
	if filter.ClassName != "" {
		domainFilter.Filters["class_name"] = filter.ClassName
	}
	if filter.AcademicYear != "" {
		domainFilter.Filters["academic_year"] = filter.AcademicYear
	}

	ledgers, err := s.ledgerRepo.FindAllForInstitute(ctx, instituteID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.CountForInstitute(ctx, instituteID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLedgerResponses(ledgers), total, nil
}

// RecordPayment appends a payment to a ledger identified by ID. The write
// goes through the optimistic lock so concurrent payments cannot both apply
// against the same version.
func (s *StudentLedgerService) RecordPayment(ctx context.Context, instituteID, ledgerID uuid.UUID, req RecordPaymentRequest) (*LedgerResponse, error) {
	ledger, err := s.ledgerRepo.FindByIDForInstitute(ctx, instituteID, ledgerID)
	if err != nil {
		return nil, err
	}

	return s.applyPayment(ctx, ledger, req.Amount, req.Method, req.TransactionID, req.Remarks)
}

// RecordPaymentByRollNumber appends a payment to a ledger located by roll
// number. The institute must come from the authenticated context; handlers
// reject the request outright when it is absent.
func (s *StudentLedgerService) RecordPaymentByRollNumber(ctx context.Context, instituteID uuid.UUID, req RecordPaymentByRollRequest) (*LedgerResponse, error) {
	ledger, err := s.findLedgerByRoll(ctx, instituteID, req.RollNumber)
	if err != nil {
		return nil, err
	}

	return s.applyPayment(ctx, ledger, req.Amount, req.Method, req.TransactionID, req.Remarks)
}

func (s *StudentLedgerService) applyPayment(ctx context.Context, ledger *fees.StudentFeeLedger, amount decimal.Decimal, method, transactionID, remarks string) (*LedgerResponse, error) {
	if _, err := ledger.RecordPayment(amount, fees.PaymentMethod(method), transactionID, remarks); err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.SaveWithLock(ctx, ledger); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, ledger)

	response := ToLedgerResponse(ledger)
	return &response, nil
}

// findLedgerByRoll resolves the current-year ledger for a roll number,
// falling back to the most recent academic year
func (s *StudentLedgerService) findLedgerByRoll(ctx context.Context, instituteID uuid.UUID, rollNumber string) (*fees.StudentFeeLedger, error) {
	ledger, err := s.ledgerRepo.FindByRollNumber(ctx, instituteID, rollNumber, fees.CurrentAcademicYear())
	if err == nil {
		return ledger, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return s.ledgerRepo.FindLatestByRollNumber(ctx, instituteID, rollNumber)
}

// Update applies a partial ledger update. Derived fields never appear in the
// request DTO, so clients cannot overwrite them.
func (s *StudentLedgerService) Update(ctx context.Context, instituteID, id uuid.UUID, req UpdateLedgerRequest) (*LedgerResponse, error) {
	ledger, err := s.ledgerRepo.FindByIDForInstitute(ctx, instituteID, id)
	if err != nil {
		return nil, err
	}

	if req.StudentName != nil || req.ClassName != nil {
		name := ledger.StudentName
		class := ""
		if req.StudentName != nil {
			name = *req.StudentName
		}
		if req.ClassName != nil {
			class = *req.ClassName
		}
		if err := ledger.SetStudentDetails(name, class); err != nil {
			return nil, err
		}
	}

	if req.DueDate != nil {
		ledger.SetDueDate(req.DueDate)
	}

	if err := s.ledgerRepo.Save(ctx, ledger); err != nil {
		return nil, err
	}

	response := ToLedgerResponse(ledger)
	return &response, nil
}

// Delete removes a ledger
func (s *StudentLedgerService) Delete(ctx context.Context, instituteID, id uuid.UUID) error {
	if _, err := s.ledgerRepo.FindByIDForInstitute(ctx, instituteID, id); err != nil {
		return err
	}
	return s.ledgerRepo.DeleteForInstitute(ctx, instituteID, id)
}

// PaymentHistory flattens every payment across a student's ledgers into one
// list, newest first, annotated with the owning ledger's year, class and total.
func (s *StudentLedgerService) PaymentHistory(ctx context.Context, instituteID uuid.UUID, studentID string) ([]PaymentHistoryEntry, error) {
	ledgers, err := s.ledgerRepo.FindByStudent(ctx, instituteID, studentID)
	if err != nil {
		return nil, err
	}

	history := make([]PaymentHistoryEntry, 0)
	for i := range ledgers {
		ledger := &ledgers[i]
		for _, p := range ledger.Payments {
			history = append(history, PaymentHistoryEntry{
				LedgerID:      ledger.ID,
				AcademicYear:  ledger.AcademicYear,
				ClassName:     ledger.ClassName,
				TotalFee:      ledger.TotalFeeAmount,
				Amount:        p.Amount,
				Date:          p.PaidAt,
				Method:        string(p.Method),
				TransactionID: p.TransactionID,
				Remarks:       p.Remarks,
			})
		}
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})

	return history, nil
}

func (s *StudentLedgerService) publishEvents(ctx context.Context, ledger *fees.StudentFeeLedger) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range ledger.GetDomainEvents() {
		// Event handling is fire-and-forget; a failed publish never fails the write.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	ledger.ClearDomainEvents()
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == shared.ErrNotFound.Code
	}
	return false
}
