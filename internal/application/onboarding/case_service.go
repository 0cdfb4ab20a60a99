package onboarding

import (
	"context"
	"errors"
	"math"
	"reflect"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/onboarding"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CaseService handles onboarding case business operations
type CaseService struct {
	caseRepo       onboarding.CaseRepository
	eventPublisher shared.EventPublisher
}

// NewCaseService creates a new CaseService
func NewCaseService(caseRepo onboarding.CaseRepository, eventPublisher shared.EventPublisher) *CaseService {
	return &CaseService{
		caseRepo:       caseRepo,
		eventPublisher: eventPublisher,
	}
}

// Create starts an onboarding for a converted lead. A lead carries at most
// one case; the acting user becomes the default assignee when none is
// supplied.
func (s *CaseService) Create(ctx context.Context, req CreateCaseRequest) (*CaseResponse, error) {
	existing, err := s.caseRepo.FindByLead(ctx, req.LeadID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An onboarding already exists for this lead")
	}

	contractValue := decimal.Zero
	if req.ContractValue != nil {
		contractValue = *req.ContractValue
	}

	contact := onboarding.ContactPerson{
		FirstName:   req.ContactFirst,
		LastName:    req.ContactLast,
		Designation: req.Designation,
		Email:       req.ContactEmail,
		Phone:       req.ContactPhone,
	}

	c, err := onboarding.NewOnboardingCase(req.LeadID, req.InstituteName, contact, contractValue)
	if err != nil {
		return nil, err
	}

	if req.ActingUser != nil {
		c.SetCreatedBy(*req.ActingUser)
	}

	switch {
	case req.AssignedTo != nil:
		c.Assign(*req.AssignedTo)
	case req.ActingUser != nil:
		c.Assign(*req.ActingUser)
	}

	if req.ExpectedCompletionDate != nil {
		if err := c.SetDetails("", nil, nil, req.ExpectedCompletionDate); err != nil {
			return nil, err
		}
	}

	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, c)

	response := ToCaseResponse(c)
	return &response, nil
}

// GetByID retrieves an onboarding case
func (s *CaseService) GetByID(ctx context.Context, id uuid.UUID) (*CaseResponse, error) {
	c, err := s.caseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCaseResponse(c)
	return &response, nil
}

// List retrieves onboarding cases with filtering, sorting and pagination.
// Search matches institute name and contact-person fields.
func (s *CaseService) List(ctx context.Context, filter CaseListFilter) ([]CaseResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Stage != "" {
		domainFilter.Filters["stage"] = filter.Stage
	}
	if filter.AssignedTo != nil {
		domainFilter.Filters["assigned_to"] = *filter.AssignedTo
	}
	if filter.From != nil {
		domainFilter.Filters["created_from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["created_to"] = *filter.To
	}

	cases, err := s.caseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.caseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCaseResponses(cases), total, nil
}

// Update applies a generic partial update, diffing every supplied field
// against the stored value. The diff rides on the update event so the
// activity trail can show exactly what changed.
func (s *CaseService) Update(ctx context.Context, id uuid.UUID, req UpdateCaseRequest) (*CaseResponse, error) {
	c, err := s.caseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := make([]shared.FieldChange, 0)
	record := func(field string, oldValue, newValue any) {
		if !reflect.DeepEqual(oldValue, newValue) {
			changes = append(changes, shared.FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
		}
	}

	if req.InstituteName != nil {
		record("institute_name", c.InstituteName, *req.InstituteName)
	}
	if req.ContractValue != nil {
		record("contract_value", c.ContractValue.String(), req.ContractValue.String())
	}
	if req.ExpectedCompletionDate != nil {
		old := any(nil)
		if c.ExpectedCompletionDate != nil {
			old = *c.ExpectedCompletionDate
		}
		record("expected_completion_date", old, *req.ExpectedCompletionDate)
	}
	if req.PostGoLiveSupport != nil {
		record("post_go_live_support", c.PostGoLiveSupport, *req.PostGoLiveSupport)
	}
	if req.AssignedTo != nil {
		old := any(nil)
		if c.AssignedTo != nil {
			old = *c.AssignedTo
		}
		record("assigned_to", old, *req.AssignedTo)
	}
	if req.Stage != nil {
		record("stage", string(c.Stage), *req.Stage)
	}

	contact := c.Contact
	contactTouched := false
	applyContact := func(field string, dst *string, src *string) {
		if src != nil {
			record(field, *dst, *src)
			*dst = *src
			contactTouched = true
		}
	}
	applyContact("contact_first_name", &contact.FirstName, req.ContactFirst)
	applyContact("contact_last_name", &contact.LastName, req.ContactLast)
	applyContact("designation", &contact.Designation, req.Designation)
	applyContact("contact_email", &contact.Email, req.ContactEmail)
	applyContact("contact_phone", &contact.Phone, req.ContactPhone)

	name := ""
	if req.InstituteName != nil {
		name = *req.InstituteName
	}
	var contactPtr *onboarding.ContactPerson
	if contactTouched {
		contactPtr = &contact
	}
	if err := c.SetDetails(name, contactPtr, req.ContractValue, req.ExpectedCompletionDate); err != nil {
		return nil, err
	}

	if req.AssignedTo != nil {
		c.Assign(*req.AssignedTo)
	}
	if req.PostGoLiveSupport != nil {
		c.PostGoLiveSupport = *req.PostGoLiveSupport
	}

	if req.Stage != nil {
		if err := c.SetStage(onboarding.CaseStage(*req.Stage)); err != nil {
			return nil, err
		}
	}

	if req.ActingUser != nil {
		c.SetLastUpdatedBy(*req.ActingUser)
	}

	if len(changes) > 0 {
		c.AddDomainEvent(onboarding.NewCaseUpdatedEvent(c, changes))
	}

	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, c)

	response := ToCaseResponse(c)
	return &response, nil
}

// UpdateDocument moves one named document through verification
func (s *CaseService) UpdateDocument(ctx context.Context, id uuid.UUID, key string, req UpdateDocumentRequest) (*CaseResponse, error) {
	return s.mutate(ctx, id, req.ActingUser, func(c *onboarding.OnboardingCase) error {
		return c.UpdateDocumentStatus(key, onboarding.TaskStatus(req.Status), req.DocumentURL, req.RejectionReason)
	})
}

// UpdateTechnical moves one named setup task
func (s *CaseService) UpdateTechnical(ctx context.Context, id uuid.UUID, key string, req UpdateTechnicalRequest) (*CaseResponse, error) {
	return s.mutate(ctx, id, req.ActingUser, func(c *onboarding.OnboardingCase) error {
		return c.UpdateTechnicalStatus(key, onboarding.TaskStatus(req.Status), req.Details)
	})
}

// ScheduleTraining books one named training session
func (s *CaseService) ScheduleTraining(ctx context.Context, id uuid.UUID, key string, req ScheduleTrainingRequest) (*CaseResponse, error) {
	return s.mutate(ctx, id, req.ActingUser, func(c *onboarding.OnboardingCase) error {
		return c.ScheduleTraining(key, req.ScheduledDate, req.Trainer, req.Attendees)
	})
}

// CompleteTraining closes one named training session
func (s *CaseService) CompleteTraining(ctx context.Context, id uuid.UUID, key string, req CompleteTrainingRequest) (*CaseResponse, error) {
	return s.mutate(ctx, id, req.ActingUser, func(c *onboarding.OnboardingCase) error {
		return c.CompleteTraining(key, req.Attendees, req.Feedback)
	})
}

// UpdateTesting moves one named test task
func (s *CaseService) UpdateTesting(ctx context.Context, id uuid.UUID, key string, req UpdateTestingRequest) (*CaseResponse, error) {
	return s.mutate(ctx, id, req.ActingUser, func(c *onboarding.OnboardingCase) error {
		return c.UpdateTestingStatus(key, onboarding.TaskStatus(req.Status), req.Notes)
	})
}

// UpdateGoLive writes the cut-over block
func (s *CaseService) UpdateGoLive(ctx context.Context, id uuid.UUID, req UpdateGoLiveRequest) (*CaseResponse, error) {
	return s.mutate(ctx, id, req.ActingUser, func(c *onboarding.OnboardingCase) error {
		return c.UpdateGoLive(onboarding.TaskStatus(req.Status), req.ScheduledDate, req.SystemReady, req.TrainingDone, req.DocumentsVerified)
	})
}

// AddMilestone appends a milestone; the actor becomes the default assignee
func (s *CaseService) AddMilestone(ctx context.Context, id uuid.UUID, req AddMilestoneRequest) (*CaseResponse, error) {
	assignee := req.AssignedTo
	if assignee == nil {
		assignee = req.ActingUser
	}
	return s.mutate(ctx, id, req.ActingUser, func(c *onboarding.OnboardingCase) error {
		_, err := c.AddMilestone(req.Name, req.Description, req.DueDate, assignee)
		return err
	})
}

// PutOnHold pauses an onboarding
func (s *CaseService) PutOnHold(ctx context.Context, id uuid.UUID, req HoldRequest) (*CaseResponse, error) {
	return s.mutate(ctx, id, req.ActingUser, func(c *onboarding.OnboardingCase) error {
		return c.PutOnHold(req.Reason)
	})
}

// ReleaseHold resumes an onboarding
func (s *CaseService) ReleaseHold(ctx context.Context, id uuid.UUID, actor *uuid.UUID) (*CaseResponse, error) {
	return s.mutate(ctx, id, actor, func(c *onboarding.OnboardingCase) error {
		return c.ReleaseHold()
	})
}

// Stats aggregates the onboarding pipeline over a filterable case set
func (s *CaseService) Stats(ctx context.Context, filter CaseListFilter) (*DashboardStats, error) {
	domainFilter := shared.Filter{Filters: make(map[string]interface{})}
	if filter.Stage != "" {
		domainFilter.Filters["stage"] = filter.Stage
	}
	if filter.AssignedTo != nil {
		domainFilter.Filters["assigned_to"] = *filter.AssignedTo
	}
	if filter.From != nil {
		domainFilter.Filters["created_from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["created_to"] = *filter.To
	}

	cases, err := s.caseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		StageDistribution: make(map[string]int64),
		MinContractValue:  decimal.Zero,
		AvgContractValue:  decimal.Zero,
		MaxContractValue:  decimal.Zero,
		SumContractValue:  decimal.Zero,
	}

	if len(cases) == 0 {
		return stats, nil
	}

	stats.Total = int64(len(cases))
	stats.MinProgress = cases[0].OverallProgress
	stats.MinContractValue = cases[0].ContractValue
	stats.MaxContractValue = cases[0].ContractValue

	progressSum := 0
	for i := range cases {
		c := &cases[i]
		stats.StageDistribution[string(c.Stage)]++

		switch c.Stage {
		case onboarding.CaseStageCompleted:
			stats.Completed++
		case onboarding.CaseStageOnHold:
			stats.OnHold++
		default:
			stats.Active++
		}
		if c.IsOverdue() {
			stats.Overdue++
		}

		progressSum += c.OverallProgress
		if c.OverallProgress < stats.MinProgress {
			stats.MinProgress = c.OverallProgress
		}
		if c.OverallProgress > stats.MaxProgress {
			stats.MaxProgress = c.OverallProgress
		}

		stats.SumContractValue = stats.SumContractValue.Add(c.ContractValue)
		if c.ContractValue.LessThan(stats.MinContractValue) {
			stats.MinContractValue = c.ContractValue
		}
		if c.ContractValue.GreaterThan(stats.MaxContractValue) {
			stats.MaxContractValue = c.ContractValue
		}
	}

	stats.AvgProgress = math.Round(float64(progressSum)/float64(stats.Total)*100) / 100
	stats.AvgContractValue = stats.SumContractValue.Div(decimal.NewFromInt(stats.Total)).Round(2)
	stats.CompletionRate = math.Round(float64(stats.Completed)/float64(stats.Total)*100*100) / 100

	return stats, nil
}

// mutate loads a case, applies one domain operation and persists the result
func (s *CaseService) mutate(ctx context.Context, id uuid.UUID, actor *uuid.UUID, op func(*onboarding.OnboardingCase) error) (*CaseResponse, error) {
	c, err := s.caseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := op(c); err != nil {
		return nil, err
	}

	if actor != nil {
		c.SetLastUpdatedBy(*actor)
	}

	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, c)

	response := ToCaseResponse(c)
	return &response, nil
}

func (s *CaseService) publishEvents(ctx context.Context, c *onboarding.OnboardingCase) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range c.GetDomainEvents() {
		// Event handling is fire-and-forget; a failed publish never fails the write.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	c.ClearDomainEvents()
}
