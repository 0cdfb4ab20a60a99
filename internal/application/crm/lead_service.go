package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/crm"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// LeadService handles sales lead business operations
type LeadService struct {
	leadRepo       crm.LeadRepository
	eventPublisher shared.EventPublisher
}

// NewLeadService creates a new LeadService
func NewLeadService(leadRepo crm.LeadRepository, eventPublisher shared.EventPublisher) *LeadService {
	return &LeadService{
		leadRepo:       leadRepo,
		eventPublisher: eventPublisher,
	}
}

// Create creates a lead after checking phone uniqueness
func (s *LeadService) Create(ctx context.Context, req CreateLeadRequest) (*LeadResponse, error) {
	exists, err := s.leadRepo.ExistsByPhone(ctx, req.ContactPhone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A lead with this contact phone already exists")
	}

	lead, err := crm.NewLead(req.LeadName, req.InstituteName, req.ContactPhone, crm.LeadStage(req.Stage))
	if err != nil {
		return nil, err
	}

	contact := crm.ContactPerson{
		FirstName:   req.ContactFirst,
		LastName:    req.ContactLast,
		Designation: req.Designation,
	}
	if err := lead.SetContact(contact, req.ContactEmail, req.ContactPhone); err != nil {
		return nil, err
	}

	if err := lead.SetDetails(req.Address, crm.InstituteType(req.InstituteType), crm.LeadSource(req.Source), req.Notes); err != nil {
		return nil, err
	}

	if req.Priority != "" {
		if err := lead.SetPriority(crm.LeadPriority(req.Priority)); err != nil {
			return nil, err
		}
	}

	if req.AssignedTo != nil {
		lead.Assign(*req.AssignedTo)
	}

	if req.EstimatedValue != nil || req.ExpectedCloseDate != nil {
		value := lead.EstimatedValue
		if req.EstimatedValue != nil {
			value = *req.EstimatedValue
		}
		if err := lead.SetEstimate(value, req.ExpectedCloseDate); err != nil {
			return nil, err
		}
	}

	if req.Tags != nil {
		lead.SetTags(crm.Tags(req.Tags))
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// GetByID retrieves a lead
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToLeadResponse(lead)
	return &response, nil
}

// List retrieves leads with filtering and pagination. Search matches lead
// name, institute name and contact phone.
func (s *LeadService) List(ctx context.Context, filter LeadListFilter) ([]LeadResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Stage != "" {
		domainFilter.Filters["stage"] = filter.Stage
	}
	if filter.From != nil {
		domainFilter.Filters["created_from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["created_to"] = *filter.To
	}

	leads, err := s.leadRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.leadRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLeadResponses(leads), total, nil
}

// Update applies a partial update. A phone change re-checks uniqueness
// against every other lead.
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ContactPhone != nil && *req.ContactPhone != lead.ContactPhone {
		exists, err := s.leadRepo.ExistsByPhoneExcluding(ctx, *req.ContactPhone, lead.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A lead with this contact phone already exists")
		}
	}

	if req.LeadName != nil || req.InstituteName != nil {
		name := lead.LeadName
		if req.LeadName != nil {
			name = *req.LeadName
		}
		instituteName := lead.InstituteName
		if req.InstituteName != nil {
			instituteName = *req.InstituteName
		}
		if err := lead.SetNames(name, instituteName); err != nil {
			return nil, err
		}
	}

	if req.ContactFirst != nil || req.ContactLast != nil || req.Designation != nil || req.ContactEmail != nil || req.ContactPhone != nil {
		contact := lead.Contact
		if req.ContactFirst != nil {
			contact.FirstName = *req.ContactFirst
		}
		if req.ContactLast != nil {
			contact.LastName = *req.ContactLast
		}
		if req.Designation != nil {
			contact.Designation = *req.Designation
		}
		email := lead.ContactEmail
		if req.ContactEmail != nil {
			email = *req.ContactEmail
		}
		phone := lead.ContactPhone
		if req.ContactPhone != nil {
			phone = *req.ContactPhone
		}
		if err := lead.SetContact(contact, email, phone); err != nil {
			return nil, err
		}
	}

	if req.Address != nil || req.InstituteType != nil || req.Source != nil || req.Notes != nil {
		address := lead.Address
		if req.Address != nil {
			address = *req.Address
		}
		instituteType := crm.InstituteType("")
		if req.InstituteType != nil {
			instituteType = crm.InstituteType(*req.InstituteType)
		}
		source := crm.LeadSource("")
		if req.Source != nil {
			source = crm.LeadSource(*req.Source)
		}
		notes := lead.Notes
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := lead.SetDetails(address, instituteType, source, notes); err != nil {
			return nil, err
		}
	}

	if req.Priority != nil {
		if err := lead.SetPriority(crm.LeadPriority(*req.Priority)); err != nil {
			return nil, err
		}
	}

	if req.AssignedTo != nil {
		lead.Assign(*req.AssignedTo)
	}

	if req.EstimatedValue != nil || req.ExpectedCloseDate != nil {
		value := lead.EstimatedValue
		if req.EstimatedValue != nil {
			value = *req.EstimatedValue
		}
		closeDate := lead.ExpectedCloseDate
		if req.ExpectedCloseDate != nil {
			closeDate = req.ExpectedCloseDate
		}
		if err := lead.SetEstimate(value, closeDate); err != nil {
			return nil, err
		}
	}

	if req.Tags != nil {
		lead.SetTags(crm.Tags(req.Tags))
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// UpdateStage validates the new stage against the canonical pipeline enum
// and applies the stage-specific side effects
func (s *LeadService) UpdateStage(ctx context.Context, id uuid.UUID, req UpdateLeadStageRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := lead.ChangeStage(crm.LeadStage(req.Stage), req.LostReason); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// Delete removes a lead
func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.leadRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.leadRepo.Delete(ctx, id)
}

func (s *LeadService) publishEvents(ctx context.Context, lead *crm.Lead) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range lead.GetDomainEvents() {
		// Event handling is fire-and-forget; a failed publish never fails the write.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	lead.ClearDomainEvents()
}
