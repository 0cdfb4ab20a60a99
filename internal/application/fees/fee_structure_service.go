package fees

import (
	"context"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/fees"
	"github.com/learn2pay/backend/internal/domain/shared"
)

// FeeStructureService handles fee structure business operations
type FeeStructureService struct {
	structureRepo  fees.FeeStructureRepository
	eventPublisher shared.EventPublisher
}

// NewFeeStructureService creates a new FeeStructureService
func NewFeeStructureService(structureRepo fees.FeeStructureRepository, eventPublisher shared.EventPublisher) *FeeStructureService {
	return &FeeStructureService{
		structureRepo:  structureRepo,
		eventPublisher: eventPublisher,
	}
}

// Create creates a fee structure for a class
func (s *FeeStructureService) Create(ctx context.Context, instituteID uuid.UUID, req CreateFeeStructureRequest) (*FeeStructureResponse, error) {
	fs, err := fees.NewFeeStructure(instituteID, req.ClassName, req.TuitionFee, req.AdmissionFee, req.ExamFee, req.AcademicYear)
	if err != nil {
		return nil, err
	}

	if req.CreatedBy != nil {
		fs.SetCreatedBy(*req.CreatedBy)
	}

	for _, item := range req.FeeItems {
		itemType := fees.FeeItemType(item.Type)
		if item.Type == "" {
			itemType = fees.FeeItemTypeOneTime
		}
		if err := fs.AddFeeItem(item.Name, item.Amount, itemType); err != nil {
			return nil, err
		}
	}

	if err := s.structureRepo.Save(ctx, fs); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, fs)

	response := ToFeeStructureResponse(fs)
	return &response, nil
}

// GetByID retrieves a fee structure scoped to the institute
func (s *FeeStructureService) GetByID(ctx context.Context, instituteID, id uuid.UUID) (*FeeStructureResponse, error) {
	fs, err := s.structureRepo.FindByIDForInstitute(ctx, instituteID, id)
	if err != nil {
		return nil, err
	}

	response := ToFeeStructureResponse(fs)
	return &response, nil
}

// List retrieves an institute's fee structures with filtering and pagination
func (s *FeeStructureService) List(ctx context.Context, instituteID uuid.UUID, filter FeeStructureListFilter) ([]FeeStructureResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.ClassName != "" {
		domainFilter.Filters["class_name"] = filter.ClassName
	}
	if filter.AcademicYear != "" {
		domainFilter.Filters["academic_year"] = filter.AcademicYear
	}

	structures, err := s.structureRepo.FindAllForInstitute(ctx, instituteID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.structureRepo.CountForInstitute(ctx, instituteID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToFeeStructureResponses(structures), total, nil
}

// Update applies a partial update. Any touched fee component triggers a
// server-side recomputation of the total; the stored record supplies the
// untouched components.
func (s *FeeStructureService) Update(ctx context.Context, instituteID, id uuid.UUID, req UpdateFeeStructureRequest) (*FeeStructureResponse, error) {
	fs, err := s.structureRepo.FindByIDForInstitute(ctx, instituteID, id)
	if err != nil {
		return nil, err
	}

	if req.TuitionFee != nil || req.AdmissionFee != nil || req.ExamFee != nil {
		tuition := fs.TuitionFee
		admission := fs.AdmissionFee
		exam := fs.ExamFee
		if req.TuitionFee != nil {
			tuition = *req.TuitionFee
		}
		if req.AdmissionFee != nil {
			admission = *req.AdmissionFee
		}
		if req.ExamFee != nil {
			exam = *req.ExamFee
		}
		if err := fs.UpdateFees(tuition, admission, exam); err != nil {
			return nil, err
		}
	}

	if req.ClassName != nil {
		if err := fs.SetClassName(*req.ClassName); err != nil {
			return nil, err
		}
	}

	if req.AcademicYear != nil {
		fs.SetAcademicYear(*req.AcademicYear)
	}

	if req.FeeItems != nil {
		items := make(fees.FeeItems, len(req.FeeItems))
		for i, item := range req.FeeItems {
			itemType := fees.FeeItemType(item.Type)
			if item.Type == "" {
				itemType = fees.FeeItemTypeOneTime
			}
			items[i] = fees.FeeItem{Name: item.Name, Amount: item.Amount, Type: itemType}
		}
		if err := fs.ReplaceFeeItems(items); err != nil {
			return nil, err
		}
	}

	if err := s.structureRepo.Save(ctx, fs); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, fs)

	response := ToFeeStructureResponse(fs)
	return &response, nil
}

// Delete hard-deletes a fee structure. Ledgers created from it keep their
// snapshot totals; dangling references are tolerated.
func (s *FeeStructureService) Delete(ctx context.Context, instituteID, id uuid.UUID) error {
	fs, err := s.structureRepo.FindByIDForInstitute(ctx, instituteID, id)
	if err != nil {
		return err
	}

	if err := s.structureRepo.DeleteForInstitute(ctx, instituteID, id); err != nil {
		return err
	}

	event := fees.NewFeeStructureDeletedEvent(fs)
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, event)
	}

	return nil
}

func (s *FeeStructureService) publishEvents(ctx context.Context, fs *fees.FeeStructure) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range fs.GetDomainEvents() {
		// Event handling is fire-and-forget; a failed publish never fails the write.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	fs.ClearDomainEvents()
}
