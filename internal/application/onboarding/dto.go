package onboarding

import (
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/onboarding"
	"github.com/shopspring/decimal"
)

// CreateCaseRequest represents a request to start an onboarding
type CreateCaseRequest struct {
	LeadID                 uuid.UUID        `json:"lead_id" binding:"required"`
	InstituteName          string           `json:"institute_name" binding:"required,min=1,max=200"`
	ContactFirst           string           `json:"contact_first_name" binding:"omitempty,max=100"`
	ContactLast            string           `json:"contact_last_name" binding:"omitempty,max=100"`
	Designation            string           `json:"designation" binding:"omitempty,max=100"`
	ContactEmail           string           `json:"contact_email" binding:"omitempty,email"`
	ContactPhone           string           `json:"contact_phone" binding:"omitempty,max=20"`
	ContractValue          *decimal.Decimal `json:"contract_value"`
	ExpectedCompletionDate *time.Time       `json:"expected_completion_date"`
	AssignedTo             *uuid.UUID       `json:"assigned_to"`
	ActingUser             *uuid.UUID       `json:"-"`
}

// UpdateCaseRequest represents a generic partial update. Progress, the
// Completed stage and the actual completion date are derived and absent here.
type UpdateCaseRequest struct {
	InstituteName          *string          `json:"institute_name" binding:"omitempty,min=1,max=200"`
	ContactFirst           *string          `json:"contact_first_name"`
	ContactLast            *string          `json:"contact_last_name"`
	Designation            *string          `json:"designation"`
	ContactEmail           *string          `json:"contact_email" binding:"omitempty,email"`
	ContactPhone           *string          `json:"contact_phone"`
	Stage                  *string          `json:"stage"`
	ContractValue          *decimal.Decimal `json:"contract_value"`
	ExpectedCompletionDate *time.Time       `json:"expected_completion_date"`
	AssignedTo             *uuid.UUID       `json:"assigned_to"`
	PostGoLiveSupport      *string          `json:"post_go_live_support"`
	ActingUser             *uuid.UUID       `json:"-"`
}

// UpdateDocumentRequest moves one named document through verification
type UpdateDocumentRequest struct {
	Status          string     `json:"status" binding:"required"`
	DocumentURL     string     `json:"document_url" binding:"omitempty,max=500"`
	RejectionReason string     `json:"rejection_reason" binding:"omitempty,max=500"`
	ActingUser      *uuid.UUID `json:"-"`
}

// UpdateTechnicalRequest moves one named setup task
type UpdateTechnicalRequest struct {
	Status     string            `json:"status" binding:"required"`
	Details    map[string]string `json:"details"`
	ActingUser *uuid.UUID        `json:"-"`
}

// ScheduleTrainingRequest books one named training session
type ScheduleTrainingRequest struct {
	ScheduledDate time.Time  `json:"scheduled_date" binding:"required"`
	Trainer       string     `json:"trainer" binding:"omitempty,max=200"`
	Attendees     []string   `json:"attendees"`
	ActingUser    *uuid.UUID `json:"-"`
}

// CompleteTrainingRequest closes one named training session
type CompleteTrainingRequest struct {
	Attendees  []string   `json:"attendees"`
	Feedback   string     `json:"feedback" binding:"omitempty,max=2000"`
	ActingUser *uuid.UUID `json:"-"`
}

// UpdateTestingRequest moves one named test task
type UpdateTestingRequest struct {
	Status     string     `json:"status" binding:"required"`
	Notes      string     `json:"notes" binding:"omitempty,max=1000"`
	ActingUser *uuid.UUID `json:"-"`
}

// UpdateGoLiveRequest writes the cut-over block
type UpdateGoLiveRequest struct {
	Status            string     `json:"status" binding:"required"`
	ScheduledDate     *time.Time `json:"scheduled_date"`
	SystemReady       bool       `json:"system_ready"`
	TrainingDone      bool       `json:"training_done"`
	DocumentsVerified bool       `json:"documents_verified"`
	ActingUser        *uuid.UUID `json:"-"`
}

// AddMilestoneRequest appends a milestone
type AddMilestoneRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"omitempty,max=1000"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	ActingUser  *uuid.UUID `json:"-"`
}

// HoldRequest pauses an onboarding
type HoldRequest struct {
	Reason     string     `json:"reason" binding:"required,min=1,max=500"`
	ActingUser *uuid.UUID `json:"-"`
}

// CaseListFilter represents list filters for onboarding cases
type CaseListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Stage      string     `form:"stage"`
	AssignedTo *uuid.UUID `form:"assigned_to"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// CaseResponse represents an onboarding case in API responses
type CaseResponse struct {
	ID                     uuid.UUID                 `json:"id"`
	LeadID                 uuid.UUID                 `json:"lead_id"`
	InstituteID            *uuid.UUID                `json:"institute_id,omitempty"`
	CreatedBy              *uuid.UUID                `json:"created_by,omitempty"`
	LastUpdatedBy          *uuid.UUID                `json:"last_updated_by,omitempty"`
	InstituteName          string                    `json:"institute_name"`
	Contact                onboarding.ContactPerson  `json:"contact"`
	Stage                  onboarding.CaseStage      `json:"stage"`
	OverallProgress        int                       `json:"overall_progress"`
	StartDate              time.Time                 `json:"start_date"`
	ExpectedCompletionDate *time.Time                `json:"expected_completion_date,omitempty"`
	ActualCompletionDate   *time.Time                `json:"actual_completion_date,omitempty"`
	AssignedTo             *uuid.UUID                `json:"assigned_to,omitempty"`
	ContractValue          decimal.Decimal           `json:"contract_value"`
	Documents              onboarding.PhaseTasks     `json:"documents"`
	TechnicalSetup         onboarding.PhaseTasks     `json:"technical_setup"`
	Training               onboarding.PhaseTasks     `json:"training"`
	Testing                onboarding.PhaseTasks     `json:"testing"`
	GoLive                 onboarding.GoLiveBlock    `json:"go_live"`
	IsOnHold               bool                      `json:"is_on_hold"`
	OnHoldReason           string                    `json:"on_hold_reason,omitempty"`
	OnHoldDate             *time.Time                `json:"on_hold_date,omitempty"`
	PostGoLiveSupport      string                    `json:"post_go_live_support,omitempty"`
	Milestones             onboarding.Milestones     `json:"milestones"`
	Risks                  onboarding.Risks          `json:"risks"`
	Communications         onboarding.Communications `json:"communications"`
	CreatedAt              time.Time                 `json:"created_at"`
	UpdatedAt              time.Time                 `json:"updated_at"`
}

// ToCaseResponse maps a domain case to its response DTO
func ToCaseResponse(c *onboarding.OnboardingCase) CaseResponse {
	return CaseResponse{
		ID:                     c.ID,
		LeadID:                 c.LeadID,
		InstituteID:            c.InstituteID,
		CreatedBy:              c.CreatedBy,
		LastUpdatedBy:          c.LastUpdatedBy,
		InstituteName:          c.InstituteName,
		Contact:                c.Contact,
		Stage:                  c.Stage,
		OverallProgress:        c.OverallProgress,
		StartDate:              c.StartDate,
		ExpectedCompletionDate: c.ExpectedCompletionDate,
		ActualCompletionDate:   c.ActualCompletionDate,
		AssignedTo:             c.AssignedTo,
		ContractValue:          c.ContractValue,
		Documents:              c.Documents,
		TechnicalSetup:         c.TechnicalSetup,
		Training:               c.Training,
		Testing:                c.Testing,
		GoLive:                 c.GoLive,
		IsOnHold:               c.IsOnHold,
		OnHoldReason:           c.OnHoldReason,
		OnHoldDate:             c.OnHoldDate,
		PostGoLiveSupport:      c.PostGoLiveSupport,
		Milestones:             c.Milestones,
		Risks:                  c.Risks,
		Communications:         c.Communications,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}

// ToCaseResponses maps a slice of cases
func ToCaseResponses(list []onboarding.OnboardingCase) []CaseResponse {
	out := make([]CaseResponse, len(list))
	for i := range list {
		out[i] = ToCaseResponse(&list[i])
	}
	return out
}

// DashboardStats aggregates the onboarding pipeline for the dashboard
type DashboardStats struct {
	Total             int64            `json:"total"`
	Active            int64            `json:"active"`
	Completed         int64            `json:"completed"`
	OnHold            int64            `json:"on_hold"`
	Overdue           int64            `json:"overdue"`
	StageDistribution map[string]int64 `json:"stage_distribution"`
	MinProgress       int              `json:"min_progress"`
	AvgProgress       float64          `json:"avg_progress"`
	MaxProgress       int              `json:"max_progress"`
	MinContractValue  decimal.Decimal  `json:"min_contract_value"`
	AvgContractValue  decimal.Decimal  `json:"avg_contract_value"`
	MaxContractValue  decimal.Decimal  `json:"max_contract_value"`
	SumContractValue  decimal.Decimal  `json:"sum_contract_value"`
	CompletionRate    float64          `json:"completion_rate"`
}
