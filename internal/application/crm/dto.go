package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/crm"
	"github.com/shopspring/decimal"
)

// CreateLeadRequest represents a request to create a sales lead
type CreateLeadRequest struct {
	LeadName          string           `json:"lead_name" binding:"required,min=1,max=200"`
	InstituteName     string           `json:"institute_name" binding:"required,min=1,max=200"`
	ContactFirst      string           `json:"contact_first_name" binding:"omitempty,max=100"`
	ContactLast       string           `json:"contact_last_name" binding:"omitempty,max=100"`
	Designation       string           `json:"designation" binding:"omitempty,max=100"`
	ContactEmail      string           `json:"contact_email" binding:"omitempty,email"`
	ContactPhone      string           `json:"contact_phone" binding:"required,min=5,max=20"`
	Address           string           `json:"address" binding:"omitempty,max=500"`
	InstituteType     string           `json:"institute_type"`
	Stage             string           `json:"stage"`
	Priority          string           `json:"priority"`
	Source            string           `json:"source"`
	AssignedTo        *uuid.UUID       `json:"assigned_to"`
	EstimatedValue    *decimal.Decimal `json:"estimated_value"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	Tags              []string         `json:"tags"`
	Notes             string           `json:"notes" binding:"omitempty,max=2000"`
	CreatedBy         *uuid.UUID       `json:"-"`
}

// UpdateLeadRequest represents a partial lead update
type UpdateLeadRequest struct {
	LeadName          *string          `json:"lead_name" binding:"omitempty,min=1,max=200"`
	InstituteName     *string          `json:"institute_name" binding:"omitempty,min=1,max=200"`
	ContactFirst      *string          `json:"contact_first_name"`
	ContactLast       *string          `json:"contact_last_name"`
	Designation       *string          `json:"designation"`
	ContactEmail      *string          `json:"contact_email" binding:"omitempty,email"`
	ContactPhone      *string          `json:"contact_phone" binding:"omitempty,min=5,max=20"`
	Address           *string          `json:"address"`
	InstituteType     *string          `json:"institute_type"`
	Priority          *string          `json:"priority"`
	Source            *string          `json:"source"`
	AssignedTo        *uuid.UUID       `json:"assigned_to"`
	EstimatedValue    *decimal.Decimal `json:"estimated_value"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	Tags              []string         `json:"tags"`
	Notes             *string          `json:"notes"`
}

// UpdateLeadStageRequest moves a lead through the pipeline
type UpdateLeadStageRequest struct {
	Stage      string `json:"stage" binding:"required"`
	LostReason string `json:"lost_reason" binding:"omitempty,max=500"`
}

// LeadListFilter represents list filters for leads
type LeadListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Stage    string     `form:"stage"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Search   string     `form:"search"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID                uuid.UUID         `json:"id"`
	LeadName          string            `json:"lead_name"`
	InstituteName     string            `json:"institute_name"`
	Contact           crm.ContactPerson `json:"contact"`
	ContactEmail      string            `json:"contact_email"`
	ContactPhone      string            `json:"contact_phone"`
	Address           string            `json:"address"`
	InstituteType     crm.InstituteType `json:"institute_type"`
	Stage             crm.LeadStage     `json:"stage"`
	Priority          crm.LeadPriority  `json:"priority"`
	AssignedTo        *uuid.UUID        `json:"assigned_to"`
	Source            crm.LeadSource    `json:"source"`
	EstimatedValue    decimal.Decimal   `json:"estimated_value"`
	ExpectedCloseDate *time.Time        `json:"expected_close_date"`
	LastActivityDate  time.Time         `json:"last_activity_date"`
	Tags              crm.Tags          `json:"tags"`
	Notes             string            `json:"notes"`
	LostReason        string            `json:"lost_reason,omitempty"`
	ConvertedDate     *time.Time        `json:"converted_date,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ToLeadResponse maps a domain lead to its response DTO
func ToLeadResponse(l *crm.Lead) LeadResponse {
	return LeadResponse{
		ID:                l.ID,
		LeadName:          l.LeadName,
		InstituteName:     l.InstituteName,
		Contact:           l.Contact,
		ContactEmail:      l.ContactEmail,
		ContactPhone:      l.ContactPhone,
		Address:           l.Address,
		InstituteType:     l.InstituteType,
		Stage:             l.Stage,
		Priority:          l.Priority,
		AssignedTo:        l.AssignedTo,
		Source:            l.Source,
		EstimatedValue:    l.EstimatedValue,
		ExpectedCloseDate: l.ExpectedCloseDate,
		LastActivityDate:  l.LastActivityDate,
		Tags:              l.Tags,
		Notes:             l.Notes,
		LostReason:        l.LostReason,
		ConvertedDate:     l.ConvertedDate,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// ToLeadResponses maps a slice of leads
func ToLeadResponses(list []crm.Lead) []LeadResponse {
	out := make([]LeadResponse, len(list))
	for i := range list {
		out[i] = ToLeadResponse(&list[i])
	}
	return out
}
