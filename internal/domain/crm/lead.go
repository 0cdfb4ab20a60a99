package crm

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeadStage represents where a lead sits in the sales pipeline.
// One canonical enum is used everywhere, including the stage-update endpoint.
type LeadStage string

const (
	LeadStageNew           LeadStage = "New"
	LeadStageContacted     LeadStage = "Contacted"
	LeadStageDemoScheduled LeadStage = "Demo Scheduled"
	LeadStageDemoCompleted LeadStage = "Demo Completed"
	LeadStageProposalSent  LeadStage = "Proposal Sent"
	LeadStageNegotiation   LeadStage = "Negotiation"
	LeadStageKYCSubmitted  LeadStage = "KYC Submitted"
	LeadStageConverted     LeadStage = "Converted"
	LeadStageLost          LeadStage = "Lost"
)

// IsValid checks if the stage is a valid LeadStage
func (s LeadStage) IsValid() bool {
	switch s {
	case LeadStageNew, LeadStageContacted, LeadStageDemoScheduled, LeadStageDemoCompleted,
		LeadStageProposalSent, LeadStageNegotiation, LeadStageKYCSubmitted,
		LeadStageConverted, LeadStageLost:
		return true
	}
	return false
}

// String returns the string representation of LeadStage
func (s LeadStage) String() string {
	return string(s)
}

// IsTerminal returns true for stages that end the pipeline
func (s LeadStage) IsTerminal() bool {
	return s == LeadStageConverted || s == LeadStageLost
}

// LeadPriority represents sales priority
type LeadPriority string

const (
	LeadPriorityLow    LeadPriority = "Low"
	LeadPriorityMedium LeadPriority = "Medium"
	LeadPriorityHigh   LeadPriority = "High"
)

// IsValid checks if the priority is valid
func (p LeadPriority) IsValid() bool {
	return p == LeadPriorityLow || p == LeadPriorityMedium || p == LeadPriorityHigh
}

// InstituteType categorizes the prospective institute
type InstituteType string

const (
	InstituteTypeSchool     InstituteType = "School"
	InstituteTypeCollege    InstituteType = "College"
	InstituteTypeCoaching   InstituteType = "Coaching"
	InstituteTypeUniversity InstituteType = "University"
	InstituteTypeOther      InstituteType = "Other"
)

// IsValid checks if the institute type is valid
func (t InstituteType) IsValid() bool {
	switch t {
	case InstituteTypeSchool, InstituteTypeCollege, InstituteTypeCoaching, InstituteTypeUniversity, InstituteTypeOther:
		return true
	}
	return false
}

// LeadSource records how the lead entered the pipeline
type LeadSource string

const (
	LeadSourceWebsite   LeadSource = "Website"
	LeadSourceReferral  LeadSource = "Referral"
	LeadSourceColdCall  LeadSource = "Cold Call"
	LeadSourceEvent     LeadSource = "Event"
	LeadSourceSocial    LeadSource = "Social Media"
	LeadSourceInbound   LeadSource = "Inbound"
	LeadSourceOtherSrc  LeadSource = "Other"
)

// IsValid checks if the lead source is valid
func (s LeadSource) IsValid() bool {
	switch s {
	case LeadSourceWebsite, LeadSourceReferral, LeadSourceColdCall, LeadSourceEvent,
		LeadSourceSocial, LeadSourceInbound, LeadSourceOtherSrc:
		return true
	}
	return false
}

// ContactPerson is the primary contact at the prospective institute,
// stored as JSONB
type ContactPerson struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Designation string `json:"designation,omitempty"`
}

// Value implements driver.Valuer for GORM to store as JSONB
func (c ContactPerson) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (c *ContactPerson) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ContactPerson: unsupported type")
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Tags is a string list stored as JSONB
type Tags []string

// Value implements driver.Valuer for GORM to store as JSONB
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = Tags{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Tags: unsupported type")
	}

	if len(bytes) == 0 {
		*t = Tags{}
		return nil
	}

	return json.Unmarshal(bytes, t)
}

// Lead represents a prospective institute in the sales pipeline.
// Leads belong to the platform operator, not to an institute, so the
// aggregate is not institute-scoped.
type Lead struct {
	shared.BaseAggregateRoot
	LeadName          string          `json:"lead_name" gorm:"type:varchar(200);not null"`
	InstituteName     string          `json:"institute_name" gorm:"type:varchar(200);not null;index"`
	Contact           ContactPerson   `json:"contact" gorm:"type:jsonb"`
	ContactEmail      string          `json:"contact_email" gorm:"type:varchar(200)"`
	ContactPhone      string          `json:"contact_phone" gorm:"type:varchar(20);not null;uniqueIndex"`
	Address           string          `json:"address" gorm:"type:text"`
	InstituteType     InstituteType   `json:"institute_type" gorm:"type:varchar(20)"`
	Stage             LeadStage       `json:"stage" gorm:"type:varchar(20);not null;default:'New';index"`
	Priority          LeadPriority    `json:"priority" gorm:"type:varchar(10);not null;default:'Medium'"`
	AssignedTo        *uuid.UUID      `json:"assigned_to" gorm:"type:uuid;index"`
	Source            LeadSource      `json:"source" gorm:"type:varchar(20)"`
	EstimatedValue    decimal.Decimal `json:"estimated_value" gorm:"type:decimal(18,2);not null;default:0"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date"`
	LastActivityDate  time.Time       `json:"last_activity_date" gorm:"not null"`
	Tags              Tags            `json:"tags" gorm:"type:jsonb"`
	Notes             string          `json:"notes" gorm:"type:text"`
	LostReason        string          `json:"lost_reason,omitempty" gorm:"type:varchar(500)"`
	ConvertedDate     *time.Time      `json:"converted_date,omitempty"`
}

// TableName returns the table name for GORM
func (Lead) TableName() string {
	return "leads"
}

// NewLead creates a new sales lead
func NewLead(leadName, instituteName, contactPhone string, stage LeadStage) (*Lead, error) {
	if leadName == "" {
		return nil, shared.NewDomainError("INVALID_LEAD", "Lead name cannot be empty")
	}
	if instituteName == "" {
		return nil, shared.NewDomainError("INVALID_LEAD", "Institute name cannot be empty")
	}
	if contactPhone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Contact phone cannot be empty")
	}
	if stage == "" {
		stage = LeadStageNew
	}
	if !stage.IsValid() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Lead stage is not valid")
	}

	lead := &Lead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LeadName:          leadName,
		InstituteName:     instituteName,
		ContactPhone:      contactPhone,
		Stage:             stage,
		Priority:          LeadPriorityMedium,
		Source:            LeadSourceOtherSrc,
		EstimatedValue:    decimal.Zero,
		LastActivityDate:  time.Now(),
		Tags:              Tags{},
	}

	lead.AddDomainEvent(NewLeadCreatedEvent(lead))

	return lead, nil
}

// touch refreshes LastActivityDate; every mutation path calls it
func (l *Lead) touch() {
	now := time.Now()
	l.LastActivityDate = now
	l.UpdatedAt = now
}

// ChangeStage moves the lead to a new pipeline stage. Converted stamps the
// conversion date; Lost records the supplied reason.
func (l *Lead) ChangeStage(stage LeadStage, lostReason string) error {
	if !stage.IsValid() {
		return shared.NewDomainError("INVALID_STAGE", "Lead stage is not valid")
	}

	if stage == LeadStageLost && lostReason == "" {
		return shared.NewDomainError("INVALID_STAGE", "A lost lead requires a reason")
	}

	previous := l.Stage
	l.Stage = stage

	switch stage {
	case LeadStageConverted:
		now := time.Now()
		l.ConvertedDate = &now
	case LeadStageLost:
		l.LostReason = lostReason
	}

	l.touch()
	l.AddDomainEvent(NewLeadStageChangedEvent(l, previous))

	return nil
}

// SetNames updates the lead and institute display names
func (l *Lead) SetNames(leadName, instituteName string) error {
	if leadName == "" {
		return shared.NewDomainError("INVALID_LEAD", "Lead name cannot be empty")
	}
	if instituteName == "" {
		return shared.NewDomainError("INVALID_LEAD", "Institute name cannot be empty")
	}
	l.LeadName = leadName
	l.InstituteName = instituteName
	l.touch()
	return nil
}

// SetContact updates the contact person block
func (l *Lead) SetContact(contact ContactPerson, email, phone string) error {
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Contact phone cannot be empty")
	}
	l.Contact = contact
	l.ContactEmail = email
	l.ContactPhone = phone
	l.touch()
	return nil
}

// SetDetails updates the descriptive fields that have no invariants of their own
func (l *Lead) SetDetails(address string, instituteType InstituteType, source LeadSource, notes string) error {
	if instituteType != "" && !instituteType.IsValid() {
		return shared.NewDomainError("INVALID_INSTITUTE_TYPE", "Institute type is not valid")
	}
	if source != "" && !source.IsValid() {
		return shared.NewDomainError("INVALID_SOURCE", "Lead source is not valid")
	}

	l.Address = address
	if instituteType != "" {
		l.InstituteType = instituteType
	}
	if source != "" {
		l.Source = source
	}
	l.Notes = notes
	l.touch()
	return nil
}

// SetPriority updates the sales priority
func (l *Lead) SetPriority(priority LeadPriority) error {
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Lead priority is not valid")
	}
	l.Priority = priority
	l.touch()
	return nil
}

// Assign assigns the lead to a salesperson
func (l *Lead) Assign(userID uuid.UUID) {
	l.AssignedTo = &userID
	l.touch()
}

// SetEstimate records the expected deal value and close date
func (l *Lead) SetEstimate(value decimal.Decimal, closeDate *time.Time) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Estimated value cannot be negative")
	}
	l.EstimatedValue = value
	l.ExpectedCloseDate = closeDate
	l.touch()
	return nil
}

// SetTags replaces the tag list
func (l *Lead) SetTags(tags Tags) {
	if tags == nil {
		tags = Tags{}
	}
	l.Tags = tags
	l.touch()
}

// IsConverted returns true once the lead reached the Converted stage
func (l *Lead) IsConverted() bool {
	return l.Stage == LeadStageConverted
}
