package onboarding

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CaseStage represents the coarse onboarding phase
type CaseStage string

const (
	CaseStageDocumentation CaseStage = "Documentation"
	CaseStageSetup         CaseStage = "Setup"
	CaseStageTraining      CaseStage = "Training"
	CaseStageTesting       CaseStage = "Testing"
	CaseStageGoLive        CaseStage = "Go-Live"
	CaseStageCompleted     CaseStage = "Completed"
	CaseStageOnHold        CaseStage = "On-Hold"
)

// IsValid checks if the stage is a valid CaseStage
func (s CaseStage) IsValid() bool {
	switch s {
	case CaseStageDocumentation, CaseStageSetup, CaseStageTraining, CaseStageTesting,
		CaseStageGoLive, CaseStageCompleted, CaseStageOnHold:
		return true
	}
	return false
}

// String returns the string representation of CaseStage
func (s CaseStage) String() string {
	return string(s)
}

// ContactPerson is the institute-side contact for the onboarding
type ContactPerson struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Designation string `json:"designation,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Value implements driver.Valuer for GORM to store as JSONB
func (c ContactPerson) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (c *ContactPerson) Scan(value interface{}) error {
	return scanJSON(value, c, "ContactPerson")
}

// GoLiveBlock tracks the final cut-over task
type GoLiveBlock struct {
	Status            TaskStatus `json:"status"`
	ScheduledDate     *time.Time `json:"scheduled_date,omitempty"`
	ActualDate        *time.Time `json:"actual_date,omitempty"`
	SystemReady       bool       `json:"system_ready"`
	TrainingDone      bool       `json:"training_done"`
	DocumentsVerified bool       `json:"documents_verified"`
}

// Value implements driver.Valuer for GORM to store as JSONB
func (g GoLiveBlock) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (g *GoLiveBlock) Scan(value interface{}) error {
	return scanJSON(value, g, "GoLiveBlock")
}

// MilestoneStatus is the lifecycle of a tracked milestone
type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "Pending"
	MilestoneStatusCompleted MilestoneStatus = "Completed"
)

// Milestone is one appendable delivery checkpoint
type Milestone struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	CompletedDate *time.Time      `json:"completed_date,omitempty"`
	Status        MilestoneStatus `json:"status"`
	AssignedTo    *uuid.UUID      `json:"assigned_to,omitempty"`
}

// Milestones is stored as a JSONB list
type Milestones []Milestone

// Value implements driver.Valuer for GORM to store as JSONB
func (m Milestones) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (m *Milestones) Scan(value interface{}) error {
	return scanJSON(value, m, "Milestones")
}

// RiskSeverity grades an onboarding risk
type RiskSeverity string

const (
	RiskSeverityLow    RiskSeverity = "Low"
	RiskSeverityMedium RiskSeverity = "Medium"
	RiskSeverityHigh   RiskSeverity = "High"
)

// Risk is one appendable risk-register entry
type Risk struct {
	Description  string       `json:"description"`
	Severity     RiskSeverity `json:"severity"`
	Impact       string       `json:"impact,omitempty"`
	Mitigation   string       `json:"mitigation,omitempty"`
	Status       string       `json:"status"`
	IdentifiedAt time.Time    `json:"identified_at"`
	ResolvedAt   *time.Time   `json:"resolved_at,omitempty"`
}

// Risks is stored as a JSONB list
type Risks []Risk

// Value implements driver.Valuer for GORM to store as JSONB
func (r Risks) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (r *Risks) Scan(value interface{}) error {
	return scanJSON(value, r, "Risks")
}

// Communication is one appendable log entry of institute contact
type Communication struct {
	Type        string     `json:"type"`
	Subject     string     `json:"subject"`
	Content     string     `json:"content,omitempty"`
	Sender      string     `json:"sender,omitempty"`
	Recipients  []string   `json:"recipients,omitempty"`
	SentAt      time.Time  `json:"sent_at"`
	Response    string     `json:"response,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// Communications is stored as a JSONB list
type Communications []Communication

// Value implements driver.Valuer for GORM to store as JSONB
func (c Communications) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (c *Communications) Scan(value interface{}) error {
	return scanJSON(value, c, "Communications")
}

func scanJSON(value interface{}, dest interface{}, name string) error {
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
		return errors.New("failed to scan " + name + ": unsupported type")
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, dest)
}

// progress derivation counts one task per phase sub-record plus one for go-live
const totalTasks = 16

// OnboardingCase tracks a converted lead from signature to go-live.
// OverallProgress, the Completed stage and ActualCompletionDate are derived
// and never client-settable; recalculateProgress runs after every mutation.
type OnboardingCase struct {
	shared.BaseAggregateRoot
	LeadID                 uuid.UUID       `json:"lead_id" gorm:"type:uuid;not null;index"`
	InstituteID            *uuid.UUID      `json:"institute_id,omitempty" gorm:"type:uuid;index"`
	CreatedBy              *uuid.UUID      `json:"created_by,omitempty" gorm:"type:uuid;index"`
	LastUpdatedBy          *uuid.UUID      `json:"last_updated_by,omitempty" gorm:"type:uuid"`
	InstituteName          string          `json:"institute_name" gorm:"type:varchar(200);not null;index"`
	Contact                ContactPerson   `json:"contact" gorm:"type:jsonb"`
	Stage                  CaseStage       `json:"stage" gorm:"type:varchar(20);not null;default:'Documentation';index"`
	OverallProgress        int             `json:"overall_progress" gorm:"not null;default:0"`
	StartDate              time.Time       `json:"start_date" gorm:"not null"`
	ExpectedCompletionDate *time.Time      `json:"expected_completion_date,omitempty"`
	ActualCompletionDate   *time.Time      `json:"actual_completion_date,omitempty"`
	AssignedTo             *uuid.UUID      `json:"assigned_to,omitempty" gorm:"type:uuid;index"`
	ContractValue          decimal.Decimal `json:"contract_value" gorm:"type:decimal(18,2);not null;default:0"`
	Documents              PhaseTasks      `json:"documents" gorm:"type:jsonb"`
	TechnicalSetup         PhaseTasks      `json:"technical_setup" gorm:"type:jsonb"`
	Training               PhaseTasks      `json:"training" gorm:"type:jsonb"`
	Testing                PhaseTasks      `json:"testing" gorm:"type:jsonb"`
	GoLive                 GoLiveBlock     `json:"go_live" gorm:"type:jsonb"`
	IsOnHold               bool            `json:"is_on_hold" gorm:"not null;default:false"`
	OnHoldReason           string          `json:"on_hold_reason,omitempty" gorm:"type:varchar(500)"`
	OnHoldDate             *time.Time      `json:"on_hold_date,omitempty"`
	PostGoLiveSupport      string          `json:"post_go_live_support,omitempty" gorm:"type:text"`
	Milestones             Milestones      `json:"milestones" gorm:"type:jsonb"`
	Risks                  Risks           `json:"risks" gorm:"type:jsonb"`
	Communications         Communications  `json:"communications" gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (OnboardingCase) TableName() string {
	return "onboarding_cases"
}

// NewOnboardingCase starts an onboarding for a converted lead
func NewOnboardingCase(leadID uuid.UUID, instituteName string, contact ContactPerson, contractValue decimal.Decimal) (*OnboardingCase, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASE", "Originating lead is required")
	}
	if instituteName == "" {
		return nil, shared.NewDomainError("INVALID_CASE", "Institute name cannot be empty")
	}
	if contractValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Contract value cannot be negative")
	}

	c := &OnboardingCase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LeadID:            leadID,
		InstituteName:     instituteName,
		Contact:           contact,
		Stage:             CaseStageDocumentation,
		StartDate:         time.Now(),
		ContractValue:     contractValue,
		Documents:         newPhase(DocumentKeys),
		TechnicalSetup:    newPhase(TechnicalKeys),
		Training:          newPhase(TrainingKeys),
		Testing:           newPhase(TestingKeys),
		GoLive:            GoLiveBlock{Status: TaskStatusPending},
		Milestones:        Milestones{},
		Risks:             Risks{},
		Communications:    Communications{},
	}

	c.AddDomainEvent(NewCaseCreatedEvent(c))

	return c, nil
}

// recalculateProgress re-derives OverallProgress from the task universe and
// applies the completion rules. An explicit hold always wins over
// auto-completion; releasing the hold re-derives.
func (c *OnboardingCase) recalculateProgress() {
	done := c.Documents.countTerminal(TaskStatusVerified) +
		c.TechnicalSetup.countTerminal(TaskStatusCompleted) +
		c.Training.countTerminal(TaskStatusCompleted) +
		c.Testing.countTerminal(TaskStatusPassed)
	if c.GoLive.Status == TaskStatusCompleted {
		done++
	}

	c.OverallProgress = int(math.Round(100 * float64(done) / float64(totalTasks)))

	if c.IsOnHold {
		c.Stage = CaseStageOnHold
		return
	}

	if c.OverallProgress >= 100 {
		c.Stage = CaseStageCompleted
		if c.ActualCompletionDate == nil {
			now := time.Now()
			c.ActualCompletionDate = &now
		}
	}
}

// SetStage writes a caller-supplied stage. The derivation runs afterwards,
// so Completed at 100% progress and On-Hold both take precedence.
func (c *OnboardingCase) SetStage(stage CaseStage) error {
	if !stage.IsValid() {
		return shared.NewDomainError("INVALID_STAGE", "Onboarding stage is not valid")
	}

	previous := c.Stage
	c.Stage = stage
	c.recalculateProgress()

	if c.Stage != previous {
		c.AddDomainEvent(NewCaseStageChangedEvent(c, previous))
	}

	return nil
}

// UpdateDocumentStatus moves one named document through verification.
// Submitted stamps the upload time, Verified the verification time,
// Rejected records the reason.
func (c *OnboardingCase) UpdateDocumentStatus(key string, status TaskStatus, documentURL, rejectionReason string) error {
	if !containsKey(DocumentKeys, key) {
		return shared.NewDomainError("INVALID_DOCUMENT", "Unknown document: "+key)
	}
	switch status {
	case TaskStatusPending, TaskStatusSubmitted, TaskStatusVerified, TaskStatusRejected:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Invalid document status: "+status.String())
	}

	task := c.Documents.transition(key, status)
	if documentURL != "" {
		task.URL = documentURL
	}
	if status == TaskStatusRejected {
		task.Reason = rejectionReason
	}
	c.Documents[key] = task

	c.recalculateProgress()
	c.AddDomainEvent(NewDocumentStatusChangedEvent(c, key, status, rejectionReason))

	return nil
}

// UpdateTechnicalStatus moves one named setup task. In Progress stamps the
// start time, Completed the completion time; extra detail fields are merged.
func (c *OnboardingCase) UpdateTechnicalStatus(key string, status TaskStatus, extra map[string]string) error {
	if !containsKey(TechnicalKeys, key) {
		return shared.NewDomainError("INVALID_TASK", "Unknown setup task: "+key)
	}
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Invalid setup status: "+status.String())
	}

	c.TechnicalSetup.transition(key, status)
	c.TechnicalSetup.mergeExtra(key, extra)

	c.recalculateProgress()
	c.AddDomainEvent(NewTechnicalSetupUpdatedEvent(c, key, status))

	return nil
}

// ScheduleTraining books one named training session
func (c *OnboardingCase) ScheduleTraining(key string, scheduledDate time.Time, trainer string, attendees []string) error {
	if !containsKey(TrainingKeys, key) {
		return shared.NewDomainError("INVALID_TASK", "Unknown training: "+key)
	}

	task := c.Training[key]
	task.Status = TaskStatusScheduled
	task.DueDate = &scheduledDate
	if task.Extra == nil {
		task.Extra = map[string]string{}
	}
	if trainer != "" {
		task.Extra["trainer"] = trainer
	}
	if len(attendees) > 0 {
		task.Extra["attendees"] = joinAttendees(attendees)
	}
	c.Training[key] = task

	c.recalculateProgress()
	c.AddDomainEvent(NewTrainingScheduledEvent(c, key, scheduledDate))

	return nil
}

// CompleteTraining closes one named training session
func (c *OnboardingCase) CompleteTraining(key string, attendees []string, feedback string) error {
	if !containsKey(TrainingKeys, key) {
		return shared.NewDomainError("INVALID_TASK", "Unknown training: "+key)
	}

	c.Training.transition(key, TaskStatusCompleted)
	if len(attendees) > 0 {
		c.Training.mergeExtra(key, map[string]string{"attendees": joinAttendees(attendees)})
	}

	c.recalculateProgress()
	c.AddDomainEvent(NewTrainingCompletedEvent(c, key, feedback))

	return nil
}

// UpdateTestingStatus moves one named test task; Passed is the terminal value
func (c *OnboardingCase) UpdateTestingStatus(key string, status TaskStatus, notes string) error {
	if !containsKey(TestingKeys, key) {
		return shared.NewDomainError("INVALID_TASK", "Unknown test: "+key)
	}
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusPassed, TaskStatusFailed:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Invalid test status: "+status.String())
	}

	task := c.Testing.transition(key, status)
	if notes != "" {
		task.Reason = notes
		c.Testing[key] = task
	}

	c.recalculateProgress()
	c.AddDomainEvent(NewTestingUpdatedEvent(c, key, status))

	return nil
}

// UpdateGoLive writes the cut-over block; Completed stamps the actual date
func (c *OnboardingCase) UpdateGoLive(status TaskStatus, scheduledDate *time.Time, systemReady, trainingDone, documentsVerified bool) error {
	switch status {
	case TaskStatusPending, TaskStatusScheduled, TaskStatusInProgress, TaskStatusCompleted:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Invalid go-live status: "+status.String())
	}

	c.GoLive.Status = status
	if scheduledDate != nil {
		c.GoLive.ScheduledDate = scheduledDate
	}
	c.GoLive.SystemReady = systemReady
	c.GoLive.TrainingDone = trainingDone
	c.GoLive.DocumentsVerified = documentsVerified
	if status == TaskStatusCompleted && c.GoLive.ActualDate == nil {
		now := time.Now()
		c.GoLive.ActualDate = &now
	}

	c.recalculateProgress()
	c.AddDomainEvent(NewGoLiveUpdatedEvent(c, status))

	return nil
}

// AddMilestone appends a Pending milestone
func (c *OnboardingCase) AddMilestone(name, description string, dueDate *time.Time, assignedTo *uuid.UUID) (*Milestone, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_MILESTONE", "Milestone name cannot be empty")
	}

	m := Milestone{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		DueDate:     dueDate,
		Status:      MilestoneStatusPending,
		AssignedTo:  assignedTo,
	}
	c.Milestones = append(c.Milestones, m)

	c.recalculateProgress()
	c.AddDomainEvent(NewMilestoneAddedEvent(c, m))

	return &m, nil
}

// AddRisk appends a risk-register entry
func (c *OnboardingCase) AddRisk(description string, severity RiskSeverity, impact, mitigation string) error {
	if description == "" {
		return shared.NewDomainError("INVALID_RISK", "Risk description cannot be empty")
	}

	c.Risks = append(c.Risks, Risk{
		Description:  description,
		Severity:     severity,
		Impact:       impact,
		Mitigation:   mitigation,
		Status:       "Open",
		IdentifiedAt: time.Now(),
	})
	c.UpdatedAt = time.Now()

	return nil
}

// AddCommunication appends a contact-log entry
func (c *OnboardingCase) AddCommunication(commType, subject, content, sender string, recipients []string) error {
	if subject == "" {
		return shared.NewDomainError("INVALID_COMMUNICATION", "Communication subject cannot be empty")
	}

	c.Communications = append(c.Communications, Communication{
		Type:       commType,
		Subject:    subject,
		Content:    content,
		Sender:     sender,
		Recipients: recipients,
		SentAt:     time.Now(),
	})
	c.UpdatedAt = time.Now()

	return nil
}

// PutOnHold pauses the onboarding; the hold overrides any derived stage
func (c *OnboardingCase) PutOnHold(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_HOLD", "A hold requires a reason")
	}
	if c.IsOnHold {
		return shared.NewDomainError("ALREADY_ON_HOLD", "Onboarding is already on hold")
	}

	now := time.Now()
	c.IsOnHold = true
	c.OnHoldReason = reason
	c.OnHoldDate = &now
	c.recalculateProgress()

	c.AddDomainEvent(NewCaseHeldEvent(c, reason))

	return nil
}

// ReleaseHold resumes the onboarding and re-derives the stage
func (c *OnboardingCase) ReleaseHold() error {
	if !c.IsOnHold {
		return shared.NewDomainError("NOT_ON_HOLD", "Onboarding is not on hold")
	}

	c.IsOnHold = false
	c.OnHoldReason = ""
	c.OnHoldDate = nil

	// Resume into the derived stage; below 100% fall back to a phase guess.
	c.Stage = c.deriveActiveStage()
	c.recalculateProgress()

	c.AddDomainEvent(NewCaseReleasedEvent(c))

	return nil
}

// deriveActiveStage picks the first phase with unfinished tasks
func (c *OnboardingCase) deriveActiveStage() CaseStage {
	switch {
	case c.Documents.countTerminal(TaskStatusVerified) < len(DocumentKeys):
		return CaseStageDocumentation
	case c.TechnicalSetup.countTerminal(TaskStatusCompleted) < len(TechnicalKeys):
		return CaseStageSetup
	case c.Training.countTerminal(TaskStatusCompleted) < len(TrainingKeys):
		return CaseStageTraining
	case c.Testing.countTerminal(TaskStatusPassed) < len(TestingKeys):
		return CaseStageTesting
	case c.GoLive.Status != TaskStatusCompleted:
		return CaseStageGoLive
	default:
		return CaseStageCompleted
	}
}

// SetDetails updates the descriptive header fields
func (c *OnboardingCase) SetDetails(instituteName string, contact *ContactPerson, contractValue *decimal.Decimal, expectedCompletion *time.Time) error {
	if instituteName != "" {
		c.InstituteName = instituteName
	}
	if contact != nil {
		c.Contact = *contact
	}
	if contractValue != nil {
		if contractValue.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Contract value cannot be negative")
		}
		c.ContractValue = *contractValue
	}
	if expectedCompletion != nil {
		c.ExpectedCompletionDate = expectedCompletion
	}
	c.UpdatedAt = time.Now()
	return nil
}

// Assign assigns the onboarding to a support user
func (c *OnboardingCase) Assign(userID uuid.UUID) {
	c.AssignedTo = &userID
	c.UpdatedAt = time.Now()
}

// SetCreatedBy records the user who opened the case
func (c *OnboardingCase) SetCreatedBy(userID uuid.UUID) {
	c.CreatedBy = &userID
}

// SetLastUpdatedBy stamps the acting user on a mutation
func (c *OnboardingCase) SetLastUpdatedBy(userID uuid.UUID) {
	c.LastUpdatedBy = &userID
	c.UpdatedAt = time.Now()
}

// LinkInstitute records the tenant created for this onboarding
func (c *OnboardingCase) LinkInstitute(instituteID uuid.UUID) {
	c.InstituteID = &instituteID
	c.UpdatedAt = time.Now()
}

// IsOverdue reports whether the expected completion date has passed while
// the case is still open
func (c *OnboardingCase) IsOverdue() bool {
	if c.ExpectedCompletionDate == nil || c.Stage == CaseStageCompleted {
		return false
	}
	return c.ExpectedCompletionDate.Before(time.Now())
}

// IsActive reports whether the case is neither completed nor on hold
func (c *OnboardingCase) IsActive() bool {
	return c.Stage != CaseStageCompleted && c.Stage != CaseStageOnHold
}

func joinAttendees(attendees []string) string {
	return strings.Join(attendees, ", ")
}
