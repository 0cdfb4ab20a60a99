package onboarding

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// TaskStatus is the shared status vocabulary for phase tasks. Each phase
// accepts a subset and names its own terminal value.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusSubmitted  TaskStatus = "Submitted"
	TaskStatusVerified   TaskStatus = "Verified"
	TaskStatusRejected   TaskStatus = "Rejected"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusScheduled  TaskStatus = "Scheduled"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusPassed     TaskStatus = "Passed"
	TaskStatusFailed     TaskStatus = "Failed"
)

// IsValid checks if the status is a known TaskStatus
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusSubmitted, TaskStatusVerified, TaskStatusRejected,
		TaskStatusInProgress, TaskStatusScheduled, TaskStatusCompleted,
		TaskStatusPassed, TaskStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// PhaseTask is one tracked sub-record inside an onboarding phase. All phases
// share this shape; phase-specific detail lives in Extra.
type PhaseTask struct {
	Status      TaskStatus        `json:"status"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	URL         string            `json:"url,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// PhaseTasks is a named-key task map stored as JSONB
type PhaseTasks map[string]PhaseTask

// Value implements driver.Valuer for GORM to store as JSONB
func (p PhaseTasks) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (p *PhaseTasks) Scan(value interface{}) error {
	if value == nil {
		*p = PhaseTasks{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PhaseTasks: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PhaseTasks{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Named task keys per phase. The four lists define the fixed task universe
// the progress derivation counts over.
var (
	DocumentKeys = []string{
		"registration_certificate",
		"educational_license",
		"pan_card",
		"gst_certificate",
		"bank_details",
		"service_agreement",
	}
	TechnicalKeys = []string{
		"payment_gateway",
		"system_integration",
		"user_account_setup",
		"fee_structure_setup",
	}
	TrainingKeys = []string{
		"admin_training",
		"staff_training",
		"parent_orientation",
	}
	TestingKeys = []string{
		"uat",
		"payment_testing",
	}
)

// newPhase builds a task map with every named key in Pending state
func newPhase(keys []string) PhaseTasks {
	tasks := make(PhaseTasks, len(keys))
	for _, key := range keys {
		tasks[key] = PhaseTask{Status: TaskStatusPending}
	}
	return tasks
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// countTerminal counts tasks whose status equals the phase's terminal value
func (p PhaseTasks) countTerminal(terminal TaskStatus) int {
	n := 0
	for _, task := range p {
		if task.Status == terminal {
			n++
		}
	}
	return n
}

// transition applies a status change to the named task, stamping the
// lifecycle timestamps the new status implies.
func (p PhaseTasks) transition(key string, status TaskStatus) PhaseTask {
	task := p[key]
	task.Status = status

	now := time.Now()
	switch status {
	case TaskStatusSubmitted, TaskStatusInProgress:
		if task.StartedAt == nil {
			task.StartedAt = &now
		}
	case TaskStatusVerified, TaskStatusCompleted, TaskStatusPassed:
		task.CompletedAt = &now
	}

	p[key] = task
	return task
}

// mergeExtra folds caller-supplied detail fields into the named task
func (p PhaseTasks) mergeExtra(key string, extra map[string]string) {
	if len(extra) == 0 {
		return
	}
	task := p[key]
	if task.Extra == nil {
		task.Extra = make(map[string]string, len(extra))
	}
	for k, v := range extra {
		task.Extra[k] = v
	}
	p[key] = task
}
