package onboarding

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCase(t *testing.T) *OnboardingCase {
	t.Helper()
	c, err := NewOnboardingCase(uuid.New(), "Sunrise Academy", ContactPerson{FirstName: "Meera"}, decimal.NewFromInt(500000))
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

// finishEverything drives every task of every phase to its terminal status
func finishEverything(t *testing.T, c *OnboardingCase) {
	t.Helper()
	for _, key := range DocumentKeys {
		require.NoError(t, c.UpdateDocumentStatus(key, TaskStatusVerified, "", ""))
	}
	for _, key := range TechnicalKeys {
		require.NoError(t, c.UpdateTechnicalStatus(key, TaskStatusCompleted, nil))
	}
	for _, key := range TrainingKeys {
		require.NoError(t, c.CompleteTraining(key, nil, ""))
	}
	for _, key := range TestingKeys {
		require.NoError(t, c.UpdateTestingStatus(key, TaskStatusPassed, ""))
	}
	require.NoError(t, c.UpdateGoLive(TaskStatusCompleted, nil, true, true, true))
}

func TestNewOnboardingCase(t *testing.T) {
	t.Run("starts in documentation with the full task universe pending", func(t *testing.T) {
		c, err := NewOnboardingCase(uuid.New(), "Sunrise Academy", ContactPerson{}, decimal.NewFromInt(100000))

		require.NoError(t, err)
		assert.Equal(t, CaseStageDocumentation, c.Stage)
		assert.Equal(t, 0, c.OverallProgress)
		assert.Len(t, c.Documents, 6)
		assert.Len(t, c.TechnicalSetup, 4)
		assert.Len(t, c.Training, 3)
		assert.Len(t, c.Testing, 2)
		assert.Equal(t, TaskStatusPending, c.GoLive.Status)
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("fails without a lead", func(t *testing.T) {
		c, err := NewOnboardingCase(uuid.Nil, "Sunrise Academy", ContactPerson{}, decimal.Zero)

		assert.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("fails with negative contract value", func(t *testing.T) {
		c, err := NewOnboardingCase(uuid.New(), "Sunrise Academy", ContactPerson{}, decimal.NewFromInt(-1))

		assert.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestProgressDerivation(t *testing.T) {
	t.Run("progress counts one task per terminal sub-record", func(t *testing.T) {
		c := newTestCase(t)

		require.NoError(t, c.UpdateDocumentStatus("pan_card", TaskStatusVerified, "", ""))
		require.NoError(t, c.UpdateTechnicalStatus("payment_gateway", TaskStatusCompleted, nil))

		// 2 of 16 tasks done, rounded
		assert.Equal(t, 13, c.OverallProgress)
	})

	t.Run("non-terminal statuses do not count", func(t *testing.T) {
		c := newTestCase(t)

		require.NoError(t, c.UpdateDocumentStatus("pan_card", TaskStatusSubmitted, "https://docs/pan.pdf", ""))
		require.NoError(t, c.UpdateTechnicalStatus("payment_gateway", TaskStatusInProgress, nil))

		assert.Equal(t, 0, c.OverallProgress)
	})

	t.Run("derivation is deterministic for the same task states", func(t *testing.T) {
		c := newTestCase(t)
		require.NoError(t, c.UpdateDocumentStatus("pan_card", TaskStatusVerified, "", ""))
		first := c.OverallProgress

		c.recalculateProgress()

		assert.Equal(t, first, c.OverallProgress)
	})

	t.Run("all terminal tasks complete the case", func(t *testing.T) {
		c := newTestCase(t)

		finishEverything(t, c)

		assert.Equal(t, 100, c.OverallProgress)
		assert.Equal(t, CaseStageCompleted, c.Stage)
		require.NotNil(t, c.ActualCompletionDate)
	})

	t.Run("completion overrides a caller-supplied stage", func(t *testing.T) {
		c := newTestCase(t)
		finishEverything(t, c)

		err := c.SetStage(CaseStageTesting)

		require.NoError(t, err)
		assert.Equal(t, CaseStageCompleted, c.Stage)
	})
}

func TestHoldPrecedence(t *testing.T) {
	t.Run("hold wins over auto-completion", func(t *testing.T) {
		c := newTestCase(t)
		require.NoError(t, c.PutOnHold("payment dispute"))

		finishEverything(t, c)

		assert.Equal(t, 100, c.OverallProgress)
		assert.Equal(t, CaseStageOnHold, c.Stage)
	})

	t.Run("releasing the hold re-derives the stage", func(t *testing.T) {
		c := newTestCase(t)
		require.NoError(t, c.PutOnHold("payment dispute"))
		finishEverything(t, c)

		require.NoError(t, c.ReleaseHold())

		assert.Equal(t, CaseStageCompleted, c.Stage)
		assert.False(t, c.IsOnHold)
		assert.Empty(t, c.OnHoldReason)
	})

	t.Run("release resumes into the first unfinished phase", func(t *testing.T) {
		c := newTestCase(t)
		for _, key := range DocumentKeys {
			require.NoError(t, c.UpdateDocumentStatus(key, TaskStatusVerified, "", ""))
		}
		require.NoError(t, c.PutOnHold("waiting on gateway vendor"))

		require.NoError(t, c.ReleaseHold())

		assert.Equal(t, CaseStageSetup, c.Stage)
	})

	t.Run("hold requires a reason and rejects double holds", func(t *testing.T) {
		c := newTestCase(t)

		assert.Error(t, c.PutOnHold(""))
		require.NoError(t, c.PutOnHold("payment dispute"))
		assert.Error(t, c.PutOnHold("again"))
	})

	t.Run("release without a hold fails", func(t *testing.T) {
		c := newTestCase(t)

		assert.Error(t, c.ReleaseHold())
	})
}

func TestDocumentStatus(t *testing.T) {
	t.Run("submitted stamps upload time and url", func(t *testing.T) {
		c := newTestCase(t)

		err := c.UpdateDocumentStatus("gst_certificate", TaskStatusSubmitted, "https://docs/gst.pdf", "")

		require.NoError(t, err)
		task := c.Documents["gst_certificate"]
		require.NotNil(t, task.StartedAt)
		assert.Equal(t, "https://docs/gst.pdf", task.URL)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("verified stamps completion time", func(t *testing.T) {
		c := newTestCase(t)

		err := c.UpdateDocumentStatus("bank_details", TaskStatusVerified, "", "")

		require.NoError(t, err)
		require.NotNil(t, c.Documents["bank_details"].CompletedAt)
	})

	t.Run("rejected records the reason", func(t *testing.T) {
		c := newTestCase(t)

		err := c.UpdateDocumentStatus("service_agreement", TaskStatusRejected, "", "signature missing")

		require.NoError(t, err)
		assert.Equal(t, "signature missing", c.Documents["service_agreement"].Reason)
	})

	t.Run("rejects unknown key and foreign status", func(t *testing.T) {
		c := newTestCase(t)

		assert.Error(t, c.UpdateDocumentStatus("passport", TaskStatusVerified, "", ""))
		assert.Error(t, c.UpdateDocumentStatus("pan_card", TaskStatusPassed, "", ""))
	})
}

func TestTechnicalSetup(t *testing.T) {
	t.Run("in progress stamps the start, completed the finish", func(t *testing.T) {
		c := newTestCase(t)

		require.NoError(t, c.UpdateTechnicalStatus("system_integration", TaskStatusInProgress, nil))
		require.NotNil(t, c.TechnicalSetup["system_integration"].StartedAt)

		require.NoError(t, c.UpdateTechnicalStatus("system_integration", TaskStatusCompleted, nil))
		require.NotNil(t, c.TechnicalSetup["system_integration"].CompletedAt)
	})

	t.Run("merges caller detail fields", func(t *testing.T) {
		c := newTestCase(t)

		err := c.UpdateTechnicalStatus("payment_gateway", TaskStatusInProgress, map[string]string{"gateway": "razorpay"})

		require.NoError(t, err)
		assert.Equal(t, "razorpay", c.TechnicalSetup["payment_gateway"].Extra["gateway"])
	})
}

func TestTraining(t *testing.T) {
	t.Run("schedule books the session", func(t *testing.T) {
		c := newTestCase(t)
		when := time.Now().Add(72 * time.Hour)

		err := c.ScheduleTraining("admin_training", when, "Kiran", []string{"principal", "accountant"})

		require.NoError(t, err)
		task := c.Training["admin_training"]
		assert.Equal(t, TaskStatusScheduled, task.Status)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, "Kiran", task.Extra["trainer"])
		assert.Equal(t, "principal, accountant", task.Extra["attendees"])
	})

	t.Run("complete closes the session", func(t *testing.T) {
		c := newTestCase(t)

		err := c.CompleteTraining("staff_training", []string{"office staff"}, "went well")

		require.NoError(t, err)
		task := c.Training["staff_training"]
		assert.Equal(t, TaskStatusCompleted, task.Status)
		require.NotNil(t, task.CompletedAt)
	})

	t.Run("unknown session key fails", func(t *testing.T) {
		c := newTestCase(t)

		assert.Error(t, c.ScheduleTraining("vendor_training", time.Now(), "", nil))
	})
}

func TestMilestones(t *testing.T) {
	t.Run("appends a pending milestone", func(t *testing.T) {
		c := newTestCase(t)
		due := time.Now().Add(7 * 24 * time.Hour)
		owner := uuid.New()

		m, err := c.AddMilestone("Gateway sandbox sign-off", "", &due, &owner)

		require.NoError(t, err)
		require.Len(t, c.Milestones, 1)
		assert.Equal(t, MilestoneStatusPending, m.Status)
		assert.Equal(t, owner, *m.AssignedTo)
	})

	t.Run("requires a name", func(t *testing.T) {
		c := newTestCase(t)

		_, err := c.AddMilestone("", "", nil, nil)

		assert.Error(t, err)
		assert.Empty(t, c.Milestones)
	})
}

func TestCaseOverdue(t *testing.T) {
	c := newTestCase(t)
	past := time.Now().Add(-24 * time.Hour)
	c.ExpectedCompletionDate = &past

	assert.True(t, c.IsOverdue())

	finishEverything(t, c)
	assert.False(t, c.IsOverdue())
}
