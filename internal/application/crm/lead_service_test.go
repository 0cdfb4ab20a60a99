package crm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/crm"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLeadRepository is a mock implementation of LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Lead, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByPhone(ctx context.Context, phone string) (*crm.Lead, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) ExistsByPhoneExcluding(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, phone, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newStoredLead(t *testing.T) *crm.Lead {
	t.Helper()
	lead, err := crm.NewLead("Greenfield Expansion", "Greenfield Public School", "+91-9800000001", "")
	require.NoError(t, err)
	lead.ClearDomainEvents()
	return lead
}

func TestLeadServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a lead with a unique phone", func(t *testing.T) {
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("ExistsByPhone", ctx, "+91-9800000001").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*crm.Lead")).Return(nil)

		resp, err := service.Create(ctx, CreateLeadRequest{
			LeadName:      "Greenfield Expansion",
			InstituteName: "Greenfield Public School",
			ContactPhone:  "+91-9800000001",
		})

		require.NoError(t, err)
		assert.Equal(t, crm.LeadStageNew, resp.Stage)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a duplicate phone without saving", func(t *testing.T) {
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("ExistsByPhone", ctx, "+91-9800000001").Return(true, nil)

		resp, err := service.Create(ctx, CreateLeadRequest{
			LeadName:      "Greenfield Expansion",
			InstituteName: "Greenfield Public School",
			ContactPhone:  "+91-9800000001",
		})

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestLeadServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("phone change re-checks uniqueness against other leads", func(t *testing.T) {
		lead := newStoredLead(t)
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
		repo.On("ExistsByPhoneExcluding", ctx, "+91-9800000002", lead.ID).Return(true, nil)

		newPhone := "+91-9800000002"
		resp, err := service.Update(ctx, lead.ID, UpdateLeadRequest{ContactPhone: &newPhone})

		assert.Nil(t, resp)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("unchanged phone skips the uniqueness check", func(t *testing.T) {
		lead := newStoredLead(t)
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
		repo.On("Save", ctx, lead).Return(nil)

		samePhone := lead.ContactPhone
		notes := "met at expo"
		resp, err := service.Update(ctx, lead.ID, UpdateLeadRequest{ContactPhone: &samePhone, Notes: &notes})

		require.NoError(t, err)
		assert.Equal(t, "met at expo", resp.Notes)
		repo.AssertNotCalled(t, "ExistsByPhoneExcluding")
	})

	t.Run("every update refreshes last activity", func(t *testing.T) {
		lead := newStoredLead(t)
		before := lead.LastActivityDate
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
		repo.On("Save", ctx, lead).Return(nil)

		notes := "called twice"
		resp, err := service.Update(ctx, lead.ID, UpdateLeadRequest{Notes: &notes})

		require.NoError(t, err)
		assert.False(t, resp.LastActivityDate.Before(before))
	})

	t.Run("a name-only update refreshes last activity", func(t *testing.T) {
		lead := newStoredLead(t)
		before := lead.LastActivityDate
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
		repo.On("Save", ctx, lead).Return(nil)

		time.Sleep(time.Millisecond)
		newName := "Greenfield North Campus"
		resp, err := service.Update(ctx, lead.ID, UpdateLeadRequest{InstituteName: &newName})

		require.NoError(t, err)
		assert.Equal(t, "Greenfield North Campus", resp.InstituteName)
		assert.Equal(t, lead.LeadName, resp.LeadName)
		assert.True(t, resp.LastActivityDate.After(before))
	})

	t.Run("empty names are rejected", func(t *testing.T) {
		lead := newStoredLead(t)
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("FindByID", ctx, lead.ID).Return(lead, nil)

		empty := ""
		resp, err := service.Update(ctx, lead.ID, UpdateLeadRequest{LeadName: &empty})

		assert.Nil(t, resp)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestLeadServiceUpdateStage(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts any canonical pipeline stage", func(t *testing.T) {
		lead := newStoredLead(t)
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
		repo.On("Save", ctx, lead).Return(nil)

		resp, err := service.UpdateStage(ctx, lead.ID, UpdateLeadStageRequest{Stage: "Negotiation"})

		require.NoError(t, err)
		assert.Equal(t, crm.LeadStageNegotiation, resp.Stage)
	})

	t.Run("rejects a stage outside the enum", func(t *testing.T) {
		lead := newStoredLead(t)
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("FindByID", ctx, lead.ID).Return(lead, nil)

		resp, err := service.UpdateStage(ctx, lead.ID, UpdateLeadStageRequest{Stage: "Onboarded"})

		assert.Nil(t, resp)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("converted stamps the conversion date", func(t *testing.T) {
		lead := newStoredLead(t)
		repo := new(MockLeadRepository)
		service := NewLeadService(repo, nil)
		repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
		repo.On("Save", ctx, lead).Return(nil)

		resp, err := service.UpdateStage(ctx, lead.ID, UpdateLeadStageRequest{Stage: "Converted"})

		require.NoError(t, err)
		require.NotNil(t, resp.ConvertedDate)
	})
}
