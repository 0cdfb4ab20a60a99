package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	crmapp "github.com/learn2pay/backend/internal/application/crm"
	"github.com/learn2pay/backend/internal/domain/crm"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/learn2pay/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockLeadRepository is a mock implementation of crm.LeadRepository
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

func newLeadTestRouter(repo *MockLeadRepository) *gin.Engine {
	h := NewLeadHandler(crmapp.NewLeadService(repo, nil))

	router := gin.New()
	router.POST("/leads", h.Create)
	router.GET("/leads", h.List)
	router.GET("/leads/:id", h.GetByID)
	router.PUT("/leads/:id", h.Update)
	router.PATCH("/leads/:id/stage", h.UpdateStage)
	router.DELETE("/leads/:id", h.Delete)
	return router
}

func newStoredTestLead(t *testing.T) *crm.Lead {
	t.Helper()
	lead, err := crm.NewLead("Sunrise Public School", "Sunrise Public School", "+91-9800000001", crm.LeadStageNew)
	require.NoError(t, err)
	lead.ClearDomainEvents()
	return lead
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLeadHandlerCreate(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ExistsByPhone", mock.Anything, "+91-9800000001").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Lead")).Return(nil)

	router := newLeadTestRouter(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"lead_name":      "Sunrise Public School",
		"institute_name": "Sunrise Public School",
		"contact_phone":  "+91-9800000001",
	})
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestLeadHandlerCreateDuplicatePhone(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ExistsByPhone", mock.Anything, "+91-9800000001").Return(true, nil)

	router := newLeadTestRouter(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"lead_name":      "Sunrise Public School",
		"institute_name": "Sunrise Public School",
		"contact_phone":  "+91-9800000001",
	})
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	// Duplicates come back as 400 on this API, not 409
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLeadHandlerCreateMissingRequiredFields(t *testing.T) {
	repo := new(MockLeadRepository)
	router := newLeadTestRouter(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"lead_name": "Sunrise Public School",
	})
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "ExistsByPhone", mock.Anything, mock.Anything)
}

func TestLeadHandlerGetByID(t *testing.T) {
	lead := newStoredTestLead(t)

	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	router := newLeadTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/leads/"+lead.ID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Contains(t, rec.Body.String(), lead.ID.String())
}

func TestLeadHandlerGetByIDNotFound(t *testing.T) {
	id := uuid.New()

	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	router := newLeadTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/leads/"+id.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestLeadHandlerGetByIDInvalidUUID(t *testing.T) {
	repo := new(MockLeadRepository)
	router := newLeadTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/leads/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestLeadHandlerList(t *testing.T) {
	lead := newStoredTestLead(t)

	repo := new(MockLeadRepository)
	repo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return([]crm.Lead{*lead}, nil)
	repo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	router := newLeadTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/leads?stage=New", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
}

func TestLeadHandlerUpdateStage(t *testing.T) {
	lead := newStoredTestLead(t)

	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Lead")).Return(nil)

	router := newLeadTestRouter(repo)

	body, _ := json.Marshal(map[string]string{"stage": "Contacted"})
	req := httptest.NewRequest(http.MethodPatch, "/leads/"+lead.ID.String()+"/stage", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Contacted")
	repo.AssertExpectations(t)
}

func TestLeadHandlerUpdateStageInvalid(t *testing.T) {
	lead := newStoredTestLead(t)

	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	router := newLeadTestRouter(repo)

	body, _ := json.Marshal(map[string]string{"stage": "Daydreaming"})
	req := httptest.NewRequest(http.MethodPatch, "/leads/"+lead.ID.String()+"/stage", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLeadHandlerDelete(t *testing.T) {
	lead := newStoredTestLead(t)

	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	repo.On("Delete", mock.Anything, lead.ID).Return(nil)

	router := newLeadTestRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/leads/"+lead.ID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}
