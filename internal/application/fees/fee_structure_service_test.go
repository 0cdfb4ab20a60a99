package fees

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/learn2pay/backend/internal/domain/fees"
	"github.com/learn2pay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFeeStructureRepository is a mock implementation of FeeStructureRepository
type MockFeeStructureRepository struct {
	mock.Mock
}

func (m *MockFeeStructureRepository) FindByID(ctx context.Context, id uuid.UUID) (*fees.FeeStructure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindByIDForInstitute(ctx context.Context, instituteID, id uuid.UUID) (*fees.FeeStructure, error) {
	args := m.Called(ctx, instituteID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindAllForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) ([]fees.FeeStructure, error) {
	args := m.Called(ctx, instituteID, filter)
	return args.Get(0).([]fees.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindByClass(ctx context.Context, instituteID uuid.UUID, className, academicYear string) (*fees.FeeStructure, error) {
	args := m.Called(ctx, instituteID, className, academicYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) Save(ctx context.Context, fs *fees.FeeStructure) error {
	args := m.Called(ctx, fs)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) DeleteForInstitute(ctx context.Context, instituteID, id uuid.UUID) error {
	args := m.Called(ctx, instituteID, id)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) CountForInstitute(ctx context.Context, instituteID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, instituteID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestFeeStructureServiceCreate(t *testing.T) {
	ctx := context.Background()
	instituteID := uuid.New()

	t.Run("computes the total server-side", func(t *testing.T) {
		repo := new(MockFeeStructureRepository)
		service := NewFeeStructureService(repo, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*fees.FeeStructure")).Return(nil)

		resp, err := service.Create(ctx, instituteID, CreateFeeStructureRequest{
			ClassName:    "10",
			TuitionFee:   decimal.NewFromInt(15000),
			AdmissionFee: decimal.NewFromInt(5000),
			ExamFee:      decimal.NewFromInt(2000),
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalFee.Equal(decimal.NewFromInt(22000)))
		assert.Equal(t, instituteID, resp.InstituteID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects negative components without saving", func(t *testing.T) {
		repo := new(MockFeeStructureRepository)
		service := NewFeeStructureService(repo, nil)

		resp, err := service.Create(ctx, instituteID, CreateFeeStructureRequest{
			ClassName:  "10",
			TuitionFee: decimal.NewFromInt(-1),
		})

		assert.Error(t, err)
		assert.Nil(t, resp)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestFeeStructureServiceUpdate(t *testing.T) {
	ctx := context.Background()
	instituteID := uuid.New()

	t.Run("merges untouched components before recomputing", func(t *testing.T) {
		existing, err := fees.NewFeeStructure(instituteID, "10", decimal.NewFromInt(10000), decimal.NewFromInt(2000), decimal.NewFromInt(1000), "")
		require.NoError(t, err)

		repo := new(MockFeeStructureRepository)
		service := NewFeeStructureService(repo, nil)
		repo.On("FindByIDForInstitute", ctx, instituteID, existing.ID).Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		newTuition := decimal.NewFromInt(12000)
		resp, err := service.Update(ctx, instituteID, existing.ID, UpdateFeeStructureRequest{
			TuitionFee: &newTuition,
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalFee.Equal(decimal.NewFromInt(15000)))
		assert.True(t, resp.AdmissionFee.Equal(decimal.NewFromInt(2000)))
		repo.AssertExpectations(t)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockFeeStructureRepository)
		service := NewFeeStructureService(repo, nil)
		missing := uuid.New()
		repo.On("FindByIDForInstitute", ctx, instituteID, missing).Return(nil, shared.ErrNotFound)

		resp, err := service.Update(ctx, instituteID, missing, UpdateFeeStructureRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, resp)
	})
}

func TestFeeStructureServiceDelete(t *testing.T) {
	ctx := context.Background()
	instituteID := uuid.New()

	existing, err := fees.NewFeeStructure(instituteID, "10", decimal.NewFromInt(1000), decimal.Zero, decimal.Zero, "")
	require.NoError(t, err)

	repo := new(MockFeeStructureRepository)
	service := NewFeeStructureService(repo, nil)
	repo.On("FindByIDForInstitute", ctx, instituteID, existing.ID).Return(existing, nil)
	repo.On("DeleteForInstitute", ctx, instituteID, existing.ID).Return(nil)

	err = service.Delete(ctx, instituteID, existing.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
