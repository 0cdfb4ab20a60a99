package fees

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestNewFeeStructure(t *testing.T) {
	instituteID := uuid.New()

	t.Run("creates fee structure with derived total", func(t *testing.T) {
		fs, err := NewFeeStructure(instituteID, "10", d(15000), d(5000), d(2000), "2026-2027")

		require.NoError(t, err)
		assert.Equal(t, "10", fs.ClassName)
		assert.True(t, fs.TotalFee.Equal(d(22000)))
		assert.Equal(t, "2026-2027", fs.AcademicYear)
		assert.Equal(t, instituteID, fs.InstituteID)
		assert.Len(t, fs.GetDomainEvents(), 1)
	})

	t.Run("defaults academic year to current range", func(t *testing.T) {
		fs, err := NewFeeStructure(instituteID, "10", d(1000), d(0), d(0), "")

		require.NoError(t, err)
		assert.Equal(t, CurrentAcademicYear(), fs.AcademicYear)
	})

	t.Run("fails with empty class name", func(t *testing.T) {
		fs, err := NewFeeStructure(instituteID, "", d(1000), d(0), d(0), "")

		assert.Error(t, err)
		assert.Nil(t, fs)
	})

	t.Run("fails with negative component", func(t *testing.T) {
		fs, err := NewFeeStructure(instituteID, "10", d(-1), d(0), d(0), "")

		assert.Error(t, err)
		assert.Nil(t, fs)
	})
}

func TestFeeStructureUpdateFees(t *testing.T) {
	instituteID := uuid.New()
	fs, err := NewFeeStructure(instituteID, "8", d(10000), d(2000), d(1000), "")
	require.NoError(t, err)
	require.True(t, fs.TotalFee.Equal(d(13000)))

	t.Run("recomputes total on every component change", func(t *testing.T) {
		err := fs.UpdateFees(d(12000), d(2000), d(1500))

		require.NoError(t, err)
		assert.True(t, fs.TotalFee.Equal(d(15500)))
	})

	t.Run("rejects negative components and leaves totals intact", func(t *testing.T) {
		before := fs.TotalFee

		err := fs.UpdateFees(d(-5), d(2000), d(1500))

		assert.Error(t, err)
		assert.True(t, fs.TotalFee.Equal(before))
	})
}

func TestFeeStructureFeeItems(t *testing.T) {
	instituteID := uuid.New()
	fs, _ := NewFeeStructure(instituteID, "9", d(9000), d(1000), d(500), "")

	t.Run("appends itemized components", func(t *testing.T) {
		err := fs.AddFeeItem("Lab Fee", d(750), FeeItemTypeRecurring)

		require.NoError(t, err)
		require.Len(t, fs.FeeItems, 1)
		assert.Equal(t, "Lab Fee", fs.FeeItems[0].Name)
	})

	t.Run("rejects unnamed items", func(t *testing.T) {
		err := fs.AddFeeItem("", d(100), FeeItemTypeOneTime)

		assert.Error(t, err)
		assert.Len(t, fs.FeeItems, 1)
	})

	t.Run("rejects invalid item type", func(t *testing.T) {
		err := fs.AddFeeItem("Bus Fee", d(100), FeeItemType("weird"))

		assert.Error(t, err)
	})
}
