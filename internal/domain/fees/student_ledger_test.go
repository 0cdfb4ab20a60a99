package fees

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, total int64) *StudentFeeLedger {
	t.Helper()
	instituteID := uuid.New()
	fs, err := NewFeeStructure(instituteID, "10", decimal.NewFromInt(total), decimal.Zero, decimal.Zero, "2026-2027")
	require.NoError(t, err)

	ledger, err := NewStudentFeeLedger(instituteID, "STU-1", "R-42", "Asha Verma", fs)
	require.NoError(t, err)
	ledger.ClearDomainEvents()
	return ledger
}

func TestNewStudentFeeLedger(t *testing.T) {
	instituteID := uuid.New()
	fs, err := NewFeeStructure(instituteID, "10", d(15000), d(5000), d(2000), "2026-2027")
	require.NoError(t, err)

	t.Run("seeds totals from the fee structure snapshot", func(t *testing.T) {
		ledger, err := NewStudentFeeLedger(instituteID, "STU-1", "R-42", "Asha Verma", fs)

		require.NoError(t, err)
		assert.True(t, ledger.TotalFeeAmount.Equal(d(22000)))
		assert.True(t, ledger.PaidAmount.IsZero())
		assert.True(t, ledger.PendingAmount.Equal(d(22000)))
		assert.Equal(t, LedgerStatusUnpaid, ledger.Status)
		assert.Equal(t, fs.ID, ledger.FeeStructureID)
		assert.Equal(t, "10", ledger.ClassName)
		assert.Equal(t, "2026-2027", ledger.AcademicYear)
		require.NotNil(t, ledger.DueDate)
		assert.Len(t, ledger.GetDomainEvents(), 1)
	})

	t.Run("fails without roll number", func(t *testing.T) {
		ledger, err := NewStudentFeeLedger(instituteID, "STU-1", "", "Asha Verma", fs)

		assert.Error(t, err)
		assert.Nil(t, ledger)
	})

	t.Run("fails without fee structure", func(t *testing.T) {
		ledger, err := NewStudentFeeLedger(instituteID, "STU-1", "R-42", "Asha Verma", nil)

		assert.Error(t, err)
		assert.Nil(t, ledger)
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("partial then full payment walks the status machine", func(t *testing.T) {
		ledger := newTestLedger(t, 25000)

		_, err := ledger.RecordPayment(d(15000), PaymentMethodUPI, "TXN-1", "")
		require.NoError(t, err)
		assert.True(t, ledger.PaidAmount.Equal(d(15000)))
		assert.True(t, ledger.PendingAmount.Equal(d(10000)))
		assert.Equal(t, LedgerStatusPartial, ledger.Status)
		require.NotNil(t, ledger.LastPaymentDate)

		_, err = ledger.RecordPayment(d(10000), PaymentMethodCash, "", "final instalment")
		require.NoError(t, err)
		assert.True(t, ledger.PaidAmount.Equal(d(25000)))
		assert.True(t, ledger.PendingAmount.IsZero())
		assert.Equal(t, LedgerStatusPaid, ledger.Status)
		assert.True(t, ledger.IsSettled())
		assert.Equal(t, 2, ledger.PaymentCount())
	})

	t.Run("rejects overpayment and leaves the ledger unchanged", func(t *testing.T) {
		ledger := newTestLedger(t, 25000)
		_, err := ledger.RecordPayment(d(25000), PaymentMethodCash, "", "")
		require.NoError(t, err)

		_, err = ledger.RecordPayment(d(1), PaymentMethodCash, "", "")

		assert.Error(t, err)
		assert.True(t, ledger.PaidAmount.Equal(d(25000)))
		assert.True(t, ledger.PendingAmount.IsZero())
		assert.Equal(t, 1, ledger.PaymentCount())
	})

	t.Run("rejects amount above pending", func(t *testing.T) {
		ledger := newTestLedger(t, 1000)

		_, err := ledger.RecordPayment(d(1001), PaymentMethodCash, "", "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pending")
		assert.Equal(t, LedgerStatusUnpaid, ledger.Status)
		assert.Equal(t, 0, ledger.PaymentCount())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		ledger := newTestLedger(t, 1000)

		_, err := ledger.RecordPayment(decimal.Zero, PaymentMethodCash, "", "")
		assert.Error(t, err)

		_, err = ledger.RecordPayment(d(-10), PaymentMethodCash, "", "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		ledger := newTestLedger(t, 1000)

		_, err := ledger.RecordPayment(d(100), PaymentMethod("Barter"), "", "")

		assert.Error(t, err)
	})

	t.Run("appends exactly one trailing payment per call", func(t *testing.T) {
		ledger := newTestLedger(t, 5000)

		p, err := ledger.RecordPayment(d(2000), PaymentMethodCard, "TXN-9", "term 1")
		require.NoError(t, err)

		require.Len(t, ledger.Payments, 1)
		assert.Equal(t, p.ID, ledger.Payments[0].ID)
		assert.True(t, ledger.Payments[0].Amount.Equal(d(2000)))
		assert.Equal(t, "TXN-9", ledger.Payments[0].TransactionID)
	})

	t.Run("pending amount is clamped at zero", func(t *testing.T) {
		// A legacy ledger can carry PaidAmount above total; derivation must clamp.
		ledger := newTestLedger(t, 1000)
		ledger.PaidAmount = d(1200)
		ledger.recalculate()

		assert.True(t, ledger.PendingAmount.IsZero())
		assert.Equal(t, LedgerStatusPaid, ledger.Status)
	})
}

func TestLedgerOverdue(t *testing.T) {
	ledger := newTestLedger(t, 1000)

	t.Run("not overdue before due date", func(t *testing.T) {
		assert.False(t, ledger.IsOverdue())
	})

	t.Run("settled ledgers are never overdue", func(t *testing.T) {
		_, err := ledger.RecordPayment(d(1000), PaymentMethodCash, "", "")
		require.NoError(t, err)
		assert.False(t, ledger.IsOverdue())
	})
}
