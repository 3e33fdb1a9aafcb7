package enrollment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInvoice(t *testing.T) *Invoice {
	inv, err := NewInvoice(uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(4900), "USD", "stripe", "cs_test_123")
	require.NoError(t, err)
	return inv
}

func TestInvoiceStatus_IsFinal(t *testing.T) {
	assert.False(t, InvoiceStatusPending.IsFinal())
	assert.True(t, InvoiceStatusPaid.IsFinal())
	assert.True(t, InvoiceStatusFailed.IsFinal())
}

func TestNewInvoice(t *testing.T) {
	tenantID := uuid.New()
	membershipID := uuid.New()
	sessionID := uuid.New()

	t.Run("creates pending invoice", func(t *testing.T) {
		inv, err := NewInvoice(tenantID, membershipID, sessionID,
			decimal.NewFromInt(4900), "USD", "stripe", "cs_test_123")
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assert.Equal(t, membershipID, inv.MembershipID)
		assert.Equal(t, sessionID, inv.MembershipSessionID)
		assert.True(t, decimal.NewFromInt(4900).Equal(inv.Amount))
	})

	t.Run("allows zero amount", func(t *testing.T) {
		_, err := NewInvoice(tenantID, membershipID, sessionID,
			decimal.Zero, "USD", "noop", "")
		assert.NoError(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewInvoice(tenantID, membershipID, sessionID,
			decimal.NewFromInt(-1), "USD", "stripe", "cs_test_123")
		assert.Error(t, err)
	})

	t.Run("rejects nil session", func(t *testing.T) {
		_, err := NewInvoice(tenantID, membershipID, uuid.Nil,
			decimal.NewFromInt(100), "USD", "stripe", "cs_test_123")
		assert.Error(t, err)
	})

	t.Run("rejects missing currency", func(t *testing.T) {
		_, err := NewInvoice(tenantID, membershipID, sessionID,
			decimal.NewFromInt(100), "", "stripe", "cs_test_123")
		assert.Error(t, err)
	})

	t.Run("rejects missing processor", func(t *testing.T) {
		_, err := NewInvoice(tenantID, membershipID, sessionID,
			decimal.NewFromInt(100), "USD", "", "cs_test_123")
		assert.Error(t, err)
	})
}

func TestInvoice_Settlement(t *testing.T) {
	t.Run("mark paid", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.MarkPaid())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("mark failed", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.MarkFailed())
		assert.Equal(t, InvoiceStatusFailed, inv.Status)
	})

	t.Run("settled invoice stays settled", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.MarkPaid())

		assert.Error(t, inv.MarkFailed())
		assert.Error(t, inv.MarkPaid())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})
}
