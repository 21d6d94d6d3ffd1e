package store

import (
	"database/sql"
	"errors"
	"testing"

	"market-pos/internal/status"
	"market-pos/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionRecordRoundTrip(t *testing.T) {
	record := core.NewRecord(core.NewBaseCollection("transactions"))
	record.Id = "tx1"

	setTransactionFields(record, &models.Transaction{
		VendorID:      "v1",
		Amount:        decimal.RequireFromString("12.505"),
		Description:   "Payment from Alice",
		PaymentMethod: models.PaymentMethodCash,
	})

	tx := transactionFromRecord(record)
	assert.Equal(t, "tx1", tx.ID)
	assert.Equal(t, "v1", tx.VendorID)
	assert.True(t, decimal.RequireFromString("12.51").Equal(tx.Amount), "got %s", tx.Amount)
	assert.Equal(t, models.PaymentMethodCash, tx.PaymentMethod)
	assert.Equal(t, "Payment from Alice", tx.Description)
}

func TestRequestFromRecord(t *testing.T) {
	record := core.NewRecord(core.NewBaseCollection("payment_requests"))
	record.Id = "r1"
	record.Set("vendor_id", "v1")
	record.Set("amount", 7.25)
	record.Set("payer_name", "Bob")
	record.Set("status", "completed")
	record.Set("processed_transaction_id", "tx9")

	req := requestFromRecord(record)
	assert.Equal(t, models.RequestCompleted, req.Status)
	assert.Equal(t, "tx9", req.ProcessedTransactionID)
	assert.True(t, decimal.RequireFromString("7.25").Equal(req.Amount))
	assert.True(t, req.Consistent())
}

func TestVendorRecordRoundTrip(t *testing.T) {
	record := core.NewRecord(core.NewBaseCollection("vendors"))
	setVendorFields(record, &models.Vendor{Name: "Fresh Greens", ShareToken: "abc", Phone: "555-0101"})

	v := vendorFromRecord(record)
	assert.Equal(t, "Fresh Greens", v.Name)
	assert.Equal(t, "abc", v.ShareToken)
	assert.Equal(t, "555-0101", v.Phone)
}

func TestWrapFind(t *testing.T) {
	err := wrapFind("vendors", "v1", sql.ErrNoRows)
	assert.ErrorIs(t, err, status.ErrNotFound)

	other := errors.New("database is locked")
	err = wrapFind("vendors", "v1", other)
	assert.ErrorIs(t, err, other)
	assert.False(t, errors.Is(err, status.ErrNotFound))
}
