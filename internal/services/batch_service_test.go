package services

import (
	"context"
	"testing"

	"market-pos/internal/batch"
	"market-pos/internal/status"
	"market-pos/internal/store/storetest"
	"market-pos/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBatchService(mem *storetest.Memory, sessions BatchSessions) *BatchService {
	engine := batch.NewEngine(mem.Transactions(), mem.Requests())
	return NewBatchService(sessions, mem.Requests(), mem.Vendors(), engine)
}

func TestBatchService_ToggleIsScopedToSession(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	v := mem.SeedVendor(models.Vendor{Name: "Fresh Greens"})
	req := mem.SeedRequest(models.PaymentRequest{VendorID: v.ID, Amount: amount("12.50"), PayerName: "Alice"})
	sessions := newMemorySessions()
	svc := newBatchService(mem, sessions)

	b, in, err := svc.Toggle(ctx, "s1", req.ID)
	require.NoError(t, err)
	assert.True(t, in)
	assert.Equal(t, "Fresh Greens", b.Items[0].VendorName)

	other, err := svc.Get(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())

	_, in, err = svc.Toggle(ctx, "s1", req.ID)
	require.NoError(t, err)
	assert.False(t, in)
	assert.False(t, sessions.has("s1"))
}

func TestBatchService_ManualAndRemove(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	v := mem.SeedVendor(models.Vendor{Name: "Bakery"})
	svc := newBatchService(mem, newMemorySessions())

	b, err := svc.AddManual(ctx, "s1", ManualItemInput{VendorID: v.ID, Amount: amount("7.25"), PayerName: "Bob"})
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, "Bakery", b.Items[0].VendorName)

	_, err = svc.AddManual(ctx, "s1", ManualItemInput{VendorID: v.ID, Amount: amount("0"), PayerName: "Bob"})
	assert.ErrorIs(t, err, status.ErrInvalidAmount)

	_, err = svc.AddManual(ctx, "s1", ManualItemInput{VendorID: "missing", Amount: amount("1"), PayerName: "Bob"})
	assert.ErrorIs(t, err, status.ErrNotFound)

	b, err = svc.Remove(ctx, "s1", b.Items[0].ID)
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())

	_, err = svc.Remove(ctx, "s1", "gone")
	assert.ErrorIs(t, err, status.ErrItemNotFound)
}

func TestBatchService_CommitMixedBatch(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	a := mem.SeedVendor(models.Vendor{Name: "A"})
	b := mem.SeedVendor(models.Vendor{Name: "B"})
	req := mem.SeedRequest(models.PaymentRequest{VendorID: a.ID, Amount: amount("12.50"), PayerName: "Alice"})
	sessions := newMemorySessions()
	svc := newBatchService(mem, sessions)

	_, _, err := svc.Toggle(ctx, "s1", req.ID)
	require.NoError(t, err)
	_, err = svc.AddManual(ctx, "s1", ManualItemInput{VendorID: b.ID, Amount: amount("7.25"), PayerName: "Bob"})
	require.NoError(t, err)

	result, err := svc.Commit(ctx, "s1", models.PaymentMethodCash)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Committed)
	assert.Equal(t, "19.75", result.Collected.StringFixed(2))
	assert.Equal(t, "2 payments, 19.75 total: A 12.50, B 7.25", result.Description)
	assert.False(t, sessions.has("s1"))

	got, _ := mem.Requests().Get(ctx, req.ID)
	assert.Equal(t, models.RequestCompleted, got.Status)

	_, err = svc.Commit(ctx, "s1", models.PaymentMethodCash)
	assert.ErrorIs(t, err, status.ErrEmptyBatch)
}

func TestBatchService_ClearDropsSession(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	v := mem.SeedVendor(models.Vendor{Name: "A"})
	sessions := newMemorySessions()
	svc := newBatchService(mem, sessions)

	_, err := svc.AddManual(ctx, "s1", ManualItemInput{VendorID: v.ID, Amount: amount("1"), PayerName: "P"})
	require.NoError(t, err)
	require.True(t, sessions.has("s1"))

	require.NoError(t, svc.Clear(ctx, "s1"))
	assert.False(t, sessions.has("s1"))
}

func TestNewBatchView(t *testing.T) {
	b := batch.New()
	_, _ = b.AddManual("v1", "A", amount("1.50"), "P")

	view := NewBatchView(b)
	assert.Equal(t, "1.50", view.Total.StringFixed(2))
	assert.Len(t, view.ByVendor, 1)
	assert.Equal(t, "1 payment, 1.50 total: A 1.50", view.Description)
}
