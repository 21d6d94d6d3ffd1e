package services

import (
	"context"
	"sync"

	"market-pos/internal/batch"
	"market-pos/internal/store"

	"github.com/shopspring/decimal"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txFilter(vendorID string) store.TransactionFilter {
	return store.TransactionFilter{VendorID: vendorID}
}

func reqFilter(vendorID string) store.RequestFilter {
	return store.RequestFilter{VendorID: vendorID}
}

// memorySessions stands in for the Redis session store.
type memorySessions struct {
	mu      sync.Mutex
	batches map[string]batch.Batch
}

func newMemorySessions() *memorySessions {
	return &memorySessions{batches: map[string]batch.Batch{}}
}

func (m *memorySessions) Load(_ context.Context, sessionID string) (*batch.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[sessionID]
	if !ok {
		return batch.New(), nil
	}
	items := append([]batch.Item{}, b.Items...)
	return &batch.Batch{Items: items}, nil
}

func (m *memorySessions) Save(ctx context.Context, sessionID string, b *batch.Batch) error {
	if b.IsEmpty() {
		return m.Delete(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[sessionID] = batch.Batch{Items: append([]batch.Item{}, b.Items...)}
	return nil
}

func (m *memorySessions) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.batches, sessionID)
	return nil
}

func (m *memorySessions) has(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.batches[sessionID]
	return ok
}
