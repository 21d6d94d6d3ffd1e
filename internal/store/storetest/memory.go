// Package storetest provides in-memory repositories that mirror the PocketBase schema rules.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"market-pos/internal/status"
	"market-pos/internal/store"
	"market-pos/models"
)

type Memory struct {
	mu           sync.Mutex
	seq          int
	vendors      map[string]models.Vendor
	transactions map[string]models.Transaction
	requests     map[string]models.PaymentRequest

	// Optional fault injection, keyed on the values being written.
	FailTransactionCreate func(tx models.Transaction) error
	FailMarkCompleted     func(requestID string) error

	// Writes records every mutating call in order, e.g. "tx:create:t1".
	Writes []string
}

func NewMemory() *Memory {
	return &Memory{
		vendors:      map[string]models.Vendor{},
		transactions: map[string]models.Transaction{},
		requests:     map[string]models.PaymentRequest{},
	}
}

func (m *Memory) Vendors() *Vendors           { return &Vendors{m: m} }
func (m *Memory) Transactions() *Transactions { return &Transactions{m: m} }
func (m *Memory) Requests() *Requests         { return &Requests{m: m} }

func (m *Memory) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

func notFound(collection, id string) error {
	return fmt.Errorf("%s %q: %w", collection, id, status.ErrNotFound)
}

// SeedVendor stores v as-is and returns it with an id assigned when empty.
func (m *Memory) SeedVendor(v models.Vendor) models.Vendor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == "" {
		v.ID = m.nextID("v")
	}
	m.vendors[v.ID] = v
	return v
}

func (m *Memory) SeedRequest(r models.PaymentRequest) models.PaymentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = m.nextID("r")
	}
	if r.Status == "" {
		r.Status = models.RequestPending
	}
	m.requests[r.ID] = r
	return r
}

func (m *Memory) SeedTransaction(tx models.Transaction) models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.ID == "" {
		tx.ID = m.nextID("t")
	}
	m.transactions[tx.ID] = tx
	return tx
}

type Vendors struct{ m *Memory }

func (r *Vendors) List(_ context.Context) ([]models.Vendor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]models.Vendor, 0, len(r.m.vendors))
	for _, v := range r.m.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Vendors) Get(_ context.Context, id string) (*models.Vendor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	v, ok := r.m.vendors[id]
	if !ok {
		return nil, notFound("vendors", id)
	}
	return &v, nil
}

func (r *Vendors) GetByShareToken(_ context.Context, token string) (*models.Vendor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, v := range r.m.vendors {
		if v.ShareToken == token {
			v := v
			return &v, nil
		}
	}
	return nil, notFound("vendors", "share token")
}

func (r *Vendors) Create(_ context.Context, v *models.Vendor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.vendors {
		if existing.ShareToken == v.ShareToken {
			return fmt.Errorf("share_token: value must be unique")
		}
	}
	v.ID = r.m.nextID("v")
	v.Created = time.Now()
	v.Updated = v.Created
	r.m.vendors[v.ID] = *v
	r.m.Writes = append(r.m.Writes, "vendor:create:"+v.ID)
	return nil
}

func (r *Vendors) Update(_ context.Context, v *models.Vendor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.vendors[v.ID]
	if !ok {
		return notFound("vendors", v.ID)
	}
	v.Created = existing.Created
	v.Updated = time.Now()
	r.m.vendors[v.ID] = *v
	r.m.Writes = append(r.m.Writes, "vendor:update:"+v.ID)
	return nil
}

// Delete cascades to transactions and requests, like the vendor_id relations.
func (r *Vendors) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.vendors[id]; !ok {
		return notFound("vendors", id)
	}
	delete(r.m.vendors, id)
	for txID, tx := range r.m.transactions {
		if tx.VendorID == id {
			r.m.deleteTransactionLocked(txID)
		}
	}
	for reqID, req := range r.m.requests {
		if req.VendorID == id {
			delete(r.m.requests, reqID)
		}
	}
	r.m.Writes = append(r.m.Writes, "vendor:delete:"+id)
	return nil
}

type Transactions struct{ m *Memory }

func (r *Transactions) List(_ context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Transaction{}
	for _, tx := range r.m.transactions {
		if filter.VendorID != "" && tx.VendorID != filter.VendorID {
			continue
		}
		if filter.PaymentMethod != "" && tx.PaymentMethod != filter.PaymentMethod {
			continue
		}
		if !filter.From.IsZero() && tx.Created.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !tx.Created.Before(filter.To) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	return out, nil
}

func (r *Transactions) Get(_ context.Context, id string) (*models.Transaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	tx, ok := r.m.transactions[id]
	if !ok {
		return nil, notFound("transactions", id)
	}
	return &tx, nil
}

func (r *Transactions) Create(_ context.Context, tx *models.Transaction) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailTransactionCreate != nil {
		if err := r.m.FailTransactionCreate(*tx); err != nil {
			return err
		}
	}
	if _, ok := r.m.vendors[tx.VendorID]; !ok {
		return fmt.Errorf("vendor_id: failed to find related record %q", tx.VendorID)
	}
	tx.ID = r.m.nextID("t")
	tx.Created = time.Now()
	tx.Updated = tx.Created
	r.m.transactions[tx.ID] = *tx
	r.m.Writes = append(r.m.Writes, "tx:create:"+tx.ID)
	return nil
}

func (r *Transactions) Update(_ context.Context, tx *models.Transaction) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.transactions[tx.ID]
	if !ok {
		return notFound("transactions", tx.ID)
	}
	tx.Created = existing.Created
	tx.Updated = time.Now()
	r.m.transactions[tx.ID] = *tx
	r.m.Writes = append(r.m.Writes, "tx:update:"+tx.ID)
	return nil
}

func (r *Transactions) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.transactions[id]; !ok {
		return notFound("transactions", id)
	}
	r.m.deleteTransactionLocked(id)
	r.m.Writes = append(r.m.Writes, "tx:delete:"+id)
	return nil
}

// deleteTransactionLocked unsets processed_transaction_id on referencing requests.
func (m *Memory) deleteTransactionLocked(id string) {
	delete(m.transactions, id)
	for reqID, req := range m.requests {
		if req.ProcessedTransactionID == id {
			req.ProcessedTransactionID = ""
			m.requests[reqID] = req
		}
	}
}

type Requests struct{ m *Memory }

func (r *Requests) List(_ context.Context, filter store.RequestFilter) ([]models.PaymentRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.PaymentRequest{}
	for _, req := range r.m.requests {
		if filter.VendorID != "" && req.VendorID != filter.VendorID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Requests) Get(_ context.Context, id string) (*models.PaymentRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	req, ok := r.m.requests[id]
	if !ok {
		return nil, notFound("payment_requests", id)
	}
	return &req, nil
}

func (r *Requests) Create(_ context.Context, req *models.PaymentRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.vendors[req.VendorID]; !ok {
		return fmt.Errorf("vendor_id: failed to find related record %q", req.VendorID)
	}
	req.ID = r.m.nextID("r")
	req.Status = models.RequestPending
	req.ProcessedTransactionID = ""
	req.Created = time.Now()
	req.Updated = req.Created
	r.m.requests[req.ID] = *req
	r.m.Writes = append(r.m.Writes, "request:create:"+req.ID)
	return nil
}

func (r *Requests) Cancel(_ context.Context, id string) (*models.PaymentRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	req, ok := r.m.requests[id]
	if !ok {
		return nil, notFound("payment_requests", id)
	}
	if req.Status.IsTerminal() {
		return nil, status.ErrInvalidTransition
	}
	req.Status = models.RequestCancelled
	req.Updated = time.Now()
	r.m.requests[id] = req
	r.m.Writes = append(r.m.Writes, "request:cancel:"+id)
	return &req, nil
}

func (r *Requests) MarkCompleted(_ context.Context, id, transactionID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailMarkCompleted != nil {
		if err := r.m.FailMarkCompleted(id); err != nil {
			return err
		}
	}
	req, ok := r.m.requests[id]
	if !ok {
		return notFound("payment_requests", id)
	}
	if req.Status != models.RequestPending {
		return status.ErrRequestNotPending
	}
	req.Status = models.RequestCompleted
	req.ProcessedTransactionID = transactionID
	req.Updated = time.Now()
	r.m.requests[id] = req
	r.m.Writes = append(r.m.Writes, "request:complete:"+id)
	return nil
}

var (
	_ store.VendorRepository      = (*Vendors)(nil)
	_ store.TransactionRepository = (*Transactions)(nil)
	_ store.RequestRepository     = (*Requests)(nil)
)
