package services

import (
	"context"
	"sort"

	"market-pos/internal/realtime"
	"market-pos/internal/store"
	"market-pos/migrations"
	"market-pos/models"

	"github.com/shopspring/decimal"
)

type MethodTotal struct {
	Method models.PaymentMethod `json:"method"`
	Count  int                  `json:"count"`
	Amount decimal.Decimal      `json:"amount"`
}

type VendorSummary struct {
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Count      int             `json:"count"`
	Amount     decimal.Decimal `json:"amount"`
}

type Summary struct {
	Total           decimal.Decimal `json:"total"`
	Count           int             `json:"count"`
	ByMethod        []MethodTotal   `json:"by_method"`
	ByVendor        []VendorSummary `json:"by_vendor"`
	PendingRequests int             `json:"pending_requests"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
}

// MethodTotals always returns one entry per payment method, in display order.
func MethodTotals(txs []models.Transaction) []MethodTotal {
	totals := make([]MethodTotal, len(models.PaymentMethods))
	index := map[models.PaymentMethod]int{}
	for i, m := range models.PaymentMethods {
		totals[i] = MethodTotal{Method: m, Amount: decimal.Zero}
		index[m] = i
	}
	for _, tx := range txs {
		i, ok := index[tx.PaymentMethod]
		if !ok {
			continue
		}
		totals[i].Count++
		totals[i].Amount = totals[i].Amount.Add(tx.Amount)
	}
	return totals
}

// Summarize reduces the ledger and request queue into the operator dashboard.
func Summarize(txs []models.Transaction, vendors []models.Vendor, requests []models.PaymentRequest) Summary {
	names := make(map[string]string, len(vendors))
	for _, v := range vendors {
		names[v.ID] = v.Name
	}

	summary := Summary{
		Total:         decimal.Zero,
		ByMethod:      MethodTotals(txs),
		ByVendor:      []VendorSummary{},
		PendingAmount: decimal.Zero,
	}

	perVendor := map[string]*VendorSummary{}
	for _, tx := range txs {
		summary.Total = summary.Total.Add(tx.Amount)
		summary.Count++

		vs, ok := perVendor[tx.VendorID]
		if !ok {
			vs = &VendorSummary{VendorID: tx.VendorID, VendorName: names[tx.VendorID], Amount: decimal.Zero}
			perVendor[tx.VendorID] = vs
		}
		vs.Count++
		vs.Amount = vs.Amount.Add(tx.Amount)
	}

	for _, vs := range perVendor {
		summary.ByVendor = append(summary.ByVendor, *vs)
	}
	sort.Slice(summary.ByVendor, func(i, j int) bool {
		a, b := summary.ByVendor[i], summary.ByVendor[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.VendorName < b.VendorName
	})

	for _, req := range requests {
		if req.Status == models.RequestPending {
			summary.PendingRequests++
			summary.PendingAmount = summary.PendingAmount.Add(req.Amount)
		}
	}
	return summary
}

// VendorDashboard is what a share-link holder sees.
type VendorDashboard struct {
	Vendor          models.Vendor           `json:"vendor"`
	Total           decimal.Decimal         `json:"total"`
	ByMethod        []MethodTotal           `json:"by_method"`
	Transactions    []models.Transaction    `json:"transactions"`
	PendingRequests []models.PaymentRequest `json:"pending_requests"`
	Requests        []models.PaymentRequest `json:"requests"`
}

// DashboardService reads through collection snapshots that reload after any change.
type DashboardService struct {
	vendors      *realtime.Snapshot[models.Vendor]
	transactions *realtime.Snapshot[models.Transaction]
	requests     *realtime.Snapshot[models.PaymentRequest]
}

func NewDashboardService(hub *realtime.Hub, vendors store.VendorRepository, transactions store.TransactionRepository, requests store.RequestRepository) *DashboardService {
	s := &DashboardService{
		vendors: realtime.NewSnapshot(migrations.VendorsCollection, func(ctx context.Context) ([]models.Vendor, error) {
			return vendors.List(ctx)
		}),
		transactions: realtime.NewSnapshot(migrations.TransactionsCollection, func(ctx context.Context) ([]models.Transaction, error) {
			return transactions.List(ctx, store.TransactionFilter{})
		}),
		requests: realtime.NewSnapshot(migrations.PaymentRequestsCollection, func(ctx context.Context) ([]models.PaymentRequest, error) {
			return requests.List(ctx, store.RequestFilter{})
		}),
	}
	s.vendors.Attach(hub)
	s.transactions.Attach(hub)
	s.requests.Attach(hub)
	return s
}

func (s *DashboardService) Operator(ctx context.Context) (Summary, error) {
	vendors, err := s.vendors.Get(ctx)
	if err != nil {
		return Summary{}, err
	}
	txs, err := s.transactions.Get(ctx)
	if err != nil {
		return Summary{}, err
	}
	requests, err := s.requests.Get(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(txs, vendors, requests), nil
}

// Vendor resolves the share token against the vendor snapshot and filters the
// other snapshots down to that vendor.
func (s *DashboardService) Vendor(ctx context.Context, shareToken string) (*VendorDashboard, error) {
	vendors, err := s.vendors.Get(ctx)
	if err != nil {
		return nil, err
	}

	var vendor *models.Vendor
	for i := range vendors {
		if shareToken != "" && vendors[i].ShareToken == shareToken {
			vendor = &vendors[i]
			break
		}
	}
	if vendor == nil {
		return nil, errVendorNotFound
	}

	txs, err := s.transactions.Get(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.Get(ctx)
	if err != nil {
		return nil, err
	}

	d := &VendorDashboard{
		Vendor:          *vendor,
		Total:           decimal.Zero,
		Transactions:    []models.Transaction{},
		PendingRequests: []models.PaymentRequest{},
		Requests:        []models.PaymentRequest{},
	}
	for _, tx := range txs {
		if tx.VendorID == vendor.ID {
			d.Transactions = append(d.Transactions, tx)
			d.Total = d.Total.Add(tx.Amount)
		}
	}
	d.ByMethod = MethodTotals(d.Transactions)

	for _, req := range requests {
		if req.VendorID != vendor.ID {
			continue
		}
		d.Requests = append(d.Requests, req)
		if req.Status == models.RequestPending {
			d.PendingRequests = append(d.PendingRequests, req)
		}
	}
	return d, nil
}
