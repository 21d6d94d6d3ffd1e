// Package batch holds the operator's reconciliation batch and commits it to the ledger.
package batch

import (
	"fmt"
	"strings"

	"market-pos/internal/status"
	"market-pos/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemKind string

const (
	KindRequest ItemKind = "request"
	KindManual  ItemKind = "manual"
)

// Item is one pending line of a batch. Request items carry the id of the
// payment request they will complete; manual items never touch a request.
type Item struct {
	ID         string          `json:"id"`
	Kind       ItemKind        `json:"kind"`
	RequestID  string          `json:"request_id,omitempty"`
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Amount     decimal.Decimal `json:"amount"`
	PayerName  string          `json:"payer_name"`
}

type VendorTotal struct {
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Amount     decimal.Decimal `json:"amount"`
	Items      int             `json:"items"`
}

type Batch struct {
	Items []Item `json:"items"`
}

func New() *Batch {
	return &Batch{Items: []Item{}}
}

// Toggle adds a pending request to the batch, or removes it when already present.
// It reports whether the request is in the batch afterwards.
func (b *Batch) Toggle(req models.PaymentRequest, vendorName string) (bool, error) {
	for i, item := range b.Items {
		if item.Kind == KindRequest && item.RequestID == req.ID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return false, nil
		}
	}

	if req.Status != models.RequestPending {
		return false, fmt.Errorf("request %s is %s: %w", req.ID, req.Status, status.ErrRequestNotPending)
	}

	b.Items = append(b.Items, Item{
		ID:         uuid.NewString(),
		Kind:       KindRequest,
		RequestID:  req.ID,
		VendorID:   req.VendorID,
		VendorName: vendorName,
		Amount:     req.Amount,
		PayerName:  req.PayerName,
	})
	return true, nil
}

func (b *Batch) AddManual(vendorID, vendorName string, amount decimal.Decimal, payerName string) (Item, error) {
	if vendorID == "" {
		return Item{}, status.ErrVendorRequired
	}
	amount, ok := models.RoundAmount(amount)
	if !ok {
		return Item{}, status.ErrInvalidAmount
	}
	payerName = strings.TrimSpace(payerName)
	if payerName == "" {
		return Item{}, status.ErrBlankPayerName
	}

	item := Item{
		ID:         uuid.NewString(),
		Kind:       KindManual,
		VendorID:   vendorID,
		VendorName: vendorName,
		Amount:     amount,
		PayerName:  payerName,
	}
	b.Items = append(b.Items, item)
	return item, nil
}

func (b *Batch) Remove(itemID string) error {
	for i, item := range b.Items {
		if item.ID == itemID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item %s: %w", itemID, status.ErrItemNotFound)
}

func (b *Batch) Contains(requestID string) bool {
	for _, item := range b.Items {
		if item.Kind == KindRequest && item.RequestID == requestID {
			return true
		}
	}
	return false
}

func (b *Batch) Len() int { return len(b.Items) }

func (b *Batch) IsEmpty() bool { return len(b.Items) == 0 }

func (b *Batch) Clear() { b.Items = []Item{} }

func (b *Batch) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Amount)
	}
	return total
}

// ByVendor groups items per vendor in order of first appearance.
func (b *Batch) ByVendor() []VendorTotal {
	index := map[string]int{}
	totals := []VendorTotal{}
	for _, item := range b.Items {
		i, ok := index[item.VendorID]
		if !ok {
			i = len(totals)
			index[item.VendorID] = i
			totals = append(totals, VendorTotal{
				VendorID:   item.VendorID,
				VendorName: item.VendorName,
				Amount:     decimal.Zero,
			})
		}
		totals[i].Amount = totals[i].Amount.Add(item.Amount)
		totals[i].Items++
	}
	return totals
}

// Description summarises the batch, e.g. "2 payments, 19.75 total: Fresh Greens 12.50, Bakery 7.25".
func (b *Batch) Description() string {
	if b.IsEmpty() {
		return "Empty batch"
	}

	noun := "payments"
	if b.Len() == 1 {
		noun = "payment"
	}

	parts := make([]string, 0, len(b.Items))
	for _, vt := range b.ByVendor() {
		name := vt.VendorName
		if name == "" {
			name = vt.VendorID
		}
		parts = append(parts, name+" "+vt.Amount.StringFixed(2))
	}

	return fmt.Sprintf("%d %s, %s total: %s", b.Len(), noun, b.Total().StringFixed(2), strings.Join(parts, ", "))
}
