package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestCompleted || s == RequestCancelled
}

type PaymentRequest struct {
	ID                     string          `json:"id" db:"id"`
	VendorID               string          `json:"vendor_id" db:"vendor_id"`
	Amount                 decimal.Decimal `json:"amount" db:"amount"`
	PayerName              string          `json:"payer_name" db:"payer_name"`
	Status                 RequestStatus   `json:"status" db:"status"` // pending, completed, cancelled
	ProcessedTransactionID string          `json:"processed_transaction_id,omitempty" db:"processed_transaction_id"`
	Created                time.Time       `json:"created" db:"created"`
	Updated                time.Time       `json:"updated" db:"updated"`
}

// Consistent reports whether the completion back-reference agrees with the status.
func (r PaymentRequest) Consistent() bool {
	return (r.Status == RequestCompleted) == (r.ProcessedTransactionID != "")
}
