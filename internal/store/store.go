package store

import (
	"context"
	"time"

	"market-pos/models"
)

type TransactionFilter struct {
	VendorID      string
	PaymentMethod models.PaymentMethod
	From          time.Time
	To            time.Time
}

type RequestFilter struct {
	VendorID string
	Status   models.RequestStatus
}

type VendorRepository interface {
	List(ctx context.Context) ([]models.Vendor, error)
	Get(ctx context.Context, id string) (*models.Vendor, error)
	GetByShareToken(ctx context.Context, token string) (*models.Vendor, error)
	Create(ctx context.Context, v *models.Vendor) error
	Update(ctx context.Context, v *models.Vendor) error
	Delete(ctx context.Context, id string) error
}

type TransactionRepository interface {
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id string) error
}

type RequestRepository interface {
	List(ctx context.Context, filter RequestFilter) ([]models.PaymentRequest, error)
	Get(ctx context.Context, id string) (*models.PaymentRequest, error)
	Create(ctx context.Context, req *models.PaymentRequest) error
	// Cancel moves a pending request to cancelled.
	Cancel(ctx context.Context, id string) (*models.PaymentRequest, error)
	// MarkCompleted sets status and back-reference in a single save. The request must be pending.
	MarkCompleted(ctx context.Context, id, transactionID string) error
}
