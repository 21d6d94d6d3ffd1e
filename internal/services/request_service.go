package services

import (
	"context"
	"fmt"
	"strings"

	"market-pos/internal/batch"
	"market-pos/internal/status"
	"market-pos/internal/store"
	"market-pos/logger"
	"market-pos/models"
	"market-pos/monitoring"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SubmitRequestInput struct {
	Amount    decimal.Decimal `json:"amount"`
	PayerName string          `json:"payer_name" validate:"required,max=120"`
}

type RequestService struct {
	requests store.RequestRepository
	vendors  store.VendorRepository
	engine   *batch.Engine
}

func NewRequestService(requests store.RequestRepository, vendors store.VendorRepository, engine *batch.Engine) *RequestService {
	return &RequestService{requests: requests, vendors: vendors, engine: engine}
}

func (s *RequestService) List(ctx context.Context, filter store.RequestFilter) ([]models.PaymentRequest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%q: %w", filter.Status, status.ErrInvalidStatus)
	}
	return s.requests.List(ctx, filter)
}

func (s *RequestService) Get(ctx context.Context, id string) (*models.PaymentRequest, error) {
	return s.requests.Get(ctx, id)
}

// Submit creates a pending request for the vendor owning the share token.
func (s *RequestService) Submit(ctx context.Context, shareToken string, in SubmitRequestInput) (*models.PaymentRequest, error) {
	amount, ok := models.RoundAmount(in.Amount)
	if !ok {
		return nil, status.ErrInvalidAmount
	}
	payer := strings.TrimSpace(in.PayerName)
	if payer == "" {
		return nil, status.ErrBlankPayerName
	}

	vendor, err := s.vendors.GetByShareToken(ctx, shareToken)
	if err != nil {
		return nil, err
	}

	req := &models.PaymentRequest{
		VendorID:  vendor.ID,
		Amount:    amount,
		PayerName: payer,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		logger.FromContext(ctx).Error("Failed to submit payment request",
			zap.String("vendor_id", vendor.ID),
			zap.Error(err),
		)
		return nil, err
	}
	monitoring.TrackRequestTransition(string(models.RequestPending))
	return req, nil
}

// Cancel is the operator cancellation.
func (s *RequestService) Cancel(ctx context.Context, id string) (*models.PaymentRequest, error) {
	req, err := s.requests.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	monitoring.TrackRequestTransition(string(models.RequestCancelled))
	return req, nil
}

// CancelByPayer cancels a request through the vendor's share token. The request
// must belong to that vendor.
func (s *RequestService) CancelByPayer(ctx context.Context, shareToken, id string) (*models.PaymentRequest, error) {
	vendor, err := s.vendors.GetByShareToken(ctx, shareToken)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.VendorID != vendor.ID {
		return nil, status.ErrForeignRequest
	}
	return s.Cancel(ctx, id)
}

// Fulfil records a single request through the batch engine.
func (s *RequestService) Fulfil(ctx context.Context, id string, method models.PaymentMethod) (*batch.CommitResult, error) {
	req, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	vendor, err := s.vendors.Get(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}

	b := batch.New()
	if _, err := b.Toggle(*req, vendor.Name); err != nil {
		return nil, err
	}
	return s.engine.Commit(ctx, b, method)
}
