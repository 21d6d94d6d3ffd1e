package services

import (
	"context"

	"market-pos/internal/batch"
	"market-pos/internal/status"
	"market-pos/internal/store"
	"market-pos/logger"
	"market-pos/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BatchSessions interface {
	Load(ctx context.Context, sessionID string) (*batch.Batch, error)
	Save(ctx context.Context, sessionID string, b *batch.Batch) error
	Delete(ctx context.Context, sessionID string) error
}

type ManualItemInput struct {
	VendorID  string          `json:"vendor_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	PayerName string          `json:"payer_name" validate:"required,max=120"`
}

// BatchView is the batch as shown to the operator.
type BatchView struct {
	Items       []batch.Item        `json:"items"`
	Total       decimal.Decimal     `json:"total"`
	ByVendor    []batch.VendorTotal `json:"by_vendor"`
	Description string              `json:"description"`
}

func NewBatchView(b *batch.Batch) BatchView {
	return BatchView{
		Items:       b.Items,
		Total:       b.Total(),
		ByVendor:    b.ByVendor(),
		Description: b.Description(),
	}
}

// BatchService manages the batch owned by one operator session.
type BatchService struct {
	sessions BatchSessions
	requests store.RequestRepository
	vendors  store.VendorRepository
	engine   *batch.Engine
}

func NewBatchService(sessions BatchSessions, requests store.RequestRepository, vendors store.VendorRepository, engine *batch.Engine) *BatchService {
	return &BatchService{sessions: sessions, requests: requests, vendors: vendors, engine: engine}
}

func (s *BatchService) Get(ctx context.Context, sessionID string) (*batch.Batch, error) {
	return s.sessions.Load(ctx, sessionID)
}

// Toggle adds or removes a pending request and reports whether it is now in the batch.
func (s *BatchService) Toggle(ctx context.Context, sessionID, requestID string) (*batch.Batch, bool, error) {
	b, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, false, err
	}

	vendorName := ""
	if !b.Contains(req.ID) {
		vendor, err := s.vendors.Get(ctx, req.VendorID)
		if err != nil {
			return nil, false, err
		}
		vendorName = vendor.Name
	}

	in, err := b.Toggle(*req, vendorName)
	if err != nil {
		return nil, false, err
	}
	if err := s.sessions.Save(ctx, sessionID, b); err != nil {
		return nil, false, err
	}
	return b, in, nil
}

func (s *BatchService) AddManual(ctx context.Context, sessionID string, in ManualItemInput) (*batch.Batch, error) {
	b, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if in.VendorID == "" {
		return nil, status.ErrVendorRequired
	}

	vendor, err := s.vendors.Get(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}
	if _, err := b.AddManual(vendor.ID, vendor.Name, in.Amount, in.PayerName); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sessionID, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BatchService) Remove(ctx context.Context, sessionID, itemID string) (*batch.Batch, error) {
	b, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := b.Remove(itemID); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sessionID, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BatchService) Clear(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Commit records the session's batch with one payment method and drops it.
func (s *BatchService) Commit(ctx context.Context, sessionID string, method models.PaymentMethod) (*batch.CommitResult, error) {
	b, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Commit(ctx, b, method)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		// The ledger writes stand; only the session copy is left behind.
		logger.FromContext(ctx).Error("Failed to clear committed batch",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
	return result, nil
}
