package batch

import (
	"context"
	"fmt"

	"market-pos/internal/status"
	"market-pos/logger"
	"market-pos/models"
	"market-pos/monitoring"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger is the write side of the transaction ledger used by a commit.
type Ledger interface {
	Create(ctx context.Context, tx *models.Transaction) error
}

// RequestCompleter re-reads and completes the requests behind request items.
type RequestCompleter interface {
	Get(ctx context.Context, id string) (*models.PaymentRequest, error)
	MarkCompleted(ctx context.Context, id, transactionID string) error
}

const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
)

type ItemResult struct {
	ItemID        string          `json:"item_id"`
	Kind          ItemKind        `json:"kind"`
	VendorID      string          `json:"vendor_id"`
	RequestID     string          `json:"request_id,omitempty"`
	PayerName     string          `json:"payer_name"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Error         string          `json:"error,omitempty"`
	// RequestError is set when the transaction was written but the request could not be completed.
	RequestError string `json:"request_error,omitempty"`
}

func (r ItemResult) Committed() bool { return r.TransactionID != "" }

type CommitResult struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Description   string               `json:"description"`
	Items         []ItemResult         `json:"items"`
	Committed     int                  `json:"committed"`
	Failed        int                  `json:"failed"`
	Collected     decimal.Decimal      `json:"collected"`
}

func (r *CommitResult) Outcome() string {
	switch {
	case r.Failed == 0:
		return OutcomeComplete
	case r.Committed == 0:
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}

type Engine struct {
	ledger   Ledger
	requests RequestCompleter
}

func NewEngine(ledger Ledger, requests RequestCompleter) *Engine {
	return &Engine{ledger: ledger, requests: requests}
}

// Commit writes one transaction per item, in batch order, all with the same
// payment method. Request items are then marked completed. Item failures are
// reported per item and never roll back earlier writes. The batch is cleared
// once every item has been attempted.
func (e *Engine) Commit(ctx context.Context, b *Batch, method models.PaymentMethod) (*CommitResult, error) {
	if b == nil || b.IsEmpty() {
		return nil, status.ErrEmptyBatch
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%q: %w", method, status.ErrInvalidPaymentMethod)
	}

	log := logger.FromContext(ctx).With(
		zap.String("payment_method", string(method)),
		zap.Int("items", b.Len()),
	)

	result := &CommitResult{
		PaymentMethod: method,
		Description:   b.Description(),
		Items:         make([]ItemResult, 0, b.Len()),
		Collected:     decimal.Zero,
	}

	for _, item := range b.Items {
		res := e.commitItem(ctx, log, item, method)
		if res.Committed() {
			result.Committed++
			result.Collected = result.Collected.Add(item.Amount)
		} else {
			result.Failed++
		}
		result.Items = append(result.Items, res)
	}

	b.Clear()

	monitoring.TrackBatchCommit(string(method), result.Outcome())
	log.Info("Batch committed",
		zap.String("outcome", result.Outcome()),
		zap.Int("committed", result.Committed),
		zap.Int("failed", result.Failed),
		zap.String("collected", result.Collected.StringFixed(2)),
	)
	return result, nil
}

func (e *Engine) commitItem(ctx context.Context, log *zap.Logger, item Item, method models.PaymentMethod) ItemResult {
	res := ItemResult{
		ItemID:    item.ID,
		Kind:      item.Kind,
		VendorID:  item.VendorID,
		RequestID: item.RequestID,
		PayerName: item.PayerName,
		Amount:    item.Amount,
	}

	if item.Kind == KindRequest {
		if err := e.checkPending(ctx, item.RequestID); err != nil {
			log.Warn("Skipping batch item, request no longer collectable",
				zap.String("item_id", item.ID),
				zap.String("request_id", item.RequestID),
				zap.Error(err),
			)
			res.Error = err.Error()
			monitoring.TrackBatchItem(string(item.Kind), "stale")
			return res
		}
	}

	tx := &models.Transaction{
		VendorID:      item.VendorID,
		Amount:        item.Amount,
		Description:   models.PayerDescription(item.PayerName),
		PaymentMethod: method,
	}
	if err := e.ledger.Create(ctx, tx); err != nil {
		log.Error("Failed to record batch item",
			zap.String("item_id", item.ID),
			zap.String("vendor_id", item.VendorID),
			zap.Error(err),
		)
		res.Error = err.Error()
		monitoring.TrackBatchItem(string(item.Kind), "failed")
		return res
	}
	res.TransactionID = tx.ID
	monitoring.TrackTransaction(string(method), "batch")

	if item.Kind != KindRequest {
		monitoring.TrackBatchItem(string(item.Kind), "recorded")
		return res
	}

	if err := e.requests.MarkCompleted(ctx, item.RequestID, tx.ID); err != nil {
		log.Warn("Transaction recorded but request not completed",
			zap.String("request_id", item.RequestID),
			zap.String("transaction_id", tx.ID),
			zap.Error(err),
		)
		res.RequestError = err.Error()
		monitoring.TrackBatchItem(string(item.Kind), "request_update_failed")
		return res
	}
	monitoring.TrackRequestTransition(string(models.RequestCompleted))
	monitoring.TrackBatchItem(string(item.Kind), "recorded")
	return res
}

// checkPending fails when the request was cancelled or completed after it was
// put in the batch, so no transaction is written for it.
func (e *Engine) checkPending(ctx context.Context, requestID string) error {
	req, err := e.requests.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != models.RequestPending {
		return fmt.Errorf("request %s is %s: %w", req.ID, req.Status, status.ErrRequestNotPending)
	}
	return nil
}
