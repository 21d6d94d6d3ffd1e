package services

import (
	"context"
	"fmt"
	"strings"

	"market-pos/internal/status"
	"market-pos/internal/store"
	"market-pos/logger"
	"market-pos/models"
	"market-pos/monitoring"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TransactionInput struct {
	VendorID      string          `json:"vendor_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" validate:"max=500"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

type TransactionService struct {
	transactions store.TransactionRepository
	vendors      store.VendorRepository
}

func NewTransactionService(transactions store.TransactionRepository, vendors store.VendorRepository) *TransactionService {
	return &TransactionService{transactions: transactions, vendors: vendors}
}

func (s *TransactionService) List(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
	if filter.PaymentMethod != "" && !filter.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%q: %w", filter.PaymentMethod, status.ErrInvalidPaymentMethod)
	}
	return s.transactions.List(ctx, filter)
}

func (s *TransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.transactions.Get(ctx, id)
}

// Create records a payment taken directly by the operator.
func (s *TransactionService) Create(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	tx := &models.Transaction{}
	if err := s.apply(ctx, tx, in); err != nil {
		return nil, err
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		logger.FromContext(ctx).Error("Failed to record transaction",
			zap.String("vendor_id", tx.VendorID),
			zap.Error(err),
		)
		return nil, err
	}
	monitoring.TrackTransaction(string(tx.PaymentMethod), "manual")
	return tx, nil
}

func (s *TransactionService) Update(ctx context.Context, id string, in TransactionInput) (*models.Transaction, error) {
	tx, err := s.transactions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, tx, in); err != nil {
		return nil, err
	}
	if err := s.transactions.Update(ctx, tx); err != nil {
		logger.FromContext(ctx).Error("Failed to update transaction", zap.String("transaction_id", id), zap.Error(err))
		return nil, err
	}
	return tx, nil
}

// Delete removes a transaction. Requests that referenced it keep their status
// while the datastore clears processed_transaction_id.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	return s.transactions.Delete(ctx, id)
}

func (s *TransactionService) apply(ctx context.Context, tx *models.Transaction, in TransactionInput) error {
	if in.VendorID == "" {
		return status.ErrVendorRequired
	}
	amount, ok := models.RoundAmount(in.Amount)
	if !ok {
		return status.ErrInvalidAmount
	}
	method, err := models.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return fmt.Errorf("%w: %v", status.ErrInvalidPaymentMethod, err)
	}
	if _, err := s.vendors.Get(ctx, in.VendorID); err != nil {
		return err
	}

	tx.VendorID = in.VendorID
	tx.Amount = amount
	tx.Description = strings.TrimSpace(in.Description)
	tx.PaymentMethod = method
	return nil
}
