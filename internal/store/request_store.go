package store

import (
	"context"
	"fmt"

	"market-pos/internal/status"
	"market-pos/migrations"
	"market-pos/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type RequestStore struct {
	app core.App
}

func NewRequestStore(app core.App) *RequestStore {
	return &RequestStore{app: app}
}

func (s *RequestStore) List(ctx context.Context, filter RequestFilter) ([]models.PaymentRequest, error) {
	query := s.app.RecordQuery(migrations.PaymentRequestsCollection).WithContext(ctx)

	if filter.VendorID != "" {
		query = query.AndWhere(dbx.HashExp{"vendor_id": filter.VendorID})
	}
	if filter.Status != "" {
		query = query.AndWhere(dbx.HashExp{"status": string(filter.Status)})
	}

	records := []*core.Record{}
	if err := query.OrderBy("created DESC").All(&records); err != nil {
		return nil, fmt.Errorf("list payment requests: %w", err)
	}

	requests := make([]models.PaymentRequest, 0, len(records))
	for _, r := range records {
		requests = append(requests, requestFromRecord(r))
	}
	return requests, nil
}

func (s *RequestStore) Get(ctx context.Context, id string) (*models.PaymentRequest, error) {
	record, err := findRequest(ctx, s.app, id)
	if err != nil {
		return nil, wrapFind(migrations.PaymentRequestsCollection, id, err)
	}
	req := requestFromRecord(record)
	return &req, nil
}

// Create stores a new request. Submissions always start pending with no back-reference.
func (s *RequestStore) Create(ctx context.Context, req *models.PaymentRequest) error {
	collection, err := s.app.FindCachedCollectionByNameOrId(migrations.PaymentRequestsCollection)
	if err != nil {
		return err
	}

	record := core.NewRecord(collection)
	record.Set("vendor_id", req.VendorID)
	record.Set("amount", req.Amount.Round(2).InexactFloat64())
	record.Set("payer_name", req.PayerName)
	record.Set("status", string(models.RequestPending))
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("create payment request: %w", err)
	}

	*req = requestFromRecord(record)
	return nil
}

func (s *RequestStore) Cancel(ctx context.Context, id string) (*models.PaymentRequest, error) {
	var cancelled models.PaymentRequest
	err := s.app.RunInTransaction(func(txApp core.App) error {
		record, err := findRequest(ctx, txApp, id)
		if err != nil {
			return wrapFind(migrations.PaymentRequestsCollection, id, err)
		}
		if models.RequestStatus(record.GetString("status")).IsTerminal() {
			return status.ErrInvalidTransition
		}

		record.Set("status", string(models.RequestCancelled))
		if err := txApp.SaveWithContext(ctx, record); err != nil {
			return fmt.Errorf("cancel payment request %q: %w", id, err)
		}
		cancelled = requestFromRecord(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

func (s *RequestStore) MarkCompleted(ctx context.Context, id, transactionID string) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		record, err := findRequest(ctx, txApp, id)
		if err != nil {
			return wrapFind(migrations.PaymentRequestsCollection, id, err)
		}
		if models.RequestStatus(record.GetString("status")) != models.RequestPending {
			return status.ErrRequestNotPending
		}

		record.Set("status", string(models.RequestCompleted))
		record.Set("processed_transaction_id", transactionID)
		if err := txApp.SaveWithContext(ctx, record); err != nil {
			return fmt.Errorf("complete payment request %q: %w", id, err)
		}
		return nil
	})
}

func findRequest(ctx context.Context, app core.App, id string) (*core.Record, error) {
	record := &core.Record{}
	err := app.RecordQuery(migrations.PaymentRequestsCollection).
		WithContext(ctx).
		AndWhere(dbx.HashExp{"id": id}).
		Limit(1).
		One(record)
	return record, err
}
