package store

import (
	"context"
	"fmt"

	"market-pos/migrations"
	"market-pos/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

type TransactionStore struct {
	app core.App
}

func NewTransactionStore(app core.App) *TransactionStore {
	return &TransactionStore{app: app}
}

func (s *TransactionStore) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	query := s.app.RecordQuery(migrations.TransactionsCollection).WithContext(ctx)

	if filter.VendorID != "" {
		query = query.AndWhere(dbx.HashExp{"vendor_id": filter.VendorID})
	}
	if filter.PaymentMethod != "" {
		query = query.AndWhere(dbx.HashExp{"payment_method": string(filter.PaymentMethod)})
	}
	if !filter.From.IsZero() {
		query = query.AndWhere(dbx.NewExp("created >= {:from}", dbx.Params{
			"from": filter.From.UTC().Format(types.DefaultDateLayout),
		}))
	}
	if !filter.To.IsZero() {
		query = query.AndWhere(dbx.NewExp("created < {:to}", dbx.Params{
			"to": filter.To.UTC().Format(types.DefaultDateLayout),
		}))
	}

	records := []*core.Record{}
	if err := query.OrderBy("created DESC").All(&records); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		txs = append(txs, transactionFromRecord(r))
	}
	return txs, nil
}

func (s *TransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	record, err := s.findByID(ctx, id)
	if err != nil {
		return nil, wrapFind(migrations.TransactionsCollection, id, err)
	}
	tx := transactionFromRecord(record)
	return &tx, nil
}

func (s *TransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	collection, err := s.app.FindCachedCollectionByNameOrId(migrations.TransactionsCollection)
	if err != nil {
		return err
	}

	record := core.NewRecord(collection)
	setTransactionFields(record, tx)
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	*tx = transactionFromRecord(record)
	return nil
}

func (s *TransactionStore) Update(ctx context.Context, tx *models.Transaction) error {
	record, err := s.findByID(ctx, tx.ID)
	if err != nil {
		return wrapFind(migrations.TransactionsCollection, tx.ID, err)
	}

	setTransactionFields(record, tx)
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("update transaction %q: %w", tx.ID, err)
	}

	*tx = transactionFromRecord(record)
	return nil
}

// Delete removes the transaction. Requests that referenced it keep their row with the reference unset.
func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	record, err := s.findByID(ctx, id)
	if err != nil {
		return wrapFind(migrations.TransactionsCollection, id, err)
	}
	if err := s.app.DeleteWithContext(ctx, record); err != nil {
		return fmt.Errorf("delete transaction %q: %w", id, err)
	}
	return nil
}

func (s *TransactionStore) findByID(ctx context.Context, id string) (*core.Record, error) {
	record := &core.Record{}
	err := s.app.RecordQuery(migrations.TransactionsCollection).
		WithContext(ctx).
		AndWhere(dbx.HashExp{"id": id}).
		Limit(1).
		One(record)
	return record, err
}
