package store

import (
	"context"
	"fmt"

	"market-pos/migrations"
	"market-pos/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type VendorStore struct {
	app core.App
}

func NewVendorStore(app core.App) *VendorStore {
	return &VendorStore{app: app}
}

func (s *VendorStore) List(ctx context.Context) ([]models.Vendor, error) {
	records := []*core.Record{}
	err := s.app.RecordQuery(migrations.VendorsCollection).
		WithContext(ctx).
		OrderBy("name ASC").
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}

	vendors := make([]models.Vendor, 0, len(records))
	for _, r := range records {
		vendors = append(vendors, vendorFromRecord(r))
	}
	return vendors, nil
}

func (s *VendorStore) Get(ctx context.Context, id string) (*models.Vendor, error) {
	record, err := s.findOne(ctx, dbx.HashExp{"id": id})
	if err != nil {
		return nil, wrapFind(migrations.VendorsCollection, id, err)
	}
	v := vendorFromRecord(record)
	return &v, nil
}

func (s *VendorStore) GetByShareToken(ctx context.Context, token string) (*models.Vendor, error) {
	record, err := s.findOne(ctx, dbx.HashExp{"share_token": token})
	if err != nil {
		return nil, wrapFind(migrations.VendorsCollection, "share token", err)
	}
	v := vendorFromRecord(record)
	return &v, nil
}

func (s *VendorStore) Create(ctx context.Context, v *models.Vendor) error {
	collection, err := s.app.FindCachedCollectionByNameOrId(migrations.VendorsCollection)
	if err != nil {
		return err
	}

	record := core.NewRecord(collection)
	setVendorFields(record, v)
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("create vendor: %w", err)
	}

	*v = vendorFromRecord(record)
	return nil
}

func (s *VendorStore) Update(ctx context.Context, v *models.Vendor) error {
	record, err := s.findOne(ctx, dbx.HashExp{"id": v.ID})
	if err != nil {
		return wrapFind(migrations.VendorsCollection, v.ID, err)
	}

	setVendorFields(record, v)
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("update vendor %q: %w", v.ID, err)
	}

	*v = vendorFromRecord(record)
	return nil
}

// Delete removes the vendor. The schema cascades to its transactions and requests.
func (s *VendorStore) Delete(ctx context.Context, id string) error {
	record, err := s.findOne(ctx, dbx.HashExp{"id": id})
	if err != nil {
		return wrapFind(migrations.VendorsCollection, id, err)
	}
	if err := s.app.DeleteWithContext(ctx, record); err != nil {
		return fmt.Errorf("delete vendor %q: %w", id, err)
	}
	return nil
}

func (s *VendorStore) findOne(ctx context.Context, where dbx.Expression) (*core.Record, error) {
	record := &core.Record{}
	err := s.app.RecordQuery(migrations.VendorsCollection).
		WithContext(ctx).
		AndWhere(where).
		Limit(1).
		One(record)
	return record, err
}
