package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

const (
	VendorsCollection         = "vendors"
	TransactionsCollection    = "transactions"
	PaymentRequestsCollection = "payment_requests"

	vendorsCollectionID         = "pbc_3107255710"
	transactionsCollectionID    = "pbc_2834911627"
	paymentRequestsCollectionID = "pbc_1489363055"
)

// API rules stay nil (superusers only). Operator and public access goes through the custom routes.

func vendorsCollection() *core.Collection {
	c := core.NewBaseCollection(VendorsCollection, vendorsCollectionID)
	c.Fields.Add(
		&core.TextField{Name: "name", Required: true, Max: 120, Presentable: true},
		&core.TextField{Name: "description", Max: 1000},
		&core.TextField{Name: "contact_name", Max: 120},
		&core.TextField{Name: "phone", Max: 40},
		&core.EmailField{Name: "email"},
		&core.TextField{Name: "share_token", Required: true, Min: 32, Max: 64, Pattern: "^[0-9a-f]+$"},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	c.AddIndex("idx_vendors_share_token", true, "share_token", "")
	return c
}

func transactionsCollection() *core.Collection {
	c := core.NewBaseCollection(TransactionsCollection, transactionsCollectionID)
	c.Fields.Add(
		&core.RelationField{
			Name:          "vendor_id",
			Required:      true,
			CollectionId:  vendorsCollectionID,
			CascadeDelete: true,
			MaxSelect:     1,
		},
		&core.NumberField{Name: "amount", Required: true, Min: types.Pointer(0.01)},
		&core.TextField{Name: "description", Max: 500},
		&core.SelectField{
			Name:      "payment_method",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"card", "cash", "other"},
		},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	c.AddIndex("idx_transactions_vendor", false, "vendor_id", "")
	c.AddIndex("idx_transactions_created", false, "created", "")
	return c
}

func paymentRequestsCollection() *core.Collection {
	c := core.NewBaseCollection(PaymentRequestsCollection, paymentRequestsCollectionID)
	c.Fields.Add(
		&core.RelationField{
			Name:          "vendor_id",
			Required:      true,
			CollectionId:  vendorsCollectionID,
			CascadeDelete: true,
			MaxSelect:     1,
		},
		&core.NumberField{Name: "amount", Required: true, Min: types.Pointer(0.01)},
		&core.TextField{Name: "payer_name", Required: true, Max: 120},
		&core.SelectField{
			Name:      "status",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"pending", "completed", "cancelled"},
		},
		// Optional and non-cascading, so deleting the transaction unsets the reference.
		&core.RelationField{
			Name:         "processed_transaction_id",
			CollectionId: transactionsCollectionID,
			MaxSelect:    1,
		},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	c.AddIndex("idx_payment_requests_vendor_status", false, "vendor_id, status", "")
	return c
}

// posCollections returns the collections in dependency order.
func posCollections() []*core.Collection {
	return []*core.Collection{
		vendorsCollection(),
		transactionsCollection(),
		paymentRequestsCollection(),
	}
}
