package store

import (
	"database/sql"
	"errors"
	"fmt"

	"market-pos/internal/status"
	"market-pos/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

func amountFromRecord(r *core.Record) decimal.Decimal {
	return decimal.NewFromFloat(r.GetFloat("amount")).Round(2)
}

func vendorFromRecord(r *core.Record) models.Vendor {
	return models.Vendor{
		ID:          r.Id,
		Name:        r.GetString("name"),
		Description: r.GetString("description"),
		ContactName: r.GetString("contact_name"),
		Phone:       r.GetString("phone"),
		Email:       r.GetString("email"),
		ShareToken:  r.GetString("share_token"),
		Created:     r.GetDateTime("created").Time(),
		Updated:     r.GetDateTime("updated").Time(),
	}
}

func setVendorFields(r *core.Record, v *models.Vendor) {
	r.Set("name", v.Name)
	r.Set("description", v.Description)
	r.Set("contact_name", v.ContactName)
	r.Set("phone", v.Phone)
	r.Set("email", v.Email)
	r.Set("share_token", v.ShareToken)
}

func transactionFromRecord(r *core.Record) models.Transaction {
	return models.Transaction{
		ID:            r.Id,
		VendorID:      r.GetString("vendor_id"),
		Amount:        amountFromRecord(r),
		Description:   r.GetString("description"),
		PaymentMethod: models.PaymentMethod(r.GetString("payment_method")),
		Created:       r.GetDateTime("created").Time(),
		Updated:       r.GetDateTime("updated").Time(),
	}
}

func setTransactionFields(r *core.Record, tx *models.Transaction) {
	r.Set("vendor_id", tx.VendorID)
	r.Set("amount", tx.Amount.Round(2).InexactFloat64())
	r.Set("description", tx.Description)
	r.Set("payment_method", string(tx.PaymentMethod))
}

func requestFromRecord(r *core.Record) models.PaymentRequest {
	return models.PaymentRequest{
		ID:                     r.Id,
		VendorID:               r.GetString("vendor_id"),
		Amount:                 amountFromRecord(r),
		PayerName:              r.GetString("payer_name"),
		Status:                 models.RequestStatus(r.GetString("status")),
		ProcessedTransactionID: r.GetString("processed_transaction_id"),
		Created:                r.GetDateTime("created").Time(),
		Updated:                r.GetDateTime("updated").Time(),
	}
}

// wrapFind maps the driver's no-rows error to status.ErrNotFound.
func wrapFind(collection, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", collection, id, status.ErrNotFound)
	}
	return fmt.Errorf("find %s %q: %w", collection, id, err)
}
