package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodOther PaymentMethod = "other"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentMethodCard, PaymentMethodCash, PaymentMethodOther}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodOther:
		return true
	}
	return false
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

type Transaction struct {
	ID            string          `json:"id" db:"id"`
	VendorID      string          `json:"vendor_id" db:"vendor_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Description   string          `json:"description,omitempty" db:"description"`
	PaymentMethod PaymentMethod   `json:"payment_method" db:"payment_method"` // card, cash, other
	Created       time.Time       `json:"created" db:"created"`
	Updated       time.Time       `json:"updated" db:"updated"`
}

// PayerDescription is the description written for transactions created on behalf of a payer.
func PayerDescription(payerName string) string {
	return "Payment from " + payerName
}

// RoundAmount rounds v to cents. ok is false unless the rounded amount is above zero.
func RoundAmount(v decimal.Decimal) (rounded decimal.Decimal, ok bool) {
	rounded = v.Round(2)
	return rounded, rounded.IsPositive()
}
