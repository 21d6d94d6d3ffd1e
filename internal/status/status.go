package status

import "errors"

var (
	ErrNotFound             = errors.New("record: record not found")
	ErrInvalidAmount        = errors.New("amount: amount must be greater than zero")
	ErrBlankPayerName       = errors.New("payer: payer name is required")
	ErrBlankVendorName      = errors.New("vendor: vendor name is required")
	ErrVendorRequired       = errors.New("vendor: vendor is required")
	ErrInvalidPaymentMethod = errors.New("payment method: must be one of card, cash, other")
	ErrEmptyBatch           = errors.New("batch: batch is empty")
	ErrItemNotFound         = errors.New("batch: item not found")
	ErrRequestNotPending    = errors.New("payment request: request is not pending")
	ErrInvalidTransition    = errors.New("payment request: status is final")
	ErrInvalidStatus        = errors.New("payment request: unknown status")
	ErrForeignRequest       = errors.New("payment request: request belongs to another vendor")
	ErrInvalidExpression    = errors.New("calculator: input is not a number")
)

// IsNotFound reports whether err names a record or batch item that does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrItemNotFound)
}

// IsValidation reports whether err was caused by caller input rather than a remote failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount,
		ErrBlankPayerName,
		ErrBlankVendorName,
		ErrVendorRequired,
		ErrInvalidPaymentMethod,
		ErrEmptyBatch,
		ErrRequestNotPending,
		ErrInvalidTransition,
		ErrInvalidStatus,
		ErrForeignRequest,
		ErrInvalidExpression,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
