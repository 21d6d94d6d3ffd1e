package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"market-pos/internal/services"
	"market-pos/internal/store"
	"market-pos/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TransactionHandler struct {
	transactions *services.TransactionService
	export       *services.ExportService
}

func NewTransactionHandler(transactions *services.TransactionService, export *services.ExportService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, export: export}
}

func (h *TransactionHandler) List(e *core.RequestEvent) error {
	filter, err := transactionFilter(e.Request.URL.Query())
	if err != nil {
		return apis.NewBadRequestError(err.Error(), nil)
	}

	txs, err := h.transactions.List(e.Request.Context(), filter)
	if err != nil {
		return apiError(e, "list transactions", err)
	}
	return e.JSON(http.StatusOK, txs)
}

func (h *TransactionHandler) Get(e *core.RequestEvent) error {
	tx, err := h.transactions.Get(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(e, "get transaction", err)
	}
	return e.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) Create(e *core.RequestEvent) error {
	var in services.TransactionInput
	if err := bindAndValidate(e, &in); err != nil {
		return err
	}

	tx, err := h.transactions.Create(e.Request.Context(), in)
	if err != nil {
		return apiError(e, "create transaction", err)
	}
	return e.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) Update(e *core.RequestEvent) error {
	var in services.TransactionInput
	if err := bindAndValidate(e, &in); err != nil {
		return err
	}

	tx, err := h.transactions.Update(e.Request.Context(), e.Request.PathValue("id"), in)
	if err != nil {
		return apiError(e, "update transaction", err)
	}
	return e.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) Delete(e *core.RequestEvent) error {
	if err := h.transactions.Delete(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return apiError(e, "delete transaction", err)
	}
	return e.NoContent(http.StatusNoContent)
}

// Export responds with the filtered ledger as an .xlsx workbook.
func (h *TransactionHandler) Export(e *core.RequestEvent) error {
	filter, err := transactionFilter(e.Request.URL.Query())
	if err != nil {
		return apis.NewBadRequestError(err.Error(), nil)
	}

	var buf bytes.Buffer
	if err := h.export.WriteWorkbook(e.Request.Context(), filter, &buf); err != nil {
		return apiError(e, "export transactions", err)
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().UTC().Format("20060102"))
	e.Response.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return e.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func transactionFilter(q url.Values) (store.TransactionFilter, error) {
	filter := store.TransactionFilter{
		VendorID:      q.Get("vendor_id"),
		PaymentMethod: models.PaymentMethod(q.Get("payment_method")),
	}

	var err error
	if filter.From, err = parseTime(q.Get("from")); err != nil {
		return filter, fmt.Errorf("from: %w", err)
	}
	if filter.To, err = parseTime(q.Get("to")); err != nil {
		return filter, fmt.Errorf("to: %w", err)
	}
	return filter, nil
}

// parseTime accepts RFC 3339 timestamps or plain dates.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", s)
	}
	return t, nil
}
