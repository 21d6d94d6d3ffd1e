package services

import (
	"bytes"
	"context"
	"testing"

	"market-pos/internal/store"
	"market-pos/internal/store/storetest"
	"market-pos/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_WriteWorkbook(t *testing.T) {
	mem := storetest.NewMemory()
	v := mem.SeedVendor(models.Vendor{Name: "Fresh Greens"})
	mem.SeedTransaction(models.Transaction{VendorID: v.ID, Amount: amount("12.50"), PaymentMethod: models.PaymentMethodCash, Description: "Payment from Alice"})
	mem.SeedTransaction(models.Transaction{VendorID: v.ID, Amount: amount("7.25"), PaymentMethod: models.PaymentMethodCash})

	var buf bytes.Buffer
	svc := NewExportService(mem.Transactions(), mem.Vendors())
	require.NoError(t, svc.WriteWorkbook(context.Background(), store.TransactionFilter{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(TransactionsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)

	vendor, err := f.GetCellValue(TransactionsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Greens", vendor)

	method, _ := f.GetCellValue(SummarySheet, "A3")
	assert.Equal(t, "cash", method)
	cashCount, _ := f.GetCellValue(SummarySheet, "B3")
	assert.Equal(t, "2", cashCount)

	label, _ := f.GetCellValue(SummarySheet, "A5")
	assert.Equal(t, "Total", label)
	total, _ := f.GetCellValue(SummarySheet, "C5")
	assert.Equal(t, "19.75", total)
}

func TestBuildWorkbook_Empty(t *testing.T) {
	f, err := BuildWorkbook(nil, nil)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TransactionsSheet, SummarySheet}, f.GetSheetList())
	rows, err := f.GetRows(TransactionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
