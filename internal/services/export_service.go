package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"market-pos/internal/store"
	"market-pos/models"

	"github.com/xuri/excelize/v2"
)

const (
	TransactionsSheet = "Transactions"
	SummarySheet      = "Summary"
)

var transactionHeaders = []string{"Date", "Vendor", "Method", "Amount", "Description"}

type ExportService struct {
	transactions store.TransactionRepository
	vendors      store.VendorRepository
}

func NewExportService(transactions store.TransactionRepository, vendors store.VendorRepository) *ExportService {
	return &ExportService{transactions: transactions, vendors: vendors}
}

// WriteWorkbook streams an .xlsx of the filtered ledger to w.
func (s *ExportService) WriteWorkbook(ctx context.Context, filter store.TransactionFilter, w io.Writer) error {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return err
	}
	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return err
	}

	f, err := BuildWorkbook(txs, vendors)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func BuildWorkbook(txs []models.Transaction, vendors []models.Vendor) (*excelize.File, error) {
	names := make(map[string]string, len(vendors))
	for _, v := range vendors {
		names[v.ID] = v.Name
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", TransactionsSheet); err != nil {
		return nil, err
	}

	for col, header := range transactionHeaders {
		if err := setCell(f, TransactionsSheet, col+1, 1, header); err != nil {
			return nil, err
		}
	}

	for i, tx := range txs {
		row := i + 2
		values := []any{
			tx.Created.UTC().Format(time.DateTime),
			names[tx.VendorID],
			string(tx.PaymentMethod),
			tx.Amount.InexactFloat64(),
			tx.Description,
		}
		for col, value := range values {
			if err := setCell(f, TransactionsSheet, col+1, row, value); err != nil {
				return nil, err
			}
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	if err := setCell(f, SummarySheet, 1, 1, "Method"); err != nil {
		return nil, err
	}
	if err := setCell(f, SummarySheet, 2, 1, "Count"); err != nil {
		return nil, err
	}
	if err := setCell(f, SummarySheet, 3, 1, "Amount"); err != nil {
		return nil, err
	}

	totals := MethodTotals(txs)
	row := 2
	for _, mt := range totals {
		for col, value := range []any{string(mt.Method), mt.Count, mt.Amount.InexactFloat64()} {
			if err := setCell(f, SummarySheet, col+1, row, value); err != nil {
				return nil, err
			}
		}
		row++
	}

	summary := Summarize(txs, vendors, nil)
	for col, value := range []any{"Total", summary.Count, summary.Total.InexactFloat64()} {
		if err := setCell(f, SummarySheet, col+1, row, value); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
