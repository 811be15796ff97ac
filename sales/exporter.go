package sales

import (
	"context"
	"fmt"
	"io"

	"github.com/mmdatafocus/fish_backend/config"
	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName      = "Sales Data"
	ExportFileName = "sales_data.xlsx"
)

var Headers = []string{"Date", "Customer", "Phone", "Payment", "Status", "Items", "Total", "Investment", "Profit"}

// SheetRows lays out the export without the header: one row per order, a
// blank separator, then the totals row. The per-order total is the sum of
// item rates.
func SheetRows(orders []models.Order, totals models.Totals) [][]string {
	rows := make([][]string, 0, len(orders)+2)
	for _, o := range orders {
		rows = append(rows, []string{
			o.OrderDate,
			o.CustomerName,
			o.CustomerPhone,
			string(o.PaymentMode),
			string(o.Status),
			o.ItemsSummary(),
			o.ItemsTotal().StringFixed(2),
			"",
			"",
		})
	}
	rows = append(rows, make([]string, len(Headers)))
	rows = append(rows, []string{
		"Totals", "", "", "", "", "",
		rupees(totals.TotalAmount),
		rupees(totals.TotalInvestment),
		rupees(totals.Profit),
	})
	return rows
}

func rupees(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

// Workbook builds the spreadsheet. The caller closes it.
func Workbook(orders []models.Order, totals models.Totals) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	for i, h := range Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellValue(SheetName, col+"1", h); err != nil {
			f.Close()
			return nil, err
		}
	}

	for r, row := range SheetRows(orders, totals) {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetRowStyle(SheetName, 1, 1, style)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Headers))
	f.SetColWidth(SheetName, "A", lastCol, 15)
	f.SetColWidth(SheetName, "F", "F", 45)
	return f, nil
}

func Write(w io.Writer, orders []models.Order, totals models.Totals) error {
	f, err := Workbook(orders, totals)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Export saves the workbook to path, or to sales_data.xlsx when path is empty.
func Export(path string, orders []models.Order, totals models.Totals) (string, error) {
	if path == "" {
		path = ExportFileName
	}
	f, err := Workbook(orders, totals)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}

// Upload stores the workbook in a GCS bucket under object.
func Upload(ctx context.Context, bucket, object string, orders []models.Order, totals models.Totals) error {
	if bucket == "" {
		return fmt.Errorf("no export bucket configured")
	}
	f, err := Workbook(orders, totals)
	if err != nil {
		return err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}
	if err := utils.UploadBytesToGCS(ctx, bucket, object, buf.Bytes(), utils.XlsxContentType); err != nil {
		config.LogError(config.GetLogger(), moduleName, "Upload", object, bucket, err)
		return err
	}
	return nil
}

// Export writes the currently loaded orders and totals. No request is made.
func (a *Aggregator) Export(path string) (string, error) {
	a.mu.Lock()
	orders, totals := a.orders, a.totals
	a.mu.Unlock()
	return Export(path, orders, totals)
}

// Upload sends the currently loaded data to bucket.
func (a *Aggregator) Upload(ctx context.Context, bucket, object string) error {
	a.mu.Lock()
	orders, totals := a.orders, a.totals
	a.mu.Unlock()
	return Upload(ctx, bucket, object, orders, totals)
}
