package sales

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mmdatafocus/fish_backend/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type fakeAPI struct {
	mu sync.Mutex

	ordersByStatus map[models.OrderStatus][]models.Order
	fish           []models.FishEntry
	totals         models.Totals
	totalsErr      error

	// Calls for blockStatus wait on release after signalling started.
	blockStatus models.OrderStatus
	started     chan struct{}
	release     chan struct{}

	orderQueries  []string
	totalsQueries []string
}

func (f *fakeAPI) ListOrders(ctx context.Context, filter models.SalesFilter) ([]models.Order, error) {
	f.mu.Lock()
	f.orderQueries = append(f.orderQueries, filter.Query().Encode())
	block := f.release != nil && filter.Status == f.blockStatus
	orders := f.ordersByStatus[filter.Status]
	f.mu.Unlock()
	if block {
		f.started <- struct{}{}
		<-f.release
	}
	return orders, nil
}

func (f *fakeAPI) ListFishEntries(ctx context.Context) ([]models.FishEntry, error) {
	return f.fish, nil
}

func (f *fakeAPI) GetTotals(ctx context.Context, filter models.SalesFilter) (models.Totals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalsQueries = append(f.totalsQueries, filter.Query().Encode())
	return f.totals, f.totalsErr
}

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID: 1, CustomerName: "Asha", CustomerPhone: "9876543210",
			PaymentMode: models.PaymentModeUPI, Status: models.OrderStatusResolved, OrderDate: "2024-03-04",
			Items: []models.OrderItem{
				{FishName: "Pomfret", Weight: decimal.NewFromInt(2), Rate: decimal.NewFromInt(500)},
				{FishName: "Rohu", Weight: decimal.NewFromFloat(1.5), Rate: decimal.NewFromInt(120)},
			},
		},
		{
			ID: 2, CustomerName: "Ravi", CustomerPhone: "9123456780",
			PaymentMode: models.PaymentModeCash, Status: models.OrderStatusPending, OrderDate: "2024-03-05",
			Items: []models.OrderItem{
				{FishName: "Surmai", Weight: decimal.NewFromInt(3), Rate: decimal.NewFromInt(900)},
			},
		},
	}
}

func sampleTotals() models.Totals {
	return models.Totals{
		TotalAmount:     decimal.NewFromInt(1520),
		TotalInvestment: decimal.NewFromInt(1000),
		Profit:          decimal.NewFromInt(520),
	}
}

func TestSetFilter_StatusReachesOrdersAndTotals(t *testing.T) {
	api := &fakeAPI{}
	a := NewAggregator(api)

	resolved := models.OrderStatusResolved
	if err := a.SetFilter(context.Background(), models.FilterPatch{Status: &resolved}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if api.orderQueries[0] != "status=Resolved" || api.totalsQueries[0] != "status=Resolved" {
		t.Fatalf("expected status=Resolved on both, got %q and %q", api.orderQueries[0], api.totalsQueries[0])
	}

	empty := models.OrderStatus("")
	if err := a.SetFilter(context.Background(), models.FilterPatch{Status: &empty}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if api.orderQueries[1] != "" || api.totalsQueries[1] != "" {
		t.Fatalf("expected empty queries, got %q and %q", api.orderQueries[1], api.totalsQueries[1])
	}
}

func TestSetFilter_MergesFields(t *testing.T) {
	a := NewAggregator(&fakeAPI{})
	upi := models.PaymentModeUPI
	fish := "Rohu"
	a.SetFilter(context.Background(), models.FilterPatch{PaymentMode: &upi})
	a.SetFilter(context.Background(), models.FilterPatch{FishName: &fish})
	f := a.Filter()
	if f.PaymentMode != upi || f.FishName != fish || f.Status != "" {
		t.Fatalf("unexpected filter %+v", f)
	}
}

func TestRefresh_DropsStaleResponse(t *testing.T) {
	stale := []models.Order{{ID: 1, Status: models.OrderStatusPending}}
	fresh := []models.Order{{ID: 2, Status: models.OrderStatusResolved}}
	api := &fakeAPI{
		ordersByStatus: map[models.OrderStatus][]models.Order{
			models.OrderStatusPending:  stale,
			models.OrderStatusResolved: fresh,
		},
		blockStatus: models.OrderStatusPending,
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	a := NewAggregator(api)

	pending := models.OrderStatusPending
	done := make(chan error)
	go func() {
		done <- a.SetFilter(context.Background(), models.FilterPatch{Status: &pending})
	}()
	<-api.started

	resolved := models.OrderStatusResolved
	if err := a.SetFilter(context.Background(), models.FilterPatch{Status: &resolved}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("SetFilter: %v", err)
	}

	orders := a.Orders()
	if len(orders) != 1 || orders[0].ID != 2 {
		t.Fatalf("expected the newer response to win, got %+v", orders)
	}
}

func TestRefresh_TotalsFailureKeepsOrders(t *testing.T) {
	api := &fakeAPI{
		ordersByStatus: map[models.OrderStatus][]models.Order{"": sampleOrders()},
		totalsErr:      errors.New("down"),
	}
	a := NewAggregator(api)
	if err := a.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if len(a.Orders()) != 2 {
		t.Fatalf("expected orders loaded, got %d", len(a.Orders()))
	}
	if !a.Totals().TotalAmount.IsZero() {
		t.Fatalf("expected zero totals")
	}
}

func TestBadgeClass(t *testing.T) {
	cases := map[models.OrderStatus]string{
		models.OrderStatusPending:  "status-badge pending",
		models.OrderStatusResolved: "status-badge resolved",
		models.OrderStatusCanceled: "status-badge canceled",
		"Shipped":                  "status-badge",
	}
	for status, expected := range cases {
		if got := BadgeClass(status); got != expected {
			t.Fatalf("status %q expected %q, got %q", status, expected, got)
		}
	}
}

func TestRows_RendersItemsInline(t *testing.T) {
	api := &fakeAPI{ordersByStatus: map[models.OrderStatus][]models.Order{"": sampleOrders()}}
	a := NewAggregator(api)
	a.Refresh(context.Background())
	rows := a.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Items[0] != "Pomfret - 2kg @ ₹500/kg" || rows[0].Total != "620.00" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
}

func TestSheetRows_Deterministic(t *testing.T) {
	orders, totals := sampleOrders(), sampleTotals()
	for i := 0; i < 3; i++ {
		rows := SheetRows(orders, totals)
		if len(rows) != len(orders)+2 {
			t.Fatalf("expected %d rows, got %d", len(orders)+2, len(rows))
		}
		if rows[0][6] != "620.00" || rows[1][6] != "900.00" {
			t.Fatalf("expected totals as sum of rates, got %q and %q", rows[0][6], rows[1][6])
		}
		if rows[0][5] != "Pomfret - 2kg @ ₹500/kg, Rohu - 1.5kg @ ₹120/kg" {
			t.Fatalf("unexpected items %q", rows[0][5])
		}
		for _, v := range rows[2] {
			if v != "" {
				t.Fatalf("expected blank separator row, got %v", rows[2])
			}
		}
		last := rows[3]
		if last[0] != "Totals" || last[6] != "₹1520.00" || last[7] != "₹1000.00" || last[8] != "₹520.00" {
			t.Fatalf("unexpected totals row %v", last)
		}
	}
}

func TestWrite_ProducesReadableWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleOrders(), sampleTotals()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if f.GetSheetName(0) != SheetName {
		t.Fatalf("expected sheet %q, got %q", SheetName, f.GetSheetName(0))
	}
	checks := map[string]string{
		"A1": "Date",
		"G1": "Total",
		"B2": "Asha",
		"G3": "900.00",
		"A4": "",
		"A5": "Totals",
		"I5": "₹520.00",
	}
	for cell, expected := range checks {
		got, err := f.GetCellValue(SheetName, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != expected {
			t.Fatalf("cell %s expected %q, got %q", cell, expected, got)
		}
	}
}

func TestExport_DefaultsFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	got, err := Export(path, sampleOrders(), sampleTotals())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got != path {
		t.Fatalf("expected %s, got %s", path, got)
	}
	if ExportFileName != "sales_data.xlsx" {
		t.Fatalf("unexpected default name %s", ExportFileName)
	}
}
