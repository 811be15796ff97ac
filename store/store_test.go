package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/utils"
	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t.Add(10 * time.Hour)
}

func TestStaleCutoff(t *testing.T) {
	cases := []struct {
		today    string
		expected string
	}{
		{"2024-03-04", "2024-02-26"}, // Monday
		{"2024-03-06", "2024-02-26"}, // Wednesday
		{"2024-03-10", "2024-02-26"}, // Sunday
		{"2024-03-11", "2024-03-04"},
	}
	for _, tc := range cases {
		if got := StaleCutoff(day(tc.today)); got != tc.expected {
			t.Fatalf("today %s expected %s, got %s", tc.today, tc.expected, got)
		}
	}
}

func entry(name string, weight, amount int64) models.NewFishEntry {
	return models.NewFishEntry{Name: name, Weight: decimal.NewFromInt(weight), Amount: decimal.NewFromInt(amount)}
}

func TestAddFishEntries_SkipsDuplicatesAndPurgesStale(t *testing.T) {
	now := day("2024-02-20")
	s := NewMemoryStore(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	dups, err := s.AddFishEntries(ctx, []models.NewFishEntry{entry("Pomfret", 10, 5000)})
	if err != nil || len(dups) != 0 {
		t.Fatalf("expected clean insert, got %v %v", dups, err)
	}

	dups, _ = s.AddFishEntries(ctx, []models.NewFishEntry{entry("Pomfret", 1, 1), entry("Rohu", 4, 800)})
	if len(dups) != 1 || dups[0] != "Pomfret" {
		t.Fatalf("expected Pomfret skipped, got %v", dups)
	}
	entries, _ := s.ListFishEntries(ctx)
	if len(entries) != 2 || !entries[0].Weight.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected original Pomfret kept, got %+v", entries)
	}

	now = day("2024-03-06")
	dups, _ = s.AddFishEntries(ctx, []models.NewFishEntry{entry("Pomfret", 3, 900)})
	if len(dups) != 0 {
		t.Fatalf("expected stale Pomfret purged before insert, got %v", dups)
	}
	entries, _ = s.ListFishEntries(ctx)
	if len(entries) != 1 || entries[0].Date != "2024-03-06" || entries[0].ID != 3 {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestDeleteFishEntry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.AddFishEntries(ctx, []models.NewFishEntry{entry("Pomfret", 1, 1), entry("Rohu", 1, 1)})
	if err := s.DeleteFishEntry(ctx, 1); err != nil {
		t.Fatalf("DeleteFishEntry: %v", err)
	}
	if err := s.DeleteFishEntry(ctx, 1); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	entries, _ := s.ListFishEntries(ctx)
	if len(entries) != 1 || entries[0].Name != "Rohu" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func item(fish string, weight, rate int64) models.NewOrderItem {
	return models.NewOrderItem{Fish: fish, Weight: decimal.NewNullDecimal(decimal.NewFromInt(weight)), Rate: decimal.NewFromInt(rate)}
}

func seedOrders(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	s.AddFishEntries(ctx, []models.NewFishEntry{entry("Pomfret", 10, 3000), entry("Rohu", 5, 400)})
	reqs := []models.NewOrderRequest{
		{CustomerName: "Asha", PaymentMode: models.PaymentModeUPI, Status: models.OrderStatusPending,
			FishEntries: []models.NewOrderItem{item("Pomfret", 2, 500), item("Rohu", 1, 120)}},
		{CustomerName: "Ravi", PaymentMode: models.PaymentModeCash, Status: models.OrderStatusPending,
			FishEntries: []models.NewOrderItem{item("Rohu", 2, 240)}},
		{CustomerName: "Meena", PaymentMode: models.PaymentModeCash, Status: models.OrderStatusPending,
			FishEntries: []models.NewOrderItem{item("Pomfret", 1, 250)}},
	}
	for _, req := range reqs {
		if _, err := s.CreateOrder(ctx, req); err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
	}
	if err := s.UpdateOrderStatus(ctx, 3, models.OrderStatusResolved); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
}

func TestListOrders_Filters(t *testing.T) {
	s := NewMemoryStore()
	seedOrders(t, s)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter models.SalesFilter
		ids    []int
	}{
		{"all", models.SalesFilter{}, []int{1, 2, 3}},
		{"pending", models.SalesFilter{Status: models.OrderStatusPending}, []int{1, 2}},
		{"cash resolved", models.SalesFilter{Status: models.OrderStatusResolved, PaymentMode: models.PaymentModeCash}, []int{3}},
		{"fish", models.SalesFilter{FishName: "Pomfret"}, []int{1, 3}},
		{"unknown fish", models.SalesFilter{FishName: "Hilsa"}, []int{}},
	}
	for _, tc := range cases {
		orders, err := s.ListOrders(ctx, tc.filter)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(orders) != len(tc.ids) {
			t.Fatalf("%s: expected %d orders, got %d", tc.name, len(tc.ids), len(orders))
		}
		for i, id := range tc.ids {
			if orders[i].ID != id {
				t.Fatalf("%s: expected order %d at %d, got %d", tc.name, id, i, orders[i].ID)
			}
		}
	}

	orders, _ := s.ListOrders(ctx, models.SalesFilter{FishName: "Pomfret"})
	if len(orders[0].Items) != 1 || orders[0].Items[0].FishName != "Pomfret" {
		t.Fatalf("expected items narrowed to Pomfret, got %+v", orders[0].Items)
	}
	all, _ := s.ListOrders(ctx, models.SalesFilter{})
	if len(all[0].Items) != 2 {
		t.Fatalf("expected stored items untouched, got %+v", all[0].Items)
	}
}

func TestTotals(t *testing.T) {
	s := NewCachedStore(NewMemoryStore())
	seedOrders(t, s)
	ctx := context.Background()

	cases := []struct {
		filter                     models.SalesFilter
		amount, investment, profit string
	}{
		{models.SalesFilter{}, "1110", "3400", "-2290"},
		{models.SalesFilter{FishName: "Pomfret"}, "750", "3000", "-2250"},
		{models.SalesFilter{Status: models.OrderStatusPending, FishName: "Rohu"}, "360", "400", "-40"},
		{models.SalesFilter{Status: models.OrderStatusCanceled}, "0", "3400", "-3400"},
	}
	for _, tc := range cases {
		totals, err := s.Totals(ctx, tc.filter)
		if err != nil {
			t.Fatalf("Totals: %v", err)
		}
		if totals.TotalAmount.String() != tc.amount || totals.TotalInvestment.String() != tc.investment || totals.Profit.String() != tc.profit {
			t.Fatalf("filter %+v expected %s/%s/%s, got %s/%s/%s", tc.filter,
				tc.amount, tc.investment, tc.profit,
				totals.TotalAmount, totals.TotalInvestment, totals.Profit)
		}
	}
}

func TestCreateOrder_RejectsMissingWeight(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.CreateOrder(context.Background(), models.NewOrderRequest{
		FishEntries: []models.NewOrderItem{{Fish: "Pomfret", Rate: decimal.NewFromInt(500)}},
	})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
	if err := s.UpdateOrderStatus(context.Background(), 9, models.OrderStatusResolved); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
