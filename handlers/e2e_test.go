package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/mmdatafocus/fish_backend/apiclient"
	"github.com/mmdatafocus/fish_backend/feedback"
	"github.com/mmdatafocus/fish_backend/inventory"
	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/ordering"
	"github.com/mmdatafocus/fish_backend/sales"
	"github.com/mmdatafocus/fish_backend/views"
)

// TestClientFlow drives the client components against the real handlers.
func TestClientFlow(t *testing.T) {
	srv := httptest.NewServer(newTestRouter())
	defer srv.Close()
	api := apiclient.New(srv.URL + "/api")
	ctx := context.Background()

	router := views.NewRouter()
	rec := &feedback.Recorder{}
	stock := inventory.New(api, rec, router.Proceed)
	if err := stock.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	stock.EditCell(0, inventory.FieldName, "Pomfret")
	stock.EditCell(0, inventory.FieldWeight, "10")
	stock.EditCell(0, inventory.FieldAmount, "3000")
	stock.AddRow()
	stock.EditCell(1, inventory.FieldName, "Rohu")
	stock.EditCell(1, inventory.FieldWeight, "5")
	stock.EditCell(1, inventory.FieldAmount, "400")
	if _, err := stock.Submit(ctx); err != nil {
		t.Fatalf("Submit stock: %v", err)
	}
	if router.Current() != views.ViewOrders || len(router.Entries()) != 2 {
		t.Fatalf("expected hand-off to orders, got %s with %d entries", router.Current(), len(router.Entries()))
	}

	composer := ordering.New(api)
	if err := composer.Load(ctx); err != nil {
		t.Fatalf("Load composer: %v", err)
	}
	if names := composer.FishNames(); len(names) != 2 || names[0] != "Pomfret" {
		t.Fatalf("unexpected fish names %v", names)
	}
	composer.SetCustomerName("Asha")
	composer.SetCustomerPhone("9876543210")
	composer.EditLineItem(0, ordering.ItemFieldFish, "Pomfret")
	composer.EditLineItem(0, ordering.ItemFieldWeight, "2")
	composer.EditLineItem(0, ordering.ItemFieldAmount, "500")
	if err := composer.Submit(ctx); err != nil {
		t.Fatalf("Submit order: %v (%s)", err, composer.ErrorMessage())
	}
	pending := composer.Pending()
	if len(pending) != 1 || pending[0].CustomerName != "Asha" {
		t.Fatalf("unexpected pending %+v", pending)
	}

	// a null weight is rejected by the server with a structured error
	composer.EditLineItem(0, ordering.ItemFieldFish, "Rohu")
	composer.EditLineItem(0, ordering.ItemFieldWeight, "heavy")
	composer.EditLineItem(0, ordering.ItemFieldAmount, "100")
	if err := composer.Submit(ctx); err == nil {
		t.Fatalf("expected server rejection")
	}
	if msg := composer.ErrorMessage(); msg == "" || msg == ordering.MsgSubmitFailed {
		t.Fatalf("expected server error text, got %q", msg)
	}

	if err := composer.Resolve(ctx, pending[0].ID, models.OrderStatusResolved); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(composer.Pending()) != 0 {
		t.Fatalf("expected pending list empty after resolve")
	}

	if !router.ToggleVisualization() {
		t.Fatalf("expected sales view shown")
	}
	agg := sales.NewAggregator(api)
	resolved := models.OrderStatusResolved
	if err := agg.SetFilter(ctx, models.FilterPatch{Status: &resolved}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if len(agg.Orders()) != 1 || len(agg.Fish()) != 2 {
		t.Fatalf("unexpected sales data: %d orders, %d fish", len(agg.Orders()), len(agg.Fish()))
	}
	totals := agg.Totals()
	if totals.TotalAmount.String() != "500" || totals.Profit.String() != "-2900" {
		t.Fatalf("unexpected totals %+v", totals)
	}
	rows := sales.SheetRows(agg.Orders(), totals)
	if len(rows) != 3 || rows[0][6] != "500.00" {
		t.Fatalf("unexpected export rows %v", rows)
	}

	reloaded := inventory.New(api, rec, nil)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := reloaded.DeleteRow(ctx, 0); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	entries, err := api.ListFishEntries(ctx)
	if err != nil {
		t.Fatalf("ListFishEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Rohu" || len(reloaded.Rows()) != 1 {
		t.Fatalf("expected Pomfret removed on both sides, got %+v", entries)
	}
	if rec.Last() != inventory.MsgDeleted {
		t.Fatalf("expected %q, got %q", inventory.MsgDeleted, rec.Last())
	}
}
