// Package sales loads orders and totals under a filter and exports them.
package sales

import (
	"context"
	"errors"
	"sync"

	"github.com/mmdatafocus/fish_backend/config"
	"github.com/mmdatafocus/fish_backend/models"
	"github.com/sirupsen/logrus"
)

const moduleName = "sales"

// API is the part of the remote store the sales view needs.
type API interface {
	ListOrders(ctx context.Context, filter models.SalesFilter) ([]models.Order, error)
	ListFishEntries(ctx context.Context) ([]models.FishEntry, error)
	GetTotals(ctx context.Context, filter models.SalesFilter) (models.Totals, error)
}

// Aggregator holds the last loaded orders, fish options and totals.
// Every refresh is stamped with a sequence number; a response that arrives
// after a newer refresh was issued is dropped.
type Aggregator struct {
	api    API
	logger *logrus.Logger

	mu     sync.Mutex
	seq    uint64
	filter models.SalesFilter
	orders []models.Order
	fish   []models.FishEntry
	totals models.Totals
}

func NewAggregator(api API) *Aggregator {
	return &Aggregator{
		api:    api,
		logger: config.GetLogger(),
	}
}

func (a *Aggregator) Filter() models.SalesFilter {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter
}

func (a *Aggregator) Orders() []models.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.orders
}

// Fish is the unfiltered stock list used for the fish filter options.
func (a *Aggregator) Fish() []models.FishEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fish
}

func (a *Aggregator) Totals() models.Totals {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals
}

// SetFilter merges patch into the filter and refetches.
func (a *Aggregator) SetFilter(ctx context.Context, patch models.FilterPatch) error {
	a.mu.Lock()
	a.filter = a.filter.Merge(patch)
	a.mu.Unlock()
	return a.Refresh(ctx)
}

// Refresh issues the three fetches for the current filter side by side.
// Failures are logged and leave the previous data in place.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	a.seq++
	seq := a.seq
	filter := a.filter
	a.mu.Unlock()

	var wg sync.WaitGroup
	var ordersErr, fishErr, totalsErr error
	wg.Add(3)
	go func() {
		defer wg.Done()
		orders, err := a.api.ListOrders(ctx, filter)
		if err != nil {
			ordersErr = err
			config.LogError(a.logger, moduleName, "Refresh", "ListOrders", filter, err)
			return
		}
		a.apply(seq, func() { a.orders = orders })
	}()
	go func() {
		defer wg.Done()
		fish, err := a.api.ListFishEntries(ctx)
		if err != nil {
			fishErr = err
			config.LogError(a.logger, moduleName, "Refresh", "ListFishEntries", nil, err)
			return
		}
		a.apply(seq, func() { a.fish = fish })
	}()
	go func() {
		defer wg.Done()
		totals, err := a.api.GetTotals(ctx, filter)
		if err != nil {
			totalsErr = err
			config.LogError(a.logger, moduleName, "Refresh", "GetTotals", filter, err)
			return
		}
		a.apply(seq, func() { a.totals = totals })
	}()
	wg.Wait()
	return errors.Join(ordersErr, fishErr, totalsErr)
}

func (a *Aggregator) apply(seq uint64, set func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if seq != a.seq {
		a.logger.WithFields(logrus.Fields{
			"module": moduleName,
			"seq":    seq,
			"latest": a.seq,
		}).Debug("dropping stale response")
		return
	}
	set()
}

// Row is one rendered line of the sales table.
type Row struct {
	Order      models.Order
	Items      []string
	Total      string
	BadgeClass string
}

// Rows renders the loaded orders with their items inline.
func (a *Aggregator) Rows() []Row {
	orders := a.Orders()
	rows := make([]Row, 0, len(orders))
	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, item.Describe())
		}
		rows = append(rows, Row{
			Order:      o,
			Items:      items,
			Total:      o.ItemsTotal().StringFixed(2),
			BadgeClass: BadgeClass(o.Status),
		})
	}
	return rows
}

// BadgeClass maps a status to its badge class; unknown values get the base class.
func BadgeClass(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusResolved:
		return "status-badge resolved"
	case models.OrderStatusPending:
		return "status-badge pending"
	case models.OrderStatusCanceled:
		return "status-badge canceled"
	default:
		return "status-badge"
	}
}
