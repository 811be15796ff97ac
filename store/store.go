// Package store keeps fish entries and orders for the API server.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/fish_backend/models"
)

// Store is the persistence behind the HTTP handlers.
type Store interface {
	ListFishEntries(ctx context.Context) ([]models.FishEntry, error)
	// AddFishEntries purges stale entries, then inserts every entry whose
	// name is not stored yet. Skipped names are returned in input order.
	AddFishEntries(ctx context.Context, entries []models.NewFishEntry) ([]string, error)
	DeleteFishEntry(ctx context.Context, id int) error
	CreateOrder(ctx context.Context, req models.NewOrderRequest) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.SalesFilter) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error
	Totals(ctx context.Context, filter models.SalesFilter) (models.Totals, error)
}

var ErrInvalidOrder = errors.New("invalid order")

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now for date stamps and the stale cutoff.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return *o
}

// StaleCutoff is the Monday of the previous week. Entries dated before it
// are purged on the next batch insert.
func StaleCutoff(now time.Time) string {
	sinceMonday := (int(now.Weekday()) + 6) % 7
	return now.AddDate(0, 0, -(sinceMonday + 7)).Format(models.DateLayout)
}

// validateOrder rejects items the tables cannot hold.
func validateOrder(req models.NewOrderRequest) error {
	for i, item := range req.FishEntries {
		if !item.Weight.Valid {
			return fmt.Errorf("%w: item %d: weight is required", ErrInvalidOrder, i)
		}
	}
	return nil
}

func newOrder(req models.NewOrderRequest, date string) models.Order {
	items := make([]models.OrderItem, 0, len(req.FishEntries))
	for _, item := range req.FishEntries {
		items = append(items, models.OrderItem{
			FishName: item.Fish,
			Weight:   item.Weight.Decimal,
			Rate:     item.Rate,
		})
	}
	return models.Order{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMode:   req.PaymentMode,
		Status:        req.Status,
		OrderDate:     date,
		Items:         items,
	}
}
