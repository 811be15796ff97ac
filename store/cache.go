package store

import (
	"context"
	"fmt"
	"time"

	"github.com/mmdatafocus/fish_backend/config"
	"github.com/mmdatafocus/fish_backend/models"
)

const (
	totalsGenerationKey = "fish:totals:gen"
	totalsCacheTTL      = 10 * time.Minute
)

// CachedStore caches Totals in Redis. Every write bumps a generation
// counter, which retires all cached totals at once. Without Redis it is a
// plain pass-through.
type CachedStore struct {
	Store
}

func NewCachedStore(s Store) *CachedStore {
	return &CachedStore{Store: s}
}

func totalsKey(gen string, filter models.SalesFilter) string {
	return fmt.Sprintf("fish:totals:%s:%s", gen, filter.Query().Encode())
}

func (s *CachedStore) bump(ctx context.Context) {
	if _, err := config.GetRedisCounter(ctx, totalsGenerationKey); err != nil {
		config.LogError(config.GetLogger(), "store", "bump", "GetRedisCounter", totalsGenerationKey, err)
	}
}

func (s *CachedStore) Totals(ctx context.Context, filter models.SalesFilter) (models.Totals, error) {
	if config.GetRedisDB() == nil {
		return s.Store.Totals(ctx, filter)
	}
	logger := config.GetLogger()
	gen, _, err := config.GetRedisValue(ctx, totalsGenerationKey)
	if err != nil {
		config.LogError(logger, "store", "Totals", "GetRedisValue", totalsGenerationKey, err)
		return s.Store.Totals(ctx, filter)
	}
	key := totalsKey(gen, filter)

	var cached models.TotalsResponse
	if ok, err := config.GetRedisObject(ctx, key, &cached); err == nil && ok {
		return cached.Totals(), nil
	}

	totals, err := s.Store.Totals(ctx, filter)
	if err != nil {
		return totals, err
	}
	if err := config.SetRedisObject(ctx, key, totals.Response(), totalsCacheTTL); err != nil {
		config.LogError(logger, "store", "Totals", "SetRedisObject", key, err)
	}
	return totals, nil
}

func (s *CachedStore) AddFishEntries(ctx context.Context, entries []models.NewFishEntry) ([]string, error) {
	dups, err := s.Store.AddFishEntries(ctx, entries)
	if err == nil {
		s.bump(ctx)
	}
	return dups, err
}

func (s *CachedStore) DeleteFishEntry(ctx context.Context, id int) error {
	err := s.Store.DeleteFishEntry(ctx, id)
	if err == nil {
		s.bump(ctx)
	}
	return err
}

func (s *CachedStore) CreateOrder(ctx context.Context, req models.NewOrderRequest) (*models.Order, error) {
	order, err := s.Store.CreateOrder(ctx, req)
	if err == nil {
		s.bump(ctx)
	}
	return order, err
}

func (s *CachedStore) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error {
	err := s.Store.UpdateOrderStatus(ctx, id, status)
	if err == nil {
		s.bump(ctx)
	}
	return err
}
