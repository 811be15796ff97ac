package store

import (
	"context"
	"sync"

	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/utils"
	"github.com/shopspring/decimal"
)

// MemoryStore keeps everything in process. Used when no database is
// configured and by tests.
type MemoryStore struct {
	opts options

	mu          sync.Mutex
	entries     []models.FishEntry
	orders      []models.Order
	nextEntryID int
	nextOrderID int
	nextItemID  int
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		opts:        buildOptions(opts),
		nextEntryID: 1,
		nextOrderID: 1,
		nextItemID:  1,
	}
}

func (s *MemoryStore) ListFishEntries(ctx context.Context) ([]models.FishEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FishEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *MemoryStore) AddFishEntries(ctx context.Context, entries []models.NewFishEntry) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	cutoff := StaleCutoff(now)
	kept := make([]models.FishEntry, 0, len(s.entries)+len(entries))
	for _, e := range s.entries {
		if e.Date >= cutoff {
			kept = append(kept, e)
		}
	}

	duplicates := []string{}
	today := now.Format(models.DateLayout)
	for _, entry := range entries {
		if hasName(kept, entry.Name) {
			duplicates = append(duplicates, entry.Name)
			continue
		}
		kept = append(kept, models.FishEntry{
			ID:     s.nextEntryID,
			Name:   entry.Name,
			Weight: entry.Weight,
			Amount: entry.Amount,
			Date:   today,
		})
		s.nextEntryID++
	}
	s.entries = kept
	return duplicates, nil
}

func hasName(entries []models.FishEntry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

func (s *MemoryStore) DeleteFishEntry(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			next := make([]models.FishEntry, 0, len(s.entries)-1)
			next = append(next, s.entries[:i]...)
			s.entries = append(next, s.entries[i+1:]...)
			return nil
		}
	}
	return utils.ErrorRecordNotFound
}

func (s *MemoryStore) CreateOrder(ctx context.Context, req models.NewOrderRequest) (*models.Order, error) {
	if err := validateOrder(req); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	order := newOrder(req, s.opts.now().Format(models.DateLayout))
	order.ID = s.nextOrderID
	s.nextOrderID++
	for i := range order.Items {
		order.Items[i].ID = s.nextItemID
		order.Items[i].OrderId = order.ID
		s.nextItemID++
	}
	s.orders = append(s.orders, order)
	return &order, nil
}

// ListOrders applies status and payment filters to orders. The fish filter
// keeps only orders selling that fish and trims their items to it.
func (s *MemoryStore) ListOrders(ctx context.Context, filter models.SalesFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterOrders(filter), nil
}

func (s *MemoryStore) filterOrders(filter models.SalesFilter) []models.Order {
	out := []models.Order{}
	for _, o := range s.orders {
		if !filter.Matches(o) {
			continue
		}
		items := make([]models.OrderItem, 0, len(o.Items))
		for _, item := range o.Items {
			if filter.FishName == "" || item.FishName == filter.FishName {
				items = append(items, item)
			}
		}
		if filter.FishName != "" && len(items) == 0 {
			continue
		}
		o.Items = items
		out = append(out, o)
	}
	return out
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return nil
		}
	}
	return utils.ErrorRecordNotFound
}

// Totals sums item rates over the filtered orders. Investment covers every
// stock entry, or only the filtered fish.
func (s *MemoryStore) Totals(ctx context.Context, filter models.SalesFilter) (models.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount := decimal.Zero
	for _, o := range s.filterOrders(filter) {
		amount = amount.Add(o.ItemsTotal())
	}
	investment := decimal.Zero
	for _, e := range s.entries {
		if filter.FishName == "" || e.Name == filter.FishName {
			investment = investment.Add(e.Amount)
		}
	}
	return models.Totals{
		TotalAmount:     amount,
		TotalInvestment: investment,
		Profit:          amount.Sub(investment),
	}, nil
}
