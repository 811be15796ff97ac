package store

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStore keeps data in MySQL through gorm.
type GormStore struct {
	db   *gorm.DB
	opts options
}

func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	return &GormStore{db: db, opts: buildOptions(opts)}
}

// Migrate creates or updates the three tables.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&models.FishEntry{}, &models.Order{}, &models.OrderItem{})
}

func (s *GormStore) ListFishEntries(ctx context.Context) ([]models.FishEntry, error) {
	var entries []models.FishEntry
	if err := s.db.WithContext(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) AddFishEntries(ctx context.Context, entries []models.NewFishEntry) ([]string, error) {
	now := s.opts.now()
	today := now.Format(models.DateLayout)
	duplicates := []string{}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := staleEntries(tx, now).Delete(&models.FishEntry{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, entry := range entries {
		var count int64
		if err := tx.Model(&models.FishEntry{}).Where("name = ?", entry.Name).Count(&count).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if count > 0 {
			duplicates = append(duplicates, entry.Name)
			continue
		}
		row := models.FishEntry{
			Name:   entry.Name,
			Weight: entry.Weight,
			Amount: entry.Amount,
			Date:   today,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return duplicates, nil
}

// staleEntries scopes fish entries dated before the purge cutoff.
func staleEntries(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where("date < ?", StaleCutoff(now))
}

func (s *GormStore) DeleteFishEntry(ctx context.Context, id int) error {
	result := s.db.WithContext(ctx).Delete(&models.FishEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

func (s *GormStore) CreateOrder(ctx context.Context, req models.NewOrderRequest) (*models.Order, error) {
	if err := validateOrder(req); err != nil {
		return nil, err
	}
	order := newOrder(req, s.opts.now().Format(models.DateLayout))

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	// items are inserted with the order
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) orderScope(ctx context.Context, filter models.SalesFilter) *gorm.DB {
	db := s.db.WithContext(ctx)
	dbCtx := db.Model(&models.Order{})
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	if filter.PaymentMode != "" {
		dbCtx = dbCtx.Where("payment_mode = ?", filter.PaymentMode)
	}
	if filter.FishName != "" {
		dbCtx = dbCtx.Where("id IN (?)",
			db.Model(&models.OrderItem{}).Select("order_id").Where("fish_name = ?", filter.FishName))
	}
	return dbCtx
}

// listQuery preloads items, keeping only the filtered fish when one is set.
func (s *GormStore) listQuery(ctx context.Context, filter models.SalesFilter) *gorm.DB {
	dbCtx := s.orderScope(ctx, filter)
	if filter.FishName != "" {
		return dbCtx.Preload("Items", "fish_name = ?", filter.FishName)
	}
	return dbCtx.Preload("Items")
}

func (s *GormStore) ListOrders(ctx context.Context, filter models.SalesFilter) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.listQuery(ctx, filter).Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStore) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error {
	var order models.Order
	db := s.db.WithContext(ctx)
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorRecordNotFound
		}
		return err
	}
	return db.Model(&order).Update("status", status).Error
}

// amountQuery sums item rates over the filtered order join.
func amountQuery(db *gorm.DB, filter models.SalesFilter) *gorm.DB {
	query := db.Table("customer_orders AS co").
		Select("COALESCE(SUM(oi.rate), 0)").
		Joins("LEFT JOIN order_items AS oi ON co.id = oi.order_id")
	if filter.Status != "" {
		query = query.Where("co.status = ?", filter.Status)
	}
	if filter.PaymentMode != "" {
		query = query.Where("co.payment_mode = ?", filter.PaymentMode)
	}
	if filter.FishName != "" {
		query = query.Where("oi.fish_name = ?", filter.FishName)
	}
	return query
}

// investmentQuery sums stock amounts, only for the filtered fish when set.
func investmentQuery(db *gorm.DB, filter models.SalesFilter) *gorm.DB {
	query := db.Model(&models.FishEntry{}).Select("COALESCE(SUM(amount), 0)")
	if filter.FishName != "" {
		query = query.Where("name = ?", filter.FishName)
	}
	return query
}

func (s *GormStore) Totals(ctx context.Context, filter models.SalesFilter) (models.Totals, error) {
	db := s.db.WithContext(ctx)

	var amount decimal.Decimal
	if err := amountQuery(db, filter).Row().Scan(&amount); err != nil {
		return models.Totals{}, err
	}
	var investment decimal.Decimal
	if err := investmentQuery(db, filter).Row().Scan(&investment); err != nil {
		return models.Totals{}, err
	}

	return models.Totals{
		TotalAmount:     amount,
		TotalInvestment: investment,
		Profit:          amount.Sub(investment),
	}, nil
}
