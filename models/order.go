package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Order is one customer transaction as stored by the API.
type Order struct {
	ID            int         `gorm:"primary_key" json:"id"`
	CustomerName  string      `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone string      `gorm:"size:50;not null" json:"customer_phone"`
	PaymentMode   PaymentMode `gorm:"size:20;not null;index" json:"payment_mode"`
	Status        OrderStatus `gorm:"size:20;not null;index" json:"status"`
	OrderDate     string      `gorm:"size:10;not null" json:"order_date"`
	Items         []OrderItem `gorm:"foreignKey:OrderId" json:"items"`
}

func (Order) TableName() string {
	return "customer_orders"
}

// OrderItem is one fish/weight/rate triple of an order.
type OrderItem struct {
	ID       int             `gorm:"primary_key" json:"-"`
	OrderId  int             `gorm:"index;not null" json:"-"`
	FishName string          `gorm:"size:100;not null;index" json:"fish_name"`
	Weight   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"weight"`
	Rate     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"rate"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// ItemsTotal sums item rates. Rates are treated as line amounts, not
// per-kg prices, so weight does not enter the sum.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Rate)
	}
	return total
}

// Describe renders an item as "Pomfret - 2kg @ ₹500/kg".
func (i OrderItem) Describe() string {
	return fmt.Sprintf("%s - %skg @ ₹%s/kg", i.FishName, i.Weight.String(), i.Rate.String())
}

// ItemsSummary joins every item description with ", ".
func (o Order) ItemsSummary() string {
	parts := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		parts = append(parts, item.Describe())
	}
	return strings.Join(parts, ", ")
}

// HasFish reports whether any item sells fishName.
func (o Order) HasFish(fishName string) bool {
	for _, item := range o.Items {
		if item.FishName == fishName {
			return true
		}
	}
	return false
}

// LineItemDraft is an order line as typed by the operator. Amount is what
// the operator calls the price; the API calls it rate.
type LineItemDraft struct {
	Fish   string
	Weight string
	Amount string
}

// OrderDraft is the in-flight "new order" form.
type OrderDraft struct {
	CustomerName  string
	CustomerPhone string
	PaymentMode   PaymentMode
	Status        OrderStatus
	Items         []LineItemDraft
}

// NewOrderDraft returns the form defaults: Cash, Pending, one blank line.
func NewOrderDraft() OrderDraft {
	return OrderDraft{
		PaymentMode: PaymentModeCash,
		Status:      OrderStatusPending,
		Items:       []LineItemDraft{{}},
	}
}
