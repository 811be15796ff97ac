package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The API speaks JSON numbers for weight, amount and rate.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the server's day stamp for stock entries and orders.
const DateLayout = "2006-01-02"

// FishEntry is one fish type's available stock and the capital invested in it.
type FishEntry struct {
	ID     int             `gorm:"primary_key" json:"id"`
	Name   string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Weight decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"weight"`
	Amount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Date   string          `gorm:"size:10;not null;index" json:"date"`
}

func (FishEntry) TableName() string {
	return "fish_entries"
}

// NewFishEntry is one element of the batch upsert body.
type NewFishEntry struct {
	ID     *int            `json:"id,omitempty"`
	Name   string          `json:"name" binding:"required"`
	Weight decimal.Decimal `json:"weight"`
	Amount decimal.Decimal `json:"amount"`
}

// StockDraft is an editable inventory row as typed by the operator.
// ID is set for rows loaded from the server.
type StockDraft struct {
	ID     *int
	Name   string
	Weight string
	Amount string
}

// IsComplete is true when all three fields carry something.
func (d StockDraft) IsComplete() bool {
	return d.Name != "" && d.Weight != "" && d.Amount != ""
}

// DraftFromEntry renders a stored entry as an editable row.
func DraftFromEntry(e FishEntry) StockDraft {
	id := e.ID
	return StockDraft{
		ID:     &id,
		Name:   e.Name,
		Weight: e.Weight.String(),
		Amount: e.Amount.String(),
	}
}
