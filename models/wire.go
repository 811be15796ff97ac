package models

import (
	"github.com/shopspring/decimal"
)

// Request and response bodies exchanged with the API.

type FishEntriesRequest struct {
	FishEntries []NewFishEntry `json:"fishEntries" binding:"dive"`
}

type NewOrderItem struct {
	Fish   string              `json:"fish"`
	Weight decimal.NullDecimal `json:"weight"`
	Rate   decimal.Decimal     `json:"rate"`
}

type NewOrderRequest struct {
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	PaymentMode   PaymentMode    `json:"paymentMode"`
	Status        OrderStatus    `json:"status"`
	FishEntries   []NewOrderItem `json:"fishEntries"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// MessageResponse covers every non-list reply; Error is set on failures.
type MessageResponse struct {
	Message    string   `json:"message,omitempty"`
	Duplicates []string `json:"duplicates,omitempty"`
	Order      *Order   `json:"order,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type TotalsResponse struct {
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	Profit          decimal.Decimal `json:"profit"`
}

// Totals is the server-computed aggregate over the active filter.
type Totals struct {
	TotalAmount     decimal.Decimal
	TotalInvestment decimal.Decimal
	Profit          decimal.Decimal
}

func (r TotalsResponse) Totals() Totals {
	return Totals{
		TotalAmount:     r.TotalAmount,
		TotalInvestment: r.TotalInvestment,
		Profit:          r.Profit,
	}
}

func (t Totals) Response() TotalsResponse {
	return TotalsResponse{
		TotalAmount:     t.TotalAmount,
		TotalInvestment: t.TotalInvestment,
		Profit:          t.Profit,
	}
}

// NewFishEntriesRequest converts validated rows. Numbers were checked by the
// caller, so parse failures cannot happen here and are read as zero.
func NewFishEntriesRequest(rows []StockDraft, parse func(string) (decimal.Decimal, error)) FishEntriesRequest {
	entries := make([]NewFishEntry, 0, len(rows))
	for _, row := range rows {
		weight, _ := parse(row.Weight)
		amount, _ := parse(row.Amount)
		entries = append(entries, NewFishEntry{
			ID:     row.ID,
			Name:   row.Name,
			Weight: weight,
			Amount: amount,
		})
	}
	return FishEntriesRequest{FishEntries: entries}
}

// NewOrderRequestFromDraft is the one place the operator's "amount" becomes
// the wire "rate". A weight that does not parse goes out as null.
func NewOrderRequestFromDraft(draft OrderDraft, items []LineItemDraft, parse func(string) (decimal.Decimal, error)) NewOrderRequest {
	wireItems := make([]NewOrderItem, 0, len(items))
	for _, item := range items {
		rate, _ := parse(item.Amount)
		wire := NewOrderItem{Fish: item.Fish, Rate: rate}
		if weight, err := parse(item.Weight); err == nil {
			wire.Weight = decimal.NewNullDecimal(weight)
		}
		wireItems = append(wireItems, wire)
	}
	return NewOrderRequest{
		CustomerName:  draft.CustomerName,
		CustomerPhone: draft.CustomerPhone,
		PaymentMode:   draft.PaymentMode,
		Status:        draft.Status,
		FishEntries:   wireItems,
	}
}
