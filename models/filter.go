package models

import "net/url"

// SalesFilter narrows the order list and totals. Empty fields do not filter.
type SalesFilter struct {
	Status      OrderStatus
	PaymentMode PaymentMode
	FishName    string
}

// Query encodes the non-empty fields with the API's parameter names.
func (f SalesFilter) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.PaymentMode != "" {
		q.Set("payment_mode", string(f.PaymentMode))
	}
	if f.FishName != "" {
		q.Set("fish_name", f.FishName)
	}
	return q
}

// SalesFilterFromQuery is the inverse of Query.
func SalesFilterFromQuery(q url.Values) SalesFilter {
	return SalesFilter{
		Status:      OrderStatus(q.Get("status")),
		PaymentMode: PaymentMode(q.Get("payment_mode")),
		FishName:    q.Get("fish_name"),
	}
}

// FilterPatch sets the fields that are non-nil. Values are not checked
// against the known enums.
type FilterPatch struct {
	Status      *OrderStatus
	PaymentMode *PaymentMode
	FishName    *string
}

func (f SalesFilter) Merge(p FilterPatch) SalesFilter {
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.PaymentMode != nil {
		f.PaymentMode = *p.PaymentMode
	}
	if p.FishName != nil {
		f.FishName = *p.FishName
	}
	return f
}

// Matches applies the status and payment filters to an order. The fish
// filter works on items and is left to the caller.
func (f SalesFilter) Matches(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.PaymentMode != "" && o.PaymentMode != f.PaymentMode {
		return false
	}
	return true
}
