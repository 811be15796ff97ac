package models

import (
	"errors"
	"strings"
)

type PaymentMode string

const (
	PaymentModeCash PaymentMode = "Cash"
	PaymentModeCard PaymentMode = "Card"
	PaymentModeUPI  PaymentMode = "UPI"
)

var PaymentModes = []PaymentMode{PaymentModeCash, PaymentModeCard, PaymentModeUPI}

func (p PaymentMode) IsValid() bool {
	switch p {
	case PaymentModeCash, PaymentModeCard, PaymentModeUPI:
		return true
	}
	return false
}

// ParsePaymentMode matches case-insensitively.
func ParsePaymentMode(s string) (PaymentMode, error) {
	for _, p := range PaymentModes {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", errors.New("invalid payment mode")
}

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "Pending"
	OrderStatusResolved OrderStatus = "Resolved"
	OrderStatusCanceled OrderStatus = "Canceled"
)

var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusResolved, OrderStatusCanceled}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusResolved, OrderStatusCanceled:
		return true
	}
	return false
}

// IsTerminal is true for the states a pending order can be moved to.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusResolved || s == OrderStatusCanceled
}

// ParseOrderStatus matches case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", errors.New("invalid order status")
}
