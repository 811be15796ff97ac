// Package views switches between the stock form and the order screens.
package views

import (
	"sync"

	"github.com/mmdatafocus/fish_backend/models"
)

type View string

const (
	ViewInventory     View = "inventory"
	ViewOrders        View = "orders"
	ViewVisualization View = "orders+sales"
)

// Router starts on the stock form. Proceed moves to the order screens,
// where the sales view can be toggled on and off.
type Router struct {
	mu                sync.Mutex
	showOrders        bool
	showVisualization bool
	entries           []models.StockDraft
}

func NewRouter() *Router {
	return &Router{}
}

// Proceed is the hand-off from the stock form with the saved entries.
func (r *Router) Proceed(entries []models.StockDraft) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = entries
	r.showOrders = true
}

// ToggleVisualization flips the sales view. It has no effect on the stock form.
func (r *Router) ToggleVisualization() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.showOrders {
		return false
	}
	r.showVisualization = !r.showVisualization
	return r.showVisualization
}

func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case !r.showOrders:
		return ViewInventory
	case r.showVisualization:
		return ViewVisualization
	default:
		return ViewOrders
	}
}

// Entries returns the batch handed over by the last Proceed.
func (r *Router) Entries() []models.StockDraft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries
}
