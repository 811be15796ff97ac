// Package ordering is the order form: draft line items plus customer and
// payment details, submission, and resolution of pending orders.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mmdatafocus/fish_backend/apiclient"
	"github.com/mmdatafocus/fish_backend/config"
	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const moduleName = "ordering"

const (
	MsgFishFetchFailed    = "Failed to fetch available fish"
	MsgPendingFetchFailed = "Failed to fetch pending orders"
	MsgNoValidItems       = "Please add at least one valid fish entry with a proper amount"
	MsgSubmitted          = "Order submitted successfully!"
	MsgSubmitFailed       = "Failed to submit order"
	MsgSubmitError        = "Error submitting order"
	MsgStatusFailed       = "Failed to update order status"
	MsgStatusError        = "Error updating order status"
)

var ErrItemOutOfRange = errors.New("line item index out of range")

// API is the part of the remote store the order form needs.
type API interface {
	ListFishEntries(ctx context.Context) ([]models.FishEntry, error)
	ListOrders(ctx context.Context, filter models.SalesFilter) ([]models.Order, error)
	CreateOrder(ctx context.Context, req models.NewOrderRequest) (models.MessageResponse, error)
	UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error
}

type ItemField string

const (
	ItemFieldFish   ItemField = "fish"
	ItemFieldWeight ItemField = "weight"
	ItemFieldAmount ItemField = "amount"
)

// Composer holds the draft order, the fish selector options and the pending
// list. State is replaced, never edited in place.
type Composer struct {
	api    API
	logger *logrus.Logger

	mu             sync.Mutex
	draft          models.OrderDraft
	availableFish  []models.FishEntry
	pending        []models.Order
	errorMessage   string
	successMessage string
}

func New(api API) *Composer {
	return &Composer{
		api:    api,
		logger: config.GetLogger(),
		draft:  models.NewOrderDraft(),
	}
}

// Load fetches the fish list and the pending orders side by side. Each
// failure sets the error banner on its own; the other fetch still lands.
func (c *Composer) Load(ctx context.Context) error {
	var wg sync.WaitGroup
	var fishErr, pendingErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		fishErr = c.fetchAvailableFish(ctx)
	}()
	go func() {
		defer wg.Done()
		pendingErr = c.fetchPending(ctx)
	}()
	wg.Wait()
	return errors.Join(fishErr, pendingErr)
}

func (c *Composer) fetchAvailableFish(ctx context.Context) error {
	entries, err := c.api.ListFishEntries(ctx)
	if err != nil {
		config.LogError(c.logger, moduleName, "fetchAvailableFish", "ListFishEntries", nil, err)
		c.setError(MsgFishFetchFailed)
		return err
	}
	c.mu.Lock()
	c.availableFish = entries
	c.mu.Unlock()
	return nil
}

func (c *Composer) fetchPending(ctx context.Context) error {
	orders, err := c.api.ListOrders(ctx, models.SalesFilter{Status: models.OrderStatusPending})
	if err != nil {
		config.LogError(c.logger, moduleName, "fetchPending", "ListOrders", nil, err)
		c.setError(MsgPendingFetchFailed)
		return err
	}
	c.mu.Lock()
	c.pending = orders
	c.mu.Unlock()
	return nil
}

func (c *Composer) Draft() models.OrderDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Composer) AvailableFish() []models.FishEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.availableFish
}

// FishNames lists selector options in server order.
func (c *Composer) FishNames() []string {
	fish := c.AvailableFish()
	names := make([]string, 0, len(fish))
	for _, f := range fish {
		names = append(names, f.Name)
	}
	return names
}

func (c *Composer) Pending() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Composer) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

func (c *Composer) SuccessMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successMessage
}

func (c *Composer) setError(msg string) {
	c.mu.Lock()
	c.errorMessage = msg
	c.mu.Unlock()
}

func (c *Composer) setSuccess(msg string) {
	c.mu.Lock()
	c.successMessage = msg
	c.mu.Unlock()
}

func (c *Composer) update(fn func(d models.OrderDraft) models.OrderDraft) {
	c.mu.Lock()
	c.draft = fn(c.draft)
	c.mu.Unlock()
}

func (c *Composer) SetCustomerName(name string) {
	c.update(func(d models.OrderDraft) models.OrderDraft { d.CustomerName = name; return d })
}

func (c *Composer) SetCustomerPhone(phone string) {
	c.update(func(d models.OrderDraft) models.OrderDraft { d.CustomerPhone = phone; return d })
}

func (c *Composer) SetPaymentMode(mode models.PaymentMode) {
	c.update(func(d models.OrderDraft) models.OrderDraft { d.PaymentMode = mode; return d })
}

func (c *Composer) SetStatus(status models.OrderStatus) {
	c.update(func(d models.OrderDraft) models.OrderDraft { d.Status = status; return d })
}

func (c *Composer) AddLineItem() {
	c.update(func(d models.OrderDraft) models.OrderDraft {
		items := make([]models.LineItemDraft, len(d.Items), len(d.Items)+1)
		copy(items, d.Items)
		d.Items = append(items, models.LineItemDraft{})
		return d
	})
}

func (c *Composer) EditLineItem(index int, field ItemField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.draft.Items) {
		return ErrItemOutOfRange
	}
	items := make([]models.LineItemDraft, len(c.draft.Items))
	copy(items, c.draft.Items)
	item := items[index]
	switch field {
	case ItemFieldFish:
		item.Fish = value
	case ItemFieldWeight:
		item.Weight = value
	case ItemFieldAmount:
		item.Amount = value
	default:
		return fmt.Errorf("unknown line item field %q", field)
	}
	items[index] = item
	d := c.draft
	d.Items = items
	c.draft = d
	return nil
}

func (c *Composer) DeleteLineItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.draft.Items) {
		return ErrItemOutOfRange
	}
	items := make([]models.LineItemDraft, 0, len(c.draft.Items)-1)
	items = append(items, c.draft.Items[:index]...)
	items = append(items, c.draft.Items[index+1:]...)
	d := c.draft
	d.Items = items
	c.draft = d
	return nil
}

// Total sums the draft amounts; blanks and junk count as zero.
func (c *Composer) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Draft().Items {
		total = total.Add(utils.DecimalOrZero(item.Amount))
	}
	return total
}

// ValidItems keeps lines that name a fish and carry a positive amount.
// Weight is not checked here.
func ValidItems(items []models.LineItemDraft) []models.LineItemDraft {
	valid := make([]models.LineItemDraft, 0, len(items))
	for _, item := range items {
		if item.Fish == "" {
			continue
		}
		amount, err := utils.ParseDecimal(item.Amount)
		if err != nil || !amount.IsPositive() {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}

// Validate builds the request from the valid lines. With none left it
// returns ValidationErrors naming every dropped line.
func Validate(draft models.OrderDraft) (models.NewOrderRequest, error) {
	valid := ValidItems(draft.Items)
	if len(valid) == 0 {
		errs := models.ValidationErrors{{Row: -1, Field: "items", Reason: "no valid line items"}}
		for i, item := range draft.Items {
			if item.Fish == "" {
				errs = append(errs, models.FieldError{Row: i, Field: string(ItemFieldFish), Reason: "is required"})
				continue
			}
			errs = append(errs, models.FieldError{Row: i, Field: string(ItemFieldAmount), Reason: "must be a positive number"})
		}
		return models.NewOrderRequest{}, errs
	}
	return models.NewOrderRequestFromDraft(draft, valid, utils.ParseDecimal), nil
}

// Submit sends the draft. On success the form is reset, the success banner
// is shown and the pending list is fetched again.
func (c *Composer) Submit(ctx context.Context) error {
	c.mu.Lock()
	c.errorMessage = ""
	c.successMessage = ""
	draft := c.draft
	c.mu.Unlock()

	req, err := Validate(draft)
	if err != nil {
		c.setError(MsgNoValidItems)
		return err
	}

	if _, err := c.api.CreateOrder(ctx, req); err != nil {
		config.LogError(c.logger, moduleName, "Submit", "CreateOrder", req, err)
		switch {
		case apiclient.ServerMessage(err) != "":
			c.setError(apiclient.ServerMessage(err))
		case apiclient.IsTransport(err):
			c.setError(MsgSubmitError)
		default:
			c.setError(MsgSubmitFailed)
		}
		return err
	}

	c.mu.Lock()
	c.draft = models.NewOrderDraft()
	c.errorMessage = ""
	c.successMessage = MsgSubmitted
	c.mu.Unlock()

	_ = c.fetchPending(ctx)
	return nil
}

// Resolve moves an order to status. There is no guard against repeats:
// every call sends its own request.
func (c *Composer) Resolve(ctx context.Context, orderID int, status models.OrderStatus) error {
	if err := c.api.UpdateOrderStatus(ctx, orderID, status); err != nil {
		config.LogError(c.logger, moduleName, "Resolve", "UpdateOrderStatus", orderID, err)
		if apiclient.IsTransport(err) {
			c.setError(MsgStatusError)
		} else {
			c.setError(MsgStatusFailed)
		}
		return err
	}
	_ = c.fetchPending(ctx)
	c.setSuccess(ResolvedMessage(status))
	return nil
}

// ResolvedMessage is e.g. "Order resolved successfully".
func ResolvedMessage(status models.OrderStatus) string {
	return fmt.Sprintf("Order %s successfully", strings.ToLower(string(status)))
}
