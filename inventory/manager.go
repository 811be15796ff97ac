// Package inventory holds the stock entry form: an editable list of fish
// rows that is validated, de-duplicated and saved as one batch.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mmdatafocus/fish_backend/apiclient"
	"github.com/mmdatafocus/fish_backend/config"
	"github.com/mmdatafocus/fish_backend/feedback"
	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const moduleName = "inventory"

const (
	MsgSaved        = "Fish entries saved successfully!"
	MsgSaveFailed   = "Failed to save fish entries."
	MsgSaveError    = "An error occurred while saving fish entries."
	MsgIncomplete   = "Please fill in all fields for each fish entry."
	MsgDeleted      = "Fish entry deleted successfully!"
	MsgDeleteFailed = "Failed to delete fish entry."
	MsgDeleteError  = "An error occurred while deleting the fish entry."
)

var ErrRowOutOfRange = errors.New("row index out of range")

// API is the part of the remote store the form needs.
type API interface {
	ListFishEntries(ctx context.Context) ([]models.FishEntry, error)
	SaveFishEntries(ctx context.Context, req models.FishEntriesRequest) (models.MessageResponse, error)
	DeleteFishEntry(ctx context.Context, id int) error
}

type Field string

const (
	FieldName   Field = "name"
	FieldWeight Field = "weight"
	FieldAmount Field = "amount"
)

// Manager owns the draft rows. Every edit replaces the rows slice; a slice
// handed out by Rows is never written again.
type Manager struct {
	api       API
	notify    feedback.Notifier
	logger    *logrus.Logger
	onProceed func([]models.StockDraft)

	mu   sync.Mutex
	rows []models.StockDraft
}

// New starts with one blank row. onProceed receives the saved batch.
func New(api API, notify feedback.Notifier, onProceed func([]models.StockDraft)) *Manager {
	if onProceed == nil {
		onProceed = func([]models.StockDraft) {}
	}
	return &Manager{
		api:       api,
		notify:    notify,
		logger:    config.GetLogger(),
		onProceed: onProceed,
		rows:      []models.StockDraft{{}},
	}
}

func (m *Manager) Rows() []models.StockDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows
}

// Load replaces the draft with the stored entries when there are any. A
// failed fetch is only logged and the current rows stay.
func (m *Manager) Load(ctx context.Context) error {
	entries, err := m.api.ListFishEntries(ctx)
	if err != nil {
		config.LogError(m.logger, moduleName, "Load", "ListFishEntries", nil, err)
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.StockDraft, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.DraftFromEntry(e))
	}
	m.mu.Lock()
	m.rows = rows
	m.mu.Unlock()
	return nil
}

func (m *Manager) AddRow() {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make([]models.StockDraft, len(m.rows), len(m.rows)+1)
	copy(next, m.rows)
	m.rows = append(next, models.StockDraft{})
}

// EditCell sets one field; values are checked only on Submit.
func (m *Manager) EditCell(index int, field Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.rows) {
		return ErrRowOutOfRange
	}
	next := make([]models.StockDraft, len(m.rows))
	copy(next, m.rows)
	row := next[index]
	switch field {
	case FieldName:
		row.Name = value
	case FieldWeight:
		row.Weight = value
	case FieldAmount:
		row.Amount = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	next[index] = row
	m.rows = next
	return nil
}

// DeleteRow removes a row. Rows that exist on the server are deleted there
// first, and stay in the draft if that fails.
func (m *Manager) DeleteRow(ctx context.Context, index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.rows) {
		m.mu.Unlock()
		return ErrRowOutOfRange
	}
	target := m.rows[index]
	m.mu.Unlock()

	if target.ID != nil {
		if err := m.api.DeleteFishEntry(ctx, *target.ID); err != nil {
			config.LogError(m.logger, moduleName, "DeleteRow", "DeleteFishEntry", *target.ID, err)
			if apiclient.IsTransport(err) {
				m.notify.Alert(MsgDeleteError)
			} else {
				m.notify.Alert(MsgDeleteFailed)
			}
			return err
		}
		m.notify.Alert(MsgDeleted)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	pos := index
	if target.ID != nil {
		pos = indexOfID(m.rows, *target.ID)
	}
	if pos < 0 || pos >= len(m.rows) {
		return nil
	}
	next := make([]models.StockDraft, 0, len(m.rows)-1)
	next = append(next, m.rows[:pos]...)
	m.rows = append(next, m.rows[pos+1:]...)
	return nil
}

func indexOfID(rows []models.StockDraft, id int) int {
	for i, r := range rows {
		if r.ID != nil && *r.ID == id {
			return i
		}
	}
	return -1
}

// Submit validates, de-duplicates by name and saves the batch. On success
// the saved rows are passed to the proceed hand-off and returned.
func (m *Manager) Submit(ctx context.Context) ([]models.StockDraft, error) {
	rows := m.Rows()
	if err := Validate(rows); err != nil {
		m.notify.Alert(MsgIncomplete)
		return nil, err
	}
	unique := Dedupe(rows)

	resp, err := m.api.SaveFishEntries(ctx, models.NewFishEntriesRequest(unique, utils.ParseDecimal))
	if err != nil {
		config.LogError(m.logger, moduleName, "Submit", "SaveFishEntries", len(unique), err)
		if apiclient.IsTransport(err) {
			m.notify.Alert(MsgSaveError)
		} else {
			m.notify.Alert(MsgSaveFailed)
		}
		return nil, err
	}
	if len(resp.Duplicates) > 0 {
		m.logger.WithFields(logrus.Fields{
			"module":     moduleName,
			"duplicates": resp.Duplicates,
		}).Info("server kept existing entries")
	}
	m.notify.Alert(MsgSaved)
	m.onProceed(unique)
	return unique, nil
}

// TotalInvestment sums amount over rows that have all three fields.
func (m *Manager) TotalInvestment() decimal.Decimal {
	return TotalInvestment(m.Rows())
}

// Validate requires a name and non-negative numeric weight and amount on every row.
func Validate(rows []models.StockDraft) error {
	var errs models.ValidationErrors
	for i, row := range rows {
		if strings.TrimSpace(row.Name) == "" {
			errs = append(errs, models.FieldError{Row: i, Field: string(FieldName), Reason: "is required"})
		}
		errs = append(errs, checkQuantity(i, FieldWeight, row.Weight)...)
		errs = append(errs, checkQuantity(i, FieldAmount, row.Amount)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkQuantity(row int, field Field, value string) models.ValidationErrors {
	d, err := utils.ParseDecimal(value)
	if err != nil {
		return models.ValidationErrors{{Row: row, Field: string(field), Reason: "must be a number"}}
	}
	if d.IsNegative() {
		return models.ValidationErrors{{Row: row, Field: string(field), Reason: "must not be negative"}}
	}
	return nil
}

// Dedupe keeps the first row for every name, in order.
func Dedupe(rows []models.StockDraft) []models.StockDraft {
	return utils.UniqueBy(rows, func(r models.StockDraft) string { return r.Name })
}

func TotalInvestment(rows []models.StockDraft) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if row.IsComplete() {
			total = total.Add(utils.DecimalOrZero(row.Amount))
		}
	}
	return total
}
