package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmdatafocus/fish_backend/appctx"
	"github.com/mmdatafocus/fish_backend/config"
	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("fish-apiclient")

// Client talks to the fish-sales REST API. It holds no state between calls.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromEnv reads FISH_API_BASE_URL and FISH_API_TIMEOUT_SECONDS.
func NewFromEnv() *Client {
	return New(config.APIBaseURL(), WithHTTPClient(&http.Client{Timeout: config.APITimeout()}))
}

func (c *Client) ListFishEntries(ctx context.Context) ([]models.FishEntry, error) {
	var entries []models.FishEntry
	if err := c.do(ctx, "list fish entries", http.MethodGet, "/fish-entries", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) SaveFishEntries(ctx context.Context, req models.FishEntriesRequest) (models.MessageResponse, error) {
	var resp models.MessageResponse
	err := c.do(ctx, "save fish entries", http.MethodPost, "/fish-entries", nil, req, &resp)
	return resp, err
}

func (c *Client) DeleteFishEntry(ctx context.Context, id int) error {
	return c.do(ctx, "delete fish entry", http.MethodDelete, "/fish-entries/"+strconv.Itoa(id), nil, nil, nil)
}

func (c *Client) ListOrders(ctx context.Context, filter models.SalesFilter) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, "list orders", http.MethodGet, "/orders", filter.Query(), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CreateOrder(ctx context.Context, req models.NewOrderRequest) (models.MessageResponse, error) {
	var resp models.MessageResponse
	err := c.do(ctx, "create order", http.MethodPost, "/orders", nil, req, &resp)
	return resp, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error {
	body := models.UpdateOrderStatusRequest{Status: status}
	return c.do(ctx, "update order status", http.MethodPut, "/orders/"+strconv.Itoa(id), nil, body, nil)
}

func (c *Client) GetTotals(ctx context.Context, filter models.SalesFilter) (models.Totals, error) {
	var resp models.TotalsResponse
	if err := c.do(ctx, "get totals", http.MethodGet, "/orders/totals", filter.Query(), nil, &resp); err != nil {
		return models.Totals{}, err
	}
	return resp.Totals(), nil
}

func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, in any, out any) error {
	ctx, span := tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}
	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.url", endpoint))

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	_, cid := utils.EnsureCorrelationId(ctx)
	req.Header.Set(appctx.CorrelationHeader, cid)

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		var parsed models.MessageResponse
		if json.Unmarshal(raw, &parsed) == nil {
			se.Message = parsed.Error
		}
		span.SetStatus(codes.Error, se.Error())
		return se
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
