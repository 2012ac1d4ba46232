// Package supabase is a thin client for the remote data service backing the
// café views: row reads over the REST surface, remote procedures, password
// authentication and the realtime change feed. Every row crossing the
// boundary is validated into the typed domain shapes before it is handed to
// callers.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/emreacar/kafepos/internal/config"
	"github.com/emreacar/kafepos/internal/domain/models"
)

// Client exposes the data service operations used by the application.
type Client struct {
	rest    *resty.Client
	baseURL string
	anonKey string
	logger  *zap.Logger

	mu      sync.RWMutex
	session *Session
}

// New builds a data service client from the provided configuration values.
func New(cfg config.SupabaseConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL: cfg.URL,
		anonKey: cfg.AnonKey,
		logger:  logger,
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.URL).
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	restyClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		if token := c.accessToken(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		} else {
			req.SetHeader("Authorization", "Bearer "+cfg.AnonKey)
		}
		return nil
	})

	c.rest = restyClient
	return c
}

// apiError mirrors the REST error payloads of both the row surface and the
// auth endpoints.
type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Code             any    `json:"code"`
	Details          string `json:"details"`
	Hint             string `json:"hint"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// reason extracts the human-readable failure reason carried to the user.
func (e *apiError) reason() string {
	if e == nil {
		return ""
	}
	for _, candidate := range []string{e.Message, e.Msg, e.ErrorDescription, e.ErrorField, e.Details} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func remoteErr(op string, resp *resty.Response, apiErr *apiError) error {
	reason := apiErr.reason()
	if reason == "" {
		reason = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%s: %s", op, reason)
}

// ListProducts reads the product table. With onlyActive the read is filtered
// to active rows and ordered by name (menu view); otherwise all rows are
// returned ordered by category then name (panel view).
func (c *Client) ListProducts(ctx context.Context, onlyActive bool) ([]models.Product, error) {
	var rows []models.Product
	apiErr := new(apiError)

	req := c.rest.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetResult(&rows).
		SetError(apiErr)

	if onlyActive {
		req.SetQueryParam("is_active", "eq.true").SetQueryParam("order", "name")
	} else {
		req.SetQueryParam("order", "category,name")
	}

	resp, err := req.Get("/rest/v1/products")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if resp.IsError() {
		return nil, remoteErr("list products", resp, apiErr)
	}

	for i := range rows {
		if err := validateRow(&rows[i]); err != nil {
			return nil, fmt.Errorf("list products: row %d rejected: %w", i, err)
		}
	}

	return rows, nil
}

// AdjustStock applies a signed delta to one product through the atomic
// server-side procedure. The client never computes the new stock value; the
// delta is the only thing sent over the wire.
func (c *Client) AdjustStock(ctx context.Context, productID int64, delta int) error {
	apiErr := new(apiError)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]any{"p_id": productID, "quantity": delta}).
		SetError(apiErr).
		Post("/rest/v1/rpc/update_stock")
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if resp.IsError() {
		return remoteErr("adjust stock", resp, apiErr)
	}

	return nil
}

// SalesReport invokes the sales aggregation procedure over the inclusive
// [start, end] window and returns one row per product sold.
func (c *Client) SalesReport(ctx context.Context, start, end time.Time) ([]models.SalesAggregateRow, error) {
	var rows []models.SalesAggregateRow
	apiErr := new(apiError)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"start_date": start.UTC().Format(time.RFC3339),
			"end_date":   end.UTC().Format(time.RFC3339),
		}).
		SetResult(&rows).
		SetError(apiErr).
		Post("/rest/v1/rpc/get_sales_report")
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	if resp.IsError() {
		return nil, remoteErr("sales report", resp, apiErr)
	}

	for i := range rows {
		if err := validateRow(&rows[i]); err != nil {
			return nil, fmt.Errorf("sales report: row %d rejected: %w", i, err)
		}
	}

	return rows, nil
}

// ListExpenses reads the expense ledger rows created inside the inclusive
// [start, end] window.
func (c *Client) ListExpenses(ctx context.Context, start, end time.Time) ([]models.Expense, error) {
	var rows []models.Expense
	apiErr := new(apiError)

	params := url.Values{
		"select": []string{"*"},
		"order":  []string{"created_at.desc"},
		"created_at": []string{
			"gte." + start.UTC().Format(time.RFC3339),
			"lte." + end.UTC().Format(time.RFC3339),
		},
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&rows).
		SetError(apiErr).
		Get("/rest/v1/expenses")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	if resp.IsError() {
		return nil, remoteErr("list expenses", resp, apiErr)
	}

	for i := range rows {
		if err := validateRow(&rows[i]); err != nil {
			return nil, fmt.Errorf("list expenses: row %d rejected: %w", i, err)
		}
	}

	return rows, nil
}

// CreateExpense inserts a new ledger row; the backend assigns id and
// timestamp and echoes the created row back.
func (c *Client) CreateExpense(ctx context.Context, name string, amount decimal.Decimal) (models.Expense, error) {
	var created []models.Expense
	apiErr := new(apiError)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody([]map[string]any{{"name": name, "amount": amount}}).
		SetResult(&created).
		SetError(apiErr).
		Post("/rest/v1/expenses")
	if err != nil {
		return models.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	if resp.IsError() {
		return models.Expense{}, remoteErr("create expense", resp, apiErr)
	}
	if len(created) == 0 {
		return models.Expense{}, fmt.Errorf("create expense: backend returned no row")
	}
	if err := validateRow(&created[0]); err != nil {
		return models.Expense{}, fmt.Errorf("create expense: row rejected: %w", err)
	}

	return created[0], nil
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}
