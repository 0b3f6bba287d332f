// Package client talks to the ledger HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/money"
)

const (
	adminTokenHeader = "X-Admin-Token"
	defaultTimeout   = 10 * time.Second
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL    string
	adminToken string
	http       *http.Client
}

type Option func(*Client)

func WithAdminToken(token string) Option {
	return func(c *Client) { c.adminToken = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}

	return c
}

type Balance struct {
	PlayerID uuid.UUID    `json:"playerId"`
	Balance  money.Amount `json:"balance"`
	Display  string       `json:"display"`
}

type Receipt struct {
	From        uuid.UUID    `json:"from"`
	To          uuid.UUID    `json:"to"`
	Amount      money.Amount `json:"amount"`
	FromBalance money.Amount `json:"fromBalance"`
	ToBalance   money.Amount `json:"toBalance"`
	Display     string       `json:"display"`
}

type Sale struct {
	PlayerID uuid.UUID    `json:"playerId"`
	Item     string       `json:"item"`
	Quantity int64        `json:"quantity"`
	Earnings money.Amount `json:"earnings"`
	Balance  money.Amount `json:"balance"`
	Display  string       `json:"display"`
}

type Debit struct {
	PlayerID uuid.UUID    `json:"playerId"`
	Taken    money.Amount `json:"taken"`
	Balance  money.Amount `json:"balance"`
	Display  string       `json:"display"`
}

type Rank struct {
	Rank     int          `json:"rank"`
	PlayerID uuid.UUID    `json:"playerId"`
	Balance  money.Amount `json:"balance"`
	Display  string       `json:"display"`
}

type Price struct {
	Item     string       `json:"item"`
	Price    money.Amount `json:"price"`
	Sellable bool         `json:"sellable"`
	Display  string       `json:"display"`
}

type Health struct {
	Status        string `json:"status"`
	PendingWrites int    `json:"pendingWrites"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health

	err := c.do(ctx, http.MethodGet, "/healthz", nil, &out)

	return out, err
}

func (c *Client) Balance(ctx context.Context, player uuid.UUID) (Balance, error) {
	var out Balance

	err := c.do(ctx, http.MethodGet, "/players/"+player.String()+"/balance", nil, &out)

	return out, err
}

func (c *Client) Transfer(ctx context.Context, from, to uuid.UUID, amount money.Amount) (Receipt, error) {
	var out Receipt

	body := map[string]any{"to": to, "amount": amount}

	err := c.do(ctx, http.MethodPost, "/players/"+from.String()+"/transfer", body, &out)

	return out, err
}

func (c *Client) Sell(ctx context.Context, player uuid.UUID, item string, quantity int64) (Sale, error) {
	var out Sale

	body := map[string]any{"item": item, "quantity": quantity}

	err := c.do(ctx, http.MethodPost, "/players/"+player.String()+"/sell", body, &out)

	return out, err
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]Rank, error) {
	var out []Rank

	path := "/leaderboard"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	err := c.do(ctx, http.MethodGet, path, nil, &out)

	return out, err
}

func (c *Client) Prices(ctx context.Context) (map[string]money.Amount, error) {
	var out struct {
		Prices map[string]money.Amount `json:"prices"`
	}

	err := c.do(ctx, http.MethodGet, "/prices", nil, &out)

	return out.Prices, err
}

func (c *Client) Price(ctx context.Context, item string) (Price, error) {
	var out Price

	err := c.do(ctx, http.MethodGet, "/prices/"+url.PathEscape(item), nil, &out)

	return out, err
}

func (c *Client) Credit(ctx context.Context, player uuid.UUID, amount money.Amount) (Balance, error) {
	var out Balance

	body := map[string]any{"amount": amount}

	err := c.do(ctx, http.MethodPost, "/admin/players/"+player.String()+"/credit", body, &out)

	return out, err
}

func (c *Client) Debit(ctx context.Context, player uuid.UUID, amount money.Amount) (Debit, error) {
	var out Debit

	body := map[string]any{"amount": amount}

	err := c.do(ctx, http.MethodPost, "/admin/players/"+player.String()+"/debit", body, &out)

	return out, err
}

func (c *Client) SetBalance(ctx context.Context, player uuid.UUID, amount money.Amount) (Balance, error) {
	var out Balance

	body := map[string]any{"amount": amount}

	err := c.do(ctx, http.MethodPut, "/admin/players/"+player.String()+"/balance", body, &out)

	return out, err
}

func (c *Client) SetPrice(ctx context.Context, item string, price money.Amount) (Price, error) {
	var out Price

	body := map[string]any{"price": price}

	err := c.do(ctx, http.MethodPut, "/admin/prices/"+url.PathEscape(item), body, &out)

	return out, err
}

func (c *Client) ReloadPrices(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/prices/reload", nil, nil)
}

func (c *Client) ReloadBalances(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/balances/reload", nil, nil)
}

func (c *Client) Save(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/save", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader

	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.adminToken != "" {
		req.Header.Set(adminTokenHeader, c.adminToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}

		_ = json.NewDecoder(resp.Body).Decode(&e)

		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}
