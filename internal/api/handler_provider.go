package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/balances"
	"github.com/fastprodman/econoneeds/internal/catalog"
	"github.com/fastprodman/econoneeds/internal/ledger"
	"github.com/fastprodman/econoneeds/internal/money"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	maxBodyBytes            = 1 << 20
)

type Ledger interface {
	Balance(id uuid.UUID) money.Amount
	Transfer(ctx context.Context, from, to uuid.UUID, amount money.Amount) (ledger.Receipt, error)
	SellItem(ctx context.Context, id uuid.UUID, item string, quantity int64) (money.Amount, error)
	TopBalances(limit int) []balances.Entry
	AdminCredit(ctx context.Context, id uuid.UUID, amount money.Amount) (money.Amount, error)
	AdminDebit(ctx context.Context, id uuid.UUID, amount money.Amount) (taken, balance money.Amount, err error)
	AdminSet(ctx context.Context, id uuid.UUID, amount money.Amount) error
	FormatCurrency(amount money.Amount) string
}

type Catalog interface {
	Price(item string) money.Amount
	All() map[string]money.Amount
	SetPrice(ctx context.Context, item string, price money.Amount) error
	Reload(ctx context.Context) error
}

type Store interface {
	Save(ctx context.Context) error
	Reload(ctx context.Context) error
	Pending() int
}

// HandlerProvider exposes the ledger, the price catalog and store
// maintenance as HTTP handlers.
type HandlerProvider struct {
	ledger  Ledger
	catalog Catalog
	store   Store
	log     *slog.Logger
}

func NewHandler(l Ledger, c Catalog, s Store, log *slog.Logger) *HandlerProvider {
	if log == nil {
		log = slog.Default()
	}

	return &HandlerProvider{ledger: l, catalog: c, store: s, log: log}
}

// --- Helpers ---

func (h *HandlerProvider) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.log.Error("failed to encode JSON response", "error", err)
	}
}

func (h *HandlerProvider) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeLedgerError maps ledger error kinds to statuses. Internal failures
// are logged and reported without detail.
func (h *HandlerProvider) writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		h.writeError(w, http.StatusConflict, "insufficient funds")
	case errors.Is(err, ledger.ErrNotSellable):
		h.writeError(w, http.StatusUnprocessableEntity, "item not sellable")
	case ledger.IsValidation(err):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parsePlayerID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "playerId")
	if raw == "" {
		return uuid.Nil, errors.New("missing playerId")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid playerId: %w", err)
	}

	return id, nil
}

// decodeBody reads one JSON object, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	//nolint:errcheck
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return errors.New("empty body")
	}

	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLeaderboardLimit, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}

	return min(n, maxLeaderboardLimit), nil
}

type balanceResponse struct {
	PlayerID uuid.UUID    `json:"playerId"`
	Balance  money.Amount `json:"balance"`
	Display  string       `json:"display"`
}

func (h *HandlerProvider) balanceResponse(id uuid.UUID, b money.Amount) balanceResponse {
	return balanceResponse{PlayerID: id, Balance: b, Display: h.ledger.FormatCurrency(b)}
}

// --- Player handlers ---

func (h *HandlerProvider) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"pendingWrites": h.store.Pending(),
	})
}

// GetBalance handles GET /players/{playerId}/balance
func (h *HandlerProvider) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, err := parsePlayerID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	h.writeJSON(w, http.StatusOK, h.balanceResponse(id, h.ledger.Balance(id)))
}

type transferRequest struct {
	To     uuid.UUID    `json:"to"`
	Amount money.Amount `json:"amount"`
}

type transferResponse struct {
	From        uuid.UUID    `json:"from"`
	To          uuid.UUID    `json:"to"`
	Amount      money.Amount `json:"amount"`
	FromBalance money.Amount `json:"fromBalance"`
	ToBalance   money.Amount `json:"toBalance"`
	Display     string       `json:"display"`
}

// Transfer handles POST /players/{playerId}/transfer
func (h *HandlerProvider) Transfer(w http.ResponseWriter, r *http.Request) {
	from, err := parsePlayerID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	var req transferRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	if req.To == uuid.Nil {
		h.writeError(w, http.StatusBadRequest, "to required")

		return
	}

	receipt, err := h.ledger.Transfer(r.Context(), from, req.To, req.Amount)
	if err != nil {
		h.writeLedgerError(w, r, err)

		return
	}

	h.writeJSON(w, http.StatusOK, transferResponse{
		From:        receipt.From,
		To:          receipt.To,
		Amount:      receipt.Amount,
		FromBalance: receipt.FromBalance,
		ToBalance:   receipt.ToBalance,
		Display:     h.ledger.FormatCurrency(receipt.Amount),
	})
}

type sellRequest struct {
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
}

// Sell handles POST /players/{playerId}/sell. The game server removes the
// items from the player's inventory before, or atomically with, this request.
func (h *HandlerProvider) Sell(w http.ResponseWriter, r *http.Request) {
	id, err := parsePlayerID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	var req sellRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	earnings, err := h.ledger.SellItem(r.Context(), id, req.Item, req.Quantity)
	if err != nil {
		h.writeLedgerError(w, r, err)

		return
	}

	bal := h.ledger.Balance(id)

	h.writeJSON(w, http.StatusOK, map[string]any{
		"playerId": id,
		"item":     catalog.NormalizeItem(req.Item),
		"quantity": req.Quantity,
		"earnings": earnings,
		"balance":  bal,
		"display":  h.ledger.FormatCurrency(earnings),
	})
}

type leaderboardRow struct {
	Rank     int          `json:"rank"`
	PlayerID uuid.UUID    `json:"playerId"`
	Balance  money.Amount `json:"balance"`
	Display  string       `json:"display"`
}

// Leaderboard handles GET /leaderboard?limit=n
func (h *HandlerProvider) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	top := h.ledger.TopBalances(limit)

	rows := make([]leaderboardRow, 0, len(top))
	for i, e := range top {
		rows = append(rows, leaderboardRow{
			Rank:     i + 1,
			PlayerID: e.Player,
			Balance:  e.Balance,
			Display:  h.ledger.FormatCurrency(e.Balance),
		})
	}

	h.writeJSON(w, http.StatusOK, rows)
}

// ListPrices handles GET /prices
func (h *HandlerProvider) ListPrices(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"prices": h.catalog.All()})
}

type priceResponse struct {
	Item     string       `json:"item"`
	Price    money.Amount `json:"price"`
	Sellable bool         `json:"sellable"`
	Display  string       `json:"display"`
}

// GetPrice handles GET /prices/{item}
func (h *HandlerProvider) GetPrice(w http.ResponseWriter, r *http.Request) {
	item := catalog.NormalizeItem(chi.URLParam(r, "item"))
	price := h.catalog.Price(item)

	h.writeJSON(w, http.StatusOK, priceResponse{
		Item:     item,
		Price:    price,
		Sellable: price.IsPositive(),
		Display:  h.ledger.FormatCurrency(price),
	})
}
