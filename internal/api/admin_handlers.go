package api

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/econoneeds/internal/catalog"
	"github.com/fastprodman/econoneeds/internal/money"
)

const AdminTokenHeader = "X-Admin-Token"

// RequireAdmin rejects requests whose X-Admin-Token does not match token.
// An empty token locks every admin route.
func (h *HandlerProvider) RequireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				h.writeError(w, http.StatusUnauthorized, "admin token required")

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type amountRequest struct {
	Amount *money.Amount `json:"amount"`
}

// decodeAmount reads {"amount": "..."}; the field is required.
func decodeAmount(w http.ResponseWriter, r *http.Request) (money.Amount, error) {
	var req amountRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		return 0, err
	}

	if req.Amount == nil {
		return 0, errors.New("amount required")
	}

	return *req.Amount, nil
}

// Credit handles POST /admin/players/{playerId}/credit
func (h *HandlerProvider) Credit(w http.ResponseWriter, r *http.Request) {
	id, err := parsePlayerID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	amount, err := decodeAmount(w, r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	bal, err := h.ledger.AdminCredit(r.Context(), id, amount)
	if err != nil {
		h.writeLedgerError(w, r, err)

		return
	}

	h.writeJSON(w, http.StatusOK, h.balanceResponse(id, bal))
}

// Debit handles POST /admin/players/{playerId}/debit. The debit is clamped
// to the available balance; "taken" says how much was removed.
func (h *HandlerProvider) Debit(w http.ResponseWriter, r *http.Request) {
	id, err := parsePlayerID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	amount, err := decodeAmount(w, r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	taken, bal, err := h.ledger.AdminDebit(r.Context(), id, amount)
	if err != nil {
		h.writeLedgerError(w, r, err)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"playerId": id,
		"taken":    taken,
		"balance":  bal,
		"display":  h.ledger.FormatCurrency(bal),
	})
}

// SetBalance handles PUT /admin/players/{playerId}/balance
func (h *HandlerProvider) SetBalance(w http.ResponseWriter, r *http.Request) {
	id, err := parsePlayerID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	amount, err := decodeAmount(w, r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	err = h.ledger.AdminSet(r.Context(), id, amount)
	if err != nil {
		h.writeLedgerError(w, r, err)

		return
	}

	h.writeJSON(w, http.StatusOK, h.balanceResponse(id, amount))
}

type priceRequest struct {
	Price *money.Amount `json:"price"`
}

// SetPrice handles PUT /admin/prices/{item}
func (h *HandlerProvider) SetPrice(w http.ResponseWriter, r *http.Request) {
	item := catalog.NormalizeItem(chi.URLParam(r, "item"))

	var req priceRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	if req.Price == nil {
		h.writeError(w, http.StatusBadRequest, "price required")

		return
	}

	price := *req.Price

	err = h.catalog.SetPrice(r.Context(), item, price)
	if err != nil {
		h.writeLedgerError(w, r, err)

		return
	}

	h.writeJSON(w, http.StatusOK, priceResponse{
		Item:     item,
		Price:    price,
		Sellable: price.IsPositive(),
		Display:  h.ledger.FormatCurrency(price),
	})
}

// ReloadPrices handles POST /admin/prices/reload
func (h *HandlerProvider) ReloadPrices(w http.ResponseWriter, r *http.Request) {
	err := h.catalog.Reload(r.Context())
	if err != nil {
		h.writeLedgerError(w, r, err)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "items": len(h.catalog.All())})
}

// ReloadBalances handles POST /admin/balances/reload
func (h *HandlerProvider) ReloadBalances(w http.ResponseWriter, r *http.Request) {
	err := h.store.Reload(r.Context())
	if err != nil {
		h.writeLedgerError(w, r, err)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Save handles POST /admin/save
func (h *HandlerProvider) Save(w http.ResponseWriter, r *http.Request) {
	err := h.store.Save(r.Context())
	if err != nil {
		h.writeLedgerError(w, r, err)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
