package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the components the router serves.
type Deps struct {
	Ledger     Ledger
	Catalog    Catalog
	Store      Store
	AdminToken string
	Log        *slog.Logger
}

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(d Deps) http.Handler {
	h := NewHandler(d.Ledger, d.Catalog, d.Store, d.Log)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/players/{playerId}", func(r chi.Router) {
		r.Get("/balance", h.GetBalance)
		r.Post("/transfer", h.Transfer)
		r.Post("/sell", h.Sell)
	})

	r.Get("/leaderboard", h.Leaderboard)
	r.Get("/prices", h.ListPrices)
	r.Get("/prices/{item}", h.GetPrice)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireAdmin(d.AdminToken))

		r.Post("/players/{playerId}/credit", h.Credit)
		r.Post("/players/{playerId}/debit", h.Debit)
		r.Put("/players/{playerId}/balance", h.SetBalance)
		r.Put("/prices/{item}", h.SetPrice)
		r.Post("/prices/reload", h.ReloadPrices)
		r.Post("/balances/reload", h.ReloadBalances)
		r.Post("/save", h.Save)
	})

	return r
}
