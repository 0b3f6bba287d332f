// Package yamlfile stores balances in the plugin's original layout:
//
//	players:
//	  <uuid>:
//	    balance: 20.5
//
// Other keys, including unknown per-player fields, are kept on save.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fastprodman/econoneeds/internal/infra/yamlutil"
	"github.com/fastprodman/econoneeds/internal/money"
	"github.com/fastprodman/econoneeds/internal/repos/balances"
)

const (
	playersKey = "players"
	balanceKey = "balance"
)

var _ balances.Balances = (*balancesRepo)(nil)

type balancesRepo struct {
	path string
	mu   sync.Mutex
}

func New(path string) *balancesRepo {
	return &balancesRepo{path: path}
}

func (r *balancesRepo) LoadAll(_ context.Context) (map[uuid.UUID]money.Amount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := yamlutil.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, balances.ErrNotInitialized
	}

	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}

	out := make(map[uuid.UUID]money.Amount)

	yamlutil.Pairs(yamlutil.Lookup(yamlutil.Root(doc), playersKey), func(key string, player *yaml.Node) {
		id, err := uuid.Parse(key)
		if err != nil {
			slog.Warn("skip non-uuid player key", "path", r.path, "key", key)

			return
		}

		node := yamlutil.Lookup(player, balanceKey)
		if node == nil {
			return
		}

		amount, err := parseAmount(node.Value)
		if err != nil {
			slog.Warn("skip malformed balance", "path", r.path, "player", id, "value", node.Value, "error", err)

			return
		}

		out[id] = amount
	})

	return out, nil
}

// SaveAll rewrites the file with records merged into the existing document.
func (r *balancesRepo) SaveAll(_ context.Context, records map[uuid.UUID]money.Amount) error {
	if len(records) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := yamlutil.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		doc, err = yamlutil.NewDocument(), nil
	}

	if err != nil {
		return fmt.Errorf("save balances: %w", err)
	}

	players, err := yamlutil.EnsureMapping(yamlutil.Root(doc), playersKey)
	if err != nil {
		return fmt.Errorf("save balances: %w", err)
	}

	for id, amount := range records {
		player, err := yamlutil.EnsureMapping(players, id.String())
		if err != nil {
			return fmt.Errorf("save balance %s: %w", id, err)
		}

		yamlutil.SetScalar(player, balanceKey, amount.String(), "!!float")
	}

	err = yamlutil.WriteFile(r.path, doc)
	if err != nil {
		return fmt.Errorf("save balances: %w", err)
	}

	return nil
}

// parseAmount reads a stored number exactly. Files written by older
// versions hold doubles, so values finer than a cent are rounded.
func parseAmount(raw string) (money.Amount, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, money.ErrInvalidAmount)
	}

	return money.FromDecimal(d.Round(money.Scale))
}
