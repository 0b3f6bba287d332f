// Package yamlfile stores the price list under a top-level "prices" map,
// item id to unit price, as the plugin's config file does.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fastprodman/econoneeds/internal/infra/yamlutil"
	"github.com/fastprodman/econoneeds/internal/money"
	"github.com/fastprodman/econoneeds/internal/repos/prices"
)

const pricesKey = "prices"

var _ prices.Prices = (*pricesRepo)(nil)

type pricesRepo struct {
	path string
	mu   sync.Mutex
}

func New(path string) *pricesRepo {
	return &pricesRepo{path: path}
}

// LoadAll reports prices.ErrNotInitialized when the file or its "prices"
// section does not exist.
func (r *pricesRepo) LoadAll(_ context.Context) (map[string]money.Amount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := yamlutil.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, prices.ErrNotInitialized
	}

	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	section := yamlutil.Lookup(yamlutil.Root(doc), pricesKey)
	if section == nil {
		return nil, prices.ErrNotInitialized
	}

	out := make(map[string]money.Amount)

	yamlutil.Pairs(section, func(item string, node *yaml.Node) {
		d, err := decimal.NewFromString(node.Value)
		if err != nil {
			slog.Warn("skip malformed price", "path", r.path, "item", item, "value", node.Value)

			return
		}

		price, err := money.FromDecimal(d.Round(money.Scale))
		if err != nil {
			slog.Warn("skip out of range price", "path", r.path, "item", item, "error", err)

			return
		}

		out[item] = price
	})

	return out, nil
}

func (r *pricesRepo) SaveAll(_ context.Context, records map[string]money.Amount) error {
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
		return fmt.Errorf("save prices: %w", err)
	}

	section, err := yamlutil.EnsureMapping(yamlutil.Root(doc), pricesKey)
	if err != nil {
		return fmt.Errorf("save prices: %w", err)
	}

	for item, price := range records {
		yamlutil.SetScalar(section, item, price.String(), "!!float")
	}

	err = yamlutil.WriteFile(r.path, doc)
	if err != nil {
		return fmt.Errorf("save prices: %w", err)
	}

	return nil
}
