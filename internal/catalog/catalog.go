// Package catalog holds the item price catalog used by sell transactions.
//
// The catalog is immutable per load: every Reload or SetPrice builds a new
// map and swaps it in, so readers never see a partially updated catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fastprodman/econoneeds/internal/money"
	"github.com/fastprodman/econoneeds/internal/repos/prices"
)

var (
	ErrPersistence  = errors.New("catalog persistence failure")
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrInvalidItem  = errors.New("item id required")
)

type Catalog struct {
	repo prices.Prices
	log  *slog.Logger

	// mu serialises writers; readers only touch snap.
	mu   sync.Mutex
	snap atomic.Pointer[map[string]money.Amount]
}

type Option func(*Catalog)

func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.log = l }
}

// New loads the catalog from repo. On first run the default price list is
// written to repo and used.
func New(ctx context.Context, repo prices.Prices, opts ...Option) (*Catalog, error) {
	c := &Catalog{repo: repo, log: slog.Default()}
	for _, o := range opts {
		o(c)
	}

	m, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	c.snap.Store(&m)

	return c, nil
}

// NormalizeItem maps user input such as " diamond " to the catalog key "DIAMOND".
func NormalizeItem(item string) string {
	return strings.ToUpper(strings.TrimSpace(item))
}

// Price returns the unit price of item, or 0 when it is not in the catalog.
func (c *Catalog) Price(item string) money.Amount {
	return (*c.snap.Load())[NormalizeItem(item)]
}

// Sellable reports whether item has a positive price.
func (c *Catalog) Sellable(item string) bool {
	return c.Price(item).IsPositive()
}

// All returns a copy of every configured price.
func (c *Catalog) All() map[string]money.Amount {
	return maps.Clone(*c.snap.Load())
}

// Len returns the number of configured items.
func (c *Catalog) Len() int {
	return len(*c.snap.Load())
}

// Reload re-reads the backing store. On failure the current catalog stays in place.
func (c *Catalog) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.load(ctx)
	if err != nil {
		c.log.Error("reload price catalog", "error", err)

		return fmt.Errorf("reload catalog: %w", err)
	}

	c.snap.Store(&m)
	c.log.Info("reloaded price catalog", "items", len(m))

	return nil
}

// SetPrice persists a single price and swaps in a catalog containing it.
// A zero price keeps the item listed but makes it unsellable.
func (c *Catalog) SetPrice(ctx context.Context, item string, price money.Amount) error {
	id := NormalizeItem(item)
	if id == "" {
		return ErrInvalidItem
	}

	if price.IsNegative() {
		return ErrInvalidPrice
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.repo.SaveAll(ctx, map[string]money.Amount{id: price})
	if err != nil {
		return fmt.Errorf("save price %s: %w: %w", id, ErrPersistence, err)
	}

	next := maps.Clone(*c.snap.Load())
	next[id] = price
	c.snap.Store(&next)

	return nil
}

func (c *Catalog) load(ctx context.Context) (map[string]money.Amount, error) {
	raw, err := c.repo.LoadAll(ctx)
	if errors.Is(err, prices.ErrNotInitialized) {
		raw = Defaults()

		err = c.repo.SaveAll(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("seed default prices: %w: %w", ErrPersistence, err)
		}

		c.log.Info("created default price catalog", "items", len(raw))

		return raw, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	// Keys that differ only in case or spacing collapse to one item. The
	// canonical spelling wins, else the first key in sorted order.
	m := make(map[string]money.Amount, len(raw))
	src := make(map[string]string, len(raw))

	for _, item := range slices.Sorted(maps.Keys(raw)) {
		id := NormalizeItem(item)
		if id == "" {
			continue
		}

		if prev, ok := src[id]; ok && (prev == id || item != id) {
			c.log.Warn("duplicate price key skipped", "item", id, "kept", prev, "skipped", item)

			continue
		}

		price := raw[item]
		if price.IsNegative() {
			c.log.Warn("negative price treated as not sellable", "item", id, "price", price.String())
			price = 0
		}

		src[id] = item
		m[id] = price
	}

	return m, nil
}
