package prices

import (
	"context"
	"errors"

	"github.com/fastprodman/econoneeds/internal/money"
)

// ErrNotInitialized is returned by LoadAll on first run, before any price was written.
var ErrNotInitialized = errors.New("prices not initialized")

// Prices persists the {item -> unit sell price} catalog.
//
// SaveAll upserts the given records; items absent from the map are left untouched.
type Prices interface {
	LoadAll(ctx context.Context) (map[string]money.Amount, error)
	SaveAll(ctx context.Context, records map[string]money.Amount) error
}
