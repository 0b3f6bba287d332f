package balances

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/money"
)

// ErrNotInitialized is returned by LoadAll when the backing medium has never been written.
var ErrNotInitialized = errors.New("balances not initialized")

// Balances persists the {player -> balance} ledger.
//
// SaveAll upserts the given records; players absent from the map are left untouched.
type Balances interface {
	LoadAll(ctx context.Context) (map[uuid.UUID]money.Amount, error)
	SaveAll(ctx context.Context, records map[uuid.UUID]money.Amount) error
}
