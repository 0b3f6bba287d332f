package ledger

import (
	"errors"

	"github.com/fastprodman/econoneeds/internal/balances"
	"github.com/fastprodman/econoneeds/internal/catalog"
)

var (
	ErrInvalidAmount     = balances.ErrInvalidAmount
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotSellable       = errors.New("item not sellable")
	ErrSameIdentity      = errors.New("source and destination are the same player")
	ErrTransactionFailed = errors.New("transaction failed")
)

// IsPersistence reports whether err came from a failed read or write of
// the backing store.
func IsPersistence(err error) bool {
	return errors.Is(err, balances.ErrPersistence) || errors.Is(err, catalog.ErrPersistence)
}

// IsValidation reports whether err rejects the caller's input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrSameIdentity) ||
		errors.Is(err, catalog.ErrInvalidPrice) ||
		errors.Is(err, catalog.ErrInvalidItem)
}
