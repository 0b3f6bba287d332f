// Package ledger exposes the player-facing and admin operations on top of
// the balance store and the price catalog.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/balances"
	"github.com/fastprodman/econoneeds/internal/catalog"
	"github.com/fastprodman/econoneeds/internal/events"
	"github.com/fastprodman/econoneeds/internal/money"
)

// BalanceStore is the subset of *balances.Store the service mutates.
type BalanceStore interface {
	Balance(id uuid.UUID) money.Amount
	HasBalance(id uuid.UUID, amount money.Amount) bool
	SetBalance(id uuid.UUID, amount money.Amount) error
	AddBalance(id uuid.UUID, amount money.Amount) (money.Amount, error)
	RemoveBalance(id uuid.UUID, amount money.Amount) (bool, error)
	TakeBalance(id uuid.UUID, amount money.Amount) (taken, balance money.Amount, err error)
	TopBalances(limit int) []balances.Entry
}

type PriceCatalog interface {
	Price(item string) money.Amount
}

// Receipt is the outcome of a transfer. Balances are read right after the
// transfer committed.
type Receipt struct {
	From        uuid.UUID
	To          uuid.UUID
	Amount      money.Amount
	FromBalance money.Amount
	ToBalance   money.Amount
}

type Service struct {
	store     BalanceStore
	catalog   PriceCatalog
	currency  string
	publisher events.Publisher
	log       *slog.Logger
}

type Option func(*Service)

// WithCurrency sets the ISO code used by FormatCurrency.
func WithCurrency(code string) Option {
	return func(s *Service) { s.currency = money.NormalizeCurrency(code) }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func New(store BalanceStore, catalog PriceCatalog, opts ...Option) *Service {
	s := &Service{
		store:     store,
		catalog:   catalog,
		currency:  money.DefaultCurrency,
		publisher: events.Nop{},
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}

	return s
}

// Transfer moves amount from one player to another. The debit is declined
// with ErrInsufficientFunds when the payer cannot afford it. If the credit
// fails after the debit, the payer is refunded and ErrTransactionFailed is
// returned.
func (s *Service) Transfer(ctx context.Context, from, to uuid.UUID, amount money.Amount) (Receipt, error) {
	if !amount.IsPositive() {
		return Receipt{}, fmt.Errorf("transfer %s: %w", amount, ErrInvalidAmount)
	}

	if from == to {
		return Receipt{}, fmt.Errorf("transfer to %s: %w", to, ErrSameIdentity)
	}

	if !s.store.HasBalance(from, amount) {
		return Receipt{}, fmt.Errorf("transfer %s from %s: %w", amount, from, ErrInsufficientFunds)
	}

	ok, err := s.store.RemoveBalance(from, amount)
	if err != nil {
		return Receipt{}, fmt.Errorf("debit %s: %w", from, err)
	}

	if !ok {
		return Receipt{}, fmt.Errorf("transfer %s from %s: %w", amount, from, ErrInsufficientFunds)
	}

	toBalance, err := s.store.AddBalance(to, amount)
	if err != nil {
		_, refundErr := s.store.AddBalance(from, amount)
		if refundErr != nil {
			s.log.Error("refund after failed transfer credit",
				"from", from, "to", to, "amount", amount.String(), "error", refundErr)
		}

		return Receipt{}, fmt.Errorf("%w: credit %s: %w", ErrTransactionFailed, to, err)
	}

	r := Receipt{
		From:        from,
		To:          to,
		Amount:      amount,
		FromBalance: s.store.Balance(from),
		ToBalance:   toBalance,
	}

	out := events.New(events.KindTransfer, from, -amount, r.FromBalance)
	out.Counterparty = &to
	s.publish(ctx, out)

	in := events.New(events.KindTransfer, to, amount, r.ToBalance)
	in.Counterparty = &from
	s.publish(ctx, in)

	return r, nil
}

// AdminCredit adds amount to the player's balance and returns the new one.
func (s *Service) AdminCredit(ctx context.Context, id uuid.UUID, amount money.Amount) (money.Amount, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("credit %s: %w", amount, ErrInvalidAmount)
	}

	balance, err := s.store.AddBalance(id, amount)
	if err != nil {
		return 0, fmt.Errorf("credit %s: %w", id, err)
	}

	s.publish(ctx, events.New(events.KindCredit, id, amount, balance))

	return balance, nil
}

// AdminDebit removes up to amount from the player's balance. Unlike
// Transfer it never fails for lack of funds: it takes what is there.
func (s *Service) AdminDebit(ctx context.Context, id uuid.UUID, amount money.Amount) (taken, balance money.Amount, err error) {
	if !amount.IsPositive() {
		return 0, 0, fmt.Errorf("debit %s: %w", amount, ErrInvalidAmount)
	}

	taken, balance, err = s.store.TakeBalance(id, amount)
	if err != nil {
		return 0, 0, fmt.Errorf("debit %s: %w", id, err)
	}

	s.publish(ctx, events.New(events.KindDebit, id, -taken, balance))

	return taken, balance, nil
}

// AdminSet overwrites the player's balance.
func (s *Service) AdminSet(ctx context.Context, id uuid.UUID, amount money.Amount) error {
	err := s.store.SetBalance(id, amount)
	if err != nil {
		return fmt.Errorf("set %s: %w", id, err)
	}

	s.publish(ctx, events.New(events.KindSet, id, amount, amount))

	return nil
}

// SellItem credits price(item) × quantity and returns the earnings.
// The caller removes the items from the player's inventory before, or
// atomically with, this call. The ledger never touches inventory.
func (s *Service) SellItem(ctx context.Context, id uuid.UUID, item string, quantity int64) (money.Amount, error) {
	price := s.catalog.Price(item)
	if !price.IsPositive() {
		return 0, fmt.Errorf("sell %q: %w", item, ErrNotSellable)
	}

	if quantity <= 0 {
		return 0, fmt.Errorf("sell %d %q: %w", quantity, item, ErrInvalidQuantity)
	}

	earnings, ok := price.Mul(quantity)
	if !ok {
		return 0, fmt.Errorf("sell %d %q: earnings overflow: %w", quantity, item, ErrInvalidQuantity)
	}

	balance, err := s.store.AddBalance(id, earnings)
	if err != nil {
		return 0, fmt.Errorf("credit sale to %s: %w", id, err)
	}

	e := events.New(events.KindSell, id, earnings, balance)
	e.Item = catalog.NormalizeItem(item)
	e.Quantity = quantity
	s.publish(ctx, e)

	return earnings, nil
}

func (s *Service) Balance(id uuid.UUID) money.Amount {
	return s.store.Balance(id)
}

func (s *Service) TopBalances(limit int) []balances.Entry {
	return s.store.TopBalances(limit)
}

// FormatCurrency renders amount in the service currency, e.g. "$1,234.56".
func (s *Service) FormatCurrency(amount money.Amount) string {
	return money.Format(amount, s.currency)
}

func (s *Service) Currency() string {
	return s.currency
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	err := s.publisher.Publish(ctx, e)
	if err != nil {
		s.log.Warn("publish balance event", "kind", e.Kind, "player", e.Player, "error", err)
	}
}
