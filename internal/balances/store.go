// Package balances is the in-memory balance ledger.
//
// Memory is the source of truth for every read. Mutations mark the player
// dirty and wake the flusher, which writes changed records to the backing
// repository outside the ledger lock. Flushes are serialised, so an older
// snapshot can never overwrite a newer one.
package balances

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/money"
	balancesrepo "github.com/fastprodman/econoneeds/internal/repos/balances"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrPersistence   = errors.New("balance persistence failure")
)

const (
	defaultFlushInterval = 5 * time.Second
	defaultFlushTimeout  = 10 * time.Second
)

// Entry is one leaderboard row.
type Entry struct {
	Player  uuid.UUID
	Balance money.Amount
}

type Store struct {
	repo          balancesrepo.Balances
	log           *slog.Logger
	flushInterval time.Duration
	flushTimeout  time.Duration

	mu       sync.RWMutex
	balances map[uuid.UUID]money.Amount
	order    []uuid.UUID // first-insertion order, breaks leaderboard ties
	dirty    map[uuid.UUID]struct{}

	flushMu sync.Mutex
	kick    chan struct{}
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithFlushInterval sets how often the flusher retries pending writes
// when no mutation wakes it.
func WithFlushInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.flushInterval = d
		}
	}
}

// WithFlushTimeout bounds a single write to the repository.
func WithFlushTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.flushTimeout = d
		}
	}
}

// New loads every stored balance from repo.
func New(ctx context.Context, repo balancesrepo.Balances, opts ...Option) (*Store, error) {
	s := &Store{
		repo:          repo,
		log:           slog.Default(),
		flushInterval: defaultFlushInterval,
		flushTimeout:  defaultFlushTimeout,
		dirty:         make(map[uuid.UUID]struct{}),
		kick:          make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}

	loaded, err := s.loadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}

	s.replace(loaded)

	return s, nil
}

// Balance returns the player's balance, 0 when the player has no entry.
func (s *Store) Balance(id uuid.UUID) money.Amount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[id]
}

// HasBalance reports balance(id) >= amount.
func (s *Store) HasBalance(id uuid.UUID, amount money.Amount) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[id] >= amount
}

// SetBalance overwrites the player's balance.
func (s *Store) SetBalance(id uuid.UUID, amount money.Amount) error {
	if amount.IsNegative() {
		return fmt.Errorf("set %s: %w", amount, ErrInvalidAmount)
	}

	s.mu.Lock()
	s.put(id, amount)
	s.mu.Unlock()

	s.schedule()

	return nil
}

// AddBalance credits amount and returns the resulting balance.
func (s *Store) AddBalance(id uuid.UUID, amount money.Amount) (money.Amount, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("add %s: %w", amount, ErrInvalidAmount)
	}

	s.mu.Lock()

	next, ok := s.balances[id].Add(amount)
	if !ok {
		s.mu.Unlock()

		return 0, fmt.Errorf("add %s: balance overflow: %w", amount, ErrInvalidAmount)
	}

	s.put(id, next)
	s.mu.Unlock()

	s.schedule()

	return next, nil
}

// RemoveBalance debits amount. It returns false, leaving the balance
// untouched, when the player cannot afford it.
func (s *Store) RemoveBalance(id uuid.UUID, amount money.Amount) (bool, error) {
	if amount.IsNegative() {
		return false, fmt.Errorf("remove %s: %w", amount, ErrInvalidAmount)
	}

	s.mu.Lock()

	cur := s.balances[id]
	if amount > cur {
		s.mu.Unlock()

		return false, nil
	}

	s.put(id, cur-amount)
	s.mu.Unlock()

	s.schedule()

	return true, nil
}

// TakeBalance debits min(amount, balance) and returns what was taken and
// the resulting balance.
func (s *Store) TakeBalance(id uuid.UUID, amount money.Amount) (taken, balance money.Amount, err error) {
	if amount.IsNegative() {
		return 0, 0, fmt.Errorf("take %s: %w", amount, ErrInvalidAmount)
	}

	s.mu.Lock()

	cur := s.balances[id]
	taken = min(amount, cur)
	balance = cur - taken
	s.put(id, balance)
	s.mu.Unlock()

	s.schedule()

	return taken, balance, nil
}

// TopBalances returns up to limit players with a positive balance, richest
// first. Equal balances keep first-insertion order.
func (s *Store) TopBalances(limit int) []Entry {
	if limit <= 0 {
		return []Entry{}
	}

	s.mu.RLock()

	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		b := s.balances[id]
		if b > 0 {
			out = append(out, Entry{Player: id, Balance: b})
		}
	}

	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Balance > out[j].Balance
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}

// Len returns the number of ledger entries, zero balances included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.balances)
}

// Pending returns how many players have changes not yet written.
func (s *Store) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.dirty)
}

// put must be called with mu held for writing.
func (s *Store) put(id uuid.UUID, amount money.Amount) {
	if _, ok := s.balances[id]; !ok {
		s.order = append(s.order, id)
	}

	s.balances[id] = amount
	s.dirty[id] = struct{}{}
}

// replace must be called with mu held for writing (or before the store is shared).
func (s *Store) replace(loaded map[uuid.UUID]money.Amount) {
	ids := make([]uuid.UUID, 0, len(loaded))
	for id := range loaded {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})

	s.balances = make(map[uuid.UUID]money.Amount, len(loaded))
	s.order = ids

	for _, id := range ids {
		b := loaded[id]
		if b.IsNegative() {
			s.log.Warn("negative stored balance reset to zero", "player", id, "balance", b.String())
			b = 0
		}

		s.balances[id] = b
	}
}

func (s *Store) loadAll(ctx context.Context) (map[uuid.UUID]money.Amount, error) {
	loaded, err := s.repo.LoadAll(ctx)
	if errors.Is(err, balancesrepo.ErrNotInitialized) {
		s.log.Info("no stored balances, starting with an empty ledger")

		return map[uuid.UUID]money.Amount{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return loaded, nil
}
