// Package events carries balance-change notifications to external consumers.
// Publishing is best effort: the ledger never waits on or rolls back for it.
package events

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/fastprodman/econoneeds/internal/money"
)

type Kind string

const (
	KindTransfer Kind = "transfer"
	KindCredit   Kind = "credit"
	KindDebit    Kind = "debit"
	KindSet      Kind = "set"
	KindSell     Kind = "sell"
)

// Event describes one committed balance change. Balance is the player's
// balance after the change.
type Event struct {
	ID           string       `json:"id"`
	Kind         Kind         `json:"kind"`
	Player       uuid.UUID    `json:"player"`
	Counterparty *uuid.UUID   `json:"counterparty,omitempty"`
	Item         string       `json:"item,omitempty"`
	Quantity     int64        `json:"quantity,omitempty"`
	Amount       money.Amount `json:"amount"`
	Balance      money.Amount `json:"balance"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

// New stamps an event with a ULID and the current time.
func New(kind Kind, player uuid.UUID, amount, balance money.Amount) Event {
	now := time.Now().UTC()

	return Event{
		ID:         ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Kind:       kind,
		Player:     player,
		Amount:     amount,
		Balance:    balance,
		OccurredAt: now,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
