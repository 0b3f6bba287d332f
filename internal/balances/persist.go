package balances

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/econoneeds/internal/money"
)

// Run flushes pending changes whenever a mutation happens and every flush
// interval, until ctx is done. A final flush runs on the way out.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// final flush must outlive the cancelled ctx
			_ = s.flush(context.WithoutCancel(ctx))

			return
		case <-s.kick:
			_ = s.flush(ctx)
		case <-ticker.C:
			_ = s.flush(ctx)
		}
	}
}

// Save synchronously writes every pending change.
func (s *Store) Save(ctx context.Context) error {
	return s.flush(ctx)
}

// Reload writes pending changes, then replaces the in-memory ledger with
// the repository contents. Storage I/O runs outside the map lock and is
// bounded by the flush timeout. Entries mutated while the load was in
// flight keep their in-memory value and stay dirty.
func (s *Store) Reload(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	batch := s.takeDirtyLocked()
	s.mu.Unlock()

	if len(batch) > 0 {
		err := s.write(ctx, batch)
		if err != nil {
			s.mu.Lock()
			s.markDirtyLocked(batch)
			s.mu.Unlock()

			return fmt.Errorf("reload: flush pending: %w", err)
		}
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.flushTimeout)
	defer cancel()

	loaded, err := s.loadAll(loadCtx)
	if err != nil {
		s.log.Error("reload balances", "error", err)

		return fmt.Errorf("reload: %w", err)
	}

	s.mu.Lock()
	kept := s.swapLocked(loaded)
	s.mu.Unlock()

	s.log.Info("reloaded balances", "players", len(loaded), "kept", kept)

	return nil
}

// swapLocked installs loaded as the ledger, then re-applies entries that
// are still dirty, since those are newer than anything stored. It must be
// called with mu held for writing.
func (s *Store) swapLocked(loaded map[uuid.UUID]money.Amount) int {
	newer := make(map[uuid.UUID]money.Amount, len(s.dirty))
	for id := range s.dirty {
		newer[id] = s.balances[id]
	}

	s.replace(loaded)

	for id, b := range newer {
		s.put(id, b)
	}

	return len(newer)
}

func (s *Store) schedule() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Store) flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	batch := s.takeDirtyLocked()
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	err := s.write(ctx, batch)
	if err != nil {
		s.mu.Lock()
		s.markDirtyLocked(batch)
		s.mu.Unlock()

		s.log.Error("flush balances", "players", len(batch), "error", err)

		return err
	}

	s.log.Debug("flushed balances", "players", len(batch))

	return nil
}

// takeDirtyLocked must be called with mu held for writing.
func (s *Store) takeDirtyLocked() map[uuid.UUID]money.Amount {
	if len(s.dirty) == 0 {
		return nil
	}

	batch := make(map[uuid.UUID]money.Amount, len(s.dirty))
	for id := range s.dirty {
		batch[id] = s.balances[id]
	}

	s.dirty = make(map[uuid.UUID]struct{})

	return batch
}

// markDirtyLocked re-queues a batch whose write failed. The next flush
// writes whatever the balances are by then.
func (s *Store) markDirtyLocked(batch map[uuid.UUID]money.Amount) {
	for id := range batch {
		s.dirty[id] = struct{}{}
	}
}

func (s *Store) write(ctx context.Context, batch map[uuid.UUID]money.Amount) error {
	ctx, cancel := context.WithTimeout(ctx, s.flushTimeout)
	defer cancel()

	err := s.repo.SaveAll(ctx, batch)
	if err != nil {
		return fmt.Errorf("save %d balances: %w: %w", len(batch), ErrPersistence, err)
	}

	return nil
}
