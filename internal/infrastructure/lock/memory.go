package lock

import (
	"context"
	"sync"

	"github.com/google/uuid"
	domainRepo "github.com/sangkips/folio-api/internal/domain/repository"
)

// MemoryLocker serializes writers within one process. Use RedisLocker when
// more than one instance serves the same database.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker creates an in-process ledger locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[uuid.UUID]*entry)}
}

var _ domainRepo.LedgerLocker = (*MemoryLocker)(nil)

// Acquire blocks until the ledger is free or ctx is done
func (m *MemoryLocker) Acquire(ctx context.Context, ledgerID uuid.UUID) (func(context.Context) error, error) {
	m.mu.Lock()
	e, ok := m.locks[ledgerID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.locks[ledgerID] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.forget(ledgerID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	release := func(context.Context) error {
		once.Do(func() {
			<-e.ch
			m.forget(ledgerID, e)
		})
		return nil
	}
	return release, nil
}

func (m *MemoryLocker) forget(ledgerID uuid.UUID, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.locks, ledgerID)
	}
}

// Held reports how many ledgers currently have a holder or waiter
func (m *MemoryLocker) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
