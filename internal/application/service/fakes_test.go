package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/domain/entity"
	"github.com/sangkips/folio-api/internal/domain/repository"
)

// fakeLedgerRepo stores ledgers as JSON so callers never share memory with
// what is "persisted"
type fakeLedgerRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID][]byte
	updates int
	failOn  string
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{rows: make(map[uuid.UUID][]byte)}
}

var errStore = errors.New("store unavailable")

func (r *fakeLedgerRepo) put(l *entity.Ledger) error {
	b, err := json.Marshal(l)
	if err != nil {
		return err
	}
	r.rows[l.ID] = b
	return nil
}

func (r *fakeLedgerRepo) Create(_ context.Context, l *entity.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "create" {
		return errStore
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return r.put(l)
}

func (r *fakeLedgerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	var l entity.Ledger
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *fakeLedgerRepo) Update(_ context.Context, l *entity.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "update" {
		return errStore
	}
	r.updates++
	return r.put(l)
}

func (r *fakeLedgerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *fakeLedgerRepo) List(_ context.Context, ownerID uuid.UUID, _ *repository.LedgerFilterParams) ([]entity.Ledger, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Ledger
	for _, b := range r.rows {
		var l entity.Ledger
		if err := json.Unmarshal(b, &l); err != nil {
			return nil, 0, err
		}
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

type fakeAccountRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: make(map[uuid.UUID]*entity.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	c := *a
	r.byID[a.ID] = &c
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	r.byID[a.ID] = &c
	return nil
}
