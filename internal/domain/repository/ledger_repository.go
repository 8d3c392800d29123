package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/domain/entity"
	"github.com/sangkips/folio-api/pkg/pagination"
)

// LedgerRepository defines the interface for ledger data operations.
// Update always writes the whole document; callers serialize writers with a LedgerLocker.
type LedgerRepository interface {
	Create(ctx context.Context, ledger *entity.Ledger) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Ledger, error)
	Update(ctx context.Context, ledger *entity.Ledger) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, params *LedgerFilterParams) ([]entity.Ledger, int64, error)
}

// LedgerFilterParams contains filtering parameters for ledger queries
type LedgerFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	OnlyDue    bool
	BillPaid   *bool
	Cancelled  *bool
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// LedgerLocker serializes read-modify-write cycles on one ledger.
// The returned release func must be called once the write is saved.
type LedgerLocker interface {
	Acquire(ctx context.Context, ledgerID uuid.UUID) (release func(context.Context) error, err error)
}
