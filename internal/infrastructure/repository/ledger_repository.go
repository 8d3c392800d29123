package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/domain/entity"
	domainRepo "github.com/sangkips/folio-api/internal/domain/repository"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, ledger *entity.Ledger) error {
	return r.db.WithContext(ctx).Create(ledger).Error
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Ledger, error) {
	var ledger entity.Ledger
	err := r.db.WithContext(ctx).First(&ledger, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// Update saves the whole ledger document
func (r *ledgerRepository) Update(ctx context.Context, ledger *entity.Ledger) error {
	return r.db.WithContext(ctx).Save(ledger).Error
}

func (r *ledgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Ledger{}, "id = ?", id).Error
}

func (r *ledgerRepository) List(ctx context.Context, ownerID uuid.UUID, params *domainRepo.LedgerFilterParams) ([]entity.Ledger, int64, error) {
	var ledgers []entity.Ledger
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Ledger{}).Scopes(OwnerScope(ownerID))

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("LOWER(bill_no) LIKE LOWER(?) OR LOWER(guest_name) LIKE LOWER(?)", like, like)
	}

	if params.OnlyDue {
		query = query.Where("due_amount > 0")
	}

	if params.BillPaid != nil {
		query = query.Where("bill_paid = ?", *params.BillPaid)
	}

	if params.Cancelled != nil {
		query = query.Where("cancelled = ?", *params.Cancelled)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Scopes(SortScope(params.SortBy, params.SortOrder)).
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&ledgers).Error

	return ledgers, total, err
}
