package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and owner
	GetByKey(ctx context.Context, key string, ownerID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Delete removes one key so it can be stored again
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired idempotency keys and reports how many went
	DeleteExpired(ctx context.Context) (int64, error)
}
