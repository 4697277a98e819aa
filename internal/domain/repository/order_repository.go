package repository

import (
	"context"
	"time"

	"github.com/harukimori/orderdesk-api/internal/domain/entity"
	"github.com/harukimori/orderdesk-api/internal/domain/enum"
	"github.com/harukimori/orderdesk-api/pkg/pagination"
)

// OrderRepository defines the interface for order persistence. The backing
// store holds the whole collection under one key, so every mutation is a
// read-modify-write of the full array and returns the resulting collection.
type OrderRepository interface {
	// LoadAll returns the stored collection. A missing key or corrupt
	// payload yields an empty slice, not an error.
	LoadAll(ctx context.Context) ([]entity.Order, error)
	// SaveAll overwrites the stored collection. This is the one operation
	// that fails loudly: a write error must never be swallowed.
	SaveAll(ctx context.Context, orders []entity.Order) error
	// Get returns the order with the given id, or nil if absent.
	Get(ctx context.Context, id string) (*entity.Order, error)
	// Upsert replaces the entry with a matching id in place, stamping
	// updatedAt, or appends when the id is new. Returns the new collection.
	Upsert(ctx context.Context, order *entity.Order) ([]entity.Order, error)
	// Remove deletes the entry with the given id. Removing an unknown id
	// is a no-op, not an error.
	Remove(ctx context.Context, id string) ([]entity.Order, error)
	// Clear replaces the stored collection with an empty array.
	Clear(ctx context.Context) error
}

// OrderFilterParams contains filtering parameters for the management view.
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Mode       enum.FilterMode
	// SelectedMonth is the reference month for FilterModeSelectedMonth.
	// Only its year and month are significant.
	SelectedMonth time.Time
}
