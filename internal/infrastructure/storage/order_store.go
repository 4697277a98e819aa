package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/harukimori/orderdesk-api/internal/domain/entity"
	"github.com/harukimori/orderdesk-api/internal/domain/repository"
)

// OrderStore persists the whole order collection as one JSON array under a
// single key, mirroring the legacy storage layout. Every mutation is a
// read-modify-write of the full array; last writer wins across processes,
// which is an accepted limitation of the format.
type OrderStore struct {
	kv  KV
	key string
	now func() time.Time
}

// NewOrderStore creates an order store over the given KV and storage key.
func NewOrderStore(kv KV, key string) *OrderStore {
	return &OrderStore{
		kv:  kv,
		key: key,
		now: time.Now,
	}
}

var _ repository.OrderRepository = (*OrderStore)(nil)

// LoadAll reads the stored collection. A missing key yields an empty slice.
// A corrupt payload is logged and also yields an empty slice: readers must
// never fail because of bad data on disk.
func (s *OrderStore) LoadAll(ctx context.Context) ([]entity.Order, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrKeyMissing) {
		return []entity.Order{}, nil
	}
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		log.Printf("order store: corrupt collection under %q, treating as empty: %v", s.key, err)
		return []entity.Order{}, nil
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return orders, nil
}

// SaveAll serializes and overwrites the entire collection. Unlike LoadAll
// this fails loudly: silent data loss is worse than a visible error.
func (s *OrderStore) SaveAll(ctx context.Context, orders []entity.Order) error {
	if orders == nil {
		orders = []entity.Order{}
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("order store: serialize collection: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("order store: write collection: %w", err)
	}
	return nil
}

// Get returns the order with the given id, or nil when absent.
func (s *OrderStore) Get(ctx context.Context, id string) (*entity.Order, error) {
	orders, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, nil
}

// Upsert replaces the entry with a matching id in place, stamping updatedAt,
// or appends when the id is new. Returns the resulting collection.
func (s *OrderStore) Upsert(ctx context.Context, order *entity.Order) ([]entity.Order, error) {
	orders, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range orders {
		if orders[i].ID == order.ID {
			order.UpdatedAt = s.now().UTC().Format(entity.TimestampLayout)
			orders[i] = *order
			replaced = true
			break
		}
	}
	if !replaced {
		orders = append(orders, *order)
	}

	if err := s.SaveAll(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Remove deletes the entry with the given id and returns the resulting
// collection. An unknown id leaves the collection untouched.
func (s *OrderStore) Remove(ctx context.Context, id string) ([]entity.Order, error) {
	orders, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	kept := orders[:0]
	for _, o := range orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}

	if err := s.SaveAll(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear replaces the stored collection with an empty array.
func (s *OrderStore) Clear(ctx context.Context) error {
	return s.SaveAll(ctx, []entity.Order{})
}
