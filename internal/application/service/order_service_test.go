package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukimori/orderdesk-api/internal/domain/entity"
	"github.com/harukimori/orderdesk-api/internal/domain/enum"
	"github.com/harukimori/orderdesk-api/internal/domain/repository"
)

// fakeOrderRepo is an in-memory stand-in for the single-key store.
type fakeOrderRepo struct {
	orders []entity.Order
}

func (r *fakeOrderRepo) LoadAll(_ context.Context) ([]entity.Order, error) {
	return append([]entity.Order{}, r.orders...), nil
}

func (r *fakeOrderRepo) SaveAll(_ context.Context, orders []entity.Order) error {
	r.orders = orders
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id string) (*entity.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == id {
			o := r.orders[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Upsert(_ context.Context, order *entity.Order) ([]entity.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == order.ID {
			order.UpdatedAt = "2025-09-01T12:00:00Z"
			r.orders[i] = *order
			return r.orders, nil
		}
	}
	r.orders = append(r.orders, *order)
	return r.orders, nil
}

func (r *fakeOrderRepo) Remove(_ context.Context, id string) ([]entity.Order, error) {
	kept := r.orders[:0]
	for _, o := range r.orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	r.orders = kept
	return kept, nil
}

func (r *fakeOrderRepo) Clear(_ context.Context) error {
	r.orders = nil
	return nil
}

func newTestService(repo *fakeOrderRepo) *OrderService {
	svc := NewOrderService(repo)
	svc.now = func() time.Time {
		return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestBuildOrderArithmetic(t *testing.T) {
	order := BuildOrder(&OrderFormInput{
		SupplierName:     "Acme Corp",
		ItemProjectNames: []string{"", ""},
		ItemNames:        []string{"Steel frame", "Bolts"},
		ItemQuantities:   []string{"10", "333"},
		ItemUnits:        []string{"pc", "pc"},
		ItemPrices:       []string{"100", "1"},
	})

	require.Len(t, order.Items, 2)
	assert.Equal(t, 1000.0, order.Items[0].Subtotal)
	assert.Equal(t, 333.0, order.Items[1].Subtotal)
	assert.Equal(t, 1333.0, order.Subtotal)
	assert.Equal(t, 134.0, order.Tax)
	assert.Equal(t, 1467.0, order.Total)
}

func TestBuildOrderDropsBlankRows(t *testing.T) {
	order := BuildOrder(&OrderFormInput{
		ItemProjectNames: []string{"", "Site A", ""},
		ItemNames:        []string{"Cement", "", ""},
		ItemQuantities:   []string{"1", "0", "0"},
		ItemUnits:        []string{"bag", "", ""},
		ItemPrices:       []string{"500", "0", "0"},
	})

	// Row 3 is all blank and dropped. Row 2 has only a project name and
	// is kept.
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Cement", order.Items[0].Name)
	assert.Equal(t, "Site A", order.Items[1].ProjectName)
	assert.Zero(t, order.Items[1].Quantity)
}

func TestBuildOrderRaggedArrays(t *testing.T) {
	order := BuildOrder(&OrderFormInput{
		ItemNames:      []string{"Cement", "Sand", "Gravel"},
		ItemQuantities: []string{"2"},
		ItemPrices:     []string{"500", "300"},
	})

	require.Len(t, order.Items, 3)
	assert.Equal(t, 1000.0, order.Items[0].Subtotal)
	// Missing quantity parses as zero.
	assert.Zero(t, order.Items[1].Subtotal)
	assert.Equal(t, "", order.Items[2].Unit)
	assert.Zero(t, order.Items[2].UnitPrice)
}

func TestBuildOrderPreservesRowOrder(t *testing.T) {
	order := BuildOrder(&OrderFormInput{
		ItemNames: []string{"C", "A", "B"},
	})

	require.Len(t, order.Items, 3)
	assert.Equal(t, "C", order.Items[0].Name)
	assert.Equal(t, "A", order.Items[1].Name)
	assert.Equal(t, "B", order.Items[2].Name)
}

func TestCreateOrder(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := newTestService(repo)

	order, err := svc.CreateOrder(context.Background(), &OrderFormInput{
		SupplierName:   "Acme Corp",
		ItemNames:      []string{"Cement"},
		ItemQuantities: []string{"4"},
		ItemPrices:     []string{"250"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.ID, "PO-20250901-"), "got id %q", order.ID)
	assert.Equal(t, "2025-09-01", order.OrderDate)
	assert.Equal(t, "2025-09-01T12:00:00Z", order.CreatedAt)
	assert.Len(t, repo.orders, 1)
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	svc := newTestService(&fakeOrderRepo{})

	_, err := svc.CreateOrder(context.Background(), &OrderFormInput{
		SupplierName: "Acme Corp",
		ItemNames:    []string{"", "  "},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line item")
}

func TestUpdateOrderPreservesIdentity(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, &OrderFormInput{
		OrderDate:      "2025-08-15",
		SupplierName:   "Acme Corp",
		ItemNames:      []string{"Cement"},
		ItemQuantities: []string{"4"},
		ItemPrices:     []string{"250"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, created.ID, &OrderFormInput{
		SupplierName:   "Acme Corp",
		ItemNames:      []string{"Cement", "Sand"},
		ItemQuantities: []string{"4", "2"},
		ItemPrices:     []string{"250", "300"},
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	// Blank date on edit keeps the original order date.
	assert.Equal(t, "2025-08-15", updated.OrderDate)
	assert.Equal(t, 1600.0, updated.Subtotal)
	assert.Len(t, repo.orders, 1)
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc := newTestService(&fakeOrderRepo{})

	_, err := svc.UpdateOrder(context.Background(), "PO-404", &OrderFormInput{
		ItemNames: []string{"Cement"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStatsSumsStoredTotals(t *testing.T) {
	repo := &fakeOrderRepo{orders: []entity.Order{
		{ID: "PO-1", OrderDate: "2025-09-01", Total: 1100},
		{ID: "PO-2", OrderDate: "2025-09-15", Total: 2200},
		{ID: "PO-3", OrderDate: "2025-07-01", Total: 9999},
	}}
	svc := newTestService(repo)

	stats, err := svc.Stats(context.Background(), &repository.OrderFilterParams{
		Mode:          enum.FilterModeSelectedMonth,
		SelectedMonth: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 3300.0, stats.TotalAmount)
}

func TestDeleteOrderMissingIDIsNoop(t *testing.T) {
	repo := &fakeOrderRepo{orders: []entity.Order{{ID: "PO-1", Total: 100}}}
	svc := newTestService(repo)

	require.NoError(t, svc.DeleteOrder(context.Background(), "PO-404"))
	assert.Len(t, repo.orders, 1)
}

func TestListOrdersPaginates(t *testing.T) {
	repo := &fakeOrderRepo{}
	for i := 0; i < 20; i++ {
		repo.orders = append(repo.orders, entity.Order{
			ID:        "PO-" + string(rune('A'+i)),
			OrderDate: "2025-09-01",
		})
	}
	svc := newTestService(repo)

	result, err := svc.ListOrders(context.Background(), &repository.OrderFilterParams{
		Mode: enum.FilterModeAll,
	})
	require.NoError(t, err)

	assert.Len(t, result.Items, 15)
	assert.Equal(t, int64(20), result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.True(t, result.Pagination.HasNext)
}
