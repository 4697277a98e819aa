package tasks

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukimori/orderdesk-api/internal/application/service"
	"github.com/harukimori/orderdesk-api/internal/domain/entity"
	"github.com/harukimori/orderdesk-api/internal/domain/repository"
)

type memRepo struct {
	orders []entity.Order
}

func (r *memRepo) LoadAll(ctx context.Context) ([]entity.Order, error) {
	return r.orders, nil
}

func (r *memRepo) SaveAll(ctx context.Context, orders []entity.Order) error {
	r.orders = orders
	return nil
}

func (r *memRepo) Get(ctx context.Context, id string) (*entity.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == id {
			o := r.orders[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (r *memRepo) Upsert(ctx context.Context, order *entity.Order) ([]entity.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == order.ID {
			r.orders[i] = *order
			return r.orders, nil
		}
	}
	r.orders = append(r.orders, *order)
	return r.orders, nil
}

func (r *memRepo) Remove(ctx context.Context, id string) ([]entity.Order, error) {
	out := r.orders[:0]
	for _, o := range r.orders {
		if o.ID != id {
			out = append(out, o)
		}
	}
	r.orders = out
	return r.orders, nil
}

func (r *memRepo) Clear(ctx context.Context) error {
	r.orders = nil
	return nil
}

var _ repository.OrderRepository = (*memRepo)(nil)

type memDrive struct {
	uploads map[string][]byte
}

func (d *memDrive) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if d.uploads == nil {
		d.uploads = make(map[string][]byte)
	}
	d.uploads[filename] = data
	return "orders/2025/09/" + filename, nil
}

func exportTask(t *testing.T, orderID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(OrderExportPayload{OrderID: orderID})
	require.NoError(t, err)
	return asynq.NewTask(TypeOrderExport, payload)
}

func TestHandleOrderExportTaskUploadsPDF(t *testing.T) {
	order := entity.Order{
		ID:           "PO-20250901-1A2B3C4D",
		OrderDate:    "2025-09-01",
		SupplierName: "Acme Corp",
		Items: []entity.LineItem{
			{Name: "Cement", Quantity: 4, Unit: "bag", UnitPrice: 250},
		},
	}
	order.Recompute()

	repo := &memRepo{orders: []entity.Order{order}}
	d := &memDrive{}
	p := NewTaskProcessor(service.NewOrderService(repo), service.NewExportService(), d, nil)

	err := p.HandleOrderExportTask(context.Background(), exportTask(t, order.ID))
	require.NoError(t, err)

	data, ok := d.uploads["Acme_Corp_2025-09-01.pdf"]
	require.True(t, ok)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestHandleOrderExportTaskMissingOrderIsNoop(t *testing.T) {
	repo := &memRepo{}
	d := &memDrive{}
	p := NewTaskProcessor(service.NewOrderService(repo), service.NewExportService(), d, nil)

	err := p.HandleOrderExportTask(context.Background(), exportTask(t, "PO-gone"))
	require.NoError(t, err)
	assert.Empty(t, d.uploads)
}

func TestHandleOrderExportTaskBadPayloadSkipsRetry(t *testing.T) {
	p := NewTaskProcessor(service.NewOrderService(&memRepo{}), service.NewExportService(), &memDrive{}, nil)

	err := p.HandleOrderExportTask(context.Background(), asynq.NewTask(TypeOrderExport, []byte("{broken")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
