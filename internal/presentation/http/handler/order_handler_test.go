package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukimori/orderdesk-api/internal/application/service"
	"github.com/harukimori/orderdesk-api/internal/domain/entity"
	"github.com/harukimori/orderdesk-api/internal/domain/repository"
)

type stubRepo struct {
	orders []entity.Order
}

func (r *stubRepo) LoadAll(ctx context.Context) ([]entity.Order, error) { return r.orders, nil }

func (r *stubRepo) SaveAll(ctx context.Context, orders []entity.Order) error {
	r.orders = orders
	return nil
}

func (r *stubRepo) Get(ctx context.Context, id string) (*entity.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == id {
			o := r.orders[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) Upsert(ctx context.Context, order *entity.Order) ([]entity.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == order.ID {
			r.orders[i] = *order
			return r.orders, nil
		}
	}
	r.orders = append(r.orders, *order)
	return r.orders, nil
}

func (r *stubRepo) Remove(ctx context.Context, id string) ([]entity.Order, error) {
	kept := r.orders[:0]
	for _, o := range r.orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	r.orders = kept
	return r.orders, nil
}

func (r *stubRepo) Clear(ctx context.Context) error {
	r.orders = nil
	return nil
}

var _ repository.OrderRepository = (*stubRepo)(nil)

func newTestRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(service.NewOrderService(repo))

	router := gin.New()
	router.POST("/orders", h.Create)
	router.GET("/orders", h.List)
	router.GET("/orders/stats", h.Stats)
	router.GET("/orders/:id", h.Get)
	router.DELETE("/orders/:id", h.Delete)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderCreateEndpoint(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo)

	w := doJSON(t, router, http.MethodPost, "/orders", service.OrderFormInput{
		OrderDate:      "2025-09-01",
		SupplierName:   "Acme Corp",
		ItemNames:      []string{"Cement"},
		ItemQuantities: []string{"4"},
		ItemUnits:      []string{"bag"},
		ItemPrices:     []string{"250"},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.orders, 1)
	assert.Equal(t, 1000.0, repo.orders[0].Subtotal)
	assert.Equal(t, 100.0, repo.orders[0].Tax)
	assert.Equal(t, 1100.0, repo.orders[0].Total)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.ID)
}

func TestOrderCreateRejectsEmptyItems(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	w := doJSON(t, router, http.MethodPost, "/orders", service.OrderFormInput{
		OrderDate: "2025-09-01",
		// Quantity and price alone never keep a row.
		ItemQuantities: []string{"4"},
		ItemPrices:     []string{"250"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderGetNotFound(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	w := doJSON(t, router, http.MethodGet, "/orders/PO-missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Order not found", resp.Message)
}

func TestOrderDeleteMissingIsNoop(t *testing.T) {
	repo := &stubRepo{orders: []entity.Order{{ID: "PO-1", OrderDate: "2025-09-01"}}}
	router := newTestRouter(repo)

	w := doJSON(t, router, http.MethodDelete, "/orders/PO-unknown", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, repo.orders, 1)
}

func TestOrderStatsEndpoint(t *testing.T) {
	repo := &stubRepo{orders: []entity.Order{
		{ID: "PO-1", OrderDate: "2025-09-01", Total: 1100},
		{ID: "PO-2", OrderDate: "2025-09-20", Total: 2200},
		{ID: "PO-3", OrderDate: "2025-08-01", Total: 9900},
	}}
	router := newTestRouter(repo)

	w := doJSON(t, router, http.MethodGet, "/orders/stats?mode=selectedMonth&year=2025&month=9", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data service.OrderStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Count)
	assert.Equal(t, 3300.0, resp.Data.TotalAmount)
}
