package service

import (
	"context"
	"time"

	"github.com/harukimori/orderdesk-api/internal/domain/entity"
	"github.com/harukimori/orderdesk-api/internal/domain/repository"
	"github.com/harukimori/orderdesk-api/pkg/apperror"
	"github.com/harukimori/orderdesk-api/pkg/pagination"
	"github.com/harukimori/orderdesk-api/pkg/utils"
)

// OrderService owns order creation, editing and the management view.
type OrderService struct {
	repo repository.OrderRepository
	now  func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(repo repository.OrderRepository) *OrderService {
	return &OrderService{
		repo: repo,
		now:  time.Now,
	}
}

// OrderFormInput mirrors the creation form: scalar fields plus five
// index-aligned arrays, one per line-item column.
type OrderFormInput struct {
	OrderDate       string `json:"orderDate"`
	CompanyName     string `json:"companyName"`
	CompanyAddress  string `json:"companyAddress"`
	CompanyPhone    string `json:"companyPhone"`
	CompanyEmail    string `json:"companyEmail"`
	StaffMember     string `json:"staffMember"`
	SupplierName    string `json:"supplierName"`
	SupplierAddress string `json:"supplierAddress"`
	ContactPerson   string `json:"contactPerson"`
	PaymentTerms    string `json:"paymentTerms"`
	CompletionMonth string `json:"completionMonth"`
	Remarks         string `json:"remarks"`

	ItemProjectNames []string `json:"itemProjectNames"`
	ItemNames        []string `json:"itemNames"`
	ItemQuantities   []string `json:"itemQuantities"`
	ItemUnits        []string `json:"itemUnits"`
	ItemPrices       []string `json:"itemPrices"`
}

// BuildOrder normalizes raw form values into an order. The item arrays are
// zipped by index up to the longest one; short arrays contribute empty
// values. All-blank rows are dropped, numeric fields parse with default-0
// semantics, and every derived figure is recomputed. Pure transform: id and
// timestamps are the caller's job.
func BuildOrder(in *OrderFormInput) entity.Order {
	rows := len(in.ItemProjectNames)
	for _, n := range []int{len(in.ItemNames), len(in.ItemQuantities), len(in.ItemUnits), len(in.ItemPrices)} {
		if n > rows {
			rows = n
		}
	}

	items := make([]entity.LineItem, 0, rows)
	for i := 0; i < rows; i++ {
		item := entity.LineItem{
			ProjectName: at(in.ItemProjectNames, i),
			Name:        at(in.ItemNames, i),
			Quantity:    entity.ParseAmount(at(in.ItemQuantities, i)),
			Unit:        at(in.ItemUnits, i),
			UnitPrice:   entity.ParseAmount(at(in.ItemPrices, i)),
		}
		if item.IsBlank() {
			continue
		}
		items = append(items, item)
	}

	order := entity.Order{
		OrderDate:       in.OrderDate,
		CompanyName:     in.CompanyName,
		CompanyAddress:  in.CompanyAddress,
		CompanyPhone:    in.CompanyPhone,
		CompanyEmail:    in.CompanyEmail,
		StaffMember:     in.StaffMember,
		SupplierName:    in.SupplierName,
		SupplierAddress: in.SupplierAddress,
		ContactPerson:   in.ContactPerson,
		PaymentTerms:    in.PaymentTerms,
		CompletionMonth: in.CompletionMonth,
		Remarks:         in.Remarks,
		Items:           items,
	}
	order.Recompute()
	return order
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// CreateOrder builds a new order from form input and persists it.
func (s *OrderService) CreateOrder(ctx context.Context, input *OrderFormInput) (*entity.Order, error) {
	order := BuildOrder(input)
	if len(order.Items) == 0 {
		return nil, apperror.NewBadRequestError("At least one populated line item is required")
	}

	now := s.now()
	if order.OrderDate == "" {
		order.OrderDate = now.Format(entity.DateLayout)
	}
	order.ID = utils.GenerateOrderNumber(now)
	order.CreatedAt = now.UTC().Format(entity.TimestampLayout)

	if _, err := s.repo.Upsert(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder rebuilds an existing order from form input, preserving its id
// and creation timestamp. The store stamps updatedAt on replace.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, input *OrderFormInput) (*entity.Order, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	order := BuildOrder(input)
	if len(order.Items) == 0 {
		return nil, apperror.NewBadRequestError("At least one populated line item is required")
	}

	order.ID = existing.ID
	order.CreatedAt = existing.CreatedAt
	if order.OrderDate == "" {
		order.OrderDate = existing.OrderDate
	}

	if _, err := s.repo.Upsert(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder returns a single order by id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders returns the filtered management view, paginated.
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	filtered, err := s.ListFiltered(ctx, params)
	if err != nil {
		return nil, err
	}

	p := params.Pagination
	if p == nil {
		p = pagination.DefaultPagination()
	}
	return pagination.Slice(filtered, p), nil
}

// ListFiltered returns the full filtered collection without pagination, in
// stored order. Export and stats consumers read this view.
func (s *OrderService) ListFiltered(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, error) {
	orders, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOrders(orders, params, s.now()), nil
}

// OrderStats are the aggregates shown above the management list.
type OrderStats struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

// Stats computes the count and total-amount sum over the filtered view.
// The sum uses each order's stored total, not a recomputed subtotal.
func (s *OrderService) Stats(ctx context.Context, params *repository.OrderFilterParams) (*OrderStats, error) {
	filtered, err := s.ListFiltered(ctx, params)
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{Count: len(filtered)}
	for _, o := range filtered {
		stats.TotalAmount += o.Total
	}
	return stats, nil
}

// DeleteOrder removes an order. Deleting an id that no longer exists is a
// no-op, matching the store contract.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	_, err := s.repo.Remove(ctx, id)
	return err
}

// ClearOrders deletes the whole collection.
func (s *OrderService) ClearOrders(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
