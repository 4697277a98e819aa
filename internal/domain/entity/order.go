package entity

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// TaxRate is the consumption tax applied to every order subtotal.
const TaxRate = 0.10

// Date formats used on the wire. Timestamps round-trip as strings so that
// records written by older clients are preserved byte for byte.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = time.RFC3339
)

// LineItem is one row of ordered product/service.
//
// Subtotal is persisted for legacy compatibility but is never authoritative:
// every consumer recomputes it as quantity * unitPrice via Recompute.
type LineItem struct {
	ProjectName string  `json:"projectName"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// ComputeSubtotal returns quantity * unitPrice.
func (li LineItem) ComputeSubtotal() float64 {
	return li.Quantity * li.UnitPrice
}

// IsBlank reports whether the row should be dropped when building an order.
// A row is kept iff its name or project name is non-blank after trimming;
// quantity and price alone never keep a row.
func (li LineItem) IsBlank() bool {
	return strings.TrimSpace(li.Name) == "" && strings.TrimSpace(li.ProjectName) == ""
}

// Order is one purchase order. The JSON field names are the authoritative
// wire format of the persisted collection and must not change.
type Order struct {
	ID              string     `json:"id"`
	OrderDate       string     `json:"orderDate"`
	CompanyName     string     `json:"companyName"`
	CompanyAddress  string     `json:"companyAddress"`
	CompanyPhone    string     `json:"companyPhone"`
	CompanyEmail    string     `json:"companyEmail"`
	StaffMember     string     `json:"staffMember"`
	SupplierName    string     `json:"supplierName"`
	SupplierAddress string     `json:"supplierAddress"`
	ContactPerson   string     `json:"contactPerson"`
	PaymentTerms    string     `json:"paymentTerms,omitempty"`
	CompletionMonth string     `json:"completionMonth,omitempty"`
	Items           []LineItem `json:"items"`
	Subtotal        float64    `json:"subtotal"`
	Tax             float64    `json:"tax"`
	Total           float64    `json:"total"`
	Remarks         string     `json:"remarks"`
	CreatedAt       string     `json:"createdAt"`
	UpdatedAt       string     `json:"updatedAt,omitempty"`
}

// Tax returns the tax due on a subtotal, rounded up to the nearest whole
// currency unit. Rounding up is a business rule, not a convenience.
func Tax(subtotal float64) float64 {
	return math.Ceil(subtotal * TaxRate)
}

// Recompute rewrites every derived figure from the line items. Called on
// every save so stored totals can never drift from the items.
func (o *Order) Recompute() {
	var subtotal float64
	for i := range o.Items {
		o.Items[i].Subtotal = o.Items[i].ComputeSubtotal()
		subtotal += o.Items[i].Subtotal
	}
	o.Subtotal = subtotal
	o.Tax = Tax(subtotal)
	o.Total = subtotal + o.Tax
}

// OrderDateTime parses the order date. The second return value is false for
// a blank or malformed date; date-window filters treat such orders as
// outside every window rather than failing.
func (o *Order) OrderDateTime() (time.Time, bool) {
	t, err := time.Parse(DateLayout, o.OrderDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseAmount parses a quantity or price field with form semantics: blank or
// non-numeric input is zero, never an error.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
