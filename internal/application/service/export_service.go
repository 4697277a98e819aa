package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/harukimori/orderdesk-api/internal/domain/entity"
	"github.com/harukimori/orderdesk-api/internal/domain/enum"
)

// ExportService renders orders into their document artifacts: the vector
// PDF handed to suppliers and the JSON dump of the filtered list.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// GeneratePDF renders the order as a vector PDF and returns the bytes with
// the download filename.
func (s *ExportService) GeneratePDF(order *entity.Order) ([]byte, string, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		Build()

	m := maroto.New(cfg)

	s.addPDFHeader(m, order)
	s.addPDFParties(m, order)
	s.addPDFItemsTable(m, order)
	s.addPDFTotals(m, order)
	s.addPDFRemarks(m, order)

	doc, err := m.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), PDFFilename(order), nil
}

// PDFFilename builds "<supplier>_<ISO-date>.pdf", falling back to a generic
// label when the supplier is blank.
func PDFFilename(order *entity.Order) string {
	label := sanitizeLabel(order.SupplierName)
	if label == "" {
		label = "purchase_order"
	}
	return fmt.Sprintf("%s_%s.pdf", label, order.OrderDate)
}

// ExportJSON serializes the filtered collection for download.
func (s *ExportService) ExportJSON(orders []entity.Order) ([]byte, error) {
	if orders == nil {
		orders = []entity.Order{}
	}
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize orders: %w", err)
	}
	return data, nil
}

// JSONExportFilename labels the JSON download by the active date window,
// e.g. "orders_2025-09.json" or "orders_all.json".
func JSONExportFilename(mode enum.FilterMode, selected, now time.Time) string {
	var label string
	switch mode {
	case enum.FilterModeAll:
		label = "all"
	case enum.FilterModeThisMonth:
		label = now.Format("2006-01")
	case enum.FilterModeLastMonth:
		y, m := previousMonth(now)
		label = fmt.Sprintf("%04d-%02d", y, m)
	case enum.FilterModeThisYear:
		label = now.Format("2006")
	default:
		if selected.IsZero() {
			selected = now
		}
		label = selected.Format("2006-01")
	}
	return fmt.Sprintf("orders_%s.json", label)
}

func sanitizeLabel(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			b.WriteRune('_')
		case ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatAmount renders a currency amount with thousands separators. Whole
// amounts drop the decimal part, fractional ones keep two places.
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimSuffix(s, ".00")

	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if len(parts) == 2 {
		out += "." + parts[1]
	}
	if neg {
		out = "-" + out
	}
	return out
}

func (s *ExportService) addPDFHeader(m core.Maroto, order *entity.Order) {
	m.AddRow(22,
		col.New(7).Add(
			text.New("PURCHASE ORDER", props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("No. %s", order.ID), props.Text{
				Size:  10,
				Align: align.Right,
			}),
			text.New(fmt.Sprintf("Date: %s", order.OrderDate), props.Text{
				Size:  10,
				Top:   6,
				Align: align.Right,
			}),
		),
	)

	m.AddRow(5, line.NewCol(12))
}

func (s *ExportService) addPDFParties(m core.Maroto, order *entity.Order) {
	m.AddRow(34,
		col.New(6).Add(
			text.New("TO:", props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
			text.New(order.SupplierName, props.Text{
				Size:  11,
				Top:   5,
				Align: align.Left,
			}),
			text.New(order.SupplierAddress, props.Text{
				Size:  9,
				Top:   11,
				Align: align.Left,
			}),
			text.New(order.ContactPerson, props.Text{
				Size:  9,
				Top:   16,
				Align: align.Left,
			}),
		),
		col.New(6).Add(
			text.New("FROM:", props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
			text.New(order.CompanyName, props.Text{
				Size:  11,
				Top:   5,
				Align: align.Left,
			}),
			text.New(order.CompanyAddress, props.Text{
				Size:  9,
				Top:   11,
				Align: align.Left,
			}),
			text.New(strings.TrimSpace(order.CompanyPhone+"  "+order.CompanyEmail), props.Text{
				Size:  9,
				Top:   16,
				Align: align.Left,
			}),
			text.New(order.StaffMember, props.Text{
				Size:  9,
				Top:   21,
				Align: align.Left,
			}),
		),
	)

	m.AddRow(5, line.NewCol(12))
}

func (s *ExportService) addPDFItemsTable(m core.Maroto, order *entity.Order) {
	m.AddRow(8,
		col.New(3).Add(
			text.New("Project", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}),
		),
		col.New(4).Add(
			text.New("Item", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}),
		),
		col.New(1).Add(
			text.New("Qty", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center}),
		),
		col.New(1).Add(
			text.New("Unit", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center}),
		),
		col.New(1).Add(
			text.New("Price", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		),
		col.New(2).Add(
			text.New("Amount", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		),
	)

	m.AddRow(2, line.NewCol(12))

	for _, item := range order.Items {
		m.AddRow(8,
			col.New(3).Add(
				text.New(item.ProjectName, props.Text{Size: 9, Align: align.Left}),
			),
			col.New(4).Add(
				text.New(item.Name, props.Text{Size: 9, Align: align.Left}),
			),
			col.New(1).Add(
				text.New(formatAmount(item.Quantity), props.Text{Size: 9, Align: align.Center}),
			),
			col.New(1).Add(
				text.New(item.Unit, props.Text{Size: 9, Align: align.Center}),
			),
			col.New(1).Add(
				text.New(formatAmount(item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			),
			col.New(2).Add(
				text.New(formatAmount(item.ComputeSubtotal()), props.Text{Size: 9, Align: align.Right}),
			),
		)
	}

	m.AddRow(2, line.NewCol(12))
}

func (s *ExportService) addPDFTotals(m core.Maroto, order *entity.Order) {
	rows := []struct {
		label string
		value float64
		bold  bool
	}{
		{"Subtotal", order.Subtotal, false},
		{"Tax (10%)", order.Tax, false},
		{"Total", order.Total, true},
	}

	for _, r := range rows {
		style := fontstyle.Normal
		size := 10.0
		if r.bold {
			style = fontstyle.Bold
			size = 12
		}
		m.AddRow(7,
			col.New(8),
			col.New(2).Add(
				text.New(r.label, props.Text{Size: size, Style: style, Align: align.Left}),
			),
			col.New(2).Add(
				text.New("¥"+formatAmount(r.value), props.Text{Size: size, Style: style, Align: align.Right}),
			),
		)
	}
}

func (s *ExportService) addPDFRemarks(m core.Maroto, order *entity.Order) {
	if order.Remarks == "" && order.PaymentTerms == "" && order.CompletionMonth == "" {
		return
	}

	m.AddRow(5, line.NewCol(12))

	if order.CompletionMonth != "" {
		m.AddRow(6,
			col.New(12).Add(
				text.New(fmt.Sprintf("Completion: %s", order.CompletionMonth), props.Text{Size: 9, Align: align.Left}),
			),
		)
	}
	if order.PaymentTerms != "" {
		m.AddRow(6,
			col.New(12).Add(
				text.New(fmt.Sprintf("Payment terms: %s", order.PaymentTerms), props.Text{Size: 9, Align: align.Left}),
			),
		)
	}
	if order.Remarks != "" {
		m.AddRow(10,
			col.New(12).Add(
				text.New(fmt.Sprintf("Remarks: %s", order.Remarks), props.Text{Size: 9, Align: align.Left}),
			),
		)
	}
}
