package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukimori/orderdesk-api/internal/domain/entity"
	"github.com/harukimori/orderdesk-api/internal/domain/enum"
	"github.com/harukimori/orderdesk-api/internal/domain/repository"
)

func ids(orders []entity.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	orders := []entity.Order{
		{ID: "PO-1", SupplierName: "Acme Corp"},
		{ID: "PO-2", SupplierName: "Other Inc"},
		{ID: "PO-3"}, // no supplier at all
	}

	got := FilterOrders(orders, &repository.OrderFilterParams{
		Search: "ACME",
		Mode:   enum.FilterModeAll,
	}, time.Now())

	assert.Equal(t, []string{"PO-1"}, ids(got))
}

func TestFilterSearchMatchesIDAndCompany(t *testing.T) {
	orders := []entity.Order{
		{ID: "PO-20250901-AAAA"},
		{ID: "PO-2", CompanyName: "Harbor Works"},
		{ID: "PO-3", SupplierName: "Nothing"},
	}

	got := FilterOrders(orders, &repository.OrderFilterParams{
		Search: "harbor",
		Mode:   enum.FilterModeAll,
	}, time.Now())
	assert.Equal(t, []string{"PO-2"}, ids(got))

	got = FilterOrders(orders, &repository.OrderFilterParams{
		Search: "20250901",
		Mode:   enum.FilterModeAll,
	}, time.Now())
	assert.Equal(t, []string{"PO-20250901-AAAA"}, ids(got))
}

func TestFilterLastMonthYearRollover(t *testing.T) {
	// Evaluated in January, lastMonth must reach December of the prior year.
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []entity.Order{
		{ID: "PO-dec", OrderDate: "2025-12-31"},
		{ID: "PO-jan", OrderDate: "2026-01-05"},
		{ID: "PO-nov", OrderDate: "2025-11-30"},
	}

	got := FilterOrders(orders, &repository.OrderFilterParams{
		Mode: enum.FilterModeLastMonth,
	}, now)

	assert.Equal(t, []string{"PO-dec"}, ids(got))
}

func TestFilterSelectedMonth(t *testing.T) {
	orders := []entity.Order{
		{ID: "PO-aug", OrderDate: "2025-08-15"},
		{ID: "PO-sep", OrderDate: "2025-09-01"},
	}

	got := FilterOrders(orders, &repository.OrderFilterParams{
		Mode:          enum.FilterModeSelectedMonth,
		SelectedMonth: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, []string{"PO-sep"}, ids(got))
}

func TestFilterDefaultModeIsSelectedMonth(t *testing.T) {
	now := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	orders := []entity.Order{
		{ID: "PO-aug", OrderDate: "2025-08-15"},
		{ID: "PO-sep", OrderDate: "2025-09-01"},
	}

	// No mode and no cursor: the window is the current month.
	got := FilterOrders(orders, &repository.OrderFilterParams{}, now)

	assert.Equal(t, []string{"PO-sep"}, ids(got))
}

func TestFilterThisMonthAndThisYear(t *testing.T) {
	now := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	orders := []entity.Order{
		{ID: "PO-1", OrderDate: "2025-09-30"},
		{ID: "PO-2", OrderDate: "2025-01-01"},
		{ID: "PO-3", OrderDate: "2024-09-15"},
	}

	got := FilterOrders(orders, &repository.OrderFilterParams{Mode: enum.FilterModeThisMonth}, now)
	assert.Equal(t, []string{"PO-1"}, ids(got))

	got = FilterOrders(orders, &repository.OrderFilterParams{Mode: enum.FilterModeThisYear}, now)
	assert.Equal(t, []string{"PO-1", "PO-2"}, ids(got))
}

func TestFilterMalformedDateExcludedFromWindows(t *testing.T) {
	now := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	orders := []entity.Order{
		{ID: "PO-bad", OrderDate: "not-a-date"},
		{ID: "PO-none"},
	}

	got := FilterOrders(orders, &repository.OrderFilterParams{Mode: enum.FilterModeThisYear}, now)
	assert.Empty(t, got)

	// mode=all still includes them.
	got = FilterOrders(orders, &repository.OrderFilterParams{Mode: enum.FilterModeAll}, now)
	assert.Len(t, got, 2)
}

func TestFilterIsStable(t *testing.T) {
	orders := []entity.Order{
		{ID: "PO-3", OrderDate: "2025-09-03"},
		{ID: "PO-1", OrderDate: "2025-09-01"},
		{ID: "PO-2", OrderDate: "2025-09-02"},
	}

	got := FilterOrders(orders, &repository.OrderFilterParams{
		Mode:          enum.FilterModeSelectedMonth,
		SelectedMonth: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}, time.Now())

	require.Len(t, got, 3)
	assert.Equal(t, []string{"PO-3", "PO-1", "PO-2"}, ids(got))
}
