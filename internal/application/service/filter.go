package service

import (
	"strings"
	"time"

	"github.com/harukimori/orderdesk-api/internal/domain/entity"
	"github.com/harukimori/orderdesk-api/internal/domain/enum"
	"github.com/harukimori/orderdesk-api/internal/domain/repository"
)

// FilterOrders applies the search predicate and the date-window predicate to
// the collection. The filter is stable: output follows input order. now
// anchors the relative windows (thisMonth, lastMonth, thisYear) and is the
// fallback reference for selectedMonth when no cursor was supplied.
func FilterOrders(orders []entity.Order, params *repository.OrderFilterParams, now time.Time) []entity.Order {
	mode := params.Mode
	if mode == "" {
		mode = enum.FilterModeSelectedMonth
	}
	selected := params.SelectedMonth
	if selected.IsZero() {
		selected = now
	}

	filtered := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		if !matchesSearch(&o, params.Search) {
			continue
		}
		if !matchesMode(&o, mode, selected, now) {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

// matchesSearch is a case-insensitive substring match over supplier name,
// id and company name. A blank field never matches and never fails.
func matchesSearch(o *entity.Order, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(o.SupplierName), term) ||
		strings.Contains(strings.ToLower(o.ID), term) ||
		strings.Contains(strings.ToLower(o.CompanyName), term)
}

func matchesMode(o *entity.Order, mode enum.FilterMode, selected, now time.Time) bool {
	if mode == enum.FilterModeAll {
		return true
	}

	date, ok := o.OrderDateTime()
	if !ok {
		// An unparseable order date falls outside every dated window.
		return false
	}

	switch mode {
	case enum.FilterModeThisMonth:
		return sameMonth(date, now)
	case enum.FilterModeLastMonth:
		y, m := previousMonth(now)
		return date.Year() == y && date.Month() == m
	case enum.FilterModeThisYear:
		return date.Year() == now.Year()
	case enum.FilterModeSelectedMonth:
		return sameMonth(date, selected)
	default:
		return false
	}
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// previousMonth steps back one calendar month with year rollover: January's
// previous month is December of the prior year. Computed on year and month
// only so day-of-month overflow can never skew the result.
func previousMonth(t time.Time) (int, time.Month) {
	if t.Month() == time.January {
		return t.Year() - 1, time.December
	}
	return t.Year(), t.Month() - 1
}
