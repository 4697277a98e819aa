package enum

// FilterMode selects the date window applied to the order list.
type FilterMode string

const (
	FilterModeAll           FilterMode = "all"
	FilterModeThisMonth     FilterMode = "thisMonth"
	FilterModeLastMonth     FilterMode = "lastMonth"
	FilterModeThisYear      FilterMode = "thisYear"
	FilterModeSelectedMonth FilterMode = "selectedMonth"
)

// ParseFilterMode maps a raw query value to a FilterMode. An empty or
// unrecognized value falls back to selectedMonth, the management view's
// default window.
func ParseFilterMode(s string) FilterMode {
	switch FilterMode(s) {
	case FilterModeAll, FilterModeThisMonth, FilterModeLastMonth, FilterModeThisYear, FilterModeSelectedMonth:
		return FilterMode(s)
	default:
		return FilterModeSelectedMonth
	}
}

func (m FilterMode) String() string {
	return string(m)
}
