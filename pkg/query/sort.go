package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
)

type comparator func(a, b domain.FinancialRecord) int

var comparators = map[domain.SortField]comparator{
	domain.SortByDate: func(a, b domain.FinancialRecord) int {
		return a.Date.Compare(b.Date)
	},
	domain.SortByRevenue: func(a, b domain.FinancialRecord) int {
		return a.Revenue.Cmp(b.Revenue)
	},
	domain.SortByNetIncome: func(a, b domain.FinancialRecord) int {
		return a.NetIncome.Cmp(b.NetIncome)
	},
	domain.SortByGrossProfit: func(a, b domain.FinancialRecord) int {
		return a.GrossProfit.Cmp(b.GrossProfit)
	},
	domain.SortByEPS: func(a, b domain.FinancialRecord) int {
		return a.EPS.Cmp(b.EPS)
	},
	domain.SortByOperatingIncome: func(a, b domain.FinancialRecord) int {
		return a.OperatingIncome.Cmp(b.OperatingIncome)
	},
}

// column order of the statements table
var fieldOrder = []domain.SortField{
	domain.SortByDate,
	domain.SortByRevenue,
	domain.SortByNetIncome,
	domain.SortByGrossProfit,
	domain.SortByEPS,
	domain.SortByOperatingIncome,
}

// SortFields returns every sortable field in table column order.
func SortFields() []domain.SortField {
	return slices.Clone(fieldOrder)
}

// Sort returns a stably ordered copy of records. A nil spec returns the records unchanged.
func Sort(records []domain.FinancialRecord, spec *domain.SortSpec) ([]domain.FinancialRecord, error) {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []domain.FinancialRecord{}
	}
	if spec == nil {
		return sorted, nil
	}

	cmp, ok := comparators[spec.Field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, spec.Field)
	}

	switch spec.Direction {
	case domain.SortAsc:
		slices.SortStableFunc(sorted, cmp)
	case domain.SortDesc:
		// negating keeps equal elements at zero, so ties stay in input order
		slices.SortStableFunc(sorted, func(a, b domain.FinancialRecord) int {
			return -cmp(a, b)
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortDirection, spec.Direction)
	}

	return sorted, nil
}

// NextSort returns the sort spec after the user selects field.
// Selecting the active field flips its direction; any other field becomes active
// with the default direction.
func NextSort(current *domain.SortSpec, field domain.SortField) (domain.SortSpec, error) {
	if _, ok := comparators[field]; !ok {
		return domain.SortSpec{}, fmt.Errorf("%w: %q", ErrInvalidSortField, field)
	}
	if current != nil && current.Field == field {
		return domain.SortSpec{Field: field, Direction: current.Direction.Reverse()}, nil
	}
	return domain.SortSpec{Field: field, Direction: domain.DefaultSortDirection}, nil
}

// ParseSortField matches s case-insensitively against the sortable fields.
func ParseSortField(s string) (domain.SortField, error) {
	s = strings.TrimSpace(s)
	for _, field := range fieldOrder {
		if strings.EqualFold(string(field), s) {
			return field, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortField, s)
}

// ParseSortDirection accepts "asc"/"desc" and their long forms. Empty input yields the default direction.
func ParseSortDirection(s string) (domain.SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return domain.DefaultSortDirection, nil
	case "asc", "ascending":
		return domain.SortAsc, nil
	case "desc", "descending":
		return domain.SortDesc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortDirection, s)
	}
}
