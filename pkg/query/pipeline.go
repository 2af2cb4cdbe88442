package query

import "github.com/de-tools/statement-atlas/pkg/models/domain"

// Display produces the rows to render: records filtered by filter, then ordered by sort.
func Display(
	records []domain.FinancialRecord,
	filter domain.FilterSpec,
	sort *domain.SortSpec,
) ([]domain.FinancialRecord, error) {
	return Sort(Filter(records, filter), sort)
}
