package query

import (
	"github.com/shopspring/decimal"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
)

// Filter returns the records accepted by spec, in input order.
// The input slice is never modified.
func Filter(records []domain.FinancialRecord, spec domain.FilterSpec) []domain.FinancialRecord {
	result := make([]domain.FinancialRecord, 0, len(records))
	for _, record := range records {
		if Matches(record, spec) {
			result = append(result, record)
		}
	}
	return result
}

// Matches reports whether a single record satisfies every active constraint of spec.
func Matches(record domain.FinancialRecord, spec domain.FilterSpec) bool {
	return inDateRange(record, spec.DateRange) &&
		inAmountRange(record.Revenue, spec.Revenue) &&
		inAmountRange(record.NetIncome, spec.NetIncome)
}

func inDateRange(record domain.FinancialRecord, r domain.DateRange) bool {
	if r.Start != nil && record.Date.Before(*r.Start) {
		return false
	}
	if r.End != nil && record.Date.After(*r.End) {
		return false
	}
	return true
}

func inAmountRange(value decimal.Decimal, r domain.AmountRange) bool {
	if r.Min != nil && value.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && value.GreaterThan(*r.Max) {
		return false
	}
	return true
}
