package query

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func record(t *testing.T, date string, revenue, netIncome int64) domain.FinancialRecord {
	t.Helper()
	return domain.FinancialRecord{
		Date:            mustDate(t, date),
		Revenue:         decimal.NewFromInt(revenue),
		NetIncome:       decimal.NewFromInt(netIncome),
		GrossProfit:     decimal.NewFromInt(revenue / 2),
		EPS:             decimal.NewFromFloat(1.5),
		OperatingIncome: decimal.NewFromInt(netIncome),
	}
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func datePtr(t *testing.T, s string) *time.Time {
	d := mustDate(t, s)
	return &d
}

func dates(records []domain.FinancialRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Date.Format("2006-01-02"))
	}
	return out
}

// sampleRecords are the three 2023 statements used across the pipeline tests.
func sampleRecords(t *testing.T) []domain.FinancialRecord {
	return []domain.FinancialRecord{
		record(t, "2023-01-01", 100, 10),
		record(t, "2023-06-01", 200, 20),
		record(t, "2023-12-01", 150, -5),
	}
}
