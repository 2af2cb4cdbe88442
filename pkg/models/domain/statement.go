package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialRecord is one annual income statement reduced to the figures shown in the table.
// Amounts are kept in base currency units.
type FinancialRecord struct {
	Date            time.Time       // fiscal year end, UTC midnight
	Revenue         decimal.Decimal // 394328000000
	NetIncome       decimal.Decimal // may be negative
	GrossProfit     decimal.Decimal
	EPS             decimal.Decimal // 6.15
	OperatingIncome decimal.Decimal
}

type StatementSnapshot struct {
	Symbol    string
	FetchedAt time.Time
	Records   []FinancialRecord
}
