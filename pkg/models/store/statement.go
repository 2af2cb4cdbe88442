package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type StatementRow struct {
	Symbol          string
	Date            time.Time
	Position        int
	Revenue         decimal.Decimal
	NetIncome       decimal.Decimal
	GrossProfit     decimal.Decimal
	EPS             decimal.Decimal
	OperatingIncome decimal.Decimal
	FetchedAt       time.Time
}

type Snapshot struct {
	Symbol    string
	FetchedAt time.Time
	Rows      []StatementRow
}
