package adapters

import (
	"time"

	"github.com/de-tools/statement-atlas/pkg/models/api"
	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/models/store"
)

func MapDomainRecordsToStoreRows(symbol string, records []domain.FinancialRecord, fetchedAt time.Time) []store.StatementRow {
	rows := make([]store.StatementRow, 0, len(records))
	for i, r := range records {
		rows = append(rows, store.StatementRow{
			Symbol:          symbol,
			Date:            r.Date,
			Position:        i,
			Revenue:         r.Revenue,
			NetIncome:       r.NetIncome,
			GrossProfit:     r.GrossProfit,
			EPS:             r.EPS,
			OperatingIncome: r.OperatingIncome,
			FetchedAt:       fetchedAt,
		})
	}
	return rows
}

func MapStoreSnapshotToDomain(snapshot *store.Snapshot) *domain.StatementSnapshot {
	if snapshot == nil {
		return nil
	}

	records := make([]domain.FinancialRecord, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		records = append(records, domain.FinancialRecord{
			Date:            row.Date,
			Revenue:         row.Revenue,
			NetIncome:       row.NetIncome,
			GrossProfit:     row.GrossProfit,
			EPS:             row.EPS,
			OperatingIncome: row.OperatingIncome,
		})
	}

	return &domain.StatementSnapshot{
		Symbol:    snapshot.Symbol,
		FetchedAt: snapshot.FetchedAt,
		Records:   records,
	}
}

func MapRecordDomainToApi(r domain.FinancialRecord) api.Statement {
	return api.Statement{
		Date:            r.Date.Format(time.DateOnly),
		Revenue:         r.Revenue.InexactFloat64(),
		NetIncome:       r.NetIncome.InexactFloat64(),
		GrossProfit:     r.GrossProfit.InexactFloat64(),
		EPS:             r.EPS.InexactFloat64(),
		OperatingIncome: r.OperatingIncome.InexactFloat64(),
	}
}

func MapRecordsDomainToApi(records []domain.FinancialRecord) []api.Statement {
	statements := make([]api.Statement, 0, len(records))
	for _, r := range records {
		statements = append(statements, MapRecordDomainToApi(r))
	}
	return statements
}

func MapStatementQueryToFilterInput(q api.StatementQuery) domain.FilterInput {
	return domain.FilterInput{
		DateStart:    q.Start,
		DateEnd:      q.End,
		RevenueMin:   q.RevenueMin,
		RevenueMax:   q.RevenueMax,
		NetIncomeMin: q.NetIncomeMin,
		NetIncomeMax: q.NetIncomeMax,
	}
}
