package statements

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/models/store"
)

type mockClient struct {
	mock.Mock
}

func newMockClient() *mockClient {
	m := &mockClient{}
	m.On("Symbol").Return("AAPL").Maybe()
	return m
}

func (m *mockClient) GetIncomeStatements(ctx context.Context) ([]domain.FinancialRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialRecord), args.Error(1)
}

func (m *mockClient) Symbol() string {
	return m.Called().String(0)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Replace(ctx context.Context, symbol string, fetchedAt time.Time, rows []store.StatementRow) error {
	return m.Called(ctx, symbol, fetchedAt, rows).Error(0)
}

func (m *mockStore) GetSnapshot(ctx context.Context, symbol string) (*store.Snapshot, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Snapshot), args.Error(1)
}

type sourceFunc func(ctx context.Context) ([]domain.FinancialRecord, error)

func (f sourceFunc) Records(ctx context.Context) ([]domain.FinancialRecord, error) {
	return f(ctx)
}

func record(t *testing.T, date, revenue, netIncome string) domain.FinancialRecord {
	t.Helper()
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		t.Fatalf("bad date %q: %v", date, err)
	}
	return domain.FinancialRecord{
		Date:            d,
		Revenue:         decimal.RequireFromString(revenue),
		NetIncome:       decimal.RequireFromString(netIncome),
		GrossProfit:     decimal.Zero,
		EPS:             decimal.RequireFromString("1.5"),
		OperatingIncome: decimal.Zero,
	}
}

func sampleRecords(t *testing.T) []domain.FinancialRecord {
	return []domain.FinancialRecord{
		record(t, "2023-01-01", "100", "10"),
		record(t, "2023-06-01", "200", "20"),
		record(t, "2023-12-01", "150", "-5"),
	}
}

func dates(records []domain.FinancialRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Date.Format(time.DateOnly))
	}
	return out
}

func snapshotOf(t *testing.T, records []domain.FinancialRecord, fetchedAt time.Time) *store.Snapshot {
	t.Helper()
	snapshot := &store.Snapshot{Symbol: "AAPL", FetchedAt: fetchedAt}
	for i, r := range records {
		snapshot.Rows = append(snapshot.Rows, store.StatementRow{
			Symbol:          "AAPL",
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
	return snapshot
}
