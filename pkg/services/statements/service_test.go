package statements

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/models/store"
	"github.com/de-tools/statement-atlas/pkg/query"
	"github.com/de-tools/statement-atlas/pkg/store/fmp"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestService_RecordsWithoutStore(t *testing.T) {
	client := newMockClient()
	client.On("GetIncomeStatements", mock.Anything).Return(sampleRecords(t), nil).Once()

	svc := NewService(Options{Client: client, Now: clock})
	records, err := svc.Records(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sampleRecords(t), records)
	assert.Equal(t, "AAPL", svc.Symbol())
	client.AssertExpectations(t)
}

func TestService_RecordsPropagatesFetchError(t *testing.T) {
	client := newMockClient()
	client.On("GetIncomeStatements", mock.Anything).Return(nil, fmp.ErrRateLimited).Once()

	svc := NewService(Options{Client: client, Now: clock})
	records, err := svc.Records(context.Background())

	assert.ErrorIs(t, err, fmp.ErrRateLimited)
	assert.Nil(t, records)
}

type countingClient struct {
	calls   atomic.Int32
	release chan struct{}
	records []domain.FinancialRecord
	err     error
}

func (c *countingClient) GetIncomeStatements(context.Context) ([]domain.FinancialRecord, error) {
	c.calls.Add(1)
	<-c.release
	return c.records, c.err
}

func (c *countingClient) Symbol() string { return "AAPL" }

func TestService_RecordsCoalescesConcurrentCallers(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "success"},
		{name: "failure reaches every caller", err: fmp.ErrAccessForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &countingClient{release: make(chan struct{}), records: sampleRecords(t), err: tt.err}
			svc := NewService(Options{Client: client, Now: clock})

			const callers = 8
			var started, done sync.WaitGroup
			errs := make([]error, callers)
			results := make([][]domain.FinancialRecord, callers)
			started.Add(callers)
			done.Add(callers)
			for i := 0; i < callers; i++ {
				go func(i int) {
					defer done.Done()
					started.Done()
					results[i], errs[i] = svc.Records(context.Background())
				}(i)
			}
			started.Wait()
			time.Sleep(50 * time.Millisecond)
			close(client.release)
			done.Wait()

			assert.Equal(t, int32(1), client.calls.Load())
			for i := 0; i < callers; i++ {
				if tt.err != nil {
					assert.ErrorIs(t, errs[i], tt.err)
					continue
				}
				require.NoError(t, errs[i])
				assert.Len(t, results[i], 3)
			}
		})
	}
}

type blockingClient struct {
	calls   atomic.Int32
	started chan struct{}
	once    sync.Once
	release chan struct{}
	records []domain.FinancialRecord
}

func (c *blockingClient) GetIncomeStatements(ctx context.Context) ([]domain.FinancialRecord, error) {
	c.calls.Add(1)
	c.once.Do(func() { close(c.started) })
	<-c.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.records, nil
}

func (c *blockingClient) Symbol() string { return "AAPL" }

func TestService_RecordsCancelledCallerDoesNotFailOthers(t *testing.T) {
	client := &blockingClient{
		started: make(chan struct{}),
		release: make(chan struct{}),
		records: sampleRecords(t),
	}
	svc := NewService(Options{Client: client, Now: clock})

	firstCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Records(firstCtx)
		firstErr <- err
	}()
	<-client.started

	type result struct {
		records []domain.FinancialRecord
		err     error
	}
	second := make(chan result, 1)
	go func() {
		records, err := svc.Records(context.Background())
		second <- result{records: records, err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(client.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.records, 3)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestService_RecordsStoresEmptyFetch(t *testing.T) {
	client := newMockClient()
	client.On("GetIncomeStatements", mock.Anything).Return([]domain.FinancialRecord{}, nil).Once()
	st := &mockStore{}
	st.On("GetSnapshot", mock.Anything, "AAPL").Return(nil, nil).Once()
	st.On("Replace", mock.Anything, "AAPL", fixedNow, []store.StatementRow{}).Return(nil).Once()

	svc := NewService(Options{Client: client, Store: st, TTL: time.Hour, Now: clock})
	records, err := svc.Records(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
	st.AssertExpectations(t)
}

func TestService_RecordsServesEmptySnapshot(t *testing.T) {
	client := newMockClient()
	st := &mockStore{}
	st.On("GetSnapshot", mock.Anything, "AAPL").
		Return(&store.Snapshot{Symbol: "AAPL", FetchedAt: fixedNow.Add(-time.Minute)}, nil).Once()

	svc := NewService(Options{Client: client, Store: st, TTL: time.Hour, Now: clock})
	records, err := svc.Records(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
	client.AssertNotCalled(t, "GetIncomeStatements", mock.Anything)
}

func TestService_RecordsServesFreshSnapshot(t *testing.T) {
	client := newMockClient()
	st := &mockStore{}
	st.On("GetSnapshot", mock.Anything, "AAPL").
		Return(snapshotOf(t, sampleRecords(t), fixedNow.Add(-time.Hour)), nil).Once()

	svc := NewService(Options{Client: client, Store: st, TTL: 24 * time.Hour, Now: clock})
	records, err := svc.Records(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"2023-01-01", "2023-06-01", "2023-12-01"}, dates(records))
	client.AssertNotCalled(t, "GetIncomeStatements", mock.Anything)
	st.AssertExpectations(t)
}

func TestService_RecordsRefreshesExpiredSnapshot(t *testing.T) {
	client := newMockClient()
	client.On("GetIncomeStatements", mock.Anything).Return(sampleRecords(t), nil).Once()
	st := &mockStore{}
	st.On("GetSnapshot", mock.Anything, "AAPL").
		Return(snapshotOf(t, sampleRecords(t)[:1], fixedNow.Add(-48*time.Hour)), nil).Once()
	st.On("Replace", mock.Anything, "AAPL", fixedNow, mock.MatchedBy(func(rows []store.StatementRow) bool {
		return len(rows) == 3 && rows[2].Position == 2 && rows[0].FetchedAt.Equal(fixedNow)
	})).Return(nil).Once()

	svc := NewService(Options{Client: client, Store: st, TTL: 24 * time.Hour, Now: clock})
	records, err := svc.Records(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 3)
	client.AssertExpectations(t)
	st.AssertExpectations(t)
}

func TestService_FailedFetchIsNotMaskedBySnapshot(t *testing.T) {
	client := newMockClient()
	client.On("GetIncomeStatements", mock.Anything).Return(nil, fmp.ErrInvalidCredential).Once()
	st := &mockStore{}
	st.On("GetSnapshot", mock.Anything, "AAPL").
		Return(snapshotOf(t, sampleRecords(t), fixedNow.Add(-48*time.Hour)), nil).Once()

	svc := NewService(Options{Client: client, Store: st, TTL: 24 * time.Hour, Now: clock})
	records, err := svc.Records(context.Background())

	assert.ErrorIs(t, err, fmp.ErrInvalidCredential)
	assert.Nil(t, records)
	st.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_StoreFailuresFallBackToFetch(t *testing.T) {
	client := newMockClient()
	client.On("GetIncomeStatements", mock.Anything).Return(sampleRecords(t), nil).Once()
	st := &mockStore{}
	st.On("GetSnapshot", mock.Anything, "AAPL").Return(nil, errors.New("disk gone")).Once()
	st.On("Replace", mock.Anything, "AAPL", mock.Anything, mock.Anything).Return(errors.New("disk gone")).Once()

	svc := NewService(Options{Client: client, Store: st, TTL: time.Hour, Now: clock})
	records, err := svc.Records(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 3)
	st.AssertExpectations(t)
}

func TestService_ZeroTTLSkipsSnapshotRead(t *testing.T) {
	client := newMockClient()
	client.On("GetIncomeStatements", mock.Anything).Return(sampleRecords(t), nil).Once()
	st := &mockStore{}
	st.On("Replace", mock.Anything, "AAPL", mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewService(Options{Client: client, Store: st, Now: clock})
	_, err := svc.Records(context.Background())

	require.NoError(t, err)
	st.AssertNotCalled(t, "GetSnapshot", mock.Anything, mock.Anything)
}

func TestService_Display(t *testing.T) {
	tests := []struct {
		name     string
		scale    domain.Scale
		input    domain.FilterInput
		sort     *domain.SortSpec
		expected []string
	}{
		{
			name:     "no filter no sort keeps source order",
			expected: []string{"2023-01-01", "2023-06-01", "2023-12-01"},
		},
		{
			name:     "revenue lower bound with desc revenue sort",
			input:    domain.FilterInput{RevenueMin: "150"},
			sort:     &domain.SortSpec{Field: domain.SortByRevenue, Direction: domain.SortDesc},
			expected: []string{"2023-06-01", "2023-12-01"},
		},
		{
			name:     "malformed bound is ignored",
			input:    domain.FilterInput{RevenueMin: "abc", NetIncomeMin: "0"},
			sort:     &domain.SortSpec{Field: domain.SortByDate, Direction: domain.SortDesc},
			expected: []string{"2023-06-01", "2023-01-01"},
		},
		{
			name:     "bounds scaled from thousands",
			scale:    domain.ScaleThousands,
			input:    domain.FilterInput{RevenueMax: "0.15"},
			expected: []string{"2023-01-01", "2023-12-01"},
		},
		{
			name:     "date range",
			input:    domain.FilterInput{DateStart: "2023-02-01", DateEnd: "Dec 1, 2023"},
			expected: []string{"2023-06-01", "2023-12-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockClient()
			client.On("GetIncomeStatements", mock.Anything).Return(sampleRecords(t), nil).Once()
			svc := NewService(Options{Client: client, Scale: tt.scale, Now: clock})

			rows, err := svc.Display(context.Background(), tt.input, tt.sort)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, dates(rows))
		})
	}
}

func TestService_DisplayErrors(t *testing.T) {
	client := newMockClient()
	client.On("GetIncomeStatements", mock.Anything).Return(sampleRecords(t), nil).Once()
	svc := NewService(Options{Client: client, Now: clock})

	_, err := svc.Display(context.Background(), domain.FilterInput{}, &domain.SortSpec{Field: "ticker", Direction: domain.SortAsc})
	assert.ErrorIs(t, err, query.ErrInvalidSortField)

	failing := newMockClient()
	failing.On("GetIncomeStatements", mock.Anything).Return(nil, fmp.ErrMalformedResponse).Once()
	_, err = NewService(Options{Client: failing}).Display(context.Background(), domain.FilterInput{}, nil)
	assert.ErrorIs(t, err, fmp.ErrMalformedResponse)
}
