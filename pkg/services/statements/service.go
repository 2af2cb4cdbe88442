package statements

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/de-tools/statement-atlas/pkg/adapters"
	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/query"
	snapshots "github.com/de-tools/statement-atlas/pkg/store/duckdb/statements"
	"github.com/de-tools/statement-atlas/pkg/store/fmp"
)

// RecordSource yields the full set of statement records for one symbol.
type RecordSource interface {
	Records(ctx context.Context) ([]domain.FinancialRecord, error)
}

type Service interface {
	RecordSource
	Symbol() string
	// Display loads the records and runs them through the filter and sort pipeline.
	Display(ctx context.Context, input domain.FilterInput, sort *domain.SortSpec) ([]domain.FinancialRecord, error)
}

type Options struct {
	Client fmp.Client
	// Store caches the last successful fetch. Nil disables caching.
	Store snapshots.Store
	TTL   time.Duration
	// Scale is the unit amount bounds in FilterInput are written in.
	Scale domain.Scale
	Now   func() time.Time
}

type service struct {
	client fmp.Client
	store  snapshots.Store
	ttl    time.Duration
	scale  domain.Scale
	now    func() time.Time

	group singleflight.Group
}

func NewService(opts Options) Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		client: opts.Client,
		store:  opts.Store,
		ttl:    opts.TTL,
		scale:  opts.Scale,
		now:    now,
	}
}

func (s *service) Symbol() string {
	return s.client.Symbol()
}

// Records returns a fresh cached snapshot when one exists, otherwise fetches.
// Concurrent callers share a single outstanding fetch and its outcome. The
// shared fetch is detached from any one caller's cancellation; a caller whose
// ctx ends stops waiting without failing the others.
func (s *service) Records(ctx context.Context) ([]domain.FinancialRecord, error) {
	if records, ok := s.cached(ctx); ok {
		return records, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(s.client.Symbol(), func() (interface{}, error) {
		return s.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			zerolog.Ctx(ctx).Debug().Str("symbol", s.client.Symbol()).Msg("joined in-flight statements fetch")
		}
		return slices.Clone(res.Val.([]domain.FinancialRecord)), nil
	}
}

func (s *service) cached(ctx context.Context) ([]domain.FinancialRecord, bool) {
	if s.store == nil || s.ttl <= 0 {
		return nil, false
	}
	logger := zerolog.Ctx(ctx)

	row, err := s.store.GetSnapshot(ctx, s.client.Symbol())
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read statements snapshot")
		return nil, false
	}
	snapshot := adapters.MapStoreSnapshotToDomain(row)
	if snapshot == nil {
		return nil, false
	}

	age := s.now().Sub(snapshot.FetchedAt)
	if age >= s.ttl {
		logger.Debug().Dur("age", age).Msg("statements snapshot expired")
		return nil, false
	}
	logger.Debug().Dur("age", age).Int("records", len(snapshot.Records)).Msg("serving statements snapshot")
	return snapshot.Records, true
}

func (s *service) fetch(ctx context.Context) ([]domain.FinancialRecord, error) {
	logger := zerolog.Ctx(ctx)
	symbol := s.client.Symbol()

	records, err := s.client.GetIncomeStatements(ctx)
	if err != nil {
		logger.Error().Err(err).Str("symbol", symbol).Msg("failed to fetch income statements")
		return nil, err
	}
	logger.Info().Str("symbol", symbol).Int("records", len(records)).Msg("fetched income statements")

	if s.store != nil {
		fetchedAt := s.now().UTC()
		rows := adapters.MapDomainRecordsToStoreRows(symbol, records, fetchedAt)
		if err := s.store.Replace(ctx, symbol, fetchedAt, rows); err != nil {
			logger.Warn().Err(err).Msg("failed to store statements snapshot")
		}
	}
	return records, nil
}

func (s *service) Display(
	ctx context.Context,
	input domain.FilterInput,
	sort *domain.SortSpec,
) ([]domain.FinancialRecord, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	filter, invalid := query.ParseFilter(input, s.scale)
	logInvalidBounds(ctx, invalid)

	event := zerolog.Ctx(ctx).Debug().Bool("filtered", !filter.IsUnbounded())
	if sort != nil {
		event = event.Str("sort", sort.String())
	}
	event.Int("records", len(records)).Msg("displaying statements")

	return query.Display(records, filter, sort)
}

func logInvalidBounds(ctx context.Context, invalid []query.InvalidBound) {
	logger := zerolog.Ctx(ctx)
	for _, bound := range invalid {
		logger.Warn().Str("bound", bound.Name).Str("value", bound.Value).Msg("ignoring malformed filter bound")
	}
}
