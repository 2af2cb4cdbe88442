package statements

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/query"
)

// ErrSuperseded is returned by Load when a newer load finished first.
var ErrSuperseded = errors.New("load superseded by a newer request")

// ViewState is a point-in-time copy of what a view renders.
type ViewState struct {
	Loading bool
	Err     error
	Filter  domain.FilterSpec
	Sort    *domain.SortSpec
	Rows    []domain.FinancialRecord
	// Total is the number of records before filtering.
	Total int
}

// View holds the filter and sort chosen on one statements page and the rows
// they produce. Every change recomputes the rows from scratch; a computation
// belonging to an older generation is dropped.
type View struct {
	mu         sync.Mutex
	records    []domain.FinancialRecord
	filter     domain.FilterSpec
	sort       *domain.SortSpec
	rows       []domain.FinancialRecord
	err        error
	loading    bool
	generation uint64
	loads      uint64
}

func NewView() *View {
	return &View{rows: []domain.FinancialRecord{}}
}

// Load replaces the view's records with those from source.
func (v *View) Load(ctx context.Context, source RecordSource) error {
	v.mu.Lock()
	v.loads++
	load := v.loads
	v.loading = true
	v.mu.Unlock()

	records, err := source.Records(ctx)

	v.mu.Lock()
	if load != v.loads {
		v.mu.Unlock()
		return ErrSuperseded
	}
	v.loading = false
	if err != nil {
		v.records = nil
		v.rows = []domain.FinancialRecord{}
		v.err = err
		v.generation++
		v.mu.Unlock()
		return err
	}
	v.records = records
	v.err = nil
	v.mu.Unlock()

	return v.recompute()
}

func (v *View) SetFilter(filter domain.FilterSpec) error {
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
	return v.recompute()
}

// SetSort activates spec directly; nil clears the sort.
func (v *View) SetSort(spec *domain.SortSpec) error {
	if spec != nil {
		if _, err := query.NextSort(nil, spec.Field); err != nil {
			return err
		}
		if spec.Direction != domain.SortAsc && spec.Direction != domain.SortDesc {
			return fmt.Errorf("%w: %q", query.ErrInvalidSortDirection, spec.Direction)
		}
		spec = &domain.SortSpec{Field: spec.Field, Direction: spec.Direction}
	}
	v.mu.Lock()
	v.sort = spec
	v.mu.Unlock()
	return v.recompute()
}

// ToggleSort applies a column-header selection of field.
func (v *View) ToggleSort(field domain.SortField) error {
	v.mu.Lock()
	next, err := query.NextSort(v.sort, field)
	if err != nil {
		v.mu.Unlock()
		return err
	}
	v.sort = &next
	v.mu.Unlock()
	return v.recompute()
}

func (v *View) ClearSort() error {
	return v.SetSort(nil)
}

func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := ViewState{
		Loading: v.loading,
		Err:     v.err,
		Filter:  v.filter,
		Rows:    slices.Clone(v.rows),
		Total:   len(v.records),
	}
	if v.sort != nil {
		sort := *v.sort
		state.Sort = &sort
	}
	return state
}

func (v *View) recompute() error {
	v.mu.Lock()
	v.generation++
	generation := v.generation
	records, filter, sort := v.records, v.filter, v.sort
	failed := v.err != nil && records == nil
	v.mu.Unlock()

	if failed {
		return nil
	}

	rows, err := query.Display(records, filter, sort)

	v.mu.Lock()
	defer v.mu.Unlock()
	if generation != v.generation {
		return nil
	}
	if err != nil {
		return err
	}
	v.rows = rows
	v.err = nil
	return nil
}
