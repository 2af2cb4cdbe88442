package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/query"
)

// filterFlags collects the filter and sort inputs shared by show and export.
type filterFlags struct {
	input     domain.FilterInput
	unit      string
	sort      string
	direction string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.input.DateStart, "start", "", "Earliest statement date (2006-01-02 or \"Jan 2, 2006\")")
	flags.StringVar(&f.input.DateEnd, "end", "", "Latest statement date (2006-01-02 or \"Jan 2, 2006\")")
	flags.StringVar(&f.input.RevenueMin, "revenue-min", "", "Minimum revenue")
	flags.StringVar(&f.input.RevenueMax, "revenue-max", "", "Maximum revenue")
	flags.StringVar(&f.input.NetIncomeMin, "net-income-min", "", "Minimum net income")
	flags.StringVar(&f.input.NetIncomeMax, "net-income-max", "", "Maximum net income")
	flags.StringVar(&f.unit, "unit", "", "Unit of the amount bounds: units, thousands, millions or billions")
	flags.StringVar(&f.sort, "sort", "", "Column to sort by (see the fields command)")
	flags.StringVar(&f.direction, "direction", "", "Sort direction: asc or desc (default desc)")
}

// spec parses the flags. Malformed bounds are logged and ignored; a bad sort is an error.
func (f *filterFlags) spec(ctx context.Context, defaultScale domain.Scale) (domain.FilterSpec, *domain.SortSpec, error) {
	scale := defaultScale
	if f.unit != "" {
		scale = domain.Scale(f.unit)
	}

	filter, invalid := query.ParseFilter(f.input, scale)
	logger := zerolog.Ctx(ctx)
	for _, bound := range invalid {
		logger.Warn().Str("bound", bound.Name).Str("value", bound.Value).Msg("ignoring malformed filter bound")
	}

	if f.sort == "" {
		return filter, nil, nil
	}
	field, err := query.ParseSortField(f.sort)
	if err != nil {
		return filter, nil, err
	}
	direction, err := query.ParseSortDirection(f.direction)
	if err != nil {
		return filter, nil, err
	}
	return filter, &domain.SortSpec{Field: field, Direction: direction}, nil
}
