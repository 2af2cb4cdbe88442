package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
)

func TestDisplay_FilterThenSort(t *testing.T) {
	records := sampleRecords(t)

	rows, err := Display(records,
		domain.FilterSpec{Revenue: domain.AmountRange{Min: dec(120)}},
		&domain.SortSpec{Field: domain.SortByRevenue, Direction: domain.SortDesc},
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2023-06-01", "2023-12-01"}, dates(rows))
	assert.Equal(t, "200", rows[0].Revenue.String())
	assert.Equal(t, "150", rows[1].Revenue.String())
}

func TestDisplay_EmptyInputNeverFails(t *testing.T) {
	specs := []*domain.SortSpec{
		nil,
		{Field: domain.SortByDate, Direction: domain.SortAsc},
		{Field: domain.SortByEPS, Direction: domain.SortDesc},
	}
	for _, s := range specs {
		rows, err := Display(nil, domain.FilterSpec{Revenue: domain.AmountRange{Min: dec(1)}}, s)
		require.NoError(t, err)
		assert.Empty(t, rows)
	}
}

func TestDisplay_InvalidSortField(t *testing.T) {
	_, err := Display(sampleRecords(t), domain.FilterSpec{}, &domain.SortSpec{Field: "ticker"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDisplay_BlankBoundMatchesAbsentBound(t *testing.T) {
	records := sampleRecords(t)

	blank, invalid := ParseFilter(domain.FilterInput{RevenueMin: "   ", DateEnd: ""}, domain.ScaleUnits)
	require.Empty(t, invalid)

	withBlank, err := Display(records, blank, nil)
	require.NoError(t, err)
	withoutBound, err := Display(records, domain.FilterSpec{}, nil)
	require.NoError(t, err)

	assert.Equal(t, withoutBound, withBlank)
}
