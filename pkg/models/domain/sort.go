package domain

type SortField string

const (
	SortByDate            SortField = "date"
	SortByRevenue         SortField = "revenue"
	SortByNetIncome       SortField = "netIncome"
	SortByGrossProfit     SortField = "grossProfit"
	SortByEPS             SortField = "eps"
	SortByOperatingIncome SortField = "operatingIncome"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultSortDirection is applied when a column becomes the active sort column.
const DefaultSortDirection = SortDesc

type SortSpec struct {
	Field     SortField
	Direction SortDirection
}

// String returns the sort spec as "field:direction".
func (s SortSpec) String() string {
	return string(s.Field) + ":" + string(s.Direction)
}

// Reverse returns the opposite direction.
func (d SortDirection) Reverse() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}
