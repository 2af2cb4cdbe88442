package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange bounds are inclusive; a nil side is unbounded.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// AmountRange bounds are inclusive and expressed in base units; a nil side is unbounded.
type AmountRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

type FilterSpec struct {
	DateRange DateRange
	Revenue   AmountRange
	NetIncome AmountRange
}

// IsUnbounded reports whether f imposes no constraint at all.
func (f FilterSpec) IsUnbounded() bool {
	return f.DateRange.Start == nil && f.DateRange.End == nil &&
		f.Revenue.Min == nil && f.Revenue.Max == nil &&
		f.NetIncome.Min == nil && f.NetIncome.Max == nil
}

// FilterInput holds the raw text of the six filter inputs as typed by the user.
type FilterInput struct {
	DateStart    string
	DateEnd      string
	RevenueMin   string
	RevenueMax   string
	NetIncomeMin string
	NetIncomeMax string
}

// Scale is the unit in which amount bounds are typed.
type Scale string

const (
	ScaleUnits     Scale = "units"
	ScaleThousands Scale = "thousands"
	ScaleMillions  Scale = "millions"
	ScaleBillions  Scale = "billions"
)

var scaleFactors = map[Scale]int32{
	ScaleUnits:     0,
	ScaleThousands: 3,
	ScaleMillions:  6,
	ScaleBillions:  9,
}

// Factor returns the multiplier converting a typed bound into base units.
// An empty scale means units.
func (s Scale) Factor() (decimal.Decimal, bool) {
	if s == "" {
		s = ScaleUnits
	}
	exp, ok := scaleFactors[s]
	if !ok {
		return decimal.Decimal{}, false
	}
	return decimal.New(1, exp), true
}
