// Package format renders statement figures the way the statements table shows them.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
)

const DisplayDateLayout = "Jan 2, 2006"

var (
	printer = message.NewPrinter(language.AmericanEnglish)
	million = decimal.New(1, 6)
)

var columnLabels = map[domain.SortField]string{
	domain.SortByDate:            "Date",
	domain.SortByRevenue:         "Revenue",
	domain.SortByNetIncome:       "Net Income",
	domain.SortByGrossProfit:     "Gross Profit",
	domain.SortByEPS:             "EPS",
	domain.SortByOperatingIncome: "Operating Income",
}

// ColumnLabel returns the table header for field, or the raw field name if unknown.
func ColumnLabel(field domain.SortField) string {
	if label, ok := columnLabels[field]; ok {
		return label
	}
	return string(field)
}

// Date formats t as "Sep 30, 2023".
func Date(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// Millions formats a base-unit amount scaled to millions: "$383,285.00M".
func Millions(d decimal.Decimal) string {
	return dollars(d.Div(million), 2) + "M"
}

// EPS formats earnings per share: "$6.16".
func EPS(d decimal.Decimal) string {
	return dollars(d, 2)
}

// dollars renders d rounded to places. The sign follows the rounded value, so
// an amount that prints as zero never carries a minus.
func dollars(d decimal.Decimal, places int32) string {
	abs := d.Abs().Round(places)
	if d.IsNegative() && !abs.IsZero() {
		return "-$" + grouped(abs, places)
	}
	return "$" + grouped(abs, places)
}

// grouped renders a non-negative d rounded to places with thousands separators.
func grouped(d decimal.Decimal, places int32) string {
	fixed := d.StringFixed(places)
	intPart, frac, _ := strings.Cut(fixed, ".")

	whole, err := decimal.NewFromString(intPart)
	if err != nil {
		return fixed
	}
	out := printer.Sprintf("%d", whole.IntPart())
	if places > 0 {
		out += "." + frac
	}
	return out
}
