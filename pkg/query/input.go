package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
)

// DateLayouts are the accepted spellings of a date bound: ISO form first, then the table's display form.
var DateLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
}

// Amount bounds are rejected when their exponent or digit count leaves this window.
const (
	maxAmountExponent = 30
	maxAmountDigits   = 40
)

var errAmountOutOfRange = errors.New("amount out of range")

// InvalidBound describes a filter input that could not be parsed and was ignored.
type InvalidBound struct {
	Name  string
	Value string
	Err   error
}

func (b InvalidBound) Error() string {
	return fmt.Sprintf("ignored %s bound %q: %v", b.Name, b.Value, b.Err)
}

// ParseFilter converts raw user input into a FilterSpec.
// Blank inputs leave the bound unset. Malformed inputs also leave it unset and are
// reported back so the caller can surface them. Amount bounds are multiplied by the
// scale factor so the returned FilterSpec is always in base units.
func ParseFilter(input domain.FilterInput, scale domain.Scale) (domain.FilterSpec, []InvalidBound) {
	p := boundParser{}

	factor, ok := scale.Factor()
	if !ok {
		p.invalid = append(p.invalid, InvalidBound{
			Name:  "scale",
			Value: string(scale),
			Err:   fmt.Errorf("unknown scale, using %s", domain.ScaleUnits),
		})
		factor = decimal.NewFromInt(1)
	}

	spec := domain.FilterSpec{
		DateRange: domain.DateRange{
			Start: p.date("date start", input.DateStart),
			End:   p.date("date end", input.DateEnd),
		},
		Revenue: domain.AmountRange{
			Min: p.amount("revenue min", input.RevenueMin, factor),
			Max: p.amount("revenue max", input.RevenueMax, factor),
		},
		NetIncome: domain.AmountRange{
			Min: p.amount("net income min", input.NetIncomeMin, factor),
			Max: p.amount("net income max", input.NetIncomeMax, factor),
		},
	}
	return spec, p.invalid
}

// ParseDate parses s using DateLayouts and returns UTC midnight of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("expected format YYYY-MM-DD or Mon D, YYYY")
}

type boundParser struct {
	invalid []InvalidBound
}

func (p *boundParser) date(name, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		p.invalid = append(p.invalid, InvalidBound{Name: name, Value: raw, Err: err})
		return nil
	}
	return &t
}

func (p *boundParser) amount(name, raw string, factor decimal.Decimal) *decimal.Decimal {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.invalid = append(p.invalid, InvalidBound{Name: name, Value: raw, Err: err})
		return nil
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent || d.NumDigits() > maxAmountDigits {
		p.invalid = append(p.invalid, InvalidBound{Name: name, Value: raw, Err: errAmountOutOfRange})
		return nil
	}
	d = d.Mul(factor)
	return &d
}
