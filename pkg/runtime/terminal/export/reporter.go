package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/statement-atlas/pkg/format"
	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/query"
	"github.com/de-tools/statement-atlas/pkg/services/statements"
	"github.com/de-tools/statement-atlas/pkg/store/fmp"
)

const (
	LoadingMessage = "Loading financial data..."
	EmptyMessage   = "No statements match the current filters."
)

// ErrReported marks a failure whose message the reporter already printed.
var ErrReported = errors.New("error already reported")

type TableConfig struct {
	DateWidth   int
	AmountWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DateWidth:   12,
		AmountWidth: 20,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type table struct {
	Symbol   string
	Shown    int
	Total    int
	Filtered bool
	Header   []string
	Rows     [][]string
}

// Handle renders one view state: the loading line, the error line or the table.
// A failed load is written as "Error: <message>" and reported back as ErrReported.
func (c *Reporter) Handle(symbol string, state statements.ViewState) error {
	switch {
	case state.Loading:
		_, err := fmt.Fprintln(c.writer, LoadingMessage)
		return err
	case state.Err != nil:
		if _, err := fmt.Fprintf(c.writer, "Error: %s\n", fmp.UserMessage(state.Err)); err != nil {
			return err
		}
		return fmt.Errorf("%w: %w", ErrReported, state.Err)
	}

	funcMap := template.FuncMap{
		"formatRow": func(cells []string) string {
			var b strings.Builder
			b.WriteString("|")
			for i, cell := range cells {
				fmt.Fprintf(&b, " %-*s |", c.width(i), cell)
			}
			return b.String()
		},
		"separator": func() string {
			var b strings.Builder
			b.WriteString("+")
			for i := range query.SortFields() {
				b.WriteString(strings.Repeat("-", c.width(i)+2))
				b.WriteString("+")
			}
			return b.String()
		},
		"empty": func() string { return EmptyMessage },
	}

	tmpl := `
{{.Symbol}} income statements ({{.Shown}} of {{.Total}}{{if .Filtered}}, filtered{{end}})

{{separator}}
{{formatRow .Header}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{else}}{{empty}}
{{end}}{{separator}}
`

	t, err := template.New("statements").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, c.table(symbol, state))
}

func (c *Reporter) width(column int) int {
	if column == 0 {
		return c.config.DateWidth
	}
	return c.config.AmountWidth
}

func (c *Reporter) table(symbol string, state statements.ViewState) table {
	t := table{
		Symbol:   symbol,
		Shown:    len(state.Rows),
		Total:    state.Total,
		Filtered: !state.Filter.IsUnbounded(),
	}
	for _, field := range query.SortFields() {
		t.Header = append(t.Header, format.ColumnLabel(field)+" "+SortIndicator(state.Sort, field))
	}
	for _, r := range state.Rows {
		t.Rows = append(t.Rows, Cells(r))
	}
	return t
}

// SortIndicator marks the active sort column with its direction.
func SortIndicator(sort *domain.SortSpec, field domain.SortField) string {
	switch {
	case sort == nil || sort.Field != field:
		return "↕"
	case sort.Direction == domain.SortAsc:
		return "↑"
	default:
		return "↓"
	}
}

// Cells formats one record in table column order.
func Cells(r domain.FinancialRecord) []string {
	return []string{
		format.Date(r.Date),
		format.Millions(r.Revenue),
		format.Millions(r.NetIncome),
		format.Millions(r.GrossProfit),
		format.EPS(r.EPS),
		format.Millions(r.OperatingIncome),
	}
}
