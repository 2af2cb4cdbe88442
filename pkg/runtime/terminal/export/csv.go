package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/query"
)

const CSVContentType = "text/csv"

// WriteCSV writes records with exact decimal figures, one row per statement.
func WriteCSV(w io.Writer, records []domain.FinancialRecord) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(query.SortFields()))
	for _, field := range query.SortFields() {
		header = append(header, string(field))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Date.Format(time.DateOnly),
			r.Revenue.String(),
			r.NetIncome.String(),
			r.GrossProfit.String(),
			r.EPS.String(),
			r.OperatingIncome.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
