package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const StatementsTableSchema = `
	CREATE TABLE IF NOT EXISTS income_statements (
		symbol VARCHAR NOT NULL,
		statement_date DATE NOT NULL,
		position INTEGER NOT NULL,
		revenue VARCHAR NOT NULL,
		net_income VARCHAR NOT NULL,
		gross_profit VARCHAR NOT NULL,
		eps VARCHAR NOT NULL,
		operating_income VARCHAR NOT NULL,
		fetched_at TIMESTAMP NOT NULL,
		PRIMARY KEY (symbol, statement_date)
	);
`

// FetchesTableSchema records when each symbol was last fetched, so a fetch that
// returned no statements is still a snapshot.
const FetchesTableSchema = `
	CREATE TABLE IF NOT EXISTS statement_fetches (
		symbol VARCHAR PRIMARY KEY,
		fetched_at TIMESTAMP NOT NULL
	);
`

var bootQueries = []string{
	StatementsTableSchema,
	FetchesTableSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

// NewDB opens (or creates) the DuckDB file at settings.DbPath and applies the schema
// on every new connection. Use ":memory:" for an ephemeral database.
func NewDB(settings Settings) (*sql.DB, error) {
	if settings.DbPath == "" {
		return nil, fmt.Errorf("duckdb path is empty")
	}
	if settings.Threads <= 0 {
		settings.Threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, settings.Threads),
		func(exec driver.ExecerContext) error {
			for _, query := range bootQueries {
				if _, err := exec.ExecContext(context.Background(), query, nil); err != nil {
					return fmt.Errorf("bootstrap schema: %w", err)
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
