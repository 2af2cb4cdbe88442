package statements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/statement-atlas/pkg/models/store"
	"github.com/de-tools/statement-atlas/pkg/store/duckdb"
)

// Store keeps the most recent fetch of income statements per symbol.
type Store interface {
	// Replace swaps the stored snapshot for symbol with rows fetched at fetchedAt.
	// An empty rows slice is still recorded as a snapshot.
	Replace(ctx context.Context, symbol string, fetchedAt time.Time, rows []store.StatementRow) error
	// GetSnapshot returns nil when symbol has never been stored.
	GetSnapshot(ctx context.Context, symbol string) (*store.Snapshot, error)
}

type statementStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &statementStore{db: db}, nil
}

func (s *statementStore) Replace(ctx context.Context, symbol string, fetchedAt time.Time, rows []store.StatementRow) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	if duckdb.GetTransaction(ctx) != nil {
		return s.replace(ctx, symbol, fetchedAt, rows)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := s.replace(duckdb.WithTransaction(ctx, tx), symbol, fetchedAt, rows); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *statementStore) replace(ctx context.Context, symbol string, fetchedAt time.Time, rows []store.StatementRow) error {
	conn := duckdb.Conn(ctx, s.db)

	if _, err := conn.ExecContext(ctx, `DELETE FROM income_statements WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM statement_fetches WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("delete fetch marker: %w", err)
	}
	if _, err := conn.ExecContext(ctx,
		`INSERT INTO statement_fetches (symbol, fetched_at) VALUES (?, ?)`, symbol, fetchedAt); err != nil {
		return fmt.Errorf("insert fetch marker: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	stmt, err := conn.PrepareContext(ctx, `
		INSERT INTO income_statements (
			symbol, statement_date, position, revenue, net_income,
			gross_profit, eps, operating_income, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.ExecContext(ctx,
			symbol,
			row.Date,
			row.Position,
			row.Revenue.String(),
			row.NetIncome.String(),
			row.GrossProfit.String(),
			row.EPS.String(),
			row.OperatingIncome.String(),
			row.FetchedAt,
		)
		if err != nil {
			return fmt.Errorf("insert statement: %w", err)
		}
	}

	return nil
}

func (s *statementStore) GetSnapshot(ctx context.Context, symbol string) (*store.Snapshot, error) {
	conn := duckdb.Conn(ctx, s.db)

	var fetchedAt time.Time
	err := conn.QueryRowContext(ctx, `SELECT fetched_at FROM statement_fetches WHERE symbol = ?`, symbol).
		Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fetch marker: %w", err)
	}

	query := `
		SELECT statement_date, position, revenue, net_income, gross_profit, eps, operating_income, fetched_at
		FROM income_statements
		WHERE symbol = ?
		ORDER BY position ASC
	`
	rows, err := conn.QueryContext(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := &store.Snapshot{Symbol: symbol, FetchedAt: fetchedAt.UTC()}
	for rows.Next() {
		row := store.StatementRow{Symbol: symbol}
		if err := rows.Scan(
			&row.Date,
			&row.Position,
			&row.Revenue,
			&row.NetIncome,
			&row.GrossProfit,
			&row.EPS,
			&row.OperatingIncome,
			&row.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		row.Date = row.Date.UTC()
		row.FetchedAt = row.FetchedAt.UTC()
		snapshot.Rows = append(snapshot.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot: %w", err)
	}

	return snapshot, nil
}
