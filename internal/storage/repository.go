package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finsight/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the persistent store: one transactions table in an
// embedded SQLite database file. All queries use positional parameter
// binding.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// A failed schema migration is logged but not fatal: the process keeps
	// running and later queries surface the problem per request.
	if err := RunMigrations(dbPath); err != nil {
		slog.Warn("Failed to ensure transactions schema", "error", err, "path", dbPath)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Insert stores a new transaction and returns its server-assigned id.
// Validation happens at the API layer; the store takes what it is given.
func (r *SQLiteRepository) Insert(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (type, amount, category, description, date) VALUES (?, ?, ?, ?, ?)`,
		t.Type, t.Amount, t.Category, t.Description, t.Date)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"type", t.Type,
		"category", t.Category,
		"amount", t.Amount,
		"date", t.Date)

	return id, nil
}

// List returns transactions with date in [start, end] inclusive, newest date
// first, limited and offset for pagination.
func (r *SQLiteRepository) List(ctx context.Context, start, end string, limit, offset int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, amount, category, COALESCE(description, ''), date
		 FROM transactions
		 WHERE date BETWEEN ? AND ?
		 ORDER BY date DESC
		 LIMIT ? OFFSET ?`,
		start, end, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.ID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Count returns the number of transactions with date in [start, end],
// independent of pagination.
func (r *SQLiteRepository) Count(ctx context.Context, start, end string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE date BETWEEN ? AND ?`,
		start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return total, nil
}

// Get returns a single transaction by id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	var t core.Transaction
	err := r.db.QueryRowContext(ctx,
		`SELECT id, type, amount, category, COALESCE(description, ''), date
		 FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// CategoryExpenseSums returns the summed amount of every expense category in
// [start, end], descending by sum. Categories with no expense records are
// absent.
func (r *SQLiteRepository) CategoryExpenseSums(ctx context.Context, start, end string) ([]core.CategorySum, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount) AS totalAmount
		 FROM transactions
		 WHERE type = 'expense' AND date BETWEEN ? AND ?
		 GROUP BY category
		 ORDER BY totalAmount DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("category sums: %w", err)
	}
	defer rows.Close()

	var out []core.CategorySum
	for rows.Next() {
		var cs core.CategorySum
		if err := rows.Scan(&cs.Category, &cs.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return out, nil
}

// AllCategoryExpenseSums is CategoryExpenseSums over the whole table. The
// summary endpoint has no date filter, and stored dates are unvalidated
// text, so no bound can be assumed safe.
func (r *SQLiteRepository) AllCategoryExpenseSums(ctx context.Context) ([]core.CategorySum, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount) AS totalAmount
		 FROM transactions
		 WHERE type = 'expense'
		 GROUP BY category
		 ORDER BY totalAmount DESC`)
	if err != nil {
		return nil, fmt.Errorf("category sums: %w", err)
	}
	defer rows.Close()

	var out []core.CategorySum
	for rows.Next() {
		var cs core.CategorySum
		if err := rows.Scan(&cs.Category, &cs.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return out, nil
}

// TypeTotals returns income and expense totals for [start, end].
func (r *SQLiteRepository) TypeTotals(ctx context.Context, start, end string) (core.TypeTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, SUM(amount)
		 FROM transactions
		 WHERE date BETWEEN ? AND ?
		 GROUP BY type`,
		start, end)
	if err != nil {
		return core.TypeTotals{}, fmt.Errorf("type totals: %w", err)
	}
	defer rows.Close()

	var totals core.TypeTotals
	for rows.Next() {
		var typ string
		var sum float64
		if err := rows.Scan(&typ, &sum); err != nil {
			return core.TypeTotals{}, fmt.Errorf("scan type total: %w", err)
		}
		switch typ {
		case core.TypeIncome:
			totals.Income = sum
		case core.TypeExpense:
			totals.Expenses = sum
		}
	}
	if err := rows.Err(); err != nil {
		return core.TypeTotals{}, fmt.Errorf("iterate type totals: %w", err)
	}
	totals.Balance = totals.Income - totals.Expenses
	return totals, nil
}

// DailySums returns per-day totals for the given transaction type in
// [start, end], ascending by day. Days are the date part (first ten
// characters) of the stored date string.
func (r *SQLiteRepository) DailySums(ctx context.Context, typ, start, end string) ([]core.DailySum, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT substr(date, 1, 10) AS day, SUM(amount)
		 FROM transactions
		 WHERE type = ? AND date BETWEEN ? AND ?
		 GROUP BY day
		 ORDER BY day ASC`,
		typ, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily sums: %w", err)
	}
	defer rows.Close()

	var out []core.DailySum
	for rows.Next() {
		var ds core.DailySum
		if err := rows.Scan(&ds.Date, &ds.Total); err != nil {
			return nil, fmt.Errorf("scan daily sum: %w", err)
		}
		out = append(out, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily sums: %w", err)
	}
	return out, nil
}

// Delete removes a transaction by id and reports how many rows were affected
// (0 or 1).
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	changes, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "changes", changes)
	return changes, nil
}
