package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/models"
)

// ExpenseRepository handles expense database operations.
type ExpenseRepository struct {
	db database.PGXDB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db database.PGXDB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create adds a new expense.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (amount, date, category, note, method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, expense.Amount, expense.Date, expense.Category, expense.Note, expense.Method,
	).Scan(&expense.ID, &expense.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int) (*models.Expense, error) {
	var exp models.Expense
	err := r.db.QueryRow(ctx, `
		SELECT id, amount, date, category, note, method, created_at
		FROM expenses WHERE id = $1
	`, id).Scan(&exp.ID, &exp.Amount, &exp.Date, &exp.Category, &exp.Note, &exp.Method, &exp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &exp, nil
}

// GetAll retrieves all expenses in insertion order.
func (r *ExpenseRepository) GetAll(ctx context.Context) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount, date, category, note, method, created_at
		FROM expenses ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// GetRecent retrieves the most recently dated expenses, newest first.
// Equal dates fall back to insertion order, newest first.
func (r *ExpenseRepository) GetRecent(ctx context.Context, limit int) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount, date, category, note, method, created_at
		FROM expenses
		ORDER BY date DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// Update modifies an existing expense.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE expenses SET amount = $2, date = $3, category = $4, note = $5, method = $6
		WHERE id = $1
	`, expense.ID, expense.Amount, expense.Date, expense.Category, expense.Note, expense.Method)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an expense by ID.
func (r *ExpenseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// TotalByDateRange calculates total spending for expenses dated within
// [startDate, endDate).
func (r *ExpenseRepository) TotalByDateRange(
	ctx context.Context,
	startDate, endDate time.Time,
) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE date >= $1 AND date < $2
	`, startDate, endDate).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get total: %w", err)
	}
	return total, nil
}

// CategoryTotalRow is a per-category spending sum with the category's
// styling, when the referenced category still exists.
type CategoryTotalRow struct {
	Name  string
	Total decimal.Decimal
	Icon  string
	Color string
	Known bool
}

// TotalsByCategory groups expenses by category name and sums amounts per
// group, largest first. Expenses whose category name no longer resolves are
// still grouped under that name with Known = false.
func (r *ExpenseRepository) TotalsByCategory(ctx context.Context) ([]CategoryTotalRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.category, SUM(e.amount) AS total,
		       COALESCE(c.icon, ''), COALESCE(c.color, ''), c.id IS NOT NULL
		FROM expenses e
		LEFT JOIN categories c ON c.name = e.category
		GROUP BY e.category, c.icon, c.color, c.id
		ORDER BY total DESC, MIN(e.id)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotalRow
	for rows.Next() {
		var row CategoryTotalRow
		if err := rows.Scan(&row.Name, &row.Total, &row.Icon, &row.Color, &row.Known); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}
	return totals, nil
}

// HasExpenseBetween reports whether any expense is dated within
// [startDate, endDate). Used by the daily reminder.
func (r *ExpenseRepository) HasExpenseBetween(ctx context.Context, startDate, endDate time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM expenses WHERE date >= $1 AND date < $2)
	`, startDate, endDate).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for expenses: %w", err)
	}
	return exists, nil
}

// scanExpenses is a helper to scan expense rows.
func scanExpenses(rows pgx.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		var exp models.Expense
		if err := rows.Scan(&exp.ID, &exp.Amount, &exp.Date, &exp.Category, &exp.Note, &exp.Method, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
