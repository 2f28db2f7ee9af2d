package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/models"
	"gitlab.com/financeio/financeio/internal/repository"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newExpense(amount int64, date time.Time, category string) *models.Expense {
	return &models.Expense{
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
		Category: category,
	}
}

func TestExpenseRepository_CRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create populates id and created_at", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewExpenseRepository(tx)

		exp := &models.Expense{
			Amount:   decimal.NewFromFloat(25.50),
			Date:     day(2026, 1, 5),
			Category: "Food",
			Note:     "lunch",
			Method:   "Cash",
		}
		require.NoError(t, repo.Create(ctx, exp))
		require.NotZero(t, exp.ID)
		require.False(t, exp.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, exp.ID)
		require.NoError(t, err)
		require.True(t, decimal.NewFromFloat(25.50).Equal(got.Amount))
		require.Equal(t, "lunch", got.Note)
		require.Equal(t, "Cash", got.Method)
	})

	t.Run("get missing expense reports not found", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewExpenseRepository(tx)

		_, err := repo.GetByID(ctx, 999999)
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("update rewrites all fields", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewExpenseRepository(tx)

		exp := newExpense(10, day(2026, 1, 5), "Food")
		require.NoError(t, repo.Create(ctx, exp))

		exp.Amount = decimal.NewFromInt(15)
		exp.Category = "Transport"
		exp.Note = "corrected"
		require.NoError(t, repo.Update(ctx, exp))

		got, err := repo.GetByID(ctx, exp.ID)
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(15).Equal(got.Amount))
		require.Equal(t, "Transport", got.Category)
		require.Equal(t, "corrected", got.Note)
	})

	t.Run("update and delete of missing rows report not found", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewExpenseRepository(tx)

		err := repo.Update(ctx, newExpense(10, day(2026, 1, 5), "Food"))
		require.ErrorIs(t, err, models.ErrNotFound)
		require.ErrorIs(t, repo.Delete(ctx, 999999), models.ErrNotFound)
	})

	t.Run("GetRecent orders by date then insertion, newest first", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewExpenseRepository(tx)

		older := newExpense(1, day(2026, 1, 1), "Food")
		sameDayFirst := newExpense(2, day(2026, 1, 9), "Food")
		sameDaySecond := newExpense(3, day(2026, 1, 9), "Food")
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, sameDayFirst))
		require.NoError(t, repo.Create(ctx, sameDaySecond))

		recent, err := repo.GetRecent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, recent, 3)
		require.Equal(t, sameDaySecond.ID, recent[0].ID)
		require.Equal(t, sameDayFirst.ID, recent[1].ID)
		require.Equal(t, older.ID, recent[2].ID)
	})
}

func TestExpenseRepository_Totals(t *testing.T) {
	ctx := context.Background()

	t.Run("TotalByDateRange is half-open", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewExpenseRepository(tx)

		require.NoError(t, repo.Create(ctx, newExpense(100, day(2026, 1, 1), "Food")))
		require.NoError(t, repo.Create(ctx, newExpense(50, day(2026, 1, 31), "Food")))
		require.NoError(t, repo.Create(ctx, newExpense(999, day(2026, 2, 1), "Food")))

		total, err := repo.TotalByDateRange(ctx, day(2026, 1, 1), day(2026, 2, 1))
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(150).Equal(total), "total = %s", total)
	})

	t.Run("empty range totals zero", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewExpenseRepository(tx)

		total, err := repo.TotalByDateRange(ctx, day(2030, 1, 1), day(2030, 2, 1))
		require.NoError(t, err)
		require.True(t, total.IsZero())
	})

	t.Run("TotalsByCategory groups by name, largest first", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewExpenseRepository(tx)

		require.NoError(t, repo.Create(ctx, newExpense(30, day(2026, 1, 1), "Food")))
		require.NoError(t, repo.Create(ctx, newExpense(70, day(2026, 1, 2), "Food")))
		require.NoError(t, repo.Create(ctx, newExpense(40, day(2026, 1, 3), "Transport")))

		totals, err := repo.TotalsByCategory(ctx)
		require.NoError(t, err)
		require.Len(t, totals, 2)

		require.Equal(t, "Food", totals[0].Name)
		require.True(t, decimal.NewFromInt(100).Equal(totals[0].Total))
		require.True(t, totals[0].Known)
		require.NotEmpty(t, totals[0].Icon)
		require.NotEmpty(t, totals[0].Color)

		require.Equal(t, "Transport", totals[1].Name)
		require.True(t, decimal.NewFromInt(40).Equal(totals[1].Total))
	})

	t.Run("dangling category names still group", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewExpenseRepository(tx)

		require.NoError(t, repo.Create(ctx, newExpense(25, day(2026, 1, 1), "Vanished")))

		totals, err := repo.TotalsByCategory(ctx)
		require.NoError(t, err)
		require.Len(t, totals, 1)
		require.Equal(t, "Vanished", totals[0].Name)
		require.False(t, totals[0].Known)
		require.Empty(t, totals[0].Icon)
		require.Empty(t, totals[0].Color)
	})
}

func TestExpenseRepository_HasExpenseBetween(t *testing.T) {
	ctx := context.Background()
	tx := database.TestTx(t)
	repo := repository.NewExpenseRepository(tx)

	require.NoError(t, repo.Create(ctx, newExpense(10, day(2026, 1, 15), "Food")))

	has, err := repo.HasExpenseBetween(ctx, day(2026, 1, 15), day(2026, 1, 16))
	require.NoError(t, err)
	require.True(t, has)

	has, err = repo.HasExpenseBetween(ctx, day(2026, 1, 16), day(2026, 1, 17))
	require.NoError(t, err)
	require.False(t, has)
}
