package repository_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/models"
	"gitlab.com/financeio/financeio/internal/repository"
)

func createPerson(t *testing.T, repo *repository.PersonRepository, name string) *models.Person {
	t.Helper()
	p := &models.Person{Name: name}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPersonRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create starts with a zero balance", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewPersonRepository(tx)

		alice := createPerson(t, repo, "Alice")
		require.NotZero(t, alice.ID)
		require.True(t, alice.NetBalance.IsZero())
		require.False(t, alice.CreatedAt.IsZero())
	})

	t.Run("AdjustBalance accumulates deltas", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewPersonRepository(tx)

		alice := createPerson(t, repo, "Alice")
		require.NoError(t, repo.AdjustBalance(ctx, alice.ID, decimal.NewFromInt(500)))
		require.NoError(t, repo.AdjustBalance(ctx, alice.ID, decimal.NewFromInt(-200)))

		got, err := repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(300).Equal(got.NetBalance))
	})

	t.Run("AdjustBalance on a missing person reports not found", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewPersonRepository(tx)

		err := repo.AdjustBalance(ctx, 999999, decimal.NewFromInt(1))
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("delete cascades to lending records", func(t *testing.T) {
		tx := database.TestTx(t)
		people := repository.NewPersonRepository(tx)
		lending := repository.NewLendingRepository(tx)

		alice := createPerson(t, people, "Alice")
		rec := &models.LendingRecord{PersonID: alice.ID, Amount: decimal.NewFromInt(500), Date: day(2026, 1, 5)}
		require.NoError(t, lending.Create(ctx, rec))

		require.NoError(t, people.Delete(ctx, alice.ID))

		_, err := people.GetByID(ctx, alice.ID)
		require.ErrorIs(t, err, models.ErrNotFound)
		_, err = lending.GetByID(ctx, rec.ID)
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("GetAllWithRecords attaches each person's records in order", func(t *testing.T) {
		tx := database.TestTx(t)
		people := repository.NewPersonRepository(tx)
		lending := repository.NewLendingRepository(tx)

		alice := createPerson(t, people, "Alice")
		bob := createPerson(t, people, "Bob")

		first := &models.LendingRecord{PersonID: alice.ID, Amount: decimal.NewFromInt(500), Date: day(2026, 1, 5)}
		second := &models.LendingRecord{PersonID: alice.ID, Amount: decimal.NewFromInt(-200), Date: day(2026, 1, 6)}
		require.NoError(t, lending.Create(ctx, first))
		require.NoError(t, lending.Create(ctx, second))

		all, err := people.GetAllWithRecords(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)

		require.Equal(t, alice.ID, all[0].ID)
		require.Len(t, all[0].Records, 2)
		require.Equal(t, first.ID, all[0].Records[0].ID)
		require.Equal(t, second.ID, all[0].Records[1].ID)

		require.Equal(t, bob.ID, all[1].ID)
		require.Empty(t, all[1].Records)
	})

	t.Run("NetTotal sums all balances", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewPersonRepository(tx)

		alice := createPerson(t, repo, "Alice")
		bob := createPerson(t, repo, "Bob")
		require.NoError(t, repo.AdjustBalance(ctx, alice.ID, decimal.NewFromInt(300)))
		require.NoError(t, repo.AdjustBalance(ctx, bob.ID, decimal.NewFromInt(-100)))

		total, err := repo.NetTotal(ctx)
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(200).Equal(total), "total = %s", total)
	})

	t.Run("NetTotal with no people is zero", func(t *testing.T) {
		tx := database.TestTx(t)
		repo := repository.NewPersonRepository(tx)

		total, err := repo.NetTotal(ctx)
		require.NoError(t, err)
		require.True(t, total.IsZero())
	})
}

func TestLendingRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("GetByPersonID returns only that person's records", func(t *testing.T) {
		tx := database.TestTx(t)
		people := repository.NewPersonRepository(tx)
		lending := repository.NewLendingRepository(tx)

		alice := createPerson(t, people, "Alice")
		bob := createPerson(t, people, "Bob")
		require.NoError(t, lending.Create(ctx, &models.LendingRecord{PersonID: alice.ID, Amount: decimal.NewFromInt(500), Date: day(2026, 1, 5)}))
		require.NoError(t, lending.Create(ctx, &models.LendingRecord{PersonID: bob.ID, Amount: decimal.NewFromInt(100), Date: day(2026, 1, 5)}))

		records, err := lending.GetByPersonID(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, alice.ID, records[0].PersonID)
	})

	t.Run("GetRecent carries the person name", func(t *testing.T) {
		tx := database.TestTx(t)
		people := repository.NewPersonRepository(tx)
		lending := repository.NewLendingRepository(tx)

		alice := createPerson(t, people, "Alice")
		require.NoError(t, lending.Create(ctx, &models.LendingRecord{PersonID: alice.ID, Amount: decimal.NewFromInt(500), Date: day(2026, 1, 5)}))

		recent, err := lending.GetRecent(ctx, 5)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		require.Equal(t, "Alice", recent[0].PersonName)
	})

	t.Run("delete of a missing record reports not found", func(t *testing.T) {
		tx := database.TestTx(t)
		lending := repository.NewLendingRepository(tx)

		require.ErrorIs(t, lending.Delete(ctx, 999999), models.ErrNotFound)
	})
}
