// Package ledger is the single write path for the finance entities.
//
// Every mutation of people, lending records, expenses and categories goes
// through Service. Multi-step mutations run inside one database transaction,
// which is what keeps the invariant that a person's cached net balance
// always equals the sum of their lending record amounts.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/logger"
	"gitlab.com/financeio/financeio/internal/models"
	"gitlab.com/financeio/financeio/internal/repository"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Service owns all entity mutations.
type Service struct {
	db         database.DB
	people     *repository.PersonRepository
	lending    *repository.LendingRepository
	expenses   *repository.ExpenseRepository
	categories *repository.CategoryRepository
}

// NewService creates a ledger service over a connection pool or transaction.
func NewService(db database.DB) *Service {
	return &Service{
		db:         db,
		people:     repository.NewPersonRepository(db),
		lending:    repository.NewLendingRepository(db),
		expenses:   repository.NewExpenseRepository(db),
		categories: repository.NewCategoryRepository(db),
	}
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *Service) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddPerson creates a person with a zero net balance and no records.
func (s *Service) AddPerson(ctx context.Context, name string) (*models.Person, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	person := &models.Person{Name: name}
	if err := s.people.Create(ctx, person); err != nil {
		return nil, err
	}

	logger.Log.Debug().Int("person_id", person.ID).Msg("Person created")
	return person, nil
}

// DeletePerson removes a person and, through the schema's cascade, every
// lending record they own, in one atomic statement. The records go away with
// the balance they were summed into, so no per-record reversal happens.
func (s *Service) DeletePerson(ctx context.Context, id int) error {
	if err := s.people.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Debug().Int("person_id", id).Msg("Person deleted with owned records")
	return nil
}

// AddTransaction creates a lending record owned by personID and adjusts the
// person's cached net balance by the signed amount, in one transaction.
//
// The direction toggle determines the sign: DirectionLent stores +magnitude,
// DirectionReceived stores -magnitude. The magnitude must be positive;
// invalid input is rejected before anything is written.
func (s *Service) AddTransaction(
	ctx context.Context,
	personID int,
	direction models.Direction,
	magnitude decimal.Decimal,
	date time.Time,
	note string,
) (*models.LendingRecord, error) {
	if magnitude.Sign() <= 0 {
		return nil, &models.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if date.IsZero() {
		return nil, &models.ValidationError{Field: "date", Reason: "is required"}
	}

	var amount decimal.Decimal
	switch direction {
	case models.DirectionLent:
		amount = magnitude
	case models.DirectionReceived:
		amount = magnitude.Neg()
	default:
		return nil, &models.ValidationError{Field: "direction", Reason: fmt.Sprintf("unknown direction %q", direction)}
	}

	rec := &models.LendingRecord{
		PersonID: personID,
		Amount:   amount,
		Date:     date,
		Note:     note,
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		people := repository.NewPersonRepository(tx)
		lending := repository.NewLendingRepository(tx)

		// Adjusting first makes a vanished person surface as ErrNotFound
		// instead of a foreign key violation on the insert.
		if err := people.AdjustBalance(ctx, personID, amount); err != nil {
			return err
		}
		return lending.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debug().
		Int("person_id", personID).
		Str("direction", string(direction)).
		Msg("Lending transaction added")
	return rec, nil
}

// DeleteTransaction reverses a lending record's contribution to its owner's
// net balance and removes the record, in one transaction. The stored amount
// is read before the record is destroyed. A missing record reports
// ErrNotFound, which callers treat as a benign double-delete.
func (s *Service) DeleteTransaction(ctx context.Context, id int) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		people := repository.NewPersonRepository(tx)
		lending := repository.NewLendingRepository(tx)

		rec, err := lending.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := people.AdjustBalance(ctx, rec.PersonID, rec.Amount.Neg()); err != nil {
			return err
		}
		return lending.Delete(ctx, id)
	})
}

// AddExpense validates and stores a new expense. The amount must be
// positive and the category must name a known category at write time; the
// stored reference stays a plain name, so it may dangle later if the
// category is deleted.
func (s *Service) AddExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.validateExpense(ctx, expense); err != nil {
		return err
	}
	return s.expenses.Create(ctx, expense)
}

// UpdateExpense validates and applies edits to an existing expense.
func (s *Service) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.validateExpense(ctx, expense); err != nil {
		return err
	}
	return s.expenses.Update(ctx, expense)
}

// DeleteExpense removes an expense. Expenses own nothing, so nothing
// cascades.
func (s *Service) DeleteExpense(ctx context.Context, id int) error {
	return s.expenses.Delete(ctx, id)
}

func (s *Service) validateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Amount.Sign() <= 0 {
		return &models.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if expense.Date.IsZero() {
		return &models.ValidationError{Field: "date", Reason: "is required"}
	}
	if strings.TrimSpace(expense.Category) == "" {
		return &models.ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if _, err := s.categories.GetByName(ctx, expense.Category); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", expense.Category)}
		}
		return err
	}
	return nil
}

// AddCategory creates a user category. User categories are never default.
func (s *Service) AddCategory(ctx context.Context, cat *models.Category) error {
	if err := validateCategory(cat); err != nil {
		return err
	}
	return s.categories.Create(ctx, cat)
}

// UpdateCategory edits a non-default category.
func (s *Service) UpdateCategory(ctx context.Context, cat *models.Category) error {
	if err := validateCategory(cat); err != nil {
		return err
	}
	return s.categories.Update(ctx, cat)
}

// DeleteCategory removes a non-default category. Requests against default
// categories (and IDs that no longer exist) are silently ignored. Expenses
// that reference the deleted name keep it; display styling falls back.
func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	return s.categories.Delete(ctx, id)
}

func validateCategory(cat *models.Category) error {
	if strings.TrimSpace(cat.Name) == "" {
		return &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if cat.Color != "" && !hexColorPattern.MatchString(cat.Color) {
		return &models.ValidationError{Field: "color", Reason: "must be a hex triplet like #FF9500"}
	}
	return nil
}
