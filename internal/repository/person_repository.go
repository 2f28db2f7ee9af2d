package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/models"
)

// PersonRepository handles person database operations.
type PersonRepository struct {
	db database.PGXDB
}

// NewPersonRepository creates a new PersonRepository.
func NewPersonRepository(db database.PGXDB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create adds a new person with a zero net balance.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO people (name) VALUES ($1)
		RETURNING id, net_balance, created_at
	`, person.Name).Scan(&person.ID, &person.NetBalance, &person.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

// GetByID retrieves a person by ID, without their lending records.
func (r *PersonRepository) GetByID(ctx context.Context, id int) (*models.Person, error) {
	var p models.Person
	err := r.db.QueryRow(ctx, `
		SELECT id, name, net_balance, created_at FROM people WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.NetBalance, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return &p, nil
}

// GetAll retrieves all people in insertion order, without lending records.
func (r *PersonRepository) GetAll(ctx context.Context) ([]models.Person, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, net_balance, created_at FROM people ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.NetBalance, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating people: %w", err)
	}
	return people, nil
}

// GetAllWithRecords retrieves all people in insertion order, each carrying
// their lending records in insertion order.
func (r *PersonRepository) GetAllWithRecords(ctx context.Context) ([]models.Person, error) {
	people, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return people, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, person_id, amount, date, note, created_at
		FROM lending_records ORDER BY person_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query lending records: %w", err)
	}
	defer rows.Close()

	byPerson := make(map[int][]models.LendingRecord)
	for rows.Next() {
		var rec models.LendingRecord
		if err := rows.Scan(&rec.ID, &rec.PersonID, &rec.Amount, &rec.Date, &rec.Note, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lending record: %w", err)
		}
		byPerson[rec.PersonID] = append(byPerson[rec.PersonID], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lending records: %w", err)
	}

	for i := range people {
		people[i].Records = byPerson[people[i].ID]
	}
	return people, nil
}

// AdjustBalance adds delta to a person's cached net balance.
func (r *PersonRepository) AdjustBalance(ctx context.Context, id int, delta decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE people SET net_balance = net_balance + $2 WHERE id = $1
	`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes a person by ID. The schema's ON DELETE CASCADE removes all
// of the person's lending records atomically with the person.
func (r *PersonRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// NetTotal sums the cached net balance across all people.
func (r *PersonRepository) NetTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(net_balance), 0) FROM people
	`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get net lending total: %w", err)
	}
	return total, nil
}
