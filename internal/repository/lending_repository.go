package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/models"
)

// LendingRepository handles lending record database operations.
type LendingRepository struct {
	db database.PGXDB
}

// NewLendingRepository creates a new LendingRepository.
func NewLendingRepository(db database.PGXDB) *LendingRepository {
	return &LendingRepository{db: db}
}

// Create adds a new lending record owned by rec.PersonID.
func (r *LendingRepository) Create(ctx context.Context, rec *models.LendingRecord) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO lending_records (person_id, amount, date, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, rec.PersonID, rec.Amount, rec.Date, rec.Note).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lending record: %w", err)
	}
	return nil
}

// GetByID retrieves a lending record by ID.
func (r *LendingRepository) GetByID(ctx context.Context, id int) (*models.LendingRecord, error) {
	var rec models.LendingRecord
	err := r.db.QueryRow(ctx, `
		SELECT id, person_id, amount, date, note, created_at
		FROM lending_records WHERE id = $1
	`, id).Scan(&rec.ID, &rec.PersonID, &rec.Amount, &rec.Date, &rec.Note, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lending record: %w", err)
	}
	return &rec, nil
}

// GetByPersonID retrieves a person's lending records in insertion order.
func (r *LendingRepository) GetByPersonID(ctx context.Context, personID int) ([]models.LendingRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, person_id, amount, date, note, created_at
		FROM lending_records WHERE person_id = $1 ORDER BY id
	`, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lending records: %w", err)
	}
	defer rows.Close()

	return scanLendingRecords(rows)
}

// GetRecent retrieves the most recently dated lending records, newest
// first, with the owning person's name populated. Equal dates fall back to
// insertion order, newest first.
func (r *LendingRepository) GetRecent(ctx context.Context, limit int) ([]models.LendingRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT lr.id, lr.person_id, lr.amount, lr.date, lr.note, lr.created_at, p.name
		FROM lending_records lr
		JOIN people p ON p.id = lr.person_id
		ORDER BY lr.date DESC, lr.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent lending records: %w", err)
	}
	defer rows.Close()

	var records []models.LendingRecord
	for rows.Next() {
		var rec models.LendingRecord
		if err := rows.Scan(&rec.ID, &rec.PersonID, &rec.Amount, &rec.Date, &rec.Note, &rec.CreatedAt, &rec.PersonName); err != nil {
			return nil, fmt.Errorf("failed to scan lending record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lending records: %w", err)
	}
	return records, nil
}

// Delete removes a lending record by ID.
func (r *LendingRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM lending_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lending record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// scanLendingRecords is a helper to scan lending record rows.
func scanLendingRecords(rows pgx.Rows) ([]models.LendingRecord, error) {
	var records []models.LendingRecord
	for rows.Next() {
		var rec models.LendingRecord
		if err := rows.Scan(&rec.ID, &rec.PersonID, &rec.Amount, &rec.Date, &rec.Note, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lending record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lending records: %w", err)
	}
	return records, nil
}
