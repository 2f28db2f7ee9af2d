// Package repository provides database access for domain entities.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/models"
)

// CategoryRepository handles category database operations.
type CategoryRepository struct {
	db database.PGXDB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db database.PGXDB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetAll retrieves all categories in display order.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, icon, color, sort_order, is_default, created_at
		FROM categories ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.SortOrder, &cat.IsDefault, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	var cat models.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, icon, color, sort_order, is_default, created_at
		FROM categories WHERE id = $1
	`, id).Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.SortOrder, &cat.IsDefault, &cat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

// GetByName retrieves a category by name (case-insensitive).
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var cat models.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, icon, color, sort_order, is_default, created_at
		FROM categories WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.SortOrder, &cat.IsDefault, &cat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return &cat, nil
}

// Create adds a new user category. User categories are never default.
func (r *CategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	cat.IsDefault = false
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, icon, color, sort_order, is_default)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at
	`, cat.Name, cat.Icon, cat.Color, cat.SortOrder).Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update modifies a non-default category. Default categories are not
// editable; updating one (or a missing ID) reports ErrNotFound.
func (r *CategoryRepository) Update(ctx context.Context, cat *models.Category) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE categories SET name = $2, icon = $3, color = $4, sort_order = $5
		WHERE id = $1 AND NOT is_default
	`, cat.ID, cat.Name, cat.Icon, cat.Color, cat.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes a non-default category by ID. Deleting a default category
// is silently ignored, as is deleting an ID that no longer exists. Expenses
// referencing the category's name are left untouched.
func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND NOT is_default`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
