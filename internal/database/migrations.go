package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			icon TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Expenses reference their category by name, not by foreign key.
		// A category may be deleted while expenses still carry its name;
		// display styling falls back to a default icon/color in that case.
		`CREATE TABLE IF NOT EXISTS expenses (
			id SERIAL PRIMARY KEY,
			amount DECIMAL(12, 2) NOT NULL,
			date DATE NOT NULL,
			category TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			method TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS people (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			net_balance DECIMAL(12, 2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Exclusive ownership with cascade: deleting a person deletes all of
		// their lending records in the same statement.
		`CREATE TABLE IF NOT EXISTS lending_records (
			id SERIAL PRIMARY KEY,
			person_id INTEGER NOT NULL REFERENCES people(id) ON DELETE CASCADE,
			amount DECIMAL(12, 2) NOT NULL,
			date DATE NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category)`,
		`CREATE INDEX IF NOT EXISTS idx_lending_records_person_id ON lending_records(person_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lending_records_date ON lending_records(date)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// defaultCategory is a seeded built-in category.
type defaultCategory struct {
	name  string
	icon  string
	color string
}

// defaultCategories are the nine built-in categories created on first run.
var defaultCategories = []defaultCategory{
	{"Food", "fork.knife", "#FF9500"},
	{"Transport", "car.fill", "#007AFF"},
	{"Rent", "house.fill", "#AF52DE"},
	{"Shopping", "bag.fill", "#FF2D55"},
	{"Utilities", "bolt.fill", "#FFCC00"},
	{"Entertainment", "film.fill", "#5856D6"},
	{"Health", "heart.fill", "#FF3B30"},
	{"Education", "book.fill", "#34C759"},
	{"Other", "ellipsis.circle.fill", "#8E8E93"},
}

// SeedCategories inserts the default expense categories. Idempotent: an
// existing category with the same name is left untouched.
func SeedCategories(ctx context.Context, pool *pgxpool.Pool) error {
	for i, cat := range defaultCategories {
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (name, icon, color, sort_order, is_default)
			VALUES ($1, $2, $3, $4, TRUE)
			ON CONFLICT (name) DO NOTHING
		`, cat.name, cat.icon, cat.color, i)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.name, err)
		}
	}

	return nil
}
