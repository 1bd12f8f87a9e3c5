// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bookshelf/internal/models"
)

// CategoryStore manages categories in the database. Only the parent
// reference is stored; ancestors and descendants are walked at read time.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := scanner.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCategories(rows *sql.Rows) ([]models.Category, error) {
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID returns a category by ID, or nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := scanCategory(executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByName returns the category with the exact given name, or nil.
func (s *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	c, err := scanCategory(executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// FindChildren returns the direct children of every given parent, ordered
// by creation time. Passing a whole tree level at once keeps descendant
// walks at one query per level.
func (s *CategoryStore) FindChildren(ctx context.Context, parentIDs ...uuid.UUID) ([]models.Category, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	rows, err := executor(ctx, s.db).QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE parent_id = ANY($1::uuid[])
		ORDER BY created_at, id
	`, uuidStrings(parentIDs))
	if err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}
	return collectCategories(rows)
}

// FindAncestors returns the ancestor chain of id, root first, excluding
// the category itself. A root or unknown id yields an empty chain.
func (s *CategoryStore) FindAncestors(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	rows, err := executor(ctx, s.db).QueryContext(ctx, `
		WITH RECURSIVE chain AS (
			SELECT `+categoryColumns+`, 0 AS depth
			FROM categories
			WHERE id = $1
			UNION ALL
			SELECT c.id, c.name, c.parent_id, c.created_at, c.updated_at, chain.depth + 1
			FROM categories c
			JOIN chain ON c.id = chain.parent_id
		)
		SELECT `+categoryColumns+`
		FROM chain
		WHERE depth > 0
		ORDER BY depth DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find ancestors: %w", err)
	}
	return collectCategories(rows)
}

// List returns every category in creation order.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := executor(ctx, s.db).QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return collectCategories(rows)
}

// Create inserts a new category and returns it with generated fields set.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	result, err := scanCategory(executor(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO categories (name, parent_id)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		c.Name, c.ParentID))
	if err != nil {
		return nil, mapError("create category", err)
	}
	return result, nil
}

// Update persists the name and parent of an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	err := executor(ctx, s.db).QueryRowContext(ctx, `
		UPDATE categories SET name = $2, parent_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, c.ID, c.Name, c.ParentID).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update category %s: %w", c.ID, ErrNotFound)
	}
	return mapError("update category", err)
}

// DeleteMany removes the given categories in a single statement and
// reports how many rows went away.
func (s *CategoryStore) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM categories WHERE id = ANY($1::uuid[])`, uuidStrings(ids))
	if err != nil {
		return 0, mapError("delete categories", err)
	}
	return res.RowsAffected()
}
