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

// BookStore manages books in the database.
type BookStore struct {
	db *sql.DB
}

// NewBookStore returns a new BookStore.
func NewBookStore(db *sql.DB) *BookStore {
	return &BookStore{db: db}
}

const bookColumns = `id, name, category_id, created_at, updated_at`

func scanBook(scanner interface{ Scan(...any) error }) (*models.Book, error) {
	var b models.Book
	if err := scanner.Scan(&b.ID, &b.Name, &b.CategoryID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBooks(rows *sql.Rows) ([]models.Book, error) {
	defer rows.Close()

	var items []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// FindByID returns a book by ID, or nil if not found.
func (s *BookStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	b, err := scanBook(executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book by id: %w", err)
	}
	return b, nil
}

// FindByName returns the book with the exact given name, or nil.
func (s *BookStore) FindByName(ctx context.Context, name string) (*models.Book, error) {
	b, err := scanBook(executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE name = $1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book by name: %w", err)
	}
	return b, nil
}

// Create inserts a new book.
func (s *BookStore) Create(ctx context.Context, b *models.Book) (*models.Book, error) {
	result, err := scanBook(executor(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO books (name, category_id)
		VALUES ($1, $2)
		RETURNING `+bookColumns,
		b.Name, b.CategoryID))
	if err != nil {
		return nil, mapError("create book", err)
	}
	return result, nil
}

// Update persists the name and category of an existing book.
func (s *BookStore) Update(ctx context.Context, b *models.Book) error {
	err := executor(ctx, s.db).QueryRowContext(ctx, `
		UPDATE books SET name = $2, category_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, b.ID, b.Name, b.CategoryID).Scan(&b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update book %s: %w", b.ID, ErrNotFound)
	}
	return mapError("update book", err)
}

// Delete removes a book. Returns ErrNotFound when no row matched.
func (s *BookStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := executor(ctx, s.db).ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete book %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByCategories removes every book owned by one of the given
// categories and reports how many were deleted.
func (s *BookStore) DeleteByCategories(ctx context.Context, categoryIDs []uuid.UUID) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	res, err := executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM books WHERE category_id = ANY($1::uuid[])`, uuidStrings(categoryIDs))
	if err != nil {
		return 0, fmt.Errorf("delete books by categories: %w", err)
	}
	return res.RowsAffected()
}

// List returns one page of books ordered by name, plus the total count.
// A limit of zero or less returns every book from offset on.
func (s *BookStore) List(ctx context.Context, offset, limit int) ([]models.Book, int, error) {
	db := executor(ctx, s.db)

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+bookColumns+`
		FROM books
		ORDER BY name, id
		LIMIT $1 OFFSET $2
	`, sqlLimit(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	items, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByCategories returns one page of the books owned by any of the given
// categories, ordered by name, plus the total count across all pages.
func (s *BookStore) ListByCategories(ctx context.Context, categoryIDs []uuid.UUID, offset, limit int) ([]models.Book, int, error) {
	if len(categoryIDs) == 0 {
		return nil, 0, nil
	}
	db := executor(ctx, s.db)
	ids := uuidStrings(categoryIDs)

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE category_id = ANY($1::uuid[])`, ids).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count books by categories: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE category_id = ANY($1::uuid[])
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`, ids, sqlLimit(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list books by categories: %w", err)
	}
	items, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// sqlLimit maps a non-positive limit to NULL, which PostgreSQL treats as
// LIMIT ALL.
func sqlLimit(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
