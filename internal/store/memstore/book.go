// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"bookshelf/internal/models"
	"bookshelf/internal/store"
)

// BookStore is the in-memory counterpart of store.BookStore.
type BookStore struct {
	s *Store
}

// FindByID returns a book by ID, or nil if not found.
func (bs *BookStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var out *models.Book
	err := bs.s.read(ctx, "books.FindByID", func() error {
		if r, ok := bs.s.books[id]; ok {
			b := r.book
			out = &b
		}
		return nil
	})
	return out, err
}

// FindByName returns the book with the exact given name, or nil.
func (bs *BookStore) FindByName(ctx context.Context, name string) (*models.Book, error) {
	var out *models.Book
	err := bs.s.read(ctx, "books.FindByName", func() error {
		for _, r := range bs.s.books {
			if r.book.Name == name {
				b := r.book
				out = &b
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Create inserts a book.
func (bs *BookStore) Create(ctx context.Context, b *models.Book) (*models.Book, error) {
	var out models.Book
	err := bs.s.write(ctx, "books.Create", func() error {
		if err := bs.checkLocked(uuid.Nil, b.Name, b.CategoryID); err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		now := bs.s.now()
		out = models.Book{
			ID:         uuid.New(),
			Name:       b.Name,
			CategoryID: b.CategoryID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		bs.s.books[out.ID] = bookRow{book: out, seq: bs.s.nextSeq()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update persists the name and category of an existing book.
func (bs *BookStore) Update(ctx context.Context, b *models.Book) error {
	return bs.s.write(ctx, "books.Update", func() error {
		row, ok := bs.s.books[b.ID]
		if !ok {
			return fmt.Errorf("update book %s: %w", b.ID, store.ErrNotFound)
		}
		if err := bs.checkLocked(b.ID, b.Name, b.CategoryID); err != nil {
			return fmt.Errorf("update book: %w", err)
		}
		row.book.Name = b.Name
		row.book.CategoryID = b.CategoryID
		row.book.UpdatedAt = bs.s.now()
		bs.s.books[b.ID] = row
		b.UpdatedAt = row.book.UpdatedAt
		return nil
	})
}

// Delete removes a book. Returns store.ErrNotFound when absent.
func (bs *BookStore) Delete(ctx context.Context, id uuid.UUID) error {
	return bs.s.write(ctx, "books.Delete", func() error {
		if _, ok := bs.s.books[id]; !ok {
			return fmt.Errorf("delete book %s: %w", id, store.ErrNotFound)
		}
		delete(bs.s.books, id)
		return nil
	})
}

// DeleteByCategories removes every book owned by one of the given categories.
func (bs *BookStore) DeleteByCategories(ctx context.Context, categoryIDs []uuid.UUID) (int64, error) {
	var n int64
	err := bs.s.write(ctx, "books.DeleteByCategories", func() error {
		owners := make(map[uuid.UUID]bool, len(categoryIDs))
		for _, id := range categoryIDs {
			owners[id] = true
		}
		for id, r := range bs.s.books {
			if owners[r.book.CategoryID] {
				delete(bs.s.books, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

// List returns one page of books ordered by name, plus the total count.
func (bs *BookStore) List(ctx context.Context, offset, limit int) ([]models.Book, int, error) {
	var items []models.Book
	var total int
	err := bs.s.read(ctx, "books.List", func() error {
		all := bs.s.sortedBooks(func(models.Book) bool { return true })
		total = len(all)
		items = page(all, offset, limit)
		return nil
	})
	return items, total, err
}

// ListByCategories returns one page of the books owned by any of the given
// categories, plus the total count.
func (bs *BookStore) ListByCategories(ctx context.Context, categoryIDs []uuid.UUID, offset, limit int) ([]models.Book, int, error) {
	var items []models.Book
	var total int
	err := bs.s.read(ctx, "books.ListByCategories", func() error {
		owners := make(map[uuid.UUID]bool, len(categoryIDs))
		for _, id := range categoryIDs {
			owners[id] = true
		}
		all := bs.s.sortedBooks(func(b models.Book) bool { return owners[b.CategoryID] })
		total = len(all)
		items = page(all, offset, limit)
		return nil
	})
	return items, total, err
}

// Count returns the number of books.
func (bs *BookStore) Count(ctx context.Context) (int, error) {
	var n int
	err := bs.s.read(ctx, "books.Count", func() error {
		n = len(bs.s.books)
		return nil
	})
	return n, err
}

func (bs *BookStore) checkLocked(self uuid.UUID, name string, categoryID uuid.UUID) error {
	for id, r := range bs.s.books {
		if id != self && r.book.Name == name {
			return store.ErrDuplicate
		}
	}
	if _, ok := bs.s.categories[categoryID]; !ok {
		return store.ErrForeignKey
	}
	return nil
}
