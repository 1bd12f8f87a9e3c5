// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog manages books. Each book belongs to exactly one category;
// every question about categories (existence, descendants, paths) is asked
// of the hierarchy engine, never of the category storage directly.
package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"bookshelf/internal/domain"
	"bookshelf/internal/models"
	"bookshelf/internal/store"
)

// Hierarchy is the read side of the category engine the catalog relies on.
type Hierarchy interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindAllSubcategories(ctx context.Context, id uuid.UUID) ([]models.Category, error)
	GetFullCategoryPath(ctx context.Context, id uuid.UUID) ([]models.Category, error)
}

// BookStore persists books.
type BookStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	FindByName(ctx context.Context, name string) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) (*models.Book, error)
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]models.Book, int, error)
	ListByCategories(ctx context.Context, categoryIDs []uuid.UUID, offset, limit int) ([]models.Book, int, error)
}

// Transactor runs work atomically. Book writers hold the shared tree lock so
// the referenced category cannot be deleted under them.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	LockTreeShared(ctx context.Context) error
}

// Recorder is notified after each successful mutation.
type Recorder interface {
	RecordMutation(entity, op string)
}

type nopRecorder struct{}

func (nopRecorder) RecordMutation(string, string) {}

// Service implements the book catalog operations.
type Service struct {
	hierarchy    Hierarchy
	books        BookStore
	tx           Transactor
	recorder     Recorder
	defaultLimit int
	maxLimit     int
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder reports mutations to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithPageLimits sets the page size used when a request gives none and the
// largest page size allowed.
func WithPageLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// New creates a Service.
func New(hierarchy Hierarchy, books BookStore, tx Transactor, opts ...Option) *Service {
	s := &Service{
		hierarchy:    hierarchy,
		books:        books,
		tx:           tx,
		recorder:     nopRecorder{},
		defaultLimit: models.DefaultLimit,
		maxLimit:     models.MaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BookInput holds the fields for creating a book.
type BookInput struct {
	Name       string
	CategoryID uuid.UUID
}

// BookUpdate holds the optional fields for updating a book.
type BookUpdate struct {
	Name       *string
	CategoryID *uuid.UUID
}

// Create adds a book to an existing category.
func (s *Service) Create(ctx context.Context, in BookInput) (*models.Book, error) {
	var created *models.Book
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tx.LockTreeShared(ctx); err != nil {
			return err
		}

		existing, err := s.books.FindByName(ctx, in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateName(in.Name)
		}

		category, err := s.category(ctx, in.CategoryID)
		if err != nil {
			return err
		}

		created, err = s.books.Create(ctx, &models.Book{Name: in.Name, CategoryID: in.CategoryID})
		if err != nil {
			return translateWrite(err, in.Name)
		}
		attach(created, category)
		return nil
	})
	if err != nil {
		return nil, fail("create book", err)
	}

	slog.Info("book created", "id", created.ID, "name", created.Name, "category_id", created.CategoryID)
	s.recorder.RecordMutation("book", "create")
	return created, nil
}

// FindOne returns a book with its category and breadcrumb.
func (s *Service) FindOne(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book *models.Book
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tx.LockTreeShared(ctx); err != nil {
			return err
		}

		var err error
		book, err = s.books.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if book == nil {
			return bookNotFound()
		}

		path, err := s.hierarchy.GetFullCategoryPath(ctx, book.CategoryID)
		if err != nil {
			return categoryNotFound(err)
		}
		c := path[len(path)-1].Summary()
		book.Category = &c
		book.Breadcrumb = models.JoinPath(path)
		return nil
	})
	if err != nil {
		return nil, fail("find book", err)
	}
	return book, nil
}

// Update renames and/or moves a book to another category.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in BookUpdate) (*models.Book, error) {
	var book *models.Book
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tx.LockTreeShared(ctx); err != nil {
			return err
		}

		var err error
		book, err = s.books.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if book == nil {
			return bookNotFound()
		}

		if in.Name != nil && *in.Name != book.Name {
			existing, err := s.books.FindByName(ctx, *in.Name)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != id {
				return duplicateName(*in.Name)
			}
			book.Name = *in.Name
		}

		if in.CategoryID != nil {
			book.CategoryID = *in.CategoryID
		}
		category, err := s.category(ctx, book.CategoryID)
		if err != nil {
			return err
		}

		if err := s.books.Update(ctx, book); err != nil {
			return translateWrite(err, book.Name)
		}
		attach(book, category)
		return nil
	})
	if err != nil {
		return nil, fail("update book", err)
	}

	slog.Info("book updated", "id", book.ID, "name", book.Name, "category_id", book.CategoryID)
	s.recorder.RecordMutation("book", "update")
	return book, nil
}

// Remove deletes a book.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return bookNotFound()
		}
		return fail("delete book", err)
	}

	slog.Info("book deleted", "id", id)
	s.recorder.RecordMutation("book", "delete")
	return nil
}

// GetBreadcrumb renders the category chain of book root first, e.g.
// "Fiction > SciFi". A book under a root category gets just that name.
func (s *Service) GetBreadcrumb(ctx context.Context, book *models.Book) (string, error) {
	path, err := s.hierarchy.GetFullCategoryPath(ctx, book.CategoryID)
	if err != nil {
		return "", fail("book breadcrumb", categoryNotFound(err))
	}
	return models.JoinPath(path), nil
}

// category resolves id through the hierarchy engine, reporting a missing
// category as CategoryNotFound.
func (s *Service) category(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.hierarchy.FindByID(ctx, id)
	if err != nil {
		return nil, categoryNotFound(err)
	}
	return c, nil
}

// attach embeds the flattened category and its path into b.
func attach(b *models.Book, c *models.Category) {
	summary := c.Summary()
	b.Category = &summary
	b.Breadcrumb = c.Path
}

func fail(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	slog.Error("book storage failure", "op", op, "error", err)
	return domain.Internal(op, err)
}

func bookNotFound() error {
	return domain.NotFound("book")
}

func duplicateName(name string) error {
	return domain.New(domain.ErrDuplicateName, "book with name %q already exists", name)
}

// categoryNotFound turns the engine's NotFound into CategoryNotFound and
// passes every other error through.
func categoryNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.New(domain.ErrCategoryNotFound, "category not found")
	}
	return err
}

func translateWrite(err error, name string) error {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return duplicateName(name)
	case errors.Is(err, store.ErrForeignKey):
		return domain.New(domain.ErrCategoryNotFound, "category not found")
	case errors.Is(err, store.ErrNotFound):
		return bookNotFound()
	}
	return err
}
