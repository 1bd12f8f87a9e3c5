// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"

	"github.com/google/uuid"

	"bookshelf/internal/models"
)

// List returns one page of all books ordered by name.
func (s *Service) List(ctx context.Context, p models.Pagination) (models.Page[models.Book], error) {
	p = p.Normalize(s.defaultLimit, s.maxLimit)

	items, total, err := s.books.List(ctx, p.Offset(), p.Limit)
	if err != nil {
		return models.Page[models.Book]{}, fail("list books", err)
	}
	return models.NewPage(items, p, total), nil
}

// FindByCategory returns every book in the category or any category below
// it.
func (s *Service) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Book, error) {
	ids, err := s.closure(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	items, _, err := s.books.ListByCategories(ctx, ids, 0, 0)
	if err != nil {
		return nil, fail("list books by category", err)
	}
	if items == nil {
		items = []models.Book{}
	}
	return items, nil
}

// FindByCategoryWithPagination is FindByCategory one page at a time.
func (s *Service) FindByCategoryWithPagination(ctx context.Context, categoryID uuid.UUID, p models.Pagination) (models.Page[models.Book], error) {
	p = p.Normalize(s.defaultLimit, s.maxLimit)

	ids, err := s.closure(ctx, categoryID)
	if err != nil {
		return models.Page[models.Book]{}, err
	}

	items, total, err := s.books.ListByCategories(ctx, ids, p.Offset(), p.Limit)
	if err != nil {
		return models.Page[models.Book]{}, fail("list books by category", err)
	}
	return models.NewPage(items, p, total), nil
}

// closure returns categoryID followed by all of its descendants.
func (s *Service) closure(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	subs, err := s.hierarchy.FindAllSubcategories(ctx, categoryID)
	if err != nil {
		return nil, fail("list books by category", categoryNotFound(err))
	}
	return append([]uuid.UUID{categoryID}, models.CategoryIDs(subs)...), nil
}
