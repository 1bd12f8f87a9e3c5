// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"bookshelf/internal/catalog"
	"bookshelf/internal/models"
)

// BookService is the book catalog as seen by the API.
type BookService interface {
	Create(ctx context.Context, in catalog.BookInput) (*models.Book, error)
	FindOne(ctx context.Context, id uuid.UUID) (*models.Book, error)
	Update(ctx context.Context, id uuid.UUID, in catalog.BookUpdate) (*models.Book, error)
	Remove(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, p models.Pagination) (models.Page[models.Book], error)
	FindByCategoryWithPagination(ctx context.Context, categoryID uuid.UUID, p models.Pagination) (models.Page[models.Book], error)
}

// Books serves the /api/books endpoints.
type Books struct {
	svc BookService
}

// NewBooks creates the book handlers.
func NewBooks(svc BookService) *Books {
	return &Books{svc: svc}
}

// Create handles POST /api/books.
func (h *Books) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.svc.Create(r.Context(), catalog.BookInput{Name: req.Name, CategoryID: req.CategoryID})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// List handles GET /api/books?page=&limit=.
func (h *Books) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), pagination(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ByCategory handles GET /api/books/by-category/{categoryId}. The result
// covers the category and all of its descendants.
func (h *Books) ByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	page, err := h.svc.FindByCategoryWithPagination(r.Context(), categoryID, pagination(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/books/{id}.
func (h *Books) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.svc.FindOne(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Update handles PATCH /api/books/{id}.
func (h *Books) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateBookRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.svc.Update(r.Context(), id, catalog.BookUpdate{Name: req.Name, CategoryID: req.CategoryID})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/books/{id}.
func (h *Books) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Remove(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
