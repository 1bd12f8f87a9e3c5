// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"bookshelf/internal/engine"
	"bookshelf/internal/models"
)

// CategoryService is the hierarchy engine as seen by the API.
type CategoryService interface {
	Create(ctx context.Context, in engine.CategoryInput) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	Tree(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id uuid.UUID, in engine.CategoryUpdate) (*models.Category, error)
	Remove(ctx context.Context, id uuid.UUID) error
	FindAllSubcategories(ctx context.Context, id uuid.UUID) ([]models.Category, error)
	GetFullCategoryPath(ctx context.Context, id uuid.UUID) ([]models.Category, error)
}

// Categories serves the /api/categories endpoints.
type Categories struct {
	svc CategoryService
}

// NewCategories creates the category handlers.
func NewCategories(svc CategoryService) *Categories {
	return &Categories{svc: svc}
}

// Create handles POST /api/categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.svc.Create(r.Context(), engine.CategoryInput{Name: req.Name, ParentID: req.ParentID})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// List handles GET /api/categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.FindAll(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Tree handles GET /api/categories/tree.
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.svc.Tree(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roots)
}

// Get handles GET /api/categories/{id}.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.svc.FindByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Update handles PATCH /api/categories/{id}. An explicit "parentId": null
// moves the category to the root; omitting parentId keeps the parent.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.svc.Update(r.Context(), id, engine.CategoryUpdate{
		Name:      req.Name,
		ParentID:  req.ParentID.Value,
		ParentSet: req.ParentID.Set,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/categories/{id}.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
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

// Subcategories handles GET /api/categories/{id}/subcategories.
func (h *Categories) Subcategories(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	subs, err := h.svc.FindAllSubcategories(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// Path handles GET /api/categories/{id}/path.
func (h *Categories) Path(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	path, err := h.svc.GetFullCategoryPath(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, path)
}
