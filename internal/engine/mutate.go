// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"bookshelf/internal/domain"
	"bookshelf/internal/models"
	"bookshelf/internal/store"
)

// CategoryInput holds the fields for creating a category.
type CategoryInput struct {
	Name     string
	ParentID *uuid.UUID
}

// CategoryUpdate holds the fields for updating a category. A nil Name
// leaves the name alone. ParentSet selects whether the parent changes;
// with ParentSet and a nil ParentID the category moves to the root.
type CategoryUpdate struct {
	Name      *string
	ParentID  *uuid.UUID
	ParentSet bool
}

// Create adds a category, optionally under an existing parent.
func (e *Engine) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	var created *models.Category
	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := e.tx.LockTree(ctx); err != nil {
			return err
		}

		existing, err := e.categories.FindByName(ctx, in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateName(in.Name)
		}

		var parent *models.Category
		if in.ParentID != nil {
			parent, err = e.categories.FindByID(ctx, *in.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return domain.New(domain.ErrParentNotFound, "parent category not found")
			}
		}

		created, err = e.categories.Create(ctx, &models.Category{Name: in.Name, ParentID: in.ParentID})
		if err != nil {
			return translateWrite(err, in.Name)
		}
		if parent != nil {
			p := parent.Summary()
			created.Parent = &p
		}
		return nil
	})
	if err != nil {
		return nil, fail("create category", err)
	}

	slog.Info("category created", "id", created.ID, "name", created.Name, "parent_id", created.ParentID)
	e.recorder.RecordMutation("category", "create")
	return created, nil
}

// Update renames and/or re-parents a category. Re-parenting is refused
// when the new parent is the category itself or any of its descendants.
func (e *Engine) Update(ctx context.Context, id uuid.UUID, in CategoryUpdate) (*models.Category, error) {
	var current *models.Category
	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := e.tx.LockTree(ctx); err != nil {
			return err
		}

		var err error
		current, err = e.categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return categoryNotFound()
		}

		if in.Name != nil && *in.Name != current.Name {
			existing, err := e.categories.FindByName(ctx, *in.Name)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != id {
				return duplicateName(*in.Name)
			}
			current.Name = *in.Name
		}

		var parent *models.Category
		if in.ParentSet {
			if in.ParentID != nil {
				if parent, err = e.checkNewParent(ctx, id, *in.ParentID); err != nil {
					return err
				}
			}
			current.ParentID = in.ParentID
		} else if current.ParentID != nil {
			if parent, err = e.categories.FindByID(ctx, *current.ParentID); err != nil {
				return err
			}
		}

		if err := e.categories.Update(ctx, current); err != nil {
			return translateWrite(err, current.Name)
		}
		if parent != nil {
			p := parent.Summary()
			current.Parent = &p
		}
		return nil
	})
	if err != nil {
		return nil, fail("update category", err)
	}

	slog.Info("category updated", "id", current.ID, "name", current.Name, "parent_id", current.ParentID)
	e.recorder.RecordMutation("category", "update")
	return current, nil
}

// checkNewParent validates parentID as the new parent of id and returns it.
func (e *Engine) checkNewParent(ctx context.Context, id, parentID uuid.UUID) (*models.Category, error) {
	if parentID == id {
		return nil, domain.New(domain.ErrSelfParent, "category cannot be its own parent")
	}

	parent, err := e.categories.FindByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.New(domain.ErrParentNotFound, "parent category not found")
	}

	descendants, err := e.descendants(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, d := range descendants {
		if d.ID == parentID {
			return nil, domain.New(domain.ErrCircularReference,
				"cannot move category under its own descendant %q", parent.Name)
		}
	}
	return parent, nil
}

// Remove deletes a category, its whole subtree and every book owned by any
// category in that subtree, all in one transaction.
func (e *Engine) Remove(ctx context.Context, id uuid.UUID) error {
	var ids []uuid.UUID
	var books int64
	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := e.tx.LockTree(ctx); err != nil {
			return err
		}

		c, err := e.categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return categoryNotFound()
		}

		subtree, err := e.descendants(ctx, id)
		if err != nil {
			return err
		}
		ids = append([]uuid.UUID{id}, models.CategoryIDs(subtree)...)

		if books, err = e.books.DeleteByCategories(ctx, ids); err != nil {
			return err
		}
		_, err = e.categories.DeleteMany(ctx, ids)
		return err
	})
	if err != nil {
		return fail("delete category", err)
	}

	slog.Info("category deleted", "id", id, "categories", len(ids), "books", books)
	e.recorder.RecordMutation("category", "delete")
	return nil
}

func duplicateName(name string) error {
	return domain.New(domain.ErrDuplicateName, "category with name %q already exists", name)
}

// translateWrite maps constraint violations raised by a write that slipped
// past the checks above, e.g. a concurrent writer without the tree lock.
func translateWrite(err error, name string) error {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return duplicateName(name)
	case errors.Is(err, store.ErrForeignKey):
		return domain.New(domain.ErrParentNotFound, "parent category not found")
	case errors.Is(err, store.ErrNotFound):
		return categoryNotFound()
	}
	return err
}
