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

// CategoryStore is the in-memory counterpart of store.CategoryStore.
type CategoryStore struct {
	s *Store
}

// FindByID returns a category by ID, or nil if not found.
func (cs *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var out *models.Category
	err := cs.s.read(ctx, "categories.FindByID", func() error {
		if r, ok := cs.s.categories[id]; ok {
			c := copyCategory(r.cat)
			out = &c
		}
		return nil
	})
	return out, err
}

// FindByName returns the category with the exact given name, or nil.
func (cs *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var out *models.Category
	err := cs.s.read(ctx, "categories.FindByName", func() error {
		for _, r := range cs.s.categories {
			if r.cat.Name == name {
				c := copyCategory(r.cat)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// FindChildren returns the direct children of every given parent in
// insertion order.
func (cs *CategoryStore) FindChildren(ctx context.Context, parentIDs ...uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	err := cs.s.read(ctx, "categories.FindChildren", func() error {
		parents := make(map[uuid.UUID]bool, len(parentIDs))
		for _, id := range parentIDs {
			parents[id] = true
		}
		out = cs.s.sortedCategories(func(c models.Category) bool {
			return c.ParentID != nil && parents[*c.ParentID]
		})
		return nil
	})
	return out, err
}

// FindAncestors returns the ancestor chain of id, root first.
func (cs *CategoryStore) FindAncestors(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	err := cs.s.read(ctx, "categories.FindAncestors", func() error {
		r, ok := cs.s.categories[id]
		if !ok {
			return nil
		}
		seen := map[uuid.UUID]bool{id: true}
		for parent := r.cat.ParentID; parent != nil; {
			pr, ok := cs.s.categories[*parent]
			if !ok || seen[*parent] {
				break
			}
			seen[*parent] = true
			out = append([]models.Category{copyCategory(pr.cat)}, out...)
			parent = pr.cat.ParentID
		}
		return nil
	})
	return out, err
}

// List returns every category in insertion order.
func (cs *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := cs.s.read(ctx, "categories.List", func() error {
		out = cs.s.sortedCategories(func(models.Category) bool { return true })
		return nil
	})
	return out, err
}

// Count returns the number of categories.
func (cs *CategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	err := cs.s.read(ctx, "categories.Count", func() error {
		n = len(cs.s.categories)
		return nil
	})
	return n, err
}

// Create inserts a category, enforcing name uniqueness and the parent
// reference the way the database constraints would.
func (cs *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	var out models.Category
	err := cs.s.write(ctx, "categories.Create", func() error {
		if err := cs.checkLocked(uuid.Nil, c.Name, c.ParentID); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		now := cs.s.now()
		row := categoryRow{
			cat: models.Category{
				ID:        uuid.New(),
				Name:      c.Name,
				ParentID:  c.ParentID,
				CreatedAt: now,
				UpdatedAt: now,
			},
			seq: cs.s.nextSeq(),
		}
		row.cat = copyCategory(row.cat)
		cs.s.categories[row.cat.ID] = row
		out = copyCategory(row.cat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update persists the name and parent of an existing category.
func (cs *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	return cs.s.write(ctx, "categories.Update", func() error {
		row, ok := cs.s.categories[c.ID]
		if !ok {
			return fmt.Errorf("update category %s: %w", c.ID, store.ErrNotFound)
		}
		if err := cs.checkLocked(c.ID, c.Name, c.ParentID); err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		row.cat.Name = c.Name
		row.cat.ParentID = c.ParentID
		row.cat.UpdatedAt = cs.s.now()
		row.cat = copyCategory(row.cat)
		cs.s.categories[c.ID] = row
		c.UpdatedAt = row.cat.UpdatedAt
		return nil
	})
}

// DeleteMany removes the given categories. Descendants and their books go
// with them.
func (cs *CategoryStore) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	err := cs.s.write(ctx, "categories.DeleteMany", func() error {
		n = cs.s.deleteCategoriesLocked(ids)
		return nil
	})
	return n, err
}

// checkLocked mirrors the unique, foreign key and self-parent constraints.
func (cs *CategoryStore) checkLocked(self uuid.UUID, name string, parentID *uuid.UUID) error {
	for id, r := range cs.s.categories {
		if id != self && r.cat.Name == name {
			return store.ErrDuplicate
		}
	}
	if parentID != nil {
		if *parentID == self {
			return fmt.Errorf("category cannot reference itself")
		}
		if _, ok := cs.s.categories[*parentID]; !ok {
			return store.ErrForeignKey
		}
	}
	return nil
}
