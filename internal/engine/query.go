// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"context"

	"github.com/google/uuid"

	"bookshelf/internal/models"
)

// FindByID returns a category with its parent, direct children, root-first
// ancestors and path. All four come from one consistent snapshot.
func (e *Engine) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c *models.Category
	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := e.tx.LockTreeShared(ctx); err != nil {
			return err
		}

		var err error
		c, err = e.categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return categoryNotFound()
		}

		children, err := e.categories.FindChildren(ctx, id)
		if err != nil {
			return err
		}
		ancestors, err := e.categories.FindAncestors(ctx, id)
		if err != nil {
			return err
		}

		if children == nil {
			children = []models.Category{}
		}
		c.Children = children
		c.Ancestors = ancestors
		if len(ancestors) > 0 {
			p := ancestors[len(ancestors)-1].Summary()
			c.Parent = &p
		}
		c.Path = models.JoinPath(append(ancestors, c.Summary()))
		return nil
	})
	if err != nil {
		return nil, fail("find category", err)
	}
	return c, nil
}

// FindAll returns every category in creation order, each with its parent
// and direct children filled in from a single read.
func (e *Engine) FindAll(ctx context.Context) ([]models.Category, error) {
	flat, err := e.categories.List(ctx)
	if err != nil {
		return nil, fail("list categories", err)
	}

	byID := make(map[uuid.UUID]models.Category, len(flat))
	children := make(map[uuid.UUID][]models.Category)
	for _, c := range flat {
		byID[c.ID] = c
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.Summary())
		}
	}

	out := make([]models.Category, len(flat))
	for i, c := range flat {
		c.Children = children[c.ID]
		if c.Children == nil {
			c.Children = []models.Category{}
		}
		if !c.IsRoot() {
			if p, ok := byID[*c.ParentID]; ok {
				s := p.Summary()
				c.Parent = &s
			}
		}
		out[i] = c
	}
	return out, nil
}

// Tree returns the root categories with their descendants nested under
// Children.
func (e *Engine) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := e.categories.List(ctx)
	if err != nil {
		return nil, fail("category tree", err)
	}
	return buildTree(flat), nil
}

// FindAllSubcategories returns every strict descendant of id, breadth
// first. A leaf yields an empty list.
func (e *Engine) FindAllSubcategories(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	c, err := e.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fail("find subcategories", err)
	}
	if c == nil {
		return nil, categoryNotFound()
	}

	out, err := e.descendants(ctx, id)
	if err != nil {
		return nil, fail("find subcategories", err)
	}
	if out == nil {
		out = []models.Category{}
	}
	return out, nil
}

// FindAncestors returns the ancestors of id from the root down to its
// immediate parent. A root category has none.
func (e *Engine) FindAncestors(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	c, err := e.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fail("find ancestors", err)
	}
	if c == nil {
		return nil, categoryNotFound()
	}

	ancestors, err := e.categories.FindAncestors(ctx, id)
	if err != nil {
		return nil, fail("find ancestors", err)
	}
	if ancestors == nil {
		ancestors = []models.Category{}
	}
	return ancestors, nil
}

// GetFullCategoryPath returns the chain from the root down to and
// including id.
func (e *Engine) GetFullCategoryPath(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	c, err := e.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fail("category path", err)
	}
	if c == nil {
		return nil, categoryNotFound()
	}

	ancestors, err := e.categories.FindAncestors(ctx, id)
	if err != nil {
		return nil, fail("category path", err)
	}
	return append(ancestors, *c), nil
}

// descendants walks the subtree under id one level at a time, so the cost
// is one children query per level rather than per node.
func (e *Engine) descendants(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	seen := map[uuid.UUID]bool{id: true}
	level := []uuid.UUID{id}

	for len(level) > 0 {
		children, err := e.categories.FindChildren(ctx, level...)
		if err != nil {
			return nil, err
		}

		next := make([]uuid.UUID, 0, len(children))
		for _, c := range children {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
			next = append(next, c.ID)
		}
		level = next
	}
	return out, nil
}
