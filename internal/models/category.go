// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PathSeparator joins category names in paths and book breadcrumbs.
const PathSeparator = " > "

// Category is a node in the catalog hierarchy. A nil ParentID marks a root.
// Names are unique across all categories, not only among siblings.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parentId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// Virtual fields computed at query time, never stored. Children is
	// omitted only when nil; a loaded leaf carries an empty list.
	Parent    *Category  `json:"parent,omitempty"`
	Children  []Category `json:"children,omitzero"`
	Ancestors []Category `json:"ancestors,omitempty"`
	Path      string     `json:"path,omitempty"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Summary returns a copy of the category without any virtual fields.
// Used when embedding a category inside another response to keep
// the payload flat.
func (c Category) Summary() Category {
	return Category{
		ID:        c.ID,
		Name:      c.Name,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// JoinPath renders a root-first chain of categories as a single string,
// e.g. "Fiction > Science Fiction > Space Opera".
func JoinPath(chain []Category) string {
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}
	return strings.Join(names, PathSeparator)
}

// CategoryIDs extracts the IDs of the given categories, preserving order.
func CategoryIDs(cats []Category) []uuid.UUID {
	ids := make([]uuid.UUID, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	return ids
}
