// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"github.com/google/uuid"

	"bookshelf/internal/models"
)

// buildTree nests a flat category list under its roots. Sibling order
// follows the order of flat.
func buildTree(flat []models.Category) []models.Category {
	byParent := make(map[uuid.UUID][]models.Category)
	for _, c := range flat {
		key := uuid.Nil
		if !c.IsRoot() {
			key = *c.ParentID
		}
		byParent[key] = append(byParent[key], c)
	}
	return nest(byParent, uuid.Nil)
}

// nest recursively attaches children to each node under parent.
func nest(byParent map[uuid.UUID][]models.Category, parent uuid.UUID) []models.Category {
	level := byParent[parent]
	result := make([]models.Category, 0, len(level))
	for _, c := range level {
		c.Children = nest(byParent, c.ID)
		result = append(result, c)
	}
	return result
}
