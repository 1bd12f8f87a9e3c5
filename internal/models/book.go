// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Book is a catalog entry owned by exactly one category. Deleting the
// category (or any of its ancestors) deletes the book.
type Book struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Virtual fields populated by the catalog service.
	Category   *Category `json:"category,omitempty"`
	Breadcrumb string    `json:"breadcrumb,omitempty"`
}
