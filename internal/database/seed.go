// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// seedChain is the development category chain, root first.
var seedChain = []string{"Fiction", "Science Fiction", "Space Opera"}

// seedBooks maps a category name from seedChain to the books it owns.
var seedBooks = map[string][]string{
	"Fiction":         {"The Left Hand of Darkness"},
	"Science Fiction": {"Dune", "Neuromancer"},
	"Space Opera":     {"Hyperion", "Leviathan Wakes"},
}

// Seed populates an empty catalog with a small category chain and a few
// books. It does nothing when any category already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var parentID *string
	books := 0
	for _, name := range seedChain {
		var id string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id
		`, name, parentID).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}

		for _, title := range seedBooks[name] {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO books (name, category_id) VALUES ($1, $2)`, title, id); err != nil {
				return fmt.Errorf("seed book %q: %w", title, err)
			}
			books++
		}
		parentID = &id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample catalog",
		"categories", len(seedChain),
		"books", books,
	)
	return nil
}
