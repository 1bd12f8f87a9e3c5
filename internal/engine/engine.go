// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine is the category hierarchy engine. It keeps the category
// forest consistent under mutation (no cycles, globally unique names,
// cascading deletes) and answers hierarchical queries: ancestors, full
// descendant sets and root-first paths.
//
// Every structural mutation runs in one transaction holding the exclusive
// tree lock, so checks such as "is the new parent a descendant?" are always
// evaluated against the tree shape the write lands on.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"bookshelf/internal/domain"
	"bookshelf/internal/models"
)

// CategoryStore is the tree storage the engine runs on.
type CategoryStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	FindChildren(ctx context.Context, parentIDs ...uuid.UUID) ([]models.Category, error)
	FindAncestors(ctx context.Context, id uuid.UUID) ([]models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// BookPurger removes the books owned by a set of categories.
type BookPurger interface {
	DeleteByCategories(ctx context.Context, categoryIDs []uuid.UUID) (int64, error)
}

// Transactor runs work atomically and provides the tree locks.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	LockTree(ctx context.Context) error
	LockTreeShared(ctx context.Context) error
}

// Recorder is notified after each successful mutation.
type Recorder interface {
	RecordMutation(entity, op string)
}

type nopRecorder struct{}

func (nopRecorder) RecordMutation(string, string) {}

// Engine implements the category hierarchy operations.
type Engine struct {
	categories CategoryStore
	books      BookPurger
	tx         Transactor
	recorder   Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder reports mutations to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// New creates an Engine.
func New(categories CategoryStore, books BookPurger, tx Transactor, opts ...Option) *Engine {
	e := &Engine{
		categories: categories,
		books:      books,
		tx:         tx,
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// fail passes domain errors through and wraps anything else as an internal
// error, logging the cause since clients never see it.
func fail(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	slog.Error("category storage failure", "op", op, "error", err)
	return domain.Internal(op, err)
}

func categoryNotFound() error {
	return domain.NotFound("category")
}
