// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore is an in-memory implementation of the category and book
// stores plus their transaction manager. It mirrors the PostgreSQL schema's
// constraints (unique names, foreign keys with cascading deletes) so services
// behave the same on top of it. Used by tests and local tooling.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/models"
	"bookshelf/internal/store"
)

type categoryRow struct {
	cat models.Category
	seq int64
}

type bookRow struct {
	book models.Book
	seq  int64
}

type txKey struct{}

// Store holds all in-memory state. Transactions are serialised by txMu and
// roll back by restoring a snapshot taken when they began.
type Store struct {
	txMu sync.Mutex

	mu         sync.RWMutex
	seq        int64
	categories map[uuid.UUID]categoryRow
	books      map[uuid.UUID]bookRow
	faults     map[string]error

	now func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		categories: make(map[uuid.UUID]categoryRow),
		books:      make(map[uuid.UUID]bookRow),
		faults:     make(map[string]error),
		now:        time.Now,
	}
}

// Categories returns the category store view.
func (s *Store) Categories() *CategoryStore { return &CategoryStore{s: s} }

// Books returns the book store view.
func (s *Store) Books() *BookStore { return &BookStore{s: s} }

// InjectError makes every later call of op fail with err until cleared
// with a nil err. Op names are "<store>.<Method>", e.g. "categories.DeleteMany".
func (s *Store) InjectError(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	return s.faults[op]
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

type snapshot struct {
	seq        int64
	categories map[uuid.UUID]categoryRow
	books      map[uuid.UUID]bookRow
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		seq:        s.seq,
		categories: make(map[uuid.UUID]categoryRow, len(s.categories)),
		books:      make(map[uuid.UUID]bookRow, len(s.books)),
	}
	for k, v := range s.categories {
		snap.categories[k] = v
	}
	for k, v := range s.books {
		snap.books[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.categories = snap.categories
	s.books = snap.books
}

// WithinTx runs fn atomically: if fn fails, every write it made is undone.
// Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// LockTree is a no-op inside a transaction since transactions already run
// one at a time.
func (s *Store) LockTree(ctx context.Context) error {
	if !inTx(ctx) {
		return store.ErrNoTransaction
	}
	return nil
}

// LockTreeShared behaves like LockTree.
func (s *Store) LockTreeShared(ctx context.Context) error {
	return s.LockTree(ctx)
}

// read runs fn under the read lock, failing first if op has an injected error.
// Reads outside a transaction also take txMu, so they only ever see committed
// state and never a transaction's intermediate or rolled-back writes.
func (s *Store) read(ctx context.Context, op string, fn func() error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault(op); err != nil {
		return err
	}
	return fn()
}

// write runs fn under the write lock. Writes outside a transaction also
// take txMu so they cannot land in the middle of someone else's.
func (s *Store) write(ctx context.Context, op string, fn func() error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(op); err != nil {
		return err
	}
	return fn()
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func copyCategory(c models.Category) models.Category {
	out := c.Summary()
	if c.ParentID != nil {
		p := *c.ParentID
		out.ParentID = &p
	}
	return out
}

// sortedCategories returns rows matching keep in insertion order.
func (s *Store) sortedCategories(keep func(models.Category) bool) []models.Category {
	rows := make([]categoryRow, 0, len(s.categories))
	for _, r := range s.categories {
		if keep(r.cat) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]models.Category, len(rows))
	for i, r := range rows {
		out[i] = copyCategory(r.cat)
	}
	return out
}

// sortedBooks returns books matching keep ordered by name.
func (s *Store) sortedBooks(keep func(models.Book) bool) []models.Book {
	var out []models.Book
	for _, r := range s.books {
		if keep(r.book) {
			out = append(out, r.book)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// deleteCategoriesLocked removes ids and, like ON DELETE CASCADE, every
// descendant category and book. Caller holds mu.
func (s *Store) deleteCategoriesLocked(ids []uuid.UUID) int64 {
	doomed := make(map[uuid.UUID]bool)
	queue := append([]uuid.UUID(nil), ids...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if doomed[id] {
			continue
		}
		if _, ok := s.categories[id]; !ok {
			continue
		}
		doomed[id] = true
		for childID, r := range s.categories {
			if r.cat.ParentID != nil && *r.cat.ParentID == id {
				queue = append(queue, childID)
			}
		}
	}

	var n int64
	for _, id := range ids {
		if doomed[id] {
			n++
		}
	}
	for id := range doomed {
		delete(s.categories, id)
	}
	for id, r := range s.books {
		if doomed[r.book.CategoryID] {
			delete(s.books, id)
		}
	}
	return n
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
