// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"bookshelf/internal/models"
)

// createChain inserts root-first categories, each under the previous one.
func createChain(t *testing.T, s *CategoryStore, names ...string) []models.Category {
	t.Helper()
	ctx := context.Background()

	var out []models.Category
	var parent *uuid.UUID
	for _, name := range names {
		c, err := s.Create(ctx, &models.Category{Name: name, ParentID: parent})
		if err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
		out = append(out, *c)
		parent = &c.ID
	}
	return out
}

func TestCategoryStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanCategories(t, db, "store-crud-root", "store-crud-renamed") })

	created, err := s.Create(ctx, &models.Category{Name: "store-crud-root"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if created.ParentID != nil {
		t.Errorf("expected root category, got parent %v", created.ParentID)
	}

	byID, err := s.FindByID(ctx, created.ID)
	if err != nil || byID == nil {
		t.Fatalf("FindByID: %v, %v", byID, err)
	}
	if byID.Name != "store-crud-root" {
		t.Errorf("name: got %q", byID.Name)
	}

	byID.Name = "store-crud-renamed"
	if err := s.Update(ctx, byID); err != nil {
		t.Fatalf("Update: %v", err)
	}
	byName, err := s.FindByName(ctx, "store-crud-renamed")
	if err != nil || byName == nil {
		t.Fatalf("FindByName after rename: %v, %v", byName, err)
	}
	if byName.ID != created.ID {
		t.Errorf("rename changed identity: %s vs %s", byName.ID, created.ID)
	}

	n, err := s.DeleteMany(ctx, []uuid.UUID{created.ID})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted: got %d, want 1", n)
	}

	gone, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Error("expected nil after delete")
	}
}

func TestCategoryStoreFindMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	c, err := s.FindByID(ctx, uuid.New())
	if err != nil || c != nil {
		t.Errorf("FindByID(unknown) = %v, %v; want nil, nil", c, err)
	}
	c, err = s.FindByName(ctx, "store-no-such-category")
	if err != nil || c != nil {
		t.Errorf("FindByName(unknown) = %v, %v; want nil, nil", c, err)
	}
}

func TestCategoryStoreDuplicateName(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanCategories(t, db, "store-dup") })

	if _, err := s.Create(ctx, &models.Category{Name: "store-dup"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := s.Create(ctx, &models.Category{Name: "store-dup"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Create: got %v, want ErrDuplicate", err)
	}
}

func TestCategoryStoreUnknownParent(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanCategories(t, db, "store-orphan") })

	missing := uuid.New()
	_, err := s.Create(ctx, &models.Category{Name: "store-orphan", ParentID: &missing})
	if !errors.Is(err, ErrForeignKey) {
		t.Errorf("Create with unknown parent: got %v, want ErrForeignKey", err)
	}
}

func TestCategoryStoreUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	err := s.Update(context.Background(), &models.Category{ID: uuid.New(), Name: "store-ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(unknown): got %v, want ErrNotFound", err)
	}
}

func TestCategoryStoreTreeQueries(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanCategories(t, db, "store-tree-root") })

	chain := createChain(t, s, "store-tree-root", "store-tree-mid", "store-tree-leaf")
	root, mid, leaf := chain[0], chain[1], chain[2]

	ancestors, err := s.FindAncestors(ctx, leaf.ID)
	if err != nil {
		t.Fatalf("FindAncestors: %v", err)
	}
	if len(ancestors) != 2 || ancestors[0].ID != root.ID || ancestors[1].ID != mid.ID {
		t.Errorf("ancestors not root-first: %+v", ancestors)
	}

	rootAncestors, err := s.FindAncestors(ctx, root.ID)
	if err != nil {
		t.Fatalf("FindAncestors(root): %v", err)
	}
	if len(rootAncestors) != 0 {
		t.Errorf("root should have no ancestors, got %d", len(rootAncestors))
	}

	children, err := s.FindChildren(ctx, root.ID, mid.ID)
	if err != nil {
		t.Fatalf("FindChildren: %v", err)
	}
	if len(children) != 2 || children[0].ID != mid.ID || children[1].ID != leaf.ID {
		t.Errorf("children of [root, mid]: %+v", children)
	}

	leafChildren, err := s.FindChildren(ctx, leaf.ID)
	if err != nil {
		t.Fatalf("FindChildren(leaf): %v", err)
	}
	if len(leafChildren) != 0 {
		t.Errorf("leaf should have no children, got %d", len(leafChildren))
	}
}

func TestTxManagerRollback(t *testing.T) {
	db := testDB(t)
	tm := NewTxManager(db)
	s := NewCategoryStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanCategories(t, db, "store-tx-rollback") })

	boom := errors.New("boom")
	err := tm.WithinTx(ctx, func(ctx context.Context) error {
		if err := tm.LockTree(ctx); err != nil {
			return err
		}
		if _, err := s.Create(ctx, &models.Category{Name: "store-tx-rollback"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTx: got %v, want boom", err)
	}

	c, err := s.FindByName(ctx, "store-tx-rollback")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if c != nil {
		t.Error("insert should have been rolled back")
	}
}

func TestTxManagerLockRequiresTx(t *testing.T) {
	db := testDB(t)
	tm := NewTxManager(db)

	if err := tm.LockTree(context.Background()); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("LockTree outside tx: got %v, want ErrNoTransaction", err)
	}
	if err := tm.LockTreeShared(context.Background()); !errors.Is(err, ErrNoTransaction) {
		t.Errorf("LockTreeShared outside tx: got %v, want ErrNoTransaction", err)
	}
}
