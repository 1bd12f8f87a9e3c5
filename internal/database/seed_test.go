package database

import (
	"context"
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only writes into an empty catalog. We don't clear the database
	// first because other test packages may be running against it.
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	var before int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&before); err != nil {
		t.Fatalf("count categories: %v", err)
	}

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	var after int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&after); err != nil {
		t.Fatalf("count categories: %v", err)
	}

	if before < 1 {
		t.Errorf("expected at least 1 category after seeding, got %d", before)
	}
	if after != before {
		t.Errorf("second Seed changed category count: %d -> %d", before, after)
	}
}

func TestSeedBooksCoverChain(t *testing.T) {
	if len(seedChain) == 0 {
		t.Fatal("seed chain is empty")
	}
	for _, name := range seedChain {
		if _, ok := seedBooks[name]; !ok {
			t.Errorf("seed category %q has no books", name)
		}
	}
}
