package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "test.db"), 5000)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := Migrate(d.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

const (
	testUserA = "11111111-1111-1111-1111-111111111111"
	testUserB = "22222222-2222-2222-2222-222222222222"
)

// uuidLike produces distinct well-formed ids for bulk inputs.
func uuidLike(n int) string {
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
}

func mustCreate(t *testing.T, d *DB, p CreateParams, actor Actor) string {
	t.Helper()
	id, err := d.CreateJob(context.Background(), p, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return id
}
