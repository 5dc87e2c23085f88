package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestListHistory_KeysetPaging(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/h-1"}, UserActor(testUserA))
	for i := 0; i < 6; i++ {
		err := d.AppendHistory(ctx, id, "note_added",
			map[string]any{"n": i}, UserActor(testUserA))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	// 7 entries total (job_created + 6 notes), paged 3 at a time.
	seen := map[string]bool{}
	cursor := ""
	var pages int
	for {
		items, next, err := d.ListHistory(ctx, id, 3, cursor)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		for _, e := range items {
			if seen[e.ID] {
				t.Fatalf("entry %s returned twice", e.ID)
			}
			seen[e.ID] = true
		}
		pages++
		if next == "" {
			break
		}
		cursor = next
		if pages > 5 {
			t.Fatal("paging did not terminate")
		}
	}
	if len(seen) != 7 {
		t.Errorf("paged %d distinct entries, want 7", len(seen))
	}
}

func TestListHistory_NewestFirst(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/h-2"}, UserActor(testUserA))
	for i := 0; i < 3; i++ {
		if err := d.AppendHistory(ctx, id, fmt.Sprintf("step_%d", i), nil, SystemActor("importer")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	items, _, err := d.ListHistory(ctx, id, 50, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Timestamp < items[i].Timestamp {
			t.Fatalf("order broken at %d: %s < %s", i, items[i-1].Timestamp, items[i].Timestamp)
		}
	}
	if items[0].Kind != "step_2" {
		t.Errorf("newest entry kind = %q, want step_2", items[0].Kind)
	}
	if items[0].V != 1 {
		t.Errorf("envelope version = %d, want 1", items[0].V)
	}
}

func TestListHistory_NoCursorOnShortPage(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/h-3"}, UserActor(testUserA))

	items, next, err := d.ListHistory(ctx, id, 50, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if next != "" {
		t.Errorf("short page emitted cursor %q", next)
	}
}

func TestListHistory_InvalidCursor(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/h-4"}, UserActor(testUserA))

	for _, c := range []string{"not base64 at all!", "aGVsbG8=", MakeHistoryCursor("", "")} {
		if _, _, err := d.ListHistory(ctx, id, 10, c); !IsValidation(err) {
			t.Errorf("cursor %q: err = %v, want validation error", c, err)
		}
	}
}

func TestListHistory_UnknownJob(t *testing.T) {
	d := testDB(t)
	_, _, err := d.ListHistory(context.Background(), "00000000-0000-0000-0000-000000000000", 10, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAppendHistory_Validation(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/h-5"}, UserActor(testUserA))

	if err := d.AppendHistory(ctx, id, "   ", nil, UserActor(testUserA)); !IsValidation(err) {
		t.Errorf("blank action: err = %v, want validation error", err)
	}
	err := d.AppendHistory(ctx, "00000000-0000-0000-0000-000000000000", "note_added", nil, UserActor(testUserA))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown job: err = %v, want ErrNotFound", err)
	}
}

func TestAppendHistory_DeletedJobStillAccepts(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/h-6"}, UserActor(testUserA))
	if err := d.SoftDeleteJob(ctx, id, UserActor(testUserA)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := d.AppendHistory(ctx, id, "postmortem_note", nil, SystemActor("auditor")); err != nil {
		t.Fatalf("append after delete: %v", err)
	}
}
