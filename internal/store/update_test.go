package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func strptr(s string) *string { return &s }

func latestHistory(t *testing.T, d *DB, jobID string) HistoryEntry {
	t.Helper()
	entries, _, err := d.ListHistory(context.Background(), jobID, 1, "")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("history empty")
	}
	return entries[0]
}

func TestUpdateJob_WritesDiffToHistory(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{
		URL:   "https://jobs.lever.co/acme/up-1",
		Title: "Old Title",
	}, UserActor(testUserA))

	err := d.UpdateJob(ctx, id, UpdateParams{
		Title:      strptr("New Title"),
		RemoteType: strptr("Remote"),
	}, UserActor(testUserA))
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	job, err := d.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Title != "New Title" || job.RemoteType != "Remote" {
		t.Errorf("job = %q/%q after update", job.Title, job.RemoteType)
	}
	if job.UpdatedAt == "" {
		t.Error("updatedAt not set")
	}

	e := latestHistory(t, d, id)
	if e.Kind != "job_updated" {
		t.Fatalf("kind = %q", e.Kind)
	}
	var data struct {
		Changed map[string]map[string]string `json:"changed"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if got := data.Changed["title"]; got["from"] != "Old Title" || got["to"] != "New Title" {
		t.Errorf("title diff = %#v", got)
	}
	if _, ok := data.Changed["remoteType"]; !ok {
		t.Error("remoteType missing from diff")
	}
}

func TestUpdateJob_DescriptionNeverEntersDiff(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/up-2"}, UserActor(testUserA))

	err := d.UpdateJob(ctx, id, UpdateParams{
		Description: strptr("<p>long confidential text</p>"),
	}, UserActor(testUserA))
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	e := latestHistory(t, d, id)
	if e.Kind != "job_updated" {
		t.Fatalf("kind = %q", e.Kind)
	}
	var data struct {
		Changed            map[string]any `json:"changed"`
		DescriptionChanged bool           `json:"descriptionChanged"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if !data.DescriptionChanged {
		t.Error("descriptionChanged flag not set")
	}
	if len(data.Changed) != 0 {
		t.Errorf("changed = %#v, description content leaked into diff", data.Changed)
	}
}

func TestUpdateJob_NoOpWritesNoHistory(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{
		URL:   "https://jobs.lever.co/acme/up-3",
		Title: "Same",
	}, UserActor(testUserA))

	if err := d.UpdateJob(ctx, id, UpdateParams{Title: strptr("Same")}, UserActor(testUserA)); err != nil {
		t.Fatalf("update: %v", err)
	}

	entries, _, err := d.ListHistory(ctx, id, 50, "")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != "job_created" {
		t.Errorf("no-op update wrote history: %d entries", len(entries))
	}
}

func TestUpdateJob_ReplacesLocationsWholesale(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{
		URL:       "https://jobs.lever.co/acme/up-4",
		Locations: []Location{{CountryName: "Germany", CountryCode: "DE", CityName: "Berlin"}},
	}, UserActor(testUserA))

	newLocs := []Location{
		{CountryName: "Poland", CountryCode: "PL", CityName: "Warsaw"},
		{CountryName: "Poland", CountryCode: "PL", CityName: "Krakow"},
	}
	if err := d.UpdateJob(ctx, id, UpdateParams{Locations: &newLocs}, UserActor(testUserA)); err != nil {
		t.Fatalf("update: %v", err)
	}

	job, err := d.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(job.Locations) != 2 {
		t.Fatalf("locations = %d, want 2", len(job.Locations))
	}
	for _, l := range job.Locations {
		if l.CountryName != "Poland" {
			t.Errorf("stale location survived: %#v", l)
		}
	}
}

func TestUpdateJob_NotFound(t *testing.T) {
	d := testDB(t)
	err := d.UpdateJob(context.Background(), "00000000-0000-0000-0000-000000000000",
		UpdateParams{Title: strptr("x")}, UserActor(testUserA))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateJob_DeletedJobNotFound(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/up-5"}, UserActor(testUserA))
	if err := d.SoftDeleteJob(ctx, id, UserActor(testUserA)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err := d.UpdateJob(ctx, id, UpdateParams{Title: strptr("x")}, UserActor(testUserA))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
