package store

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCreateJob_ResolvesIdentityFromURL(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{
		URL:   "https://boards.greenhouse.io/acme/jobs/4000123?utm_source=li",
		Title: "Platform Engineer",
	}, UserActor(testUserA))

	job, err := d.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Provider != "greenhouse" || job.ProviderTenant != "acme" || job.ExternalID != "4000123" {
		t.Errorf("identity = %s/%s/%s", job.Provider, job.ProviderTenant, job.ExternalID)
	}
	if job.FoundOn != "linkedin" {
		t.Errorf("foundOn = %q, want linkedin", job.FoundOn)
	}
	if job.HiringCompanyName != "acme" {
		t.Errorf("hiringCompanyName = %q, want acme", job.HiringCompanyName)
	}
	if job.RemoteType != "Unknown" {
		t.Errorf("remoteType = %q, want Unknown", job.RemoteType)
	}
	if job.CreatedByUserID != testUserA {
		t.Errorf("createdByUserId = %q", job.CreatedByUserID)
	}
	if job.Locations == nil || len(job.Locations) != 0 {
		t.Errorf("locations = %#v, want empty slice", job.Locations)
	}
}

func TestCreateJob_SystemActorRecordsAgent(t *testing.T) {
	d := testDB(t)

	id := mustCreate(t, d, CreateParams{
		URL: "https://jobs.lever.co/acme/agent-1",
	}, SystemActor("importer"))

	job, err := d.GetJob(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.CreatedByUserID != "" {
		t.Errorf("createdByUserId = %q, want empty for a service write", job.CreatedByUserID)
	}
	if job.CreatedByAgent != "importer" {
		t.Errorf("createdByAgent = %q, want importer", job.CreatedByAgent)
	}
}

func TestCreateJob_ExplicitFieldsWinOverURL(t *testing.T) {
	d := testDB(t)

	id := mustCreate(t, d, CreateParams{
		URL:               "https://boards.greenhouse.io/acme/jobs/4000123",
		Provider:          "custom-ats",
		ProviderTenant:    "tenant-x",
		ExternalID:        "req-77",
		HiringCompanyName: "Acme GmbH",
	}, UserActor(testUserA))

	job, err := d.GetJob(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Provider != "custom-ats" || job.ProviderTenant != "tenant-x" || job.ExternalID != "req-77" {
		t.Errorf("identity = %s/%s/%s", job.Provider, job.ProviderTenant, job.ExternalID)
	}
	if job.HiringCompanyName != "Acme GmbH" {
		t.Errorf("hiringCompanyName = %q", job.HiringCompanyName)
	}
}

func TestCreateJob_IdempotentOnIdentityTriple(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	first := mustCreate(t, d, CreateParams{
		URL:   "https://jobs.lever.co/acme/abc-123",
		Title: "Original Title",
	}, UserActor(testUserA))

	second := mustCreate(t, d, CreateParams{
		URL:   "https://jobs.lever.co/acme/abc-123",
		Title: "Different Title",
	}, UserActor(testUserB))

	if first != second {
		t.Fatalf("duplicate create returned new id: %s vs %s", first, second)
	}
	job, err := d.GetJob(ctx, first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Title != "Original Title" {
		t.Errorf("duplicate create overwrote title: %q", job.Title)
	}

	entries, _, err := d.ListHistory(ctx, first, 50, "")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	created := 0
	for _, e := range entries {
		if e.Kind == "job_created" {
			created++
		}
	}
	if created != 1 {
		t.Errorf("job_created entries = %d, want 1", created)
	}
}

func TestCreateJob_MissingURL(t *testing.T) {
	d := testDB(t)
	_, err := d.CreateJob(context.Background(), CreateParams{Title: "no url"}, UserActor(testUserA))
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateJob_UnresolvableURLNeedsExplicitIdentity(t *testing.T) {
	d := testDB(t)
	_, err := d.CreateJob(context.Background(), CreateParams{URL: "http://"}, UserActor(testUserA))
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateJob_SanitizesDescription(t *testing.T) {
	d := testDB(t)
	id := mustCreate(t, d, CreateParams{
		URL:         "https://jobs.acme.com/eng/555",
		Description: `<p>Build things</p><script>alert(1)</script>`,
	}, UserActor(testUserA))

	job, err := d.GetJob(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.Contains(job.Description, "script") {
		t.Errorf("script survived sanitizing: %q", job.Description)
	}
	if !strings.Contains(job.Description, "Build things") {
		t.Errorf("benign content lost: %q", job.Description)
	}
}

func TestSoftDeleteJob(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/del-1"}, UserActor(testUserA))

	if err := d.SoftDeleteJob(ctx, id, UserActor(testUserA)); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := d.GetJob(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if _, err := d.FindJobID(ctx, "lever", "acme", "del-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("find after delete = %v, want ErrNotFound", err)
	}
	if err := d.SoftDeleteJob(ctx, id, UserActor(testUserA)); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}

	// The trail outlives the job.
	entries, _, err := d.ListHistory(ctx, id, 50, "")
	if err != nil {
		t.Fatalf("history after delete: %v", err)
	}
	if len(entries) != 2 || entries[0].Kind != "job_deleted" {
		t.Errorf("history = %d entries, first kind %q", len(entries), entries[0].Kind)
	}
}

func TestSoftDeleteFreesIdentityForReuse(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	first := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/re-1"}, UserActor(testUserA))
	if err := d.SoftDeleteJob(ctx, first, UserActor(testUserA)); err != nil {
		t.Fatalf("delete: %v", err)
	}

	second := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/re-1"}, UserActor(testUserA))
	if second == first {
		t.Fatalf("re-create reused deleted row id %s", first)
	}
}

func TestFindJobID(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := mustCreate(t, d, CreateParams{URL: "https://jobs.lever.co/acme/find-1"}, UserActor(testUserA))

	got, err := d.FindJobID(ctx, "lever", "acme", "find-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != id {
		t.Errorf("find = %s, want %s", got, id)
	}
	if _, err := d.FindJobID(ctx, "lever", "acme", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("find miss = %v, want ErrNotFound", err)
	}
}

func TestCreateJob_FieldTooLong(t *testing.T) {
	d := testDB(t)
	_, err := d.CreateJob(context.Background(), CreateParams{
		URL:   "https://jobs.lever.co/acme/long-1",
		Title: strings.Repeat("x", 301),
	}, UserActor(testUserA))
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateJob_LocationValidation(t *testing.T) {
	d := testDB(t)
	_, err := d.CreateJob(context.Background(), CreateParams{
		URL:       "https://jobs.lever.co/acme/loc-1",
		Locations: []Location{{CountryName: "Germany", CountryCode: "DEU"}},
	}, UserActor(testUserA))
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error for 3-letter code", err)
	}
}
