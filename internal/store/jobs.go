package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"jobledger-engine/internal/resolve"
	"jobledger-engine/internal/sanitize"
)

// Actor identifies who caused a mutation. Type is "user" or "system";
// ID carries the user GUID (or an optional system GUID).
type Actor struct {
	Type string
	ID   string
}

func UserActor(id string) Actor   { return Actor{Type: "user", ID: id} }
func SystemActor(id string) Actor { return Actor{Type: "system", ID: id} }

type Location struct {
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode,omitempty"`
	CityName    string `json:"cityName,omitempty"`
	Region      string `json:"region,omitempty"`
}

type Job struct {
	ID                 string     `json:"id"`
	Provider           string     `json:"provider"`
	ProviderTenant     string     `json:"providerTenant"`
	ExternalID         string     `json:"externalId"`
	URL                string     `json:"url,omitempty"`
	ApplyURL           string     `json:"applyUrl,omitempty"`
	HiringCompanyName  string     `json:"hiringCompanyName"`
	PostingCompanyName string     `json:"postingCompanyName,omitempty"`
	Title              string     `json:"title,omitempty"`
	RemoteType         string     `json:"remoteType"`
	Description        string     `json:"description,omitempty"`
	FoundOn            string     `json:"foundOn"`
	CreatedByUserID    string     `json:"createdByUserId,omitempty"`
	CreatedByAgent     string     `json:"createdByAgent,omitempty"`
	FirstSeenAt        string     `json:"firstSeenAt"`
	CreatedAt          string     `json:"createdAt"`
	UpdatedAt          string     `json:"updatedAt,omitempty"`
	Locations          []Location `json:"locations"`
}

type CreateParams struct {
	FoundOn            string
	Provider           string
	ProviderTenant     string
	ExternalID         string
	URL                string
	ApplyURL           string
	HiringCompanyName  string
	PostingCompanyName string
	Title              string
	RemoteType         string
	Description        string
	Locations          []Location
}

// CreateJob inserts a job plus its locations and a job_created history row in
// one transaction. Identity fields missing from the payload are resolved from
// the URL. Creation is idempotent on the identity triple: a unique violation
// falls back to reading the existing row's id.
func (d *DB) CreateJob(ctx context.Context, p CreateParams, actor Actor) (string, error) {
	if err := validateCreate(p); err != nil {
		return "", err
	}

	p.URL = resolve.NormalizeURL(p.URL)
	heur := resolve.FromURL(p.URL)

	foundOn := firstNonEmpty(p.FoundOn, heur.FoundOn, "corporate-site")
	provider := firstNonEmpty(p.Provider, heur.Provider, "corporate-site")
	tenant := firstNonEmpty(p.ProviderTenant, heur.ProviderTenant)
	externalID := firstNonEmpty(p.ExternalID, heur.ExternalID)
	company := firstNonEmpty(p.HiringCompanyName, heur.HiringCompanyName)
	remoteType := firstNonEmpty(p.RemoteType, "Unknown")

	if externalID == "" {
		return "", invalid("could not deduce externalId from url; please provide externalId")
	}
	if company == "" {
		return "", invalid("could not deduce hiringCompanyName from url; please provide hiringCompanyName")
	}

	description := p.Description
	if description != "" {
		description = sanitize.Description(description)
	}

	var createdByUser, createdByAgent any
	switch actor.Type {
	case "user":
		createdByUser = actor.ID
	default:
		createdByAgent = firstNonEmpty(actor.ID, "system")
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	jobID := uuid.NewString()
	ts := now()
	_, err = tx.ExecContext(ctx, `
INSERT INTO job_offerings (
  id, provider, provider_tenant, external_id,
  url, apply_url, hiring_company_name, posting_company_name,
  title, remote_type, description, found_on,
  created_by_user_id, created_by_agent,
  first_seen_at, created_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		jobID, provider, tenant, externalID,
		nullable(p.URL), nullable(p.ApplyURL), company, nullable(p.PostingCompanyName),
		nullable(p.Title), remoteType, nullable(description), foundOn,
		createdByUser, createdByAgent,
		ts, ts,
	)
	if err != nil {
		if !isUniqueViolation(err) {
			return "", fmt.Errorf("insert job: %w", err)
		}
		// Someone else got there first: surface their id instead. A narrow
		// window remains where the winner has not committed yet and this
		// read comes back empty; that surfaces as an error, not a dup row.
		_ = tx.Rollback()
		var existing string
		err := d.Pool.QueryRowContext(ctx, `
SELECT id FROM job_offerings
WHERE is_deleted = 0 AND provider = ? AND provider_tenant = ? AND external_id = ?;`,
			provider, tenant, externalID).Scan(&existing)
		if err != nil {
			return "", fmt.Errorf("idempotent fallback read: %w", err)
		}
		return existing, nil
	}

	if err := insertLocations(ctx, tx, jobID, p.Locations); err != nil {
		return "", err
	}
	if err := appendHistoryTx(ctx, tx, jobID, "job_created", map[string]any{"jobId": jobID}, actor); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return jobID, nil
}

// GetJob returns a live job with its locations ordered by country, city.
func (d *DB) GetJob(ctx context.Context, id string) (Job, error) {
	var j Job
	var url, applyURL, postingCompany, title, description, createdByUser, createdByAgent, updatedAt sql.NullString
	err := d.Pool.QueryRowContext(ctx, `
SELECT id, provider, provider_tenant, external_id,
       url, apply_url, hiring_company_name, posting_company_name,
       title, remote_type, description, found_on,
       created_by_user_id, created_by_agent,
       first_seen_at, created_at, updated_at
FROM job_offerings
WHERE id = ? AND is_deleted = 0;`, id).Scan(
		&j.ID, &j.Provider, &j.ProviderTenant, &j.ExternalID,
		&url, &applyURL, &j.HiringCompanyName, &postingCompany,
		&title, &j.RemoteType, &description, &j.FoundOn,
		&createdByUser, &createdByAgent,
		&j.FirstSeenAt, &j.CreatedAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, err
	}
	j.URL = url.String
	j.ApplyURL = applyURL.String
	j.PostingCompanyName = postingCompany.String
	j.Title = title.String
	j.Description = description.String
	j.CreatedByUserID = createdByUser.String
	j.CreatedByAgent = createdByAgent.String
	j.UpdatedAt = updatedAt.String

	locs, err := d.loadLocations(ctx, []string{j.ID})
	if err != nil {
		return Job{}, err
	}
	j.Locations = locs[j.ID]
	if j.Locations == nil {
		j.Locations = []Location{}
	}
	return j, nil
}

// FindJobID resolves the identity triple to a live job id.
func (d *DB) FindJobID(ctx context.Context, provider, tenant, externalID string) (string, error) {
	var id string
	err := d.Pool.QueryRowContext(ctx, `
SELECT id FROM job_offerings
WHERE is_deleted = 0 AND provider = ? AND provider_tenant = ? AND external_id = ?;`,
		provider, tenant, externalID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return id, err
}

// SoftDeleteJob flags the row deleted and records it. Zero rows is 404
// territory; more than one is a broken invariant the caller must escalate.
func (d *DB) SoftDeleteJob(ctx context.Context, id string, actor Actor) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
UPDATE job_offerings SET is_deleted = 1, updated_at = ?
WHERE id = ? AND is_deleted = 0;`, now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if n > 1 {
		return fmt.Errorf("soft delete job %s: %w", id, ErrMultiRowAnomaly)
	}

	if err := appendHistoryTx(ctx, tx, id, "job_deleted", map[string]any{"softDelete": true}, actor); err != nil {
		return err
	}
	return tx.Commit()
}

func insertLocations(ctx context.Context, tx *sql.Tx, jobID string, locs []Location) error {
	for _, loc := range locs {
		_, err := tx.ExecContext(ctx, `
INSERT INTO job_offering_locations (job_offering_id, country_name, country_code, city_name, region)
VALUES (?,?,?,?,?);`,
			jobID, loc.CountryName, nullable(loc.CountryCode), nullable(loc.CityName), nullable(loc.Region))
		if err != nil {
			return fmt.Errorf("insert location: %w", err)
		}
	}
	return nil
}

func (d *DB) loadLocations(ctx context.Context, jobIDs []string) (map[string][]Location, error) {
	out := make(map[string][]Location, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	args := make([]any, len(jobIDs))
	for i, id := range jobIDs {
		args[i] = id
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT job_offering_id, country_name, country_code, city_name, region
FROM job_offering_locations
WHERE job_offering_id IN (`+placeholders(len(jobIDs))+`)
ORDER BY country_name, city_name;`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var jobID string
		var loc Location
		var code, city, region sql.NullString
		if err := rows.Scan(&jobID, &loc.CountryName, &code, &city, &region); err != nil {
			return nil, err
		}
		loc.CountryCode = code.String
		loc.CityName = city.String
		loc.Region = region.String
		out[jobID] = append(out[jobID], loc)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
