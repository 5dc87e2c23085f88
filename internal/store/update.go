package store

import (
	"context"
	"database/sql"
	"fmt"

	"jobledger-engine/internal/sanitize"
)

// UpdateParams carries PATCH-style fields: nil means "leave alone",
// a pointer (even to "") means "write this".
type UpdateParams struct {
	FoundOn            *string
	Provider           *string
	ProviderTenant     *string
	ExternalID         *string
	URL                *string
	ApplyURL           *string
	HiringCompanyName  *string
	PostingCompanyName *string
	Title              *string
	RemoteType         *string
	Description        *string
	Locations          *[]Location
}

type updatableField struct {
	name string // JSON-facing name, used in the history diff
	col  string
	val  *string
}

func (u UpdateParams) fields() []updatableField {
	return []updatableField{
		{"foundOn", "found_on", u.FoundOn},
		{"provider", "provider", u.Provider},
		{"providerTenant", "provider_tenant", u.ProviderTenant},
		{"externalId", "external_id", u.ExternalID},
		{"url", "url", u.URL},
		{"applyUrl", "apply_url", u.ApplyURL},
		{"hiringCompanyName", "hiring_company_name", u.HiringCompanyName},
		{"postingCompanyName", "posting_company_name", u.PostingCompanyName},
		{"title", "title", u.Title},
		{"remoteType", "remote_type", u.RemoteType},
		{"description", "description", u.Description},
	}
}

// UpdateJob writes only the supplied columns, replaces the location set
// wholesale when Locations is present, and appends a job_updated history row
// describing the field-level diff. Description content never enters the
// diff, only a descriptionChanged flag.
func (d *DB) UpdateJob(ctx context.Context, id string, u UpdateParams, actor Actor) error {
	if err := validateUpdate(u); err != nil {
		return err
	}
	if u.Description != nil {
		clean := sanitize.Description(*u.Description)
		u.Description = &clean
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	before, err := readBefore(ctx, tx, id)
	if err != nil {
		return err
	}

	fields := u.fields()
	setSQL := ""
	var args []any
	for _, f := range fields {
		if f.val == nil {
			continue
		}
		if setSQL != "" {
			setSQL += ", "
		}
		setSQL += f.col + " = ?"
		args = append(args, nullable(*f.val))
	}
	if setSQL != "" {
		setSQL += ", updated_at = ?"
		args = append(args, now(), id)
		res, err := tx.ExecContext(ctx, "UPDATE job_offerings SET "+setSQL+" WHERE id = ?;", args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n > 1 {
			return fmt.Errorf("update job %s: %w", id, ErrMultiRowAnomaly)
		}
	}

	if u.Locations != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM job_offering_locations WHERE job_offering_id = ?;`, id); err != nil {
			return err
		}
		if err := insertLocations(ctx, tx, id, *u.Locations); err != nil {
			return err
		}
	}

	changed := map[string]map[string]any{}
	descChanged := false
	for _, f := range fields {
		if f.val == nil {
			continue
		}
		old := before[f.col]
		if f.name == "description" {
			if old != *f.val {
				descChanged = true
			}
			continue
		}
		if old != *f.val {
			changed[f.name] = map[string]any{"from": old, "to": *f.val}
		}
	}

	if len(changed) > 0 || descChanged {
		details := map[string]any{"changed": changed}
		if descChanged {
			details["descriptionChanged"] = true
		}
		if err := appendHistoryTx(ctx, tx, id, "job_updated", details, actor); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func readBefore(ctx context.Context, tx *sql.Tx, id string) (map[string]string, error) {
	var foundOn, provider, tenant, externalID string
	var url, applyURL, company, postingCompany, title, remoteType, description sql.NullString
	err := tx.QueryRowContext(ctx, `
SELECT found_on, provider, provider_tenant, external_id,
       url, apply_url, hiring_company_name, posting_company_name,
       title, remote_type, description
FROM job_offerings
WHERE id = ? AND is_deleted = 0;`, id).Scan(
		&foundOn, &provider, &tenant, &externalID,
		&url, &applyURL, &company, &postingCompany,
		&title, &remoteType, &description,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"found_on":             foundOn,
		"provider":             provider,
		"provider_tenant":      tenant,
		"external_id":          externalID,
		"url":                  url.String,
		"apply_url":            applyURL.String,
		"hiring_company_name":  company.String,
		"posting_company_name": postingCompany.String,
		"title":                title.String,
		"remote_type":          remoteType.String,
		"description":          description.String,
	}, nil
}
