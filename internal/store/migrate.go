package store

import "database/sql"

// Migrate brings the schema up to the current version. Versioning rides on
// PRAGMA user_version, the whole upgrade runs in one transaction.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS job_offerings (
  id TEXT PRIMARY KEY,
  provider TEXT NOT NULL,
  provider_tenant TEXT NOT NULL DEFAULT '',
  external_id TEXT NOT NULL,
  url TEXT,
  apply_url TEXT,
  hiring_company_name TEXT NOT NULL,
  posting_company_name TEXT,
  title TEXT,
  remote_type TEXT NOT NULL DEFAULT 'Unknown',
  description TEXT,
  found_on TEXT NOT NULL DEFAULT 'corporate-site',
  created_by_user_id TEXT,
  created_by_agent TEXT,
  first_seen_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT,
  is_deleted INTEGER NOT NULL DEFAULT 0
);`,
		// identity triple is unique among live rows only; soft-deleted rows
		// keep their id forever but free the triple for re-submission
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_job_offerings_identity
ON job_offerings(provider, provider_tenant, external_id)
WHERE is_deleted = 0;`,
		`CREATE INDEX IF NOT EXISTS idx_job_offerings_created_at
ON job_offerings(created_at);`,

		`CREATE TABLE IF NOT EXISTS job_offering_locations (
  job_offering_id TEXT NOT NULL REFERENCES job_offerings(id),
  country_name TEXT NOT NULL,
  country_code TEXT,
  city_name TEXT,
  region TEXT
);`,
		`CREATE INDEX IF NOT EXISTS idx_locations_job
ON job_offering_locations(job_offering_id);`,

		`CREATE TABLE IF NOT EXISTS user_job_status (
  job_offering_id TEXT NOT NULL REFERENCES job_offerings(id),
  user_id TEXT NOT NULL,
  status TEXT NOT NULL,
  last_updated TEXT NOT NULL,
  PRIMARY KEY (job_offering_id, user_id)
);`,
		`CREATE INDEX IF NOT EXISTS idx_user_job_status_user
ON user_job_status(user_id);`,

		`CREATE TABLE IF NOT EXISTS job_offering_history (
  id TEXT PRIMARY KEY,
  job_offering_id TEXT NOT NULL REFERENCES job_offerings(id),
  actor_type TEXT NOT NULL,
  actor_id TEXT,
  action TEXT NOT NULL,
  details TEXT NOT NULL,
  timestamp TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_history_job_ts
ON job_offering_history(job_offering_id, timestamp DESC, id DESC);`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}
