package store

import (
	"context"
	"database/sql"
	"strings"
)

// UnsetStatus is what a user "has" on a job before their first status write.
const UnsetStatus = "Unset"

const maxBulkStatusIDs = 500

// Statuses that close an application; jobs carrying one for any user drop
// out of the "open" listing category.
var FinalStatuses = []string{
	"Rejected with Filled",
	"Rejected with Unfortunately",
	"Accepted Offer",
	"Turned down Offer",
}

// PutStatus upserts the (job,user) status row and appends a status_changed
// history entry in the same transaction. It is the only writer of
// user_job_status.
func (d *DB) PutStatus(ctx context.Context, jobID, userID, status string) (string, error) {
	status = strings.Join(strings.Fields(status), " ")
	if status == "" {
		return "", invalid("missing or invalid 'status'")
	}
	if len(status) > 100 {
		return "", invalid("status too long (max 100)")
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM job_offerings WHERE id = ? AND is_deleted = 0;`, jobID).Scan(&one)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	prev := UnsetStatus
	err = tx.QueryRowContext(ctx, `
SELECT status FROM user_job_status WHERE job_offering_id = ? AND user_id = ?;`, jobID, userID).Scan(&prev)
	if err != nil && err != sql.ErrNoRows {
		return "", err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO user_job_status (job_offering_id, user_id, status, last_updated)
VALUES (?,?,?,?)
ON CONFLICT(job_offering_id, user_id) DO UPDATE SET status = excluded.status, last_updated = excluded.last_updated;`,
		jobID, userID, status, now())
	if err != nil {
		return "", err
	}

	details := map[string]any{"userId": userID, "from": prev, "to": status}
	if err := appendHistoryTx(ctx, tx, jobID, "status_changed", details, UserActor(userID)); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return status, nil
}

// BulkStatuses returns a status per requested job id, defaulting to Unset so
// every id the caller asked about appears in the result. Input is deduped
// and capped.
func (d *DB) BulkStatuses(ctx context.Context, userID string, jobIDs []string) (map[string]string, error) {
	seen := make(map[string]bool, len(jobIDs))
	var ids []string
	for _, id := range jobIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) > maxBulkStatusIDs {
		return nil, invalid("too many jobIds (max %d)", maxBulkStatusIDs)
	}

	result := make(map[string]string, len(ids))
	for _, id := range ids {
		result[id] = UnsetStatus
	}
	if len(ids) == 0 {
		return result, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT job_offering_id, status
FROM user_job_status
WHERE user_id = ? AND job_offering_id IN (`+placeholders(len(ids))+`);`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		result[id] = status
	}
	return result, rows.Err()
}
