package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type HistoryEntry struct {
	ID        string          `json:"id"`
	JobID     string          `json:"jobId"`
	Timestamp string          `json:"timestamp"`
	ActorType string          `json:"actorType"`
	ActorID   string          `json:"actorId,omitempty"`
	Kind      string          `json:"kind"`
	V         int             `json:"v"`
	Data      json.RawMessage `json:"data"`
}

// appendHistoryTx writes one history row inside the caller's transaction so
// catalog state and its audit trail commit or roll back together.
func appendHistoryTx(ctx context.Context, tx *sql.Tx, jobID, action string, details any, actor Actor) error {
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(map[string]any{"v": 1, "kind": action, "data": details})
	if err != nil {
		return fmt.Errorf("marshal history details: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO job_offering_history (id, job_offering_id, actor_type, actor_id, action, details, timestamp)
VALUES (?,?,?,?,?,?,?);`,
		uuid.NewString(), jobID, actor.Type, nullable(actor.ID), action, string(payload), now())
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// AppendHistory records an externally submitted event. The job must exist,
// but soft-deleted jobs still accept history (their trail outlives them).
func (d *DB) AppendHistory(ctx context.Context, jobID, action string, details map[string]any, actor Actor) error {
	if strings.TrimSpace(action) == "" {
		return invalid("missing 'action'")
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM job_offerings WHERE id = ?;`, jobID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := appendHistoryTx(ctx, tx, jobID, action, details, actor); err != nil {
		return err
	}
	return tx.Commit()
}

func MakeHistoryCursor(ts, id string) string {
	return base64.URLEncoding.EncodeToString([]byte(ts + "|" + id))
}

func ParseHistoryCursor(token string) (ts, id string, err error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", "", invalid("invalid cursor")
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || ts == "" || id == "" {
		return "", "", invalid("invalid cursor")
	}
	return ts, id, nil
}

// ListHistory pages a job's event stream in strict (timestamp DESC, id DESC)
// order. The id tie-break keeps paging deterministic when events share a
// timestamp. nextCursor is only emitted after a full page, so an empty or
// short page terminates iteration.
func (d *DB) ListHistory(ctx context.Context, jobID string, limit int, cursor string) ([]HistoryEntry, string, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	var one int
	err := d.Pool.QueryRowContext(ctx, `SELECT 1 FROM job_offerings WHERE id = ?;`, jobID).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}

	query := `
SELECT id, job_offering_id, timestamp, actor_type, actor_id, action, details
FROM job_offering_history
WHERE job_offering_id = ?`
	args := []any{jobID}
	if cursor != "" {
		afterTS, afterID, err := ParseHistoryCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		query += ` AND (timestamp < ? OR (timestamp = ? AND id < ?))`
		args = append(args, afterTS, afterTS, afterID)
	}
	query += `
ORDER BY timestamp DESC, id DESC
LIMIT ?;`
	args = append(args, limit)

	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var items []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var actorID sql.NullString
		var details string
		if err := rows.Scan(&e.ID, &e.JobID, &e.Timestamp, &e.ActorType, &actorID, &e.Kind, &details); err != nil {
			return nil, "", err
		}
		e.ActorID = actorID.String

		var envelope struct {
			V    int             `json:"v"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal([]byte(details), &envelope); err == nil {
			e.V = envelope.V
			e.Data = envelope.Data
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	next := ""
	if len(items) == limit {
		last := items[len(items)-1]
		next = MakeHistoryCursor(last.Timestamp, last.ID)
	}
	return items, next, nil
}
