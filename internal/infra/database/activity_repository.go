package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// ActivityRepository is append-only. There is no update or delete path.
type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Append(ctx context.Context, rec *entity.ActivityRecord) error {
	query := `
		INSERT INTO activity_log (id, task_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	details, err := json.Marshal(rec.Details)
	if err != nil {
		return fmt.Errorf("marshal activity details: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query, rec.ID, rec.TaskID, rec.Action, details, rec.CreatedAt)
	return err
}

func (r *ActivityRepository) ListByTask(ctx context.Context, taskID string) ([]entity.ActivityRecord, error) {
	query := `
		SELECT id, task_id, action, details, created_at
		FROM activity_log
		WHERE task_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entity.ActivityRecord
	for rows.Next() {
		var rec entity.ActivityRecord
		var details []byte
		if err := rows.Scan(&rec.ID, &rec.TaskID, &rec.Action, &details, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &rec.Details); err != nil {
				return nil, fmt.Errorf("unmarshal activity details: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
