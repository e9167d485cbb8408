package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rbaliester/flowdesk/internal/entity"
)

type TaskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

const taskColumns = `id, board_id, group_id, title, description, status, priority,
	sender_email, sender_name, sender_company, inquiry_id,
	assigned_rep_id, product_category, custom_fields, created_at, updated_at`

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	fields, err := json.Marshal(t.CustomFields)
	if err != nil {
		return fmt.Errorf("marshal custom fields: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		t.ID, t.BoardID, t.GroupID, t.Title, t.Description, string(t.Status), string(t.Priority),
		nullString(t.SenderEmail), nullString(t.SenderName), nullString(t.SenderCompany), nullString(t.InquiryID),
		nullString(t.AssignedRepID), nullString(t.ProductCategory), fields, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// FindBySenderEmail returns the newest matching task on the board, or (nil, nil).
func (r *TaskRepository) FindBySenderEmail(ctx context.Context, boardID, email string) (*entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE board_id = $1 AND lower(sender_email) = lower($2)
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, boardID, email))
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	query := `
		UPDATE tasks SET
			group_id = $2, title = $3, description = $4, status = $5, priority = $6,
			assigned_rep_id = $7, product_category = $8, custom_fields = $9, updated_at = $10
		WHERE id = $1
	`

	fields, err := json.Marshal(t.CustomFields)
	if err != nil {
		return fmt.Errorf("marshal custom fields: %w", err)
	}

	t.UpdatedAt = time.Now()
	res, err := r.DB.ExecContext(ctx, query,
		t.ID, t.GroupID, t.Title, t.Description, string(t.Status), string(t.Priority),
		nullString(t.AssignedRepID), nullString(t.ProductCategory), fields, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) CountActiveByAssignee(ctx context.Context, repID string) (int, error) {
	statuses := make([]string, len(entity.ActiveStatuses))
	args := make([]any, 0, len(entity.ActiveStatuses)+1)
	args = append(args, repID)
	for i, s := range entity.ActiveStatuses {
		statuses[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, string(s))
	}

	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM tasks WHERE assigned_rep_id = $1 AND status IN (%s)`,
		strings.Join(statuses, ", "),
	)

	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TaskRepository) scanOne(row *sql.Row) (*entity.Task, error) {
	var t entity.Task
	var status, priority string
	var senderEmail, senderName, senderCompany, inquiryID, assignedRep, category sql.NullString
	var fields []byte

	err := row.Scan(
		&t.ID, &t.BoardID, &t.GroupID, &t.Title, &t.Description, &status, &priority,
		&senderEmail, &senderName, &senderCompany, &inquiryID,
		&assignedRep, &category, &fields, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t.Status = entity.Status(status)
	t.Priority = entity.Priority(priority)
	t.SenderEmail = senderEmail.String
	t.SenderName = senderName.String
	t.SenderCompany = senderCompany.String
	t.InquiryID = inquiryID.String
	t.AssignedRepID = assignedRep.String
	t.ProductCategory = category.String

	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &t.CustomFields); err != nil {
			return nil, fmt.Errorf("unmarshal custom fields: %w", err)
		}
	}
	return &t, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
