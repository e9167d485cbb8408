package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rbaliester/flowdesk/internal/entity"
)

const pgUniqueViolation = "23505"

// BoardRepository backs board and group lookups. Titles carry unique indexes
// (boards.title, groups(board_id, title)); CreateGroup leans on that to make
// concurrent get-or-create converge on a single row.
type BoardRepository struct {
	DB *sql.DB
}

func NewBoardRepository(db *sql.DB) *BoardRepository {
	return &BoardRepository{DB: db}
}

// FindByTitle returns (nil, nil) when no board carries the title.
func (r *BoardRepository) FindByTitle(ctx context.Context, title string) (*entity.Board, error) {
	query := `SELECT id, title, created_at FROM boards WHERE title = $1`

	var b entity.Board
	err := r.DB.QueryRowContext(ctx, query, title).Scan(&b.ID, &b.Title, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BoardRepository) Create(ctx context.Context, b *entity.Board) error {
	query := `INSERT INTO boards (id, title, created_at) VALUES ($1, $2, $3)`

	_, err := r.DB.ExecContext(ctx, query, b.ID, b.Title, b.CreatedAt)
	if isUniqueViolation(err) {
		// Someone created the board between our lookup and this insert.
		existing, ferr := r.FindByTitle(ctx, b.Title)
		if ferr != nil || existing == nil {
			return entity.ErrDuplicate
		}
		*b = *existing
		return nil
	}
	return err
}

// FindGroup returns (nil, nil) when the board has no group with the title.
func (r *BoardRepository) FindGroup(ctx context.Context, boardID, title string) (*entity.Group, error) {
	query := `SELECT id, board_id, title, created_at FROM groups WHERE board_id = $1 AND title = $2`

	var g entity.Group
	err := r.DB.QueryRowContext(ctx, query, boardID, title).Scan(&g.ID, &g.BoardID, &g.Title, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGroup inserts the group, mapping a unique violation to "already
// exists, re-fetch". Two concurrent pipeline runs deciding to create the same
// group both end up with the same row.
func (r *BoardRepository) CreateGroup(ctx context.Context, boardID, title string) (*entity.Group, error) {
	g := entity.NewGroup(boardID, title)
	query := `INSERT INTO groups (id, board_id, title, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.DB.ExecContext(ctx, query, g.ID, g.BoardID, g.Title, g.CreatedAt)
	if isUniqueViolation(err) {
		existing, ferr := r.FindGroup(ctx, boardID, title)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			// Lost the race twice (insert conflicted, row gone on re-fetch).
			return nil, entity.ErrDuplicate
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
