package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// Workspace resolves the well-known boards and workflow groups the pipeline
// writes into. Boards are found by trying an ordered candidate title list
// (naming drift tolerance); groups are get-or-create. The get-or-create is not
// transactional across the find and the create: the repository maps a unique
// violation on insert back to "already exists, re-fetch", which closes the
// common race, and the residual window is accepted.
type Workspace struct {
	Boards BoardRepositoryInterface
	Titles map[entity.BoardRole][]string
	Log    *zap.Logger
}

func NewWorkspace(boards BoardRepositoryInterface, titles map[entity.BoardRole][]string, log *zap.Logger) *Workspace {
	if titles == nil {
		titles = entity.DefaultBoardTitles
	}
	return &Workspace{Boards: boards, Titles: titles, Log: log}
}

// FindBoardByRole tries each candidate title in order and returns the first
// board that resolves, or (nil, nil) when none do.
func (w *Workspace) FindBoardByRole(ctx context.Context, role entity.BoardRole) (*entity.Board, error) {
	for _, title := range w.Titles[role] {
		board, err := w.Boards.FindByTitle(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("find board %q: %w", title, err)
		}
		if board != nil {
			return board, nil
		}
	}
	return nil, nil
}

// ResolveBoardByRole is FindBoardByRole plus on-demand creation under the
// first candidate title.
func (w *Workspace) ResolveBoardByRole(ctx context.Context, role entity.BoardRole) (*entity.Board, error) {
	board, err := w.FindBoardByRole(ctx, role)
	if err != nil || board != nil {
		return board, err
	}

	titles := w.Titles[role]
	if len(titles) == 0 {
		return nil, fmt.Errorf("no board titles configured for role %q", role)
	}

	board = entity.NewBoard(titles[0])
	if err := w.Boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("create board %q: %w", titles[0], err)
	}
	w.Log.Info("board created on demand",
		zap.String("board_id", board.ID),
		zap.String("title", board.Title),
		zap.String("role", string(role)))
	return board, nil
}

// EnsureGroup returns the group with the given title on the board, creating it
// when absent. Calling it twice for the same board yields the same group id.
func (w *Workspace) EnsureGroup(ctx context.Context, boardID, title string) (*entity.Group, error) {
	group, err := w.Boards.FindGroup(ctx, boardID, title)
	if err != nil {
		return nil, fmt.Errorf("find group %q: %w", title, err)
	}
	if group != nil {
		return group, nil
	}

	group, err = w.Boards.CreateGroup(ctx, boardID, title)
	if err != nil {
		return nil, fmt.Errorf("create group %q: %w", title, err)
	}
	return group, nil
}
