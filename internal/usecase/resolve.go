package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// ContactMatch is the result of contact resolution: at most one record, with
// provenance saying which collection it came from.
type ContactMatch struct {
	Source  string // "contacts" or "leads"
	TaskID  string
	BoardID string
	Name    string
	Company string
}

const (
	MatchSourceContacts = "contacts"
	MatchSourceLeads    = "leads"
)

// ContactResolver deduplicates inbound senders against the contacts and leads
// boards. Contacts win over leads when both hold the same email, since a
// contact is the more qualified state.
type ContactResolver struct {
	Tasks     TaskRepositoryInterface
	Workspace *Workspace
	Log       *zap.Logger
}

func NewContactResolver(tasks TaskRepositoryInterface, ws *Workspace, log *zap.Logger) *ContactResolver {
	return &ContactResolver{Tasks: tasks, Workspace: ws, Log: log}
}

// FindExistingContact returns the match for the email, or (nil, nil) when the
// sender is unknown. A missing board or record is a normal negative result;
// only transport failures come back as errors.
func (r *ContactResolver) FindExistingContact(ctx context.Context, email string) (*ContactMatch, error) {
	match, err := r.findOn(ctx, entity.BoardRoleContacts, MatchSourceContacts, email)
	if err != nil || match != nil {
		return match, err
	}
	return r.findOn(ctx, entity.BoardRoleLeads, MatchSourceLeads, email)
}

func (r *ContactResolver) findOn(ctx context.Context, role entity.BoardRole, source, email string) (*ContactMatch, error) {
	board, err := r.Workspace.FindBoardByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, nil
	}

	task, err := r.Tasks.FindBySenderEmail(ctx, board.ID, email)
	if err != nil {
		return nil, fmt.Errorf("search %s board: %w", source, err)
	}
	if task == nil {
		return nil, nil
	}

	r.Log.Debug("contact resolved",
		zap.String("email", email),
		zap.String("source", source),
		zap.String("task_id", task.ID))

	return &ContactMatch{
		Source:  source,
		TaskID:  task.ID,
		BoardID: board.ID,
		Name:    task.SenderName,
		Company: task.SenderCompany,
	}, nil
}
