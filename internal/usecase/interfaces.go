package usecase

import (
	"context"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// Repository contracts the pipeline needs from the store. "Not found" is a
// normal negative result everywhere: Find* return (nil, nil), never an error,
// when nothing matches. Only transport failures come back as errors.

type TaskRepositoryInterface interface {
	Create(ctx context.Context, t *entity.Task) error
	FindByID(ctx context.Context, id string) (*entity.Task, error)
	// FindBySenderEmail returns the newest task on the board whose sender
	// email matches, or (nil, nil).
	FindBySenderEmail(ctx context.Context, boardID, email string) (*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	// CountActiveByAssignee counts tasks assigned to the rep with a status
	// in entity.ActiveStatuses.
	CountActiveByAssignee(ctx context.Context, repID string) (int, error)
}

type BoardRepositoryInterface interface {
	FindByTitle(ctx context.Context, title string) (*entity.Board, error)
	Create(ctx context.Context, b *entity.Board) error
	FindGroup(ctx context.Context, boardID, title string) (*entity.Group, error)
	// CreateGroup must treat a unique-constraint violation as "already
	// exists" and return the existing group instead of an error.
	CreateGroup(ctx context.Context, boardID, title string) (*entity.Group, error)
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByRole(ctx context.Context, role string) ([]entity.User, error)
}

type ActivityRepositoryInterface interface {
	Append(ctx context.Context, rec *entity.ActivityRecord) error
	ListByTask(ctx context.Context, taskID string) ([]entity.ActivityRecord, error)
}

// EmailService sends the acknowledgment email with the registration form
// attached. Delivery mechanics belong to the mail collaborator.
type EmailService interface {
	SendAcknowledgment(to, senderName, inquiryID string, form []byte) error
}
