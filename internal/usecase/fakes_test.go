package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// In-memory store doubles for pipeline scenario tests. Error hooks let a test
// break one specific step while the rest of the store keeps working.

type fakeBoardStore struct {
	mu     sync.Mutex
	boards []*entity.Board
	groups []*entity.Group

	createGroupCalls int
}

func newFakeBoardStore() *fakeBoardStore {
	return &fakeBoardStore{}
}

func (s *fakeBoardStore) FindByTitle(ctx context.Context, title string) (*entity.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.boards {
		if b.Title == title {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *fakeBoardStore) Create(ctx context.Context, b *entity.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.boards {
		if existing.Title == b.Title {
			*b = *existing
			return nil
		}
	}
	copy := *b
	s.boards = append(s.boards, &copy)
	return nil
}

func (s *fakeBoardStore) FindGroup(ctx context.Context, boardID, title string) (*entity.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.BoardID == boardID && g.Title == title {
			copy := *g
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *fakeBoardStore) CreateGroup(ctx context.Context, boardID, title string) (*entity.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createGroupCalls++
	// Unique (board_id, title), like the real store.
	for _, g := range s.groups {
		if g.BoardID == boardID && g.Title == title {
			copy := *g
			return &copy, nil
		}
	}
	g := entity.NewGroup(boardID, title)
	s.groups = append(s.groups, g)
	copy := *g
	return &copy, nil
}

func (s *fakeBoardStore) seedBoard(title string) *entity.Board {
	b := entity.NewBoard(title)
	s.boards = append(s.boards, b)
	return b
}

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks []*entity.Task

	createErrFor func(t *entity.Task) error
	updateErr    error
	countErr     error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{}
}

func cloneTask(t *entity.Task) *entity.Task {
	copy := *t
	if t.CustomFields != nil {
		copy.CustomFields = entity.CustomFields{}
		for k, v := range t.CustomFields {
			copy.CustomFields[k] = v
		}
	}
	return &copy
}

func (s *fakeTaskStore) Create(ctx context.Context, t *entity.Task) error {
	if s.createErrFor != nil {
		if err := s.createErrFor(t); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, cloneTask(t))
	return nil
}

func (s *fakeTaskStore) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return cloneTask(t), nil
		}
	}
	return nil, nil
}

func (s *fakeTaskStore) FindBySenderEmail(ctx context.Context, boardID, email string) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.tasks) - 1; i >= 0; i-- {
		t := s.tasks[i]
		if t.BoardID == boardID && strings.EqualFold(t.SenderEmail, email) {
			return cloneTask(t), nil
		}
	}
	return nil, nil
}

func (s *fakeTaskStore) Update(ctx context.Context, t *entity.Task) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.tasks {
		if existing.ID == t.ID {
			s.tasks[i] = cloneTask(t)
			return nil
		}
	}
	return entity.ErrTaskNotFound
}

func (s *fakeTaskStore) CountActiveByAssignee(ctx context.Context, repID string) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.tasks {
		if t.AssignedRepID != repID {
			continue
		}
		for _, st := range entity.ActiveStatuses {
			if t.Status == st {
				count++
				break
			}
		}
	}
	return count, nil
}

func (s *fakeTaskStore) onBoard(boardID string) []*entity.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Task
	for _, t := range s.tasks {
		if t.BoardID == boardID {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

type fakeUserStore struct {
	users []entity.User
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (*entity.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			copy := u
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByRole(ctx context.Context, role string) ([]entity.User, error) {
	var out []entity.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeActivityLog struct {
	mu      sync.Mutex
	records []entity.ActivityRecord
}

func (s *fakeActivityLog) Append(ctx context.Context, rec *entity.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *rec)
	return nil
}

func (s *fakeActivityLog) ListByTask(ctx context.Context, taskID string) ([]entity.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.ActivityRecord
	for _, rec := range s.records {
		if rec.TaskID == taskID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *fakeActivityLog) actionsFor(taskID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, rec := range s.records {
		if rec.TaskID == taskID {
			out = append(out, rec.Action)
		}
	}
	return out
}

func (s *fakeActivityLog) find(taskID, action string) *entity.ActivityRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.TaskID == taskID && rec.Action == action {
			copy := rec
			return &copy
		}
	}
	return nil
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []string // recipients
	err  error
}

func (s *fakeEmailService) SendAcknowledgment(to, senderName, inquiryID string, form []byte) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return nil
}
