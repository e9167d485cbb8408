package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/entity"
)

type manualAssignFixture struct {
	boards     *fakeBoardStore
	tasks      *fakeTaskStore
	users      *fakeUserStore
	activities *fakeActivityLog
	uc         *ManualAssignUseCase
	board      *entity.Board
}

func newManualAssignFixture() *manualAssignFixture {
	f := &manualAssignFixture{
		boards:     newFakeBoardStore(),
		tasks:      newFakeTaskStore(),
		users:      &fakeUserStore{},
		activities: &fakeActivityLog{},
	}
	logger := zap.NewNop()
	ws := NewWorkspace(f.boards, nil, logger)
	f.uc = NewManualAssignUseCase(
		f.tasks,
		f.users,
		NewAssignmentEngine(f.users, f.tasks, logger),
		ws,
		f.activities,
		logger,
	)
	f.board = f.boards.seedBoard("Sales Pipeline")
	return f
}

func (f *manualAssignFixture) seedParkedTask(t *testing.T) *entity.Task {
	t.Helper()
	task := entity.NewTask(f.board.ID, "g-immediate", "Inquiry: Globex - tanks")
	task.Status = entity.StatusImmediateAction
	task.ProductCategory = "Tank Cleaning"
	task.SetCustomField("needs_manual_assignment", true)
	require.NoError(t, f.tasks.Create(context.Background(), task))
	return task
}

func TestManualAssignHappyPath(t *testing.T) {
	f := newManualAssignFixture()
	f.users.users = []entity.User{{ID: "rep-1", Name: "Ana Reyes", Role: entity.RoleSales}}
	task := f.seedParkedTask(t)

	ok := f.uc.Execute(context.Background(), task.ID, "rep-1", "ops@flowdesk.app")
	require.True(t, ok)

	updated, err := f.tasks.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAssigned, updated.Status)
	assert.Equal(t, "rep-1", updated.AssignedRepID)
	assert.Equal(t, true, updated.CustomFields["manually_assigned"])
	assert.Equal(t, "ops@flowdesk.app", updated.CustomFields["assigned_by"])
	assert.NotContains(t, updated.CustomFields, "needs_manual_assignment")
	assert.NotContains(t, updated.CustomFields, "validation_warnings")

	rec := f.activities.find(task.ID, entity.ActionManualSalesRepAssignment)
	require.NotNil(t, rec)
	assert.Equal(t, "rep-1", rec.Details["rep_id"])
}

func TestManualAssignRecordsWarningsButProceeds(t *testing.T) {
	f := newManualAssignFixture()
	// A non-sales user trips the expertise warning; the override still lands.
	f.users.users = []entity.User{{ID: "u-1", Name: "Sam Ortiz", Role: "support"}}
	task := f.seedParkedTask(t)

	ok := f.uc.Execute(context.Background(), task.ID, "u-1", "ops@flowdesk.app")
	require.True(t, ok)

	updated, err := f.tasks.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "u-1", updated.AssignedRepID)
	warnings, _ := updated.CustomFields["validation_warnings"].([]string)
	assert.Contains(t, warnings, ReasonRepLacksExpertise)
}

func TestManualAssignUnknownTask(t *testing.T) {
	f := newManualAssignFixture()
	f.users.users = []entity.User{{ID: "rep-1", Role: entity.RoleSales}}

	assert.False(t, f.uc.Execute(context.Background(), "missing", "rep-1", "ops@flowdesk.app"))
	assert.Empty(t, f.activities.records)
}

func TestManualAssignUnknownRep(t *testing.T) {
	f := newManualAssignFixture()
	task := f.seedParkedTask(t)

	assert.False(t, f.uc.Execute(context.Background(), task.ID, "missing", "ops@flowdesk.app"))

	unchanged, err := f.tasks.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusImmediateAction, unchanged.Status)
}

func TestManualAssignPersistFailure(t *testing.T) {
	f := newManualAssignFixture()
	f.users.users = []entity.User{{ID: "rep-1", Role: entity.RoleSales}}
	task := f.seedParkedTask(t)
	f.tasks.updateErr = entity.ErrTaskNotFound

	assert.False(t, f.uc.Execute(context.Background(), task.ID, "rep-1", "ops@flowdesk.app"))
	assert.Nil(t, f.activities.find(task.ID, entity.ActionManualSalesRepAssignment))
}
