package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role string) ([]entity.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

// MockTaskRepository (only what the engine touches)
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *entity.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Task), args.Error(1)
}

func (m *MockTaskRepository) FindBySenderEmail(ctx context.Context, boardID, email string) (*entity.Task, error) {
	args := m.Called(ctx, boardID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *entity.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepository) CountActiveByAssignee(ctx context.Context, repID string) (int, error) {
	args := m.Called(ctx, repID)
	return args.Int(0), args.Error(1)
}

func newTestEngine(users *MockUserRepository, tasks *MockTaskRepository) *AssignmentEngine {
	return NewAssignmentEngine(users, tasks, zap.NewNop())
}

func TestFindSalesRepByProductCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first sales rep", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByRole", ctx, entity.RoleSales).Return([]entity.User{
			{ID: "rep-1", Name: "Ana", Role: entity.RoleSales},
			{ID: "rep-2", Name: "Bo", Role: entity.RoleSales},
		}, nil)

		rep, err := newTestEngine(users, new(MockTaskRepository)).FindSalesRepByProductCategory(ctx, "Tank Cleaning")
		require.NoError(t, err)
		require.NotNil(t, rep)
		assert.Equal(t, "rep-1", rep.ID)
	})

	t.Run("nil when no sales users", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByRole", ctx, entity.RoleSales).Return([]entity.User{}, nil)

		rep, err := newTestEngine(users, new(MockTaskRepository)).FindSalesRepByProductCategory(ctx, "Tank Cleaning")
		require.NoError(t, err)
		assert.Nil(t, rep)
	})

	t.Run("propagates query errors", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByRole", ctx, entity.RoleSales).Return(nil, errors.New("connection reset"))

		_, err := newTestEngine(users, new(MockTaskRepository)).FindSalesRepByProductCategory(ctx, "Tank Cleaning")
		assert.Error(t, err)
	})
}

func TestValidateSalesRepExpertiseFailsOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup error passes", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", ctx, "rep-1").Return(nil, errors.New("timeout"))

		assert.True(t, newTestEngine(users, new(MockTaskRepository)).ValidateSalesRepExpertise(ctx, "rep-1", "Tank Cleaning"))
	})

	t.Run("missing rep passes", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", ctx, "rep-1").Return(nil, nil)

		assert.True(t, newTestEngine(users, new(MockTaskRepository)).ValidateSalesRepExpertise(ctx, "rep-1", "Tank Cleaning"))
	})

	t.Run("non-sales role fails", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", ctx, "rep-1").Return(&entity.User{ID: "rep-1", Role: "support"}, nil)

		assert.False(t, newTestEngine(users, new(MockTaskRepository)).ValidateSalesRepExpertise(ctx, "rep-1", "Tank Cleaning"))
	})
}

func TestCheckSalesRepAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("below ceiling is available", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		tasks.On("CountActiveByAssignee", ctx, "rep-1").Return(entity.MaxActiveAssignments-1, nil)

		assert.True(t, newTestEngine(new(MockUserRepository), tasks).CheckSalesRepAvailability(ctx, "rep-1"))
	})

	t.Run("at ceiling is unavailable", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		tasks.On("CountActiveByAssignee", ctx, "rep-1").Return(entity.MaxActiveAssignments, nil)

		assert.False(t, newTestEngine(new(MockUserRepository), tasks).CheckSalesRepAvailability(ctx, "rep-1"))
	})

	t.Run("count error fails open", func(t *testing.T) {
		tasks := new(MockTaskRepository)
		tasks.On("CountActiveByAssignee", ctx, "rep-1").Return(0, errors.New("timeout"))

		assert.True(t, newTestEngine(new(MockUserRepository), tasks).CheckSalesRepAvailability(ctx, "rep-1"))
	})
}

func TestValidateAssignmentRequirements(t *testing.T) {
	ctx := context.Background()
	rep := &entity.User{ID: "rep-1", Name: "Ana", Role: entity.RoleSales}

	setup := func() (*MockUserRepository, *MockTaskRepository) {
		users := new(MockUserRepository)
		tasks := new(MockTaskRepository)
		users.On("FindByID", ctx, "rep-1").Return(rep, nil).Maybe()
		tasks.On("CountActiveByAssignee", ctx, "rep-1").Return(0, nil).Maybe()
		return users, tasks
	}

	t.Run("generic category fails first", func(t *testing.T) {
		users, tasks := setup()
		v := newTestEngine(users, tasks).ValidateAssignmentRequirements(ctx, "t1", "General Inquiry", rep)
		assert.False(t, v.IsValid)
		assert.Equal(t, ReasonCategoryTooGeneric, v.Reason)
	})

	t.Run("empty category fails", func(t *testing.T) {
		users, tasks := setup()
		v := newTestEngine(users, tasks).ValidateAssignmentRequirements(ctx, "t1", "", rep)
		assert.Equal(t, ReasonCategoryTooGeneric, v.Reason)
	})

	t.Run("nil rep fails", func(t *testing.T) {
		users, tasks := setup()
		v := newTestEngine(users, tasks).ValidateAssignmentRequirements(ctx, "t1", "Tank Cleaning", nil)
		assert.Equal(t, ReasonNoRepForCategory, v.Reason)
	})

	t.Run("non-sales rep lacks expertise", func(t *testing.T) {
		users := new(MockUserRepository)
		tasks := new(MockTaskRepository)
		other := &entity.User{ID: "rep-1", Role: "support"}
		users.On("FindByID", ctx, "rep-1").Return(other, nil)
		v := newTestEngine(users, tasks).ValidateAssignmentRequirements(ctx, "t1", "Tank Cleaning", other)
		assert.Equal(t, ReasonRepLacksExpertise, v.Reason)
	})

	t.Run("overloaded rep fails last gate", func(t *testing.T) {
		users := new(MockUserRepository)
		tasks := new(MockTaskRepository)
		users.On("FindByID", ctx, "rep-1").Return(rep, nil)
		tasks.On("CountActiveByAssignee", ctx, "rep-1").Return(entity.MaxActiveAssignments, nil)
		v := newTestEngine(users, tasks).ValidateAssignmentRequirements(ctx, "t1", "Tank Cleaning", rep)
		assert.Equal(t, ReasonRepOverloaded, v.Reason)
	})

	t.Run("all gates pass", func(t *testing.T) {
		users, tasks := setup()
		v := newTestEngine(users, tasks).ValidateAssignmentRequirements(ctx, "t1", "Tank Cleaning", rep)
		assert.True(t, v.IsValid)
		assert.Empty(t, v.Reason)
	})
}
