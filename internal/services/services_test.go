package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskhub/engine/internal/auth"
	"github.com/taskhub/engine/internal/models"
	appErr "github.com/taskhub/engine/pkg/errors"
	"github.com/taskhub/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	restore := logger.Replace(zap.NewNop())
	code := m.Run()
	restore()
	os.Exit(code)
}

// Mock implementations
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil && u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID, dest *models.User) error {
	return m.Called(ctx, id, dest).Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	return m.Called(ctx, email, dest).Error(0)
}

func (m *mockUserRepo) GetCredentialsByEmail(ctx context.Context, email string, dest *models.User) error {
	args := m.Called(ctx, email, dest)
	if u, ok := args.Get(0).(models.User); ok {
		*dest = u
		return nil
	}
	return args.Error(1)
}

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Create(ctx context.Context, t *models.Task) error {
	args := m.Called(ctx, t)
	if args.Error(0) == nil {
		t.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID, dest *models.Task) error {
	args := m.Called(ctx, id, dest)
	if t, ok := args.Get(0).(models.Task); ok {
		*dest = t
		return nil
	}
	return args.Error(1)
}

func (m *mockTaskRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	args := m.Called(ctx, ownerID)
	if v := args.Get(0); v != nil {
		return v.([]models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskRepo) UpdateByID(ctx context.Context, id uuid.UUID, changes models.TaskChanges) (*models.Task, error) {
	args := m.Called(ctx, id, changes)
	if v := args.Get(0); v != nil {
		return v.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Verify(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) Issue(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

var notFound = appErr.New(appErr.CodeNotFound, "user not found")

func TestSignupPersistsHashedUserAndIssuesToken(t *testing.T) {
	ctx := context.Background()
	users, hasher, issuer := new(mockUserRepo), new(mockHasher), new(mockIssuer)

	users.On("GetByEmail", ctx, "a@x.com", mock.Anything).Return(notFound)
	hasher.On("Hash", "secret1").Return("$2a$10$hash", nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Alice" && u.Email == "a@x.com" && u.PasswordHash == "$2a$10$hash"
	})).Return(nil)
	issuer.On("Issue", mock.AnythingOfType("string"), "a@x.com").Return("tok", nil)

	svc := NewAuthService(users, hasher, issuer)
	res, err := svc.Signup(ctx, SignupInput{Name: " Alice ", Email: " A@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.NotEqual(t, uuid.Nil, res.User.ID)
	assert.Empty(t, res.User.PasswordHash)

	users.AssertExpectations(t)
	hasher.AssertExpectations(t)
	issuer.AssertExpectations(t)
}

func TestSignupValidationStopsBeforeStore(t *testing.T) {
	users, hasher, issuer := new(mockUserRepo), new(mockHasher), new(mockIssuer)
	svc := NewAuthService(users, hasher, issuer)

	_, err := svc.Signup(context.Background(), SignupInput{Name: "Alice", Email: "a@x.com", Password: "secret1", ConfirmPassword: "other12"})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything, mock.Anything)
	hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users, hasher, issuer := new(mockUserRepo), new(mockHasher), new(mockIssuer)
	users.On("GetByEmail", ctx, "a@x.com", mock.Anything).Return(nil)

	svc := NewAuthService(users, hasher, issuer)
	_, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "A@X.COM", Password: "another1", ConfirmPassword: "another1"})
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeConflict))
	hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestSignupDuplicateEmailRace(t *testing.T) {
	ctx := context.Background()
	users, hasher, issuer := new(mockUserRepo), new(mockHasher), new(mockIssuer)
	users.On("GetByEmail", ctx, "a@x.com", mock.Anything).Return(notFound)
	hasher.On("Hash", "secret1").Return("h", nil)
	users.On("Create", ctx, mock.Anything).Return(appErr.New(appErr.CodeConflict, "email already registered"))

	svc := NewAuthService(users, hasher, issuer)
	_, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	var ae *appErr.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, appErr.CodeConflict, ae.Code)
	assert.Contains(t, ae.Message, "Email already registered")
	issuer.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestLoginDoesNotRevealWhichCredentialFailed(t *testing.T) {
	ctx := context.Background()
	users, hasher, issuer := new(mockUserRepo), new(mockHasher), new(mockIssuer)
	stored := models.User{ID: uuid.New(), Name: "Alice", Email: "a@x.com", PasswordHash: "h"}

	users.On("GetCredentialsByEmail", ctx, "a@x.com", mock.Anything).Return(stored, nil)
	users.On("GetCredentialsByEmail", ctx, "nobody@x.com", mock.Anything).Return(nil, notFound)
	hasher.On("Verify", "wrong", "h").Return(false, nil)

	svc := NewAuthService(users, hasher, issuer)
	_, wrongPassword := svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong"})
	_, unknownEmail := svc.Login(ctx, LoginInput{Email: "nobody@x.com", Password: "wrong"})

	for _, err := range []error{wrongPassword, unknownEmail} {
		var ae *appErr.AppError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, appErr.CodeUnauthorized, ae.Code)
		assert.Equal(t, "Invalid email or password", ae.Message)
	}
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	users, hasher, issuer := new(mockUserRepo), new(mockHasher), new(mockIssuer)
	stored := models.User{ID: uuid.New(), Name: "Alice", Email: "a@x.com", PasswordHash: "h"}

	users.On("GetCredentialsByEmail", ctx, "a@x.com", mock.Anything).Return(stored, nil)
	hasher.On("Verify", "secret1", "h").Return(true, nil)
	issuer.On("Issue", stored.ID.String(), "a@x.com").Return("tok", nil)

	res, err := NewAuthService(users, hasher, issuer).Login(ctx, LoginInput{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, stored.ID, res.User.ID)
	assert.Empty(t, res.User.PasswordHash)
}

func TestLoginMalformedHashIsInternal(t *testing.T) {
	ctx := context.Background()
	users, hasher, issuer := new(mockUserRepo), new(mockHasher), new(mockIssuer)
	users.On("GetCredentialsByEmail", ctx, "a@x.com", mock.Anything).Return(models.User{ID: uuid.New(), PasswordHash: "junk"}, nil)
	hasher.On("Verify", "secret1", "junk").Return(false, errors.New("bad hash"))

	_, err := NewAuthService(users, hasher, issuer).Login(ctx, LoginInput{Email: "a@x.com", Password: "secret1"})
	assert.True(t, appErr.IsCode(err, appErr.CodeInternal))
}

func TestLoginMissingFields(t *testing.T) {
	svc := NewAuthService(new(mockUserRepo), new(mockHasher), new(mockIssuer))
	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com"})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func identity() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Email: "a@x.com"}
}

func TestCreateTaskSetsOwnerAndDefaults(t *testing.T) {
	ctx := context.Background()
	repo := new(mockTaskRepo)
	me := identity()
	repo.On("Create", ctx, mock.MatchedBy(func(task *models.Task) bool {
		return task.OwnerID == me.UserID && task.Priority == models.PriorityMedium &&
			task.Title == " Write report " && task.DueDate.String() == "2025-05-01" && !task.Completed
	})).Return(nil)

	task, err := NewTaskService(repo).Create(ctx, me, CreateTaskInput{Title: " Write report ", DueDate: "2025-05-01"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID)
	repo.AssertExpectations(t)
}

func TestCreateTaskInvalid(t *testing.T) {
	repo := new(mockTaskRepo)
	_, err := NewTaskService(repo).Create(context.Background(), identity(), CreateTaskInput{Priority: "urgent"})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListTasksQueriesByOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(mockTaskRepo)
	me := identity()
	repo.On("ListByOwner", ctx, me.UserID).Return([]models.Task{{OwnerID: me.UserID}}, nil)

	list, err := NewTaskService(repo).List(ctx, me)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestByIDOperationsCheckExistenceBeforeOwnership(t *testing.T) {
	ctx := context.Background()
	me := identity()
	missing, foreign := uuid.New(), uuid.New()
	done := true

	repo := new(mockTaskRepo)
	repo.On("GetByID", ctx, missing, mock.Anything).Return(nil, appErr.New(appErr.CodeNotFound, "Task Not Found"))
	repo.On("GetByID", ctx, foreign, mock.Anything).Return(models.Task{ID: foreign, OwnerID: uuid.New()}, nil)
	svc := NewTaskService(repo)

	ops := map[string]func(uuid.UUID) error{
		"access": func(id uuid.UUID) error { _, err := svc.Get(ctx, me, id); return err },
		"update": func(id uuid.UUID) error {
			_, err := svc.Update(ctx, me, id, UpdateTaskInput{Completed: &done})
			return err
		},
		"delete": func(id uuid.UUID) error { return svc.Delete(ctx, me, id) },
	}
	for action, op := range ops {
		t.Run(action, func(t *testing.T) {
			assert.True(t, appErr.IsCode(op(missing), appErr.CodeNotFound))

			err := op(foreign)
			var ae *appErr.AppError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, appErr.CodeForbidden, ae.Code)
			assert.Equal(t, "Not authorized to "+action+" this task", ae.Message)
		})
	}
	repo.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUpdateTaskAppliesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	me := identity()
	taskID := uuid.New()
	done := true
	due := "2025-06-01"

	repo := new(mockTaskRepo)
	repo.On("GetByID", ctx, taskID, mock.Anything).Return(models.Task{ID: taskID, OwnerID: me.UserID}, nil)
	repo.On("UpdateByID", ctx, taskID, mock.MatchedBy(func(c models.TaskChanges) bool {
		return c.Title == nil && c.Priority == nil && c.Description == nil &&
			c.Completed != nil && *c.Completed && c.DueDate != nil && c.DueDate.String() == due
	})).Return(&models.Task{ID: taskID, OwnerID: me.UserID, Completed: true}, nil)

	task, err := NewTaskService(repo).Update(ctx, me, taskID, UpdateTaskInput{Completed: &done, DueDate: &due})
	require.NoError(t, err)
	assert.True(t, task.Completed)
	repo.AssertExpectations(t)
}

func TestDeleteOwnedTask(t *testing.T) {
	ctx := context.Background()
	me := identity()
	taskID := uuid.New()

	repo := new(mockTaskRepo)
	repo.On("GetByID", ctx, taskID, mock.Anything).Return(models.Task{ID: taskID, OwnerID: me.UserID}, nil)
	repo.On("Delete", ctx, taskID).Return(nil)

	require.NoError(t, NewTaskService(repo).Delete(ctx, me, taskID))
	repo.AssertExpectations(t)
}
