package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhub/engine/internal/auth"
	"github.com/taskhub/engine/internal/models"
	"github.com/taskhub/engine/internal/repository"
	"github.com/taskhub/engine/internal/validators"
	"github.com/taskhub/engine/pkg/logger"
	"go.uber.org/zap"
)

// TaskService runs task use cases on behalf of an authenticated identity.
// By-id operations always fetch first, so a missing task is reported
// before an ownership mismatch.
type TaskService interface {
	Create(ctx context.Context, id auth.Identity, input CreateTaskInput) (*models.Task, error)
	List(ctx context.Context, id auth.Identity) ([]models.Task, error)
	Get(ctx context.Context, id auth.Identity, taskID uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, id auth.Identity, taskID uuid.UUID, input UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, id auth.Identity, taskID uuid.UUID) error
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

// UpdateTaskInput is a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *string
	Completed   *bool
}

type taskService struct {
	tasks repository.TaskRepository
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

var _ TaskService = (*taskService)(nil)

func (s *taskService) Create(ctx context.Context, id auth.Identity, in CreateTaskInput) (*models.Task, error) {
	if err := validators.TaskCreate(in.Title, in.Priority, in.DueDate); err != nil {
		return nil, err
	}
	due, _ := models.ParseDate(in.DueDate)

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	t := &models.Task{
		OwnerID:     id.UserID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		DueDate:     due,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	logger.L().Info("task created", zap.String("task_id", t.ID.String()), zap.String("user_id", id.UserID.String()))
	return t, nil
}

func (s *taskService) List(ctx context.Context, id auth.Identity) ([]models.Task, error) {
	return s.tasks.ListByOwner(ctx, id.UserID)
}

func (s *taskService) Get(ctx context.Context, id auth.Identity, taskID uuid.UUID) (*models.Task, error) {
	return s.owned(ctx, id, taskID, "access")
}

func (s *taskService) Update(ctx context.Context, id auth.Identity, taskID uuid.UUID, in UpdateTaskInput) (*models.Task, error) {
	if err := validators.TaskUpdate(in.Title, in.Description, in.Priority, in.DueDate, in.Completed); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, id, taskID, "update"); err != nil {
		return nil, err
	}

	changes := models.TaskChanges{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Completed:   in.Completed,
	}
	if in.DueDate != nil {
		due, _ := models.ParseDate(*in.DueDate)
		changes.DueDate = &due
	}

	t, err := s.tasks.UpdateByID(ctx, taskID, changes)
	if err != nil {
		return nil, err
	}
	logger.L().Info("task updated", zap.String("task_id", taskID.String()), zap.String("user_id", id.UserID.String()))
	return t, nil
}

func (s *taskService) Delete(ctx context.Context, id auth.Identity, taskID uuid.UUID) error {
	if _, err := s.owned(ctx, id, taskID, "delete"); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	logger.L().Info("task deleted", zap.String("task_id", taskID.String()), zap.String("user_id", id.UserID.String()))
	return nil
}

// owned fetches a task and checks that id owns it.
func (s *taskService) owned(ctx context.Context, id auth.Identity, taskID uuid.UUID, action string) (*models.Task, error) {
	var t models.Task
	if err := s.tasks.GetByID(ctx, taskID, &t); err != nil {
		return nil, err
	}
	if err := auth.Authorize(id, t.OwnerID, action); err != nil {
		return nil, err
	}
	return &t, nil
}
