package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskhub/engine/internal/models"
	appErr "github.com/taskhub/engine/pkg/errors"
	"gorm.io/gorm"
)

// TaskRepository persists tasks. It never filters by owner on id-based
// operations; ownership is checked by the task service.
type TaskRepository interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID, dest *models.Task) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error)
	// UpdateByID applies changes and bumps UpdatedAt. Concurrent updates are last-write-wins.
	UpdateByID(ctx context.Context, id uuid.UUID, changes models.TaskChanges) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskRepository struct {
	base BaseRepository[models.Task]
	db   *gorm.DB
	now  func() time.Time
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{base: NewBaseRepository[models.Task](db, "Task"), db: db, now: time.Now}
}

func (r *taskRepository) Create(ctx context.Context, t *models.Task) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := r.now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	return r.base.Create(ctx, t)
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID, dest *models.Task) error {
	return r.base.GetByID(ctx, id, dest)
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	out := []models.Task{}
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list tasks by owner failed")
	}
	return out, nil
}

func (r *taskRepository) UpdateByID(ctx context.Context, id uuid.UUID, changes models.TaskChanges) (*models.Task, error) {
	cols := changes.Columns()
	cols["updated_at"] = r.now().UTC()

	res := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, appErr.Wrap(res.Error, appErr.CodeInternal, "update task failed")
	}
	if res.RowsAffected == 0 {
		return nil, appErr.New(appErr.CodeNotFound, "Task Not Found")
	}

	var t models.Task
	if err := r.base.GetByID(ctx, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.base.Delete(ctx, id)
}
