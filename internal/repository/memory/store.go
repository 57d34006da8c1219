// Package memory provides map-backed implementations of the repository
// interfaces. It is used for local runs without Postgres and in tests.
// Every operation holds the store lock, so single-record writes are atomic
// and concurrent updates resolve as last-write-wins.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/engine/internal/models"
	"github.com/taskhub/engine/internal/repository"
	appErr "github.com/taskhub/engine/pkg/errors"
)

// Store holds users and tasks in memory.
type Store struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
	tasks   map[uuid.UUID]models.Task
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   map[uuid.UUID]models.User{},
		byEmail: map[string]uuid.UUID{},
		tasks:   map[uuid.UUID]models.Task{},
		now:     time.Now,
	}
}

// Users returns the store as a repository.UserRepository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Tasks returns the store as a repository.TaskRepository.
func (s *Store) Tasks() repository.TaskRepository { return taskRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u.Email = repository.NormalizeEmail(u.Email)
	if _, taken := r.s.byEmail[u.Email]; taken {
		return appErr.New(appErr.CodeConflict, "email already registered")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.now().UTC()
	}
	r.s.users[u.ID] = *u
	r.s.byEmail[u.Email] = u.ID
	return nil
}

func (r userRepo) GetByID(ctx context.Context, id uuid.UUID, dest *models.User) error {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	u.PasswordHash = ""
	*dest = u
	return nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.GetCredentialsByEmail(ctx, email, dest); err != nil {
		return err
	}
	dest.PasswordHash = ""
	return nil
}

func (r userRepo) GetCredentialsByEmail(ctx context.Context, email string, dest *models.User) error {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[repository.NormalizeEmail(email)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	*dest = r.s.users[id]
	return nil
}

type taskRepo struct{ s *Store }

func (r taskRepo) Create(ctx context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := r.s.now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.s.tasks[t.ID] = *t
	return nil
}

func (r taskRepo) GetByID(ctx context.Context, id uuid.UUID, dest *models.Task) error {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "Task Not Found")
	}
	*dest = t
	return nil
}

func (r taskRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Task{}
	for _, t := range r.s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r taskRepo) UpdateByID(ctx context.Context, id uuid.UUID, changes models.TaskChanges) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, appErr.New(appErr.CodeNotFound, "Task Not Found")
	}
	changes.Apply(&t)
	t.UpdatedAt = r.s.now().UTC()
	r.s.tasks[id] = t
	return &t, nil
}

func (r taskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return appErr.New(appErr.CodeNotFound, "Task Not Found")
	}
	delete(r.s.tasks, id)
	return nil
}
