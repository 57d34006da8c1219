package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/taskhub/engine/internal/models"
	appErr "github.com/taskhub/engine/pkg/errors"
	"gorm.io/gorm"
)

// UserRepository is the identity store. Reads leave PasswordHash empty unless
// the method says otherwise.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID, dest *models.User) error
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	// GetCredentialsByEmail also loads PasswordHash; meant for login only.
	GetCredentialsByEmail(ctx context.Context, email string, dest *models.User) error
}

type userRepository struct {
	base BaseRepository[models.User]
	db   *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{base: NewBaseRepository[models.User](db, "User"), db: db}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	if err := r.base.Create(ctx, u); err != nil {
		if appErr.IsCode(err, appErr.CodeConflict) {
			return appErr.Wrap(err, appErr.CodeConflict, "email already registered")
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID, dest *models.User) error {
	if err := r.db.WithContext(ctx).Omit("password_hash").First(dest, "id = ?", id).Error; err != nil {
		return r.lookupErr(err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Omit("password_hash").Where("email = ?", NormalizeEmail(email)).First(dest).Error; err != nil {
		return r.lookupErr(err)
	}
	return nil
}

func (r *userRepository) GetCredentialsByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(dest).Error; err != nil {
		return r.lookupErr(err)
	}
	return nil
}

func (r *userRepository) lookupErr(err error) error {
	if err == gorm.ErrRecordNotFound {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	return appErr.Wrap(err, appErr.CodeInternal, "get user failed")
}
