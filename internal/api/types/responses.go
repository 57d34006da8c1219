package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/engine/internal/models"
	appErr "github.com/taskhub/engine/pkg/errors"
)

type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []appErr.FieldError `json:"fields,omitempty"`
}

// UserView is the public shape of a user. It has no password field.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserView(u models.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
