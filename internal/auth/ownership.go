package auth

import (
	"github.com/google/uuid"

	appErr "github.com/taskhub/engine/pkg/errors"
)

// Authorize allows the caller only when it owns the resource. action completes the
// refusal message ("access", "update", "delete").
//
// Callers fetch the resource first so that a missing id is reported as not found
// before ownership is considered.
func Authorize(id Identity, ownerID uuid.UUID, action string) error {
	if ownerID != id.UserID {
		return appErr.New(appErr.CodeForbidden, "Not authorized to "+action+" this task").
			WithMeta("owner_id", ownerID.String()).
			WithMeta("user_id", id.UserID.String())
	}
	return nil
}
