package types

import (
	"errors"

	appErr "github.com/taskhub/engine/pkg/errors"
)

// GenericInternalMessage is what clients see for any unexpected failure.
const GenericInternalMessage = "Something went wrong"

// FromAppError renders err for a response body. Internal and unclassified
// errors never leak their detail.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ae *appErr.AppError
	if !errors.As(err, &ae) {
		return &APIError{Code: string(appErr.CodeInternal), Message: GenericInternalMessage}
	}
	if appErr.HTTPStatus(ae.Code) >= 500 {
		return &APIError{Code: string(ae.Code), Message: GenericInternalMessage}
	}
	return &APIError{Code: string(ae.Code), Message: ae.Message, Fields: ae.Fields}
}
