package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/taskhub/engine/internal/api/middleware"
	"github.com/taskhub/engine/internal/api/types"
	appErr "github.com/taskhub/engine/pkg/errors"
	"github.com/taskhub/engine/pkg/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	types.WriteJSON(w, status, v)
}

// writeError maps err to its status. Anything answered with a 5xx is logged
// here, since the client only gets the generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := appErr.HTTPStatus(appErr.CodeOf(err))
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, types.FromAppError(err))
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &types.APIError{Code: string(appErr.CodeInvalid), Message: msg})
}

// decode reads a single JSON object from the request body into dst.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return appErr.New(appErr.CodeInvalid, "Request body is required")
		}
		return appErr.Wrap(err, appErr.CodeInvalid, "Invalid JSON body")
	}
	return nil
}
