package middleware

import (
	"net/http"
	"runtime/debug"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/taskhub/engine/internal/api/types"
	appErr "github.com/taskhub/engine/pkg/errors"
	"github.com/taskhub/engine/pkg/logger"
	"go.uber.org/zap"
)

// Recovery logs panics and returns 500 with a generic message. A response
// whose headers already went out is left as is.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.L().Error("panic recovered",
					zap.String("id", GetRequestID(r.Context())),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				if ww.Status() != 0 {
					return
				}
				writeError(ww, http.StatusInternalServerError, &types.APIError{
					Code:    string(appErr.CodeInternal),
					Message: types.GenericInternalMessage,
				})
			}
		}()
		next.ServeHTTP(ww, r)
	})
}
