package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taskhub/engine/internal/api/types"
	"github.com/taskhub/engine/internal/auth"
)

// Reasons reported in the code field of a 401 from Auth.
const (
	ReasonTokenMissing          = "token_missing"
	ReasonTokenExpired          = "token_expired"
	ReasonTokenMalformed        = "token_malformed"
	ReasonTokenInvalidSignature = "token_invalid_signature"
)

// TokenVerifier is the part of the token codec the gate needs.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid token and attaches the caller's
// identity to the request context. The "Bearer " prefix is optional.
func Auth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				reject(w, ReasonTokenMissing, "No authorization token provided")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")
			if strings.TrimSpace(token) == "" {
				reject(w, ReasonTokenMissing, "Invalid authorization header format")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					reject(w, ReasonTokenExpired, "Token has expired. Please login again.")
				case errors.Is(err, auth.ErrTokenSignature):
					reject(w, ReasonTokenInvalidSignature, "Invalid token")
				default:
					reject(w, ReasonTokenMalformed, "Invalid token")
				}
				return
			}
			id, err := auth.IdentityFromClaims(claims)
			if err != nil {
				reject(w, ReasonTokenMalformed, "Invalid token")
				return
			}

			RecordAuthAttempt("token", "success")
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

func reject(w http.ResponseWriter, reason, message string) {
	RecordAuthAttempt("token", reason)
	writeError(w, http.StatusUnauthorized, &types.APIError{Code: reason, Message: message})
}

func writeError(w http.ResponseWriter, status int, body *types.APIError) {
	types.WriteJSON(w, status, body)
}
