package http

import (
	"net/http"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

// ensureUser mirrors the token subject into the user table and rejects
// disabled users. It must run after httpx.AuthnMiddleware.
func ensureUser(users *service.UserService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := httpx.ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, r, errMissingClaims)
				return
			}

			u, err := users.Ensure(r.Context(), claims.Subject, claims.Username)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !u.IsActive() {
				httpx.WriteJSON(w, http.StatusForbidden, poolsdk.ErrorResponse{
					Error:            poolsdk.ErrorCodeAccessDenied,
					ErrorDescription: "user is disabled",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(slogx.WithUser(r.Context(), u.ID)))
		})
	}
}
