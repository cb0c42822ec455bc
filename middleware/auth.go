package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

// AuthMiddleware validates the bearer token and attaches the user identity to
// the request context. Admin tokens are rejected here so admin sessions cannot
// act through user endpoints.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
					Success: false,
					Message: "Unauthorized",
				})
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			// Shared validation checks signature and registered claims
			claims, err := utils.ValidateAccessToken(cfg.JWT, tokenStr)
			if err != nil {
				if strings.Contains(err.Error(), "expired") {
					utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
						Success: false,
						Message: "Session expired, please log in again",
					})
					return
				}
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
					Success: false,
					Message: "Invalid token",
				})
				return
			}

			userID, role := utils.ClaimsIdentity(claims)
			if userID == "" {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
					Success: false,
					Message: "Invalid token",
				})
				return
			}

			// block admin tokens from user endpoints
			if role == models.RoleAdmin {
				utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
					Success: false,
					Message: "Access denied",
				})
				return
			}

			ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
			ctx = context.WithValue(ctx, utils.UserRoleKey, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
