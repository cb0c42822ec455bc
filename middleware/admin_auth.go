package middleware

import (
	"context"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

// AdminAuthMiddleware verifies that the request is from an authenticated admin
func AdminAuthMiddleware(cfg *config.Config, db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
					Success: false,
					Message: "Unauthorized: No token provided",
				})
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			claims, err := utils.ValidateAccessToken(cfg.JWT, tokenString)
			if err != nil {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
					Success: false,
					Message: "Unauthorized: Invalid token",
				})
				return
			}

			userID, role := utils.ClaimsIdentity(claims)
			if role != models.RoleAdmin {
				utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
					Success: false,
					Message: "Forbidden: Admin access required",
				})
				return
			}

			// Verify admin still exists and still holds the role
			var admin models.User
			if err := db.Where("id = ?", userID).First(&admin).Error; err != nil {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
					Success: false,
					Message: "Unauthorized: Admin not found",
				})
				return
			}
			if admin.Role != models.RoleAdmin {
				utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
					Success: false,
					Message: "Forbidden",
				})
				return
			}

			ctx := context.WithValue(r.Context(), utils.UserIDKey, admin.ID)
			ctx = context.WithValue(ctx, utils.UserRoleKey, admin.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
