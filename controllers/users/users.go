package users

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/middleware"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// Me returns the authenticated user's profile with their campaigns and the
// donations received on them.
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var user models.User
	err := c.DB.Preload("Campaigns", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Preload("Campaigns.Donations").Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile retrieved",
		Data:    user,
	})
}

type UpdateMeRequest struct {
	Name         string `json:"name" validate:"max=100"`
	Email        string `json:"email" validate:"max=191"`
	Phone        string `json:"phone" validate:"max=30"`
	Governorate  string `json:"governorate"`
	ThumbnailURL string `json:"thumbnail_url" validate:"max=500"`
}

// UpdateMe updates the whitelisted profile fields. Email changes collide with
// the unique index and return 409.
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req UpdateMeRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		var existing models.User
		if err := c.DB.Where("email = ? AND id <> ?", email, userID).First(&existing).Error; err == nil {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email is already registered"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		updates["email"] = email
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		updates["phone"] = phone
	}
	if req.Governorate != "" {
		if !models.ValidGovernorate(req.Governorate) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid governorate"})
			return
		}
		updates["governorate"] = req.Governorate
	}
	if req.ThumbnailURL != "" {
		updates["thumbnail_url"] = req.ThumbnailURL
	}
	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}

	if err := c.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email is already registered"})
			return
		}
		log.Printf("[users] update error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update profile"})
		return
	}

	var user models.User
	if err := c.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile updated",
		Data:    user,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password" validate:"required"`
	NewPassword          string `json:"new_password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=NewPassword"`
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every refresh token so other sessions must log in again.
func (c *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req ChangePasswordRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var user models.User
	if err := c.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if !user.ValidatePassword(req.CurrentPassword) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Current password is incorrect"})
		return
	}

	user.Password = req.NewPassword
	if err := user.HashPassword(); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if err := c.DB.Model(&models.User{}).Where("id = ?", userID).Update("password", user.Password).Error; err != nil {
		log.Printf("[users] change password error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to change password"})
		return
	}

	if err := utils.RevokeAllRefreshTokens(c.DB, userID); err != nil {
		log.Printf("[users] revoke tokens after password change: %v", err)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Password changed"})
}

// MyCampaigns lists the authenticated user's own campaigns, pending ones
// included.
func (c *UserController) MyCampaigns(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var campaigns []models.Campaign
	err := c.DB.Preload("Donations", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Where("owner_id = ?", userID).Order("created_at DESC").Find(&campaigns).Error
	if err != nil {
		log.Printf("[users] own campaigns error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Campaigns retrieved",
		Data:    campaigns,
	})
}
