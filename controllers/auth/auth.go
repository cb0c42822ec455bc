package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/middleware"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Phone                string `json:"phone" validate:"required,max=30"`
	NationalID           string `json:"national_id" validate:"required,max=30"`
	DateOfBirth          string `json:"date_of_birth" validate:"required"`
	Governorate          string `json:"governorate" validate:"required"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.NationalID = strings.TrimSpace(req.NationalID)

	if !models.ValidGovernorate(req.Governorate) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid governorate"})
		return
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid date of birth, expected YYYY-MM-DD"})
		return
	}

	// Ensure unique email
	var existing models.User
	if err := c.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email is already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[register] DB error checking email: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Ensure unique national id
	if err := c.DB.Where("national_id = ?", req.NationalID).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "National ID is already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[register] DB error checking national id: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	newUser := models.User{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		NationalID:  req.NationalID,
		DateOfBirth: dob,
		Governorate: req.Governorate,
		Role:        models.RoleUser,
	}
	if err := newUser.HashPassword(); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if err := c.DB.Create(&newUser).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email or National ID is already registered"})
			return
		}
		log.Printf("[register] DB Create user error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Registration failed, please try again"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(c.Cfg.JWT, newUser.ID, newUser.Role, utils.UserTokenTTL)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create token"})
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(c.DB, newUser.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store refresh token"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful, welcome!",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"access_expire": time.Now().Add(utils.UserTokenTTL).UTC().Format(time.RFC3339),
			"refresh_token": refreshToken,
			"user":          userPayload(&newUser),
		},
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwdmin"`
}

// Login authenticates regular users. Admin accounts must use the admin entry
// point and are rejected here.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, false)
}

// AdminLogin authenticates admin accounts only.
func (c *AuthController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, true)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request, wantAdmin bool) {
	var req LoginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, ok := c.authenticate(w, req.Email, req.Password)
	if !ok {
		return
	}

	// Role filter depends on the entry point, not the credentials.
	if wantAdmin && !user.IsAdmin() {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Admin access required"})
		return
	}
	if !wantAdmin && user.IsAdmin() {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Please use the admin login"})
		return
	}

	ttl := utils.UserTokenTTL
	if user.IsAdmin() {
		ttl = utils.AdminTokenTTL
	}
	accessToken, err := utils.GenerateAccessToken(c.Cfg.JWT, user.ID, user.Role, ttl)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Login failed"})
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(c.DB, user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store refresh token"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"access_expire": time.Now().Add(ttl).UTC().Format(time.RFC3339),
			"refresh_token": refreshToken,
			"user":          userPayload(user),
		},
	})
}

// authenticate looks up the user, enforces the lockout and verifies the
// password. It writes the error response itself and returns ok=false.
func (c *AuthController) authenticate(w http.ResponseWriter, email, password string) (*models.User, bool) {
	var user models.User
	if err := c.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid email or password"})
			return nil, false
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return nil, false
	}

	if locked, retry := middleware.IsAccountLocked(user.ID); locked {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: "Too many login attempts, please try again later",
			Data:    map[string]interface{}{"retry_after_seconds": int(retry.Seconds())},
		})
		return nil, false
	}

	if !user.ValidatePassword(password) {
		middleware.RecordFailedLogin(user.ID)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid email or password"})
		return nil, false
	}

	middleware.ResetFailedLogin(user.ID)
	return &user, true
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh rotates the refresh token and issues a new access token.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	rt, err := utils.ValidateRefreshToken(c.DB, req.RefreshToken)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid refresh token"})
		return
	}

	var user models.User
	if err := c.DB.Where("id = ?", rt.UserID).First(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid refresh token"})
		return
	}

	if err := utils.RevokeRefreshToken(c.DB, rt.ID); err != nil {
		log.Printf("[refresh] revoke error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	ttl := utils.UserTokenTTL
	if user.IsAdmin() {
		ttl = utils.AdminTokenTTL
	}
	accessToken, err := utils.GenerateAccessToken(c.Cfg.JWT, user.ID, user.Role, ttl)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	newRefresh, err := utils.GenerateRefreshToken(c.DB, user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Token refreshed",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"access_expire": time.Now().Add(ttl).UTC().Format(time.RFC3339),
			"refresh_token": newRefresh,
		},
	})
}

// Logout revokes the presented refresh token.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if err := utils.RevokeRefreshToken(c.DB, req.RefreshToken); err != nil {
		log.Printf("[logout] revoke error: %v", err)
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}

// LogoutAll revokes every active refresh token of the authenticated user.
func (c *AuthController) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	if err := utils.RevokeAllRefreshTokens(c.DB, userID); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out from all sessions"})
}

func userPayload(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"phone":         u.Phone,
		"national_id":   u.NationalID,
		"date_of_birth": u.DateOfBirth.UTC().Format("2006-01-02"),
		"governorate":   u.Governorate,
		"thumbnail_url": utils.GetStringValue(u.ThumbnailURL),
		"role":          u.Role,
		"created_at":    u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
