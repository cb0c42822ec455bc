package contact

import (
	"log"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/middleware"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

type ContactController struct {
	DB *gorm.DB
}

func NewContactController(db *gorm.DB) *ContactController {
	return &ContactController{DB: db}
}

type ContactFormRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=30"`
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required"`
}

// Submit stores a contact form message.
func (c *ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactFormRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	entry := models.ContactRequest{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
		Subject:  strings.TrimSpace(req.Subject),
		Message:  req.Message,
	}
	if err := c.DB.Create(&entry).Error; err != nil {
		log.Printf("[contact] create error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to send message"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Message sent, we will get back to you soon",
	})
}
