package campaigns

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/middleware"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

type CampaignController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCampaignController(db *gorm.DB, cfg *config.Config) *CampaignController {
	return &CampaignController{DB: db, Cfg: cfg}
}

type CampaignRequest struct {
	Title            string             `json:"title" validate:"required,max=100"`
	Description      string             `json:"description" validate:"required"`
	GoalAmount       float64            `json:"goal_amount"`
	CampaignType     string             `json:"campaign_type" validate:"required"`
	ImageURL         string             `json:"image_url" validate:"required,max=500"`
	FacebookURL      string             `json:"facebook_url" validate:"max=500"`
	InstagramURL     string             `json:"instagram_url" validate:"max=500"`
	TiktokURL        string             `json:"tiktok_url" validate:"max=500"`
	OtherSocialLinks map[string]string  `json:"other_social_links"`
	VideoLinks       []models.VideoLink `json:"video_links"`
	ThankYouMessage  string             `json:"thank_you_message" validate:"required,max=200"`
}

func (req *CampaignRequest) validateDomain() (string, bool) {
	if err := models.ValidateGoalAmount(req.GoalAmount); err != nil {
		return err.Error(), false
	}
	if !models.ValidCampaignType(req.CampaignType) {
		return "Invalid campaign type", false
	}
	return "", true
}

// Create registers a new campaign for the authenticated user. New campaigns
// always start unapproved.
func (c *CampaignController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req CampaignRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if msg, ok := req.validateDomain(); !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	campaign := models.Campaign{
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		GoalAmount:       req.GoalAmount,
		CampaignType:     req.CampaignType,
		ImageURL:         req.ImageURL,
		FacebookURL:      utils.PtrString(req.FacebookURL),
		InstagramURL:     utils.PtrString(req.InstagramURL),
		TiktokURL:        utils.PtrString(req.TiktokURL),
		OtherSocialLinks: req.OtherSocialLinks,
		VideoLinks:       models.SanitizeVideoLinks(req.VideoLinks),
		ThankYouMessage:  req.ThankYouMessage,
		Approved:         false,
		OwnerID:          userID,
	}

	if err := c.DB.Create(&campaign).Error; err != nil {
		log.Printf("[campaigns] create error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create campaign"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Campaign submitted for review",
		Data:    campaign,
	})
}

// List returns approved campaigns with optional search, type and sort filters.
func (c *CampaignController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tx := c.DB.Model(&models.Campaign{}).
		Where("approved = ?", true).
		Preload("Owner")

	if search := strings.TrimSpace(q.Get("search")); search != "" {
		tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if ctype := q.Get("type"); ctype != "" && ctype != "All" {
		if !models.ValidCampaignType(ctype) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign type"})
			return
		}
		tx = tx.Where("campaign_type = ?", ctype)
	}

	switch q.Get("sort") {
	case "oldest":
		tx = tx.Order("created_at ASC")
	case "mostDonations":
		tx = tx.Order("current_amount DESC")
	case "leastDonations":
		tx = tx.Order("current_amount ASC")
	default:
		tx = tx.Order("created_at DESC")
	}

	var campaigns []models.Campaign
	if err := tx.Find(&campaigns).Error; err != nil {
		log.Printf("[campaigns] list error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Campaigns retrieved",
		Data:    campaigns,
	})
}

// Get returns a single campaign by id. Approval is intentionally not checked
// here so owners can preview pending campaigns via direct link.
func (c *CampaignController) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var campaign models.Campaign
	err := c.DB.Preload("Owner").Preload("Donations", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Where("id = ?", id).First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Campaign retrieved",
		Data:    campaign,
	})
}

// Update replaces the editable fields of a campaign. Only the owner or an
// admin may update; edits never reset the approval flag.
func (c *CampaignController) Update(w http.ResponseWriter, r *http.Request) {
	campaign, ok := c.loadOwned(w, r)
	if !ok {
		return
	}

	var req CampaignRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if msg, ok := req.validateDomain(); !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	updates := map[string]interface{}{
		"title":              strings.TrimSpace(req.Title),
		"description":        req.Description,
		"goal_amount":        req.GoalAmount,
		"campaign_type":      req.CampaignType,
		"image_url":          req.ImageURL,
		"facebook_url":       utils.PtrString(req.FacebookURL),
		"instagram_url":      utils.PtrString(req.InstagramURL),
		"tiktok_url":         utils.PtrString(req.TiktokURL),
		"other_social_links": models.JSONMap(req.OtherSocialLinks),
		"video_links":        models.SanitizeVideoLinks(req.VideoLinks),
		"thank_you_message":  req.ThankYouMessage,
	}

	if err := c.DB.Model(campaign).Updates(updates).Error; err != nil {
		log.Printf("[campaigns] update error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update campaign"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Campaign updated",
		Data:    campaign,
	})
}

// Delete removes a campaign and, via the FK constraint, its donations.
func (c *CampaignController) Delete(w http.ResponseWriter, r *http.Request) {
	campaign, ok := c.loadOwned(w, r)
	if !ok {
		return
	}

	if err := c.DB.Delete(campaign).Error; err != nil {
		log.Printf("[campaigns] delete error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to delete campaign"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Campaign deleted"})
}

// loadOwned fetches the campaign and verifies the requester is its owner or an
// admin. It writes the error response itself and returns ok=false.
func (c *CampaignController) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Campaign, bool) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return nil, false
	}
	id := mux.Vars(r)["id"]

	var campaign models.Campaign
	if err := c.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
			return nil, false
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return nil, false
	}

	if campaign.OwnerID != userID && utils.GetUserRole(r) != models.RoleAdmin {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "You do not own this campaign"})
		return nil, false
	}
	return &campaign, true
}
