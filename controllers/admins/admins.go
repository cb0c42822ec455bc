package admins

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

// Platform cut applied when reporting net revenue.
const revenueShare = 0.05

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

// ListCampaigns returns approved campaigns with owners.
func (c *AdminController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	c.listCampaigns(w, true)
}

// ListPendingCampaigns returns campaigns awaiting review.
func (c *AdminController) ListPendingCampaigns(w http.ResponseWriter, r *http.Request) {
	c.listCampaigns(w, false)
}

func (c *AdminController) listCampaigns(w http.ResponseWriter, approved bool) {
	var campaigns []models.Campaign
	err := c.DB.Preload("Owner").
		Where("approved = ?", approved).
		Order("created_at DESC").
		Find(&campaigns).Error
	if err != nil {
		log.Printf("[admin] list campaigns error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Campaigns retrieved",
		Data:    campaigns,
	})
}

// ApproveCampaign flips a campaign to approved. Approving an already approved
// campaign is a no-op success.
func (c *AdminController) ApproveCampaign(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var campaign models.Campaign
	if err := c.DB.Where("id = ?", id).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if !campaign.Approved {
		if err := c.DB.Model(&campaign).Update("approved", true).Error; err != nil {
			log.Printf("[admin] approve error: %v", err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to approve campaign"})
			return
		}
		campaign.Approved = true
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Campaign approved",
		Data:    campaign,
	})
}

// DeleteCampaign removes any campaign regardless of owner.
func (c *AdminController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	res := c.DB.Where("id = ?", id).Delete(&models.Campaign{})
	if res.Error != nil {
		log.Printf("[admin] delete campaign error: %v", res.Error)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Campaign deleted"})
}

// ListUsers returns all registered accounts.
func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := c.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		log.Printf("[admin] list users error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Users retrieved",
		Data:    users,
	})
}

// GetUser returns one account with campaigns and donations.
func (c *AdminController) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var user models.User
	err := c.DB.Preload("Campaigns").Preload("Donations").Where("id = ?", id).First(&user).Error
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
		Message: "User retrieved",
		Data:    user,
	})
}

// DeleteUser removes an account and its campaigns.
func (c *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		// Donations the user made on other campaigns stay, anonymized.
		if err := tx.Model(&models.Donation{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&models.Campaign{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("[admin] delete user error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "User deleted"})
}

// ListDonations returns all donations with donor and campaign.
func (c *AdminController) ListDonations(w http.ResponseWriter, r *http.Request) {
	var donations []models.Donation
	err := c.DB.Preload("User").Preload("Campaign").
		Order("created_at DESC").
		Find(&donations).Error
	if err != nil {
		log.Printf("[admin] list donations error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Donations retrieved",
		Data:    donations,
	})
}

// GetDonation returns one donation with donor and campaign.
func (c *AdminController) GetDonation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var donation models.Donation
	err := c.DB.Preload("User").Preload("Campaign").Where("id = ?", id).First(&donation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Donation not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Donation retrieved",
		Data:    donation,
	})
}

// Stats aggregates the dashboard numbers. The donation figures are row
// counts; only net revenue is derived from the summed amounts.
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	var campaignCount, userCount int64
	if err := c.DB.Model(&models.Campaign{}).Count(&campaignCount).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if err := c.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var totalDonations, dailyDonations, paidDonations, pendingDonations int64
	c.DB.Model(&models.Donation{}).Count(&totalDonations)

	dayStart := time.Now().Truncate(24 * time.Hour)
	c.DB.Model(&models.Donation{}).
		Where("created_at >= ?", dayStart).
		Count(&dailyDonations)

	c.DB.Model(&models.Donation{}).
		Where("signature IS NOT NULL").
		Count(&paidDonations)
	c.DB.Model(&models.Donation{}).
		Where("signature IS NULL").
		Count(&pendingDonations)

	var donatedTotal float64
	c.DB.Model(&models.Donation{}).
		Select("COALESCE(SUM(amount),0)").Scan(&donatedTotal)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Stats retrieved",
		Data: map[string]interface{}{
			"campaignCount": campaignCount,
			"userCount":     userCount,
			// No direct donations to the platform itself exist.
			"platformDonations": 0,
			"dailyDonations":    dailyDonations,
			"totalDonations":    totalDonations,
			"paidDonations":     paidDonations,
			"pendingDonations":  pendingDonations,
			"netRevenue":        donatedTotal * revenueShare,
		},
	})
}
