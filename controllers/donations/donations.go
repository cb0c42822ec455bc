package donations

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/middleware"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

type DonationController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Solana *utils.SolanaClient
}

func NewDonationController(db *gorm.DB, cfg *config.Config) *DonationController {
	return &DonationController{
		DB:     db,
		Cfg:    cfg,
		Solana: utils.NewSolanaClient(cfg.Wallet.SolanaRPCURL),
	}
}

type DonationRequest struct {
	CampaignID   string  `json:"campaign_id" validate:"required"`
	Amount       float64 `json:"amount"`
	DonorName    string  `json:"donor_name" validate:"required,max=100"`
	DonorMessage string  `json:"donor_message" validate:"max=100"`
	WalletType   string  `json:"wallet_type" validate:"required"`
	Currency     string  `json:"currency" validate:"required"`
	Signature    string  `json:"signature"`
	IsMock       bool    `json:"is_mock"`
}

// Create records a donation and bumps the campaign running total in one
// transaction. Guests may donate; a valid bearer token attaches the donor's
// account to the row.
func (c *DonationController) Create(w http.ResponseWriter, r *http.Request) {
	var req DonationRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	if req.Amount < models.DonationAmountMin || req.Amount > models.DonationAmountMax {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: fmt.Sprintf("Donation amount must be between %d and %d", models.DonationAmountMin, models.DonationAmountMax),
		})
		return
	}
	if !models.ValidWalletType(req.WalletType) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid wallet type"})
		return
	}
	if !models.ValidCurrency(req.Currency) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid currency"})
		return
	}

	var campaign models.Campaign
	if err := c.DB.Where("id = ?", req.CampaignID).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Only Phantom transfers carry a verifiable on-chain signature today.
	// Mock donations (frontend test mode) skip verification.
	if req.WalletType == "phantom" && req.Signature != "" && !req.IsMock {
		verified, err := c.Solana.VerifyTransfer(r.Context(), req.Signature, c.Cfg.Wallet.SolanaAddress)
		if err != nil {
			log.Printf("[donations] solana verification error: %v", err)
			utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Could not verify transaction, please try again"})
			return
		}
		if !verified {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Transaction verification failed"})
			return
		}
	}

	donation := models.Donation{
		CampaignID:   campaign.ID,
		Amount:       req.Amount,
		DonorName:    strings.TrimSpace(req.DonorName),
		DonorMessage: utils.PtrString(req.DonorMessage),
		WalletType:   req.WalletType,
		Currency:     req.Currency,
		Signature:    utils.PtrString(req.Signature),
	}
	if userID, ok := c.requestUser(r); ok {
		donation.UserID = &userID
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&donation).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Campaign{}).
			Where("id = ?", campaign.ID).
			Update("current_amount", gorm.Expr("current_amount + ?", donation.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		log.Printf("[donations] transaction error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to record donation"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Thank you for your donation!",
		Data: map[string]interface{}{
			"donation":       donation,
			"current_amount": campaign.CurrentAmount + donation.Amount,
		},
	})
}

// Wallets returns the platform receiving addresses the donate page shows per
// network. Empty entries are omitted so the client can hide that network.
func (c *DonationController) Wallets(w http.ResponseWriter, r *http.Request) {
	addresses := map[string]string{}
	if addr := c.Cfg.Wallet.SolanaAddress; addr != "" {
		addresses["solana"] = addr
	}
	if addr := c.Cfg.Wallet.EthAddress; addr != "" {
		addresses["eth"] = addr
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Wallet addresses retrieved",
		Data:    addresses,
	})
}

// requestUser resolves the optional bearer token on the public donation
// endpoint. Invalid or absent tokens simply leave the donation anonymous.
func (c *DonationController) requestUser(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	claims, err := utils.ValidateAccessToken(c.Cfg.JWT, strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")))
	if err != nil {
		return "", false
	}
	userID, _ := utils.ClaimsIdentity(claims)
	return userID, userID != ""
}
