package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/controllers/admins"
	"github.com/divluffy/lightforgaza/controllers/campaigns"
	"github.com/divluffy/lightforgaza/middleware"
)

// SetAdminRoutes registers the admin dashboard routes.
func SetAdminRoutes(api *mux.Router, cfg *config.Config, db *gorm.DB) {
	adminLimiter := middleware.NewIPRateLimiter(300, time.Minute, cfg.TrustedProxies)

	adminController := admins.NewAdminController(db, cfg)
	campaignController := campaigns.NewCampaignController(db, cfg)

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(adminLimiter.Middleware)
	adminRouter.Use(middleware.AdminAuthMiddleware(cfg, db))

	// Campaign review
	adminRouter.Handle("/campaigns", http.HandlerFunc(adminController.ListCampaigns)).Methods(http.MethodGet)
	adminRouter.Handle("/campaigns/pending", http.HandlerFunc(adminController.ListPendingCampaigns)).Methods(http.MethodGet)
	adminRouter.Handle("/campaigns/{id}/approve", http.HandlerFunc(adminController.ApproveCampaign)).Methods(http.MethodPost)
	// Admin tokens never pass the user auth middleware, so campaign edits by
	// admins come through here.
	adminRouter.Handle("/campaigns/{id}", http.HandlerFunc(campaignController.Update)).Methods(http.MethodPut)
	adminRouter.Handle("/campaigns/{id}", http.HandlerFunc(adminController.DeleteCampaign)).Methods(http.MethodDelete)

	// User management
	adminRouter.Handle("/users", http.HandlerFunc(adminController.ListUsers)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id}", http.HandlerFunc(adminController.GetUser)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id}", http.HandlerFunc(adminController.DeleteUser)).Methods(http.MethodDelete)

	// Donations
	adminRouter.Handle("/donations", http.HandlerFunc(adminController.ListDonations)).Methods(http.MethodGet)
	adminRouter.Handle("/donations/{id}", http.HandlerFunc(adminController.GetDonation)).Methods(http.MethodGet)

	// Dashboard stats
	adminRouter.Handle("/stats", http.HandlerFunc(adminController.Stats)).Methods(http.MethodGet)
}
