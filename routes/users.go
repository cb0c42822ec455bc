package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/controllers/auth"
	"github.com/divluffy/lightforgaza/controllers/campaigns"
	"github.com/divluffy/lightforgaza/controllers/contact"
	"github.com/divluffy/lightforgaza/controllers/donations"
	"github.com/divluffy/lightforgaza/controllers/uploads"
	"github.com/divluffy/lightforgaza/controllers/users"
	"github.com/divluffy/lightforgaza/middleware"
	"github.com/divluffy/lightforgaza/utils"
)

// SetUserRoutes registers the public and authenticated-user routes.
func SetUserRoutes(api *mux.Router, cfg *config.Config, db *gorm.DB, store *utils.ObjectStore) {
	// Login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute, cfg.TrustedProxies)
	// General API: 200 per IP per minute
	apiLimiter := middleware.NewIPRateLimiter(200, time.Minute, cfg.TrustedProxies)
	// Donations hit the Solana RPC, keep them tighter
	donationLimiter := middleware.NewIPRateLimiter(30, time.Minute, cfg.TrustedProxies)

	authz := middleware.AuthMiddleware(cfg)

	authController := auth.NewAuthController(db, cfg)
	campaignController := campaigns.NewCampaignController(db, cfg)
	donationController := donations.NewDonationController(db, cfg)
	userController := users.NewUserController(db, cfg)
	contactController := contact.NewContactController(db)

	// Register & Login
	api.Handle("/auth/register", loginLimiter.Middleware(http.HandlerFunc(authController.Register))).Methods(http.MethodPost)
	api.Handle("/auth/login", loginLimiter.Middleware(http.HandlerFunc(authController.Login))).Methods(http.MethodPost)
	api.Handle("/auth/admin/login", loginLimiter.Middleware(http.HandlerFunc(authController.AdminLogin))).Methods(http.MethodPost)
	api.Handle("/auth/refresh", loginLimiter.Middleware(http.HandlerFunc(authController.Refresh))).Methods(http.MethodPost)
	api.Handle("/auth/logout", apiLimiter.Middleware(http.HandlerFunc(authController.Logout))).Methods(http.MethodPost)
	api.Handle("/auth/logout-all", apiLimiter.Middleware(authz(http.HandlerFunc(authController.LogoutAll)))).Methods(http.MethodPost)

	// Campaigns (public reads)
	api.Handle("/campaigns", apiLimiter.Middleware(http.HandlerFunc(campaignController.List))).Methods(http.MethodGet)
	api.Handle("/campaigns/{id}", apiLimiter.Middleware(http.HandlerFunc(campaignController.Get))).Methods(http.MethodGet)

	// Campaigns (owner writes)
	api.Handle("/campaigns", apiLimiter.Middleware(authz(http.HandlerFunc(campaignController.Create)))).Methods(http.MethodPost)
	api.Handle("/campaigns/{id}", apiLimiter.Middleware(authz(http.HandlerFunc(campaignController.Update)))).Methods(http.MethodPut)
	api.Handle("/campaigns/{id}", apiLimiter.Middleware(authz(http.HandlerFunc(campaignController.Delete)))).Methods(http.MethodDelete)

	// Donations (guests allowed)
	api.Handle("/donations", donationLimiter.Middleware(http.HandlerFunc(donationController.Create))).Methods(http.MethodPost)
	api.Handle("/donations/wallets", apiLimiter.Middleware(http.HandlerFunc(donationController.Wallets))).Methods(http.MethodGet)

	// Contact form
	api.Handle("/contact", apiLimiter.Middleware(http.HandlerFunc(contactController.Submit))).Methods(http.MethodPost)

	// Profile
	api.Handle("/users/me", apiLimiter.Middleware(authz(http.HandlerFunc(userController.Me)))).Methods(http.MethodGet)
	api.Handle("/users/me", apiLimiter.Middleware(authz(http.HandlerFunc(userController.UpdateMe)))).Methods(http.MethodPut)
	api.Handle("/users/change-password", apiLimiter.Middleware(authz(http.HandlerFunc(userController.ChangePassword)))).Methods(http.MethodPost)
	api.Handle("/users/campaigns", apiLimiter.Middleware(authz(http.HandlerFunc(userController.MyCampaigns)))).Methods(http.MethodGet)

	// Uploads
	uploadController := uploads.NewUploadController(store)
	api.Handle("/uploads/image", apiLimiter.Middleware(authz(http.HandlerFunc(uploadController.Image)))).Methods(http.MethodPost)
}
