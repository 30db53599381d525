package routes

import (
	"time"

	"carwash/handlers"
	"carwash/middleware"
	"carwash/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers endpoints that need no identity.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/slots", hb.Slots.GetAvailableSlotsHandler)
		api.GET("/slots/catalog", hb.Slots.GetSlotCatalogHandler)
		api.GET("/catalog", hb.Pricing.GetCatalogHandler)
		api.POST("/promos/validate", hb.Pricing.ValidatePromoHandler)

		// A signed-in customer may ask for their referral grant in the quote.
		api.POST("/quote", middleware.ActorAuthMiddleware(hb.JWTSecret, hb.Guests, true), hb.Pricing.QuoteHandler)

		api.POST("/guest/sessions", hb.Guest.IssueSessionHandler)
		api.GET("/guest/sessions/validate", hb.Guest.ValidateSessionHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle for customers, guests and staff.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/bookings")
	{
		bookings.Use(middleware.ActorAuthMiddleware(hb.JWTSecret, hb.Guests, false))
		bookings.POST("", hb.Booking.CreateBookingHandler)
		bookings.GET("/mine", hb.Booking.ListMyBookingsHandler)
		bookings.GET("/:id", hb.Booking.GetBookingHandler)
		bookings.PATCH("/:id", hb.Booking.EditBookingHandler)
		bookings.POST("/:id/status", hb.Booking.TransitionBookingHandler)
		bookings.POST("/migrate-guest", middleware.RequireRole(models.RoleCustomer), hb.Booking.MigrateGuestBookingsHandler)
	}
}

// RegisterReferralRoutes registers the customer referral program.
func RegisterReferralRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	referrals := r.Group("/api/referrals")
	{
		referrals.Use(middleware.ActorAuthMiddleware(hb.JWTSecret, nil, false))
		referrals.Use(middleware.RequireRole(models.RoleCustomer))
		referrals.GET("/me", hb.Pricing.GetMyReferralHandler)
		referrals.POST("/apply", hb.Pricing.ApplyReferralHandler)
	}
}

// RegisterAdminRoutes sets up the manager console and staff terminal endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	console := r.Group("/api/admin")
	console.Use(middleware.ActorAuthMiddleware(hb.JWTSecret, nil, false))
	console.Use(middleware.RequireRole(models.RoleStaff, models.RoleManager))
	{
		console.GET("/bookings", hb.Booking.ListBookingsByDateHandler)
		console.GET("/closed-slots/:date", hb.Slots.GetClosedSlotsHandler)
		console.GET("/shifts", hb.Admin.ListShiftsHandler)
		console.GET("/staffing", hb.Admin.StaffingReportHandler)
	}

	manager := console.Group("")
	manager.Use(middleware.RequireRole(models.RoleManager))
	{
		manager.PUT("/closed-slots/:date", hb.Slots.SetClosedSlotsHandler)
		manager.POST("/closed-slots/:date/open-all", hb.Slots.OpenAllSlotsHandler)
		manager.POST("/closed-slots/:date/close-all", hb.Slots.CloseAllSlotsHandler)

		manager.PUT("/addons/:id", hb.Pricing.UpsertAddOnHandler)
		manager.PATCH("/addons/:id/enabled", hb.Pricing.SetAddOnEnabledHandler)
		manager.PATCH("/packages/:id/availability", hb.Pricing.SetPackageAvailabilityHandler)

		manager.GET("/promos", hb.Pricing.ListPromosHandler)
		manager.POST("/promos", hb.Pricing.CreatePromoHandler)
		manager.PUT("/promos/:code", hb.Pricing.UpdatePromoHandler)
		manager.PATCH("/promos/:code/active", hb.Pricing.SetPromoActiveHandler)
		manager.DELETE("/promos/:code", hb.Pricing.DeletePromoHandler)

		manager.POST("/shifts", hb.Admin.AddShiftHandler)
		manager.DELETE("/shifts/:id", hb.Admin.RemoveShiftHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Authorization", "Content-Type",
			middleware.GuestSessionHeader, middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReferralRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
