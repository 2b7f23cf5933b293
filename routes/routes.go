package routes

import (
	"net/http"
	"time"

	"villamar/handlers"
	"villamar/middleware"
	"villamar/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers wired in main.
type HandlerBundle struct {
	Booking  *handlers.BookingHandler
	Checkout *handlers.CheckoutHandler
	Webhook  *handlers.WebhookHandler
	Villa    *handlers.VillaHandler
	Admin    *handlers.AdminHandler
	Storage  *handlers.StorageHandler
}

// RegisterVillaRoutes registers the public catalog endpoints.
func RegisterVillaRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/villas")
	{
		api.GET("", hb.Villa.ListVillas)
		api.GET("/:slug", hb.Villa.GetVillaBySlug)
	}
	r.GET("/api/media/:publicID", hb.Storage.GetImageURLHandler)
}

// RegisterBookingRoutes sets up the endpoints for the booking dialog.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.POST("/session", hb.Booking.InitiateSession)
		bookingGroup.GET("/session/:sessionID", hb.Booking.GetSession)
		bookingGroup.PUT("/session/:sessionID/stay", hb.Booking.SetStay)
		bookingGroup.POST("/session/:sessionID/back", hb.Booking.Back)
		bookingGroup.POST("/session/:sessionID/checkout", hb.Checkout.CreateCheckoutSession)
		bookingGroup.GET("/session/:sessionID/confirmation", hb.Booking.Confirmation)
		bookingGroup.DELETE("/session/:sessionID", hb.Booking.CancelSession)
	}
}

// RegisterWebhookRoutes registers payment provider callbacks. No auth
// middleware here; the signature check is the authentication.
func RegisterWebhookRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.POST("/api/webhooks/stripe", hb.Webhook.HandleStripeEvent)
}

// RegisterAdminRoutes sets up endpoints for back-office operations.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.POST("/api/admin/login", hb.Admin.Login)

	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/dashboard", hb.Admin.Dashboard)
		adminGroup.GET("/bookings", hb.Admin.ListBookings)
		adminGroup.GET("/bookings/:id", hb.Admin.GetBooking)
		adminGroup.PATCH("/bookings/:id/status", hb.Admin.UpdateBookingStatus)
		adminGroup.POST("/villas", hb.Admin.CreateVilla)
		adminGroup.PUT("/villas/:id", hb.Admin.UpdateVilla)
		adminGroup.DELETE("/villas/:id", hb.Admin.DeactivateVilla)
		adminGroup.POST("/villas/:id/images", hb.Storage.UploadVillaImageHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterVillaRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
