package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stackd-app/stackd-api/internal/container"
	"github.com/stackd-app/stackd-api/internal/handlers"
	"github.com/stackd-app/stackd-api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(200, gin.H{
				"status":  "OK",
				"service": "stackd-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Signup(c.UserService))
		v1.POST("/login", handlers.Login(c.UserService))
		v1.POST("/logout", handlers.Logout())

		// Stripe calls this directly; it authenticates with its signature,
		// not a session cookie, so it stays outside the auth group.
		v1.POST("/webhooks/stripe", handlers.StripeWebhook(c.BookingService, c.Config.StripeWebhookSecret, c.Logger))

		// Promo validation runs pre-checkout, before the guest signs in.
		v1.POST("/promo/validate", handlers.ValidatePromo(c.PromoService))

		// Password reset is by nature unauthenticated.
		v1.POST("/password-reset/request", handlers.RequestPasswordReset(c.OTPService))
		v1.POST("/password-reset/verify", handlers.VerifyPasswordResetOTP(c.OTPService))
		v1.POST("/password-reset/confirm", handlers.ResetPassword(c.OTPService))

		v1.GET("/vendors/:id/reviews", handlers.ListVendorReviews(c.ReviewService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(c.UserService, c.RoleService, c.Logger))

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("/me", handlers.GetProfile(c.UserService))
		userRoutes.PATCH("/me", handlers.UpdateProfile(c.UserService))
		userRoutes.POST("/me/avatar", handlers.UploadAvatar(c.UserService, c.Cloudinary))
		userRoutes.GET("/me/role", handlers.GetRole(c.RoleService))
		userRoutes.POST("/me/role", handlers.AssignRole(c.RoleService))
	}

	itineraryRoutes := protected.Group("/itinerary")
	{
		itineraryRoutes.GET("/", handlers.ListItinerary(c.ItineraryService))
		itineraryRoutes.POST("/", handlers.AddItineraryItem(c.ItineraryService))
		itineraryRoutes.PUT("/order", handlers.ReorderItinerary(c.ItineraryService))
		itineraryRoutes.POST("/generate", handlers.GenerateItinerary(c.ItineraryService))
		itineraryRoutes.DELETE("/:id", handlers.DeleteItineraryItem(c.ItineraryService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.GET("/", handlers.ListBookings(c.BookingService))
		bookingRoutes.POST("/checkout", handlers.CreateCheckout(c.BookingService))
		bookingRoutes.POST("/:id/cancel", handlers.CancelBooking(c.BookingService))
	}

	vendorRoutes := protected.Group("/vendors")
	{
		vendorRoutes.POST("/", handlers.CreateVendorProfile(c.VendorService))
		vendorRoutes.GET("/me", handlers.GetVendorProfile(c.VendorService))
		vendorRoutes.POST("/me/onboarding", handlers.StartConnectOnboarding(c.PayoutService))
		vendorRoutes.GET("/me/onboarding/status", handlers.ConnectOnboardingStatus(c.PayoutService))
		vendorRoutes.POST("/:id/reviews/refresh", handlers.RefreshVendorReviews(c.ReviewService))
	}

	reviewRoutes := protected.Group("/reviews")
	{
		reviewRoutes.POST("/", handlers.CreateReview(c.ReviewService))
	}

	return r
}
