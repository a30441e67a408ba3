package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/stackd-app/stackd-api/internal/ai"
	"github.com/stackd-app/stackd-api/internal/config"
	"github.com/stackd-app/stackd-api/internal/mapbox"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/notify"
	"github.com/stackd-app/stackd-api/internal/places"
	"github.com/stackd-app/stackd-api/internal/services"
	"github.com/stackd-app/stackd-api/internal/stripe"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client

	UserService      *services.UserService
	RoleService      *services.RoleService
	VendorService    *services.VendorService
	ItineraryService *services.ItineraryService
	BookingService   *services.BookingService
	PayoutService    *services.PayoutService
	PromoService     *services.PromoService
	OTPService       *services.OTPService
	ReviewService    *services.ReviewService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, cfg.SupabaseURL, cfg.SupabaseAnonKey)
	mongoRepo := models.MongodbNewRepo(mongoDBClient)

	// External clients
	stripeClient := stripe.New(cfg.StripeSecretKey)
	mailer := notify.NewEmailClient(cfg.ResendAPIKey, cfg.EmailFrom)
	aiClient := ai.New(cfg.AIGatewayKey)
	mapboxClient := mapbox.New(cfg.MapboxAccessToken)

	var google places.ReviewSource
	if cfg.GooglePlacesKey != "" {
		google = places.NewGoogleClient(cfg.GooglePlacesKey)
	}
	var scraper places.ReviewSource
	if cfg.FirecrawlKey != "" {
		scraper = places.NewFirecrawlScraper(cfg.FirecrawlKey)
	}

	userService := services.NewUserService(supa)
	roleService := services.NewRoleService(supa)
	vendorService := services.NewVendorService(supa)
	itineraryService := services.NewItineraryService(supa, aiClient, mapboxClient, logger)
	bookingService := services.NewBookingService(
		supa, supa, supa, stripeClient, mailer, logger,
		cfg.FrontendURL+"/bookings/success",
		cfg.FrontendURL+"/bookings/cancelled",
	)
	payoutService := services.NewPayoutService(
		supa, stripeClient, logger,
		cfg.FrontendURL+"/vendor/onboarding/refresh",
		cfg.FrontendURL+"/vendor/onboarding/complete",
	)
	promoService := services.NewPromoService(supa, logger)
	otpService := services.NewOTPService(supa, supa, mailer, logger)
	reviewService := services.NewReviewService(supa, mongoRepo, supa, google, scraper, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Cloudinary:       cld,
		SupabaseClient:   supabaseClient,
		MongoDBClient:    mongoDBClient,
		UserService:      userService,
		RoleService:      roleService,
		VendorService:    vendorService,
		ItineraryService: itineraryService,
		BookingService:   bookingService,
		PayoutService:    payoutService,
		PromoService:     promoService,
		OTPService:       otpService,
		ReviewService:    reviewService,
	}
}
