package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port                string
	SupabaseURL         string
	SupabaseAnonKey     string
	SupabaseServiceKey  string
	MongoDBURI          string
	StripeSecretKey     string
	StripeWebhookSecret string
	AIGatewayKey        string
	MapboxAccessToken   string
	GooglePlacesKey     string
	FirecrawlKey        string
	ResendAPIKey        string
	EmailFrom           string
	FrontendURL         string
	AllowedOrigins      []string
	Environment         string
	LogLevel            string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnvWithDefault("PORT", "8080"),
		SupabaseURL:         os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:     os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceKey:  os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		MongoDBURI:          os.Getenv("MONGODB_URI"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		AIGatewayKey:        os.Getenv("AI_GATEWAY_API_KEY"),
		MapboxAccessToken:   os.Getenv("MAPBOX_ACCESS_TOKEN"),
		GooglePlacesKey:     os.Getenv("GOOGLE_PLACES_API_KEY"),
		FirecrawlKey:        os.Getenv("FIRECRAWL_API_KEY"),
		ResendAPIKey:        os.Getenv("RESEND_API_KEY"),
		EmailFrom:           getEnvWithDefault("EMAIL_FROM", "Stackd <noreply@stackd.app>"),
		FrontendURL:         getEnvWithDefault("FRONTEND_URL", "http://localhost:3000"),
		Environment:         getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// One allow-list for every route; the per-function drift the old edge
	// functions had is gone on purpose.
	origins := getEnvWithDefault("ALLOWED_ORIGINS", cfg.FrontendURL)
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if cfg.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	// Refusing to boot without the signing secret closes the unsigned-webhook
	// gap instead of falling back to trusting payloads.
	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
