package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a first-party review written by a Stackd user, stored in the
// Supabase reviews table.
type Review struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	VendorProfileID uuid.UUID `db:"vendor_profile_id" json:"vendor_profile_id"`
	Rating          int       `db:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment         string    `db:"comment" json:"comment"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

const (
	ReviewSourceGoogle    = "google_places"
	ReviewSourceFirecrawl = "firecrawl"
)

// ScrapedReview is a third-party review pulled from Google Places or a
// Firecrawl scrape. These are cached in MongoDB rather than Supabase since
// they are replaced wholesale on every refresh.
type ScrapedReview struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorProfileID uuid.UUID          `bson:"vendor_profile_id" json:"vendor_profile_id"`
	Author          string             `bson:"author" json:"author"`
	Rating          float64            `bson:"rating" json:"rating"`
	Text            string             `bson:"text" json:"text"`
	Source          string             `bson:"source" json:"source"`
	ScrapedAt       time.Time          `bson:"scraped_at" json:"scraped_at"`
}

func (r *ScrapedReview) BeforeCreate() {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.ScrapedAt.IsZero() {
		r.ScrapedAt = time.Now()
	}
}
