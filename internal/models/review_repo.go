package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ScrapedReviewDbName  = "stackd"
	ScrapedReviewColName = "scraped_reviews"
)

type ReviewRepo interface {
	CreateReview(ctx context.Context, review *Review, accessToken string) (*Review, error)
	ListReviewsByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Review, error)
}

// ReviewCacheRepo holds scraped third-party reviews. The cache is replaced
// wholesale on each refresh.
type ReviewCacheRepo interface {
	ReplaceScrapedReviews(ctx context.Context, vendorID uuid.UUID, reviews []*ScrapedReview) error
	ListScrapedReviews(ctx context.Context, vendorID uuid.UUID) ([]*ScrapedReview, error)
}

func (su *SupabaseRepo) CreateReview(ctx context.Context, review *Review, accessToken string) (*Review, error) {
	if err := Validate.Struct(review); err != nil {
		return nil, fmt.Errorf("invalid review data: %v", err)
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(ReviewsTable).
		Insert(review, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert review: %v", err)
	}

	var created []Review
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created review: %v", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no review row returned after insert")
	}
	return &created[0], nil
}

func (su *SupabaseRepo) ListReviewsByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Review, error) {
	if vendorID == uuid.Nil {
		return nil, fmt.Errorf("invalid vendor ID")
	}

	raw, _, err := su.supabaseClient.From(ReviewsTable).
		Select("*", "", false).
		Eq("vendor_profile_id", vendorID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %v", err)
	}

	var rows []Review
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reviews: %v", err)
	}

	reviews := make([]*Review, 0, len(rows))
	for i := range rows {
		reviews = append(reviews, &rows[i])
	}
	return reviews, nil
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}

func (mdb *MongodbRepo) ReplaceScrapedReviews(ctx context.Context, vendorID uuid.UUID, reviews []*ScrapedReview) error {
	if vendorID == uuid.Nil {
		return fmt.Errorf("invalid vendor ID")
	}

	col, err := mdb.GetCollection(ctx, ScrapedReviewDbName, ScrapedReviewColName)
	if err != nil {
		return err
	}

	if _, err := col.DeleteMany(ctx, bson.M{"vendor_profile_id": vendorID}); err != nil {
		return fmt.Errorf("failed to clear scraped reviews: %w", err)
	}

	if len(reviews) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(reviews))
	for _, r := range reviews {
		r.BeforeCreate()
		r.VendorProfileID = vendorID
		docs = append(docs, r)
	}

	if _, err := col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert scraped reviews: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) ListScrapedReviews(ctx context.Context, vendorID uuid.UUID) ([]*ScrapedReview, error) {
	if vendorID == uuid.Nil {
		return nil, fmt.Errorf("invalid vendor ID")
	}

	col, err := mdb.GetCollection(ctx, ScrapedReviewDbName, ScrapedReviewColName)
	if err != nil {
		return nil, err
	}

	cur, err := col.Find(ctx, bson.M{"vendor_profile_id": vendorID},
		options.Find().SetSort(bson.M{"scraped_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query scraped reviews: %w", err)
	}
	defer cur.Close(ctx)

	var reviews []*ScrapedReview
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode scraped reviews: %w", err)
	}
	return reviews, nil
}
