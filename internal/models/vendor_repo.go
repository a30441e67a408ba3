package models

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type VendorRepo interface {
	GetVendorByID(ctx context.Context, id uuid.UUID) (*VendorProfile, error)
	GetVendorByUserID(ctx context.Context, userID uuid.UUID) (*VendorProfile, error)
	CreateVendor(ctx context.Context, vendor *VendorProfile, accessToken string) (*VendorProfile, error)
	UpdateVendor(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*VendorProfile, error)
}

func (su *SupabaseRepo) GetVendorByID(ctx context.Context, id uuid.UUID) (*VendorProfile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	return su.getVendor(ctx, "id", id.String())
}

func (su *SupabaseRepo) GetVendorByUserID(ctx context.Context, userID uuid.UUID) (*VendorProfile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	return su.getVendor(ctx, "user_id", userID.String())
}

func (su *SupabaseRepo) getVendor(ctx context.Context, column, value string) (*VendorProfile, error) {
	raw, _, err := su.supabaseClient.From(VendorProfilesTable).
		Select("*", "", false).
		Eq(column, value).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor profile: %v", err)
	}

	var vendors []VendorProfile
	if err := json.Unmarshal(raw, &vendors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vendor rows: %v", err)
	}
	if len(vendors) == 0 {
		return nil, nil
	}
	return &vendors[0], nil
}

func (su *SupabaseRepo) CreateVendor(ctx context.Context, vendor *VendorProfile, accessToken string) (*VendorProfile, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(VendorProfilesTable).
		Insert(vendor, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert vendor profile: %v", err)
	}

	var created []VendorProfile
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created vendor: %v", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no vendor row returned after insert")
	}
	return &created[0], nil
}

func (su *SupabaseRepo) UpdateVendor(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*VendorProfile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	fields["updated_at"] = time.Now()

	raw, count, err := su.supabaseClient.From(VendorProfilesTable).
		Update(fields, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update vendor profile: %v", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no vendor profile found to update")
	}

	var updated []VendorProfile
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated vendor: %v", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("no vendor data returned after update")
	}
	return &updated[0], nil
}
