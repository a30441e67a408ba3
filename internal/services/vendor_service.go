package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
)

type VendorService struct {
	vendorRepo models.VendorRepo
}

func NewVendorService(vendorRepo models.VendorRepo) *VendorService {
	return &VendorService{
		vendorRepo: vendorRepo,
	}
}

// CreateVendorProfile registers the caller as a vendor. One profile per user.
func (vs *VendorService) CreateVendorProfile(ctx context.Context, vendor *models.VendorProfile, accessToken string) (*models.VendorProfile, error) {
	if vendor.UserID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	if strings.TrimSpace(vendor.BusinessName) == "" {
		return nil, fmt.Errorf("business name is required")
	}

	existing, err := vs.vendorRepo.GetVendorByUserID(ctx, vendor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check vendor profile: %v", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("vendor profile already exists")
	}

	if vendor.ID == uuid.Nil {
		vendor.ID = uuid.New()
	}
	now := time.Now()
	vendor.CreatedAt = now
	vendor.UpdatedAt = now
	vendor.StripeOnboardingComplete = false

	return vs.vendorRepo.CreateVendor(ctx, vendor, accessToken)
}

func (vs *VendorService) GetVendorProfile(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	return vs.vendorRepo.GetVendorByUserID(ctx, userID)
}
