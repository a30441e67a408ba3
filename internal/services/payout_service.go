package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/stripe"
)

// ConnectClient is the slice of the Stripe API vendor onboarding needs.
type ConnectClient interface {
	CreateAccount(ctx context.Context, email string) (*stripe.Account, error)
	GetAccount(ctx context.Context, accountID string) (*stripe.Account, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*stripe.AccountLink, error)
}

type PayoutService struct {
	vendorRepo models.VendorRepo
	connect    ConnectClient
	logger     *slog.Logger
	refreshURL string
	returnURL  string
}

func NewPayoutService(vendorRepo models.VendorRepo, connect ConnectClient, logger *slog.Logger, refreshURL, returnURL string) *PayoutService {
	return &PayoutService{
		vendorRepo: vendorRepo,
		connect:    connect,
		logger:     logger,
		refreshURL: refreshURL,
		returnURL:  returnURL,
	}
}

// StartOnboarding lazily creates the vendor's Express account on first use
// and returns a fresh onboarding link.
func (ps *PayoutService) StartOnboarding(ctx context.Context, userID uuid.UUID) (string, error) {
	vendor, err := ps.vendorRepo.GetVendorByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load vendor profile: %v", err)
	}
	if vendor == nil {
		return "", fmt.Errorf("no vendor profile for this user")
	}

	accountID := vendor.StripeAccountID
	if accountID == "" {
		account, err := ps.connect.CreateAccount(ctx, vendor.ContactEmail)
		if err != nil {
			return "", fmt.Errorf("failed to create connect account: %v", err)
		}
		accountID = account.ID

		if _, err := ps.vendorRepo.UpdateVendor(ctx, vendor.ID, map[string]interface{}{
			"stripe_account_id": accountID,
		}); err != nil {
			return "", fmt.Errorf("failed to persist connect account: %v", err)
		}
		ps.logger.Info("Created connect account", "vendor_id", vendor.ID, "account_id", accountID)
	}

	link, err := ps.connect.CreateAccountLink(ctx, accountID, ps.refreshURL, ps.returnURL)
	if err != nil {
		return "", fmt.Errorf("failed to create onboarding link: %v", err)
	}
	return link.URL, nil
}

// RefreshOnboardingStatus polls Stripe for the account state and persists the
// onboarding-complete flag. Payout UI gates on the stored flag, so a vendor
// only unlocks payouts once Stripe reports the account fully enabled.
func (ps *PayoutService) RefreshOnboardingStatus(ctx context.Context, userID uuid.UUID) (bool, error) {
	vendor, err := ps.vendorRepo.GetVendorByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load vendor profile: %v", err)
	}
	if vendor == nil {
		return false, fmt.Errorf("no vendor profile for this user")
	}
	if vendor.StripeAccountID == "" {
		return false, nil
	}

	account, err := ps.connect.GetAccount(ctx, vendor.StripeAccountID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch connect account: %v", err)
	}

	complete := account.DetailsSubmitted && account.ChargesEnabled && account.PayoutsEnabled
	if complete != vendor.StripeOnboardingComplete {
		if _, err := ps.vendorRepo.UpdateVendor(ctx, vendor.ID, map[string]interface{}{
			"stripe_onboarding_complete": complete,
		}); err != nil {
			return complete, fmt.Errorf("failed to persist onboarding status: %v", err)
		}
		ps.logger.Info("Onboarding status changed", "vendor_id", vendor.ID, "complete", complete)
	}
	return complete, nil
}
