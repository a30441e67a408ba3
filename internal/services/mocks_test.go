package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/stripe"
)

// Mock repositories with settable function fields so each test only wires the
// calls it cares about. An unset field means the test never expects that call.

type fakeBookingRepo struct {
	GetBySessionIDFn func(ctx context.Context, sessionID string) (*models.Booking, error)
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	CreateFn         func(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	UpdateStatusFn   func(ctx context.Context, id uuid.UUID, status string) error
	ListByUserFn     func(ctx context.Context, userID uuid.UUID, accessToken string, offset, limit int) ([]*models.Booking, int, error)
}

func (f *fakeBookingRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Booking, error) {
	return f.GetBySessionIDFn(ctx, sessionID)
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	return f.CreateFn(ctx, booking)
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return f.UpdateStatusFn(ctx, id, status)
}

func (f *fakeBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID, accessToken string, offset, limit int) ([]*models.Booking, int, error) {
	return f.ListByUserFn(ctx, userID, accessToken, offset, limit)
}

type fakeVendorRepo struct {
	GetVendorByIDFn     func(ctx context.Context, id uuid.UUID) (*models.VendorProfile, error)
	GetVendorByUserIDFn func(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error)
	CreateVendorFn      func(ctx context.Context, vendor *models.VendorProfile, accessToken string) (*models.VendorProfile, error)
	UpdateVendorFn      func(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.VendorProfile, error)
}

func (f *fakeVendorRepo) GetVendorByID(ctx context.Context, id uuid.UUID) (*models.VendorProfile, error) {
	return f.GetVendorByIDFn(ctx, id)
}

func (f *fakeVendorRepo) GetVendorByUserID(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error) {
	return f.GetVendorByUserIDFn(ctx, userID)
}

func (f *fakeVendorRepo) CreateVendor(ctx context.Context, vendor *models.VendorProfile, accessToken string) (*models.VendorProfile, error) {
	return f.CreateVendorFn(ctx, vendor, accessToken)
}

func (f *fakeVendorRepo) UpdateVendor(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.VendorProfile, error) {
	return f.UpdateVendorFn(ctx, id, fields)
}

type fakePromoRepo struct {
	ValidatePromoCodeFn func(ctx context.Context, code string, orderAmount float64) (*models.PromoResult, error)
}

func (f *fakePromoRepo) ValidatePromoCode(ctx context.Context, code string, orderAmount float64) (*models.PromoResult, error) {
	return f.ValidatePromoCodeFn(ctx, code, orderAmount)
}

type fakeItineraryRepo struct {
	ListItemsFn        func(ctx context.Context, userID uuid.UUID, accessToken string) ([]*models.ItineraryItem, error)
	CreateItemFn       func(ctx context.Context, item *models.ItineraryItem, accessToken string) (*models.ItineraryItem, error)
	DeleteItemFn       func(ctx context.Context, userID, itemID uuid.UUID, accessToken string) error
	UpdateSortOrdersFn func(ctx context.Context, userID uuid.UUID, updates []models.SortUpdate, accessToken string) error
}

func (f *fakeItineraryRepo) ListItems(ctx context.Context, userID uuid.UUID, accessToken string) ([]*models.ItineraryItem, error) {
	return f.ListItemsFn(ctx, userID, accessToken)
}

func (f *fakeItineraryRepo) CreateItem(ctx context.Context, item *models.ItineraryItem, accessToken string) (*models.ItineraryItem, error) {
	return f.CreateItemFn(ctx, item, accessToken)
}

func (f *fakeItineraryRepo) DeleteItem(ctx context.Context, userID, itemID uuid.UUID, accessToken string) error {
	return f.DeleteItemFn(ctx, userID, itemID, accessToken)
}

func (f *fakeItineraryRepo) UpdateSortOrders(ctx context.Context, userID uuid.UUID, updates []models.SortUpdate, accessToken string) error {
	return f.UpdateSortOrdersFn(ctx, userID, updates, accessToken)
}

type fakeOTPRepo struct {
	CreateOTPFn         func(ctx context.Context, otp *models.PasswordResetOTP) error
	GetActiveOTPFn      func(ctx context.Context, email string) (*models.PasswordResetOTP, error)
	MarkOTPUsedFn       func(ctx context.Context, id uuid.UUID) error
	CleanupExpiredOTPFn func(ctx context.Context) error
}

func (f *fakeOTPRepo) CreateOTP(ctx context.Context, otp *models.PasswordResetOTP) error {
	return f.CreateOTPFn(ctx, otp)
}

func (f *fakeOTPRepo) GetActiveOTP(ctx context.Context, email string) (*models.PasswordResetOTP, error) {
	return f.GetActiveOTPFn(ctx, email)
}

func (f *fakeOTPRepo) MarkOTPUsed(ctx context.Context, id uuid.UUID) error {
	return f.MarkOTPUsedFn(ctx, id)
}

func (f *fakeOTPRepo) CleanupExpiredOTPs(ctx context.Context) error {
	if f.CleanupExpiredOTPFn == nil {
		return nil
	}
	return f.CleanupExpiredOTPFn(ctx)
}

type fakeProfileRepo struct {
	UpdatePasswordFn func(ctx context.Context, email, newPassword string) error
}

func (f *fakeProfileRepo) CreateProfile(ctx context.Context, profile *models.Profile) (interface{}, error) {
	return nil, nil
}

func (f *fakeProfileRepo) AuthenticateUser(ctx context.Context, email, password string) (interface{}, error) {
	return nil, nil
}

func (f *fakeProfileRepo) RefreshToken(ctx context.Context, refreshToken string) (interface{}, error) {
	return nil, nil
}

func (f *fakeProfileRepo) GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*models.Profile, error) {
	return nil, nil
}

func (f *fakeProfileRepo) UpdateProfile(ctx context.Context, fields map[string]interface{}, userID uuid.UUID, accessToken string) (*models.Profile, error) {
	return nil, nil
}

func (f *fakeProfileRepo) UpdatePassword(ctx context.Context, email, newPassword string) error {
	return f.UpdatePasswordFn(ctx, email, newPassword)
}

func (f *fakeProfileRepo) SetAvatarURL(ctx context.Context, userID uuid.UUID, avatarURL string, accessToken string) (string, error) {
	return avatarURL, nil
}

type fakeMailer struct {
	SendFn func(ctx context.Context, to, subject, html string) error
	Sent   []string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html string) error {
	f.Sent = append(f.Sent, to)
	if f.SendFn != nil {
		return f.SendFn(ctx, to, subject, html)
	}
	return nil
}

type fakePayments struct {
	CreateCheckoutSessionFn func(ctx context.Context, params stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func (f *fakePayments) CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return f.CreateCheckoutSessionFn(ctx, params)
}

type fakeConnect struct {
	CreateAccountFn     func(ctx context.Context, email string) (*stripe.Account, error)
	GetAccountFn        func(ctx context.Context, accountID string) (*stripe.Account, error)
	CreateAccountLinkFn func(ctx context.Context, accountID, refreshURL, returnURL string) (*stripe.AccountLink, error)
}

func (f *fakeConnect) CreateAccount(ctx context.Context, email string) (*stripe.Account, error) {
	return f.CreateAccountFn(ctx, email)
}

func (f *fakeConnect) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	return f.GetAccountFn(ctx, accountID)
}

func (f *fakeConnect) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*stripe.AccountLink, error) {
	return f.CreateAccountLinkFn(ctx, accountID, refreshURL, returnURL)
}
