package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/helpers"
	"github.com/stackd-app/stackd-api/internal/models"
)

type UserService struct {
	profileRepo models.ProfileRepo
}

func NewUserService(profileRepo models.ProfileRepo) *UserService {
	return &UserService{
		profileRepo: profileRepo,
	}
}

func (us *UserService) CreateUser(profile *models.Profile) (interface{}, error) {
	if err := models.Validate.Struct(profile); err != nil {
		return nil, err
	}

	if !helpers.IsPasswordStrong(profile.Password) {
		return nil, fmt.Errorf("password is not strong enough")
	}

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	return us.profileRepo.CreateProfile(context.Background(), profile)
}

func (us *UserService) AuthenticateUser(email, password string) (interface{}, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, fmt.Errorf("invalid password format: %v", err)
	}

	response, err := us.profileRepo.AuthenticateUser(context.Background(), email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}
	return response, nil
}

func (us *UserService) RefreshToken(refreshToken string) (interface{}, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := us.profileRepo.RefreshToken(context.Background(), refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return response, nil
}

func (us *UserService) GetProfile(id uuid.UUID, accessToken string) (*models.Profile, error) {
	res, err := us.profileRepo.GetProfile(context.Background(), id, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %v", err)
	}
	return res, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, fields map[string]interface{}, userID uuid.UUID, accessToken string) (*models.Profile, error) {
	fields["updated_at"] = time.Now()

	updated, err := us.profileRepo.UpdateProfile(ctx, fields, userID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %v", err)
	}
	return updated, nil
}

func (us *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string, accessToken string) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("no valid UUID provided")
	}
	return us.profileRepo.SetAvatarURL(ctx, userID, avatarURL, accessToken)
}
