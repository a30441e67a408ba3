package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
)

type ProfileRepo interface {
	CreateProfile(ctx context.Context, profile *Profile) (interface{}, error)
	AuthenticateUser(ctx context.Context, email, password string) (interface{}, error)
	RefreshToken(ctx context.Context, refreshToken string) (interface{}, error)
	GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*Profile, error)
	UpdateProfile(ctx context.Context, fields map[string]interface{}, userID uuid.UUID, accessToken string) (*Profile, error)
	UpdatePassword(ctx context.Context, email, newPassword string) error
	SetAvatarURL(ctx context.Context, userID uuid.UUID, avatarURL string, accessToken string) (string, error)
}

func (su *SupabaseRepo) CreateProfile(ctx context.Context, profile *Profile) (interface{}, error) {
	signed := types.SignupRequest{
		Email:    profile.Email,
		Password: profile.Password,
	}

	res, err := su.supabaseClient.Auth.Signup(signed)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "User already Registered") {
			return nil, fmt.Errorf("email already in use")
		}
		if strings.Contains(errMsg, "unique constraint") {
			return nil, fmt.Errorf("user already exists")
		}
		if strings.Contains(errMsg, "invalid input syntax") {
			return nil, fmt.Errorf("invalid input format")
		}
		return nil, fmt.Errorf("failed to create user")
	}
	return res, nil
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (interface{}, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (interface{}, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*Profile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(ProfilesTable).
		Select("id,email,username,fullname,role,bio,phone_number,avatar_url,created_at,updated_at", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %v", err)
	}

	var profiles []Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile rows: %v", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile not found")
	}
	return &profiles[0], nil
}

func (su *SupabaseRepo) UpdateProfile(ctx context.Context, fields map[string]interface{}, userID uuid.UUID, accessToken string) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(ProfilesTable).
		Update(fields, "", "exact").
		Eq("id", userID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %v", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no profile found to update")
	}

	var updated []Profile
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %v", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("no profile data returned after update")
	}
	return &updated[0], nil
}

// UpdatePassword completes the OTP reset flow through the admin API; it needs
// the service-role client.
func (su *SupabaseRepo) UpdatePassword(ctx context.Context, email, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	users, err := su.supabaseClient.Auth.AdminListUsers()
	if err != nil {
		return fmt.Errorf("failed to look up user: %v", err)
	}

	for _, u := range users.Users {
		if strings.EqualFold(u.Email, email) {
			_, err := su.supabaseClient.Auth.AdminUpdateUser(types.AdminUpdateUserRequest{
				UserID:   u.ID,
				Password: newPassword,
			})
			if err != nil {
				return fmt.Errorf("failed to update password: %v", err)
			}
			return nil
		}
	}
	return fmt.Errorf("user not found")
}

func (su *SupabaseRepo) SetAvatarURL(ctx context.Context, userID uuid.UUID, avatarURL string, accessToken string) (string, error) {
	updated, err := su.UpdateProfile(ctx, map[string]interface{}{
		"avatar_url": avatarURL,
	}, userID, accessToken)
	if err != nil {
		return "", fmt.Errorf("failed to set avatar: %v", err)
	}
	return updated.AvatarURL, nil
}
