package models

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RoleRepo interface {
	UpsertRole(ctx context.Context, userID uuid.UUID, role string) (*UserRole, error)
	GetRole(ctx context.Context, userID uuid.UUID) (*UserRole, error)
}

// UpsertRole keeps exactly one active role per user: the row is keyed on
// user_id, so assigning a new role overwrites the previous one.
func (su *SupabaseRepo) UpsertRole(ctx context.Context, userID uuid.UUID, role string) (*UserRole, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}

	row := map[string]interface{}{
		"user_id":    userID,
		"role":       role,
		"updated_at": time.Now(),
	}

	raw, count, err := su.supabaseClient.From(UserRolesTable).
		Insert(row, true, "user_id", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to upsert role: %v", err)
	}

	var roles []UserRole
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal role rows: %v", err)
	}
	if count == 0 || len(roles) == 0 {
		return nil, fmt.Errorf("no role row returned after upsert")
	}
	return &roles[0], nil
}

func (su *SupabaseRepo) GetRole(ctx context.Context, userID uuid.UUID) (*UserRole, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}

	raw, _, err := su.supabaseClient.From(UserRolesTable).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %v", err)
	}

	var roles []UserRole
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal role rows: %v", err)
	}
	if len(roles) == 0 {
		return nil, nil
	}
	return &roles[0], nil
}
