package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
)

type RoleService struct {
	roleRepo models.RoleRepo
}

func NewRoleService(roleRepo models.RoleRepo) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
	}
}

// AssignRole upserts the user's single active role. A malformed role is a
// validation error, not an upstream failure.
func (rs *RoleService) AssignRole(ctx context.Context, userID uuid.UUID, role string) (*models.UserRole, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("role must be one of user, host, vendor")
	}
	return rs.roleRepo.UpsertRole(ctx, userID, role)
}

func (rs *RoleService) GetRole(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("invalid user ID")
	}

	role, err := rs.roleRepo.GetRole(ctx, userID)
	if err != nil {
		return "", err
	}
	if role == nil {
		return models.RoleUser, nil
	}
	return role.Role, nil
}
