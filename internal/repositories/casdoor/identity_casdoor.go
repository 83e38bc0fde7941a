package casdoor

import (
	"context"
	"fmt"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// IdentityCasdoor implements the IdentityDirectory against the Casdoor
// admin API. It holds no local state; every call delegates.
type IdentityCasdoor struct {
	client *casdoorsdk.Client
	config CasdoorConfig
}

func NewIdentityCasdoor(config CasdoorConfig) repositories.IdentityDirectory {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &IdentityCasdoor{
		client: client,
		config: config,
	}
}

// ===== READ OPERATIONS =====

func (d *IdentityCasdoor) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	casdoorUser, err := d.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with ID %s", id)
	}

	return &models.Identity{ID: casdoorUser.Id, Email: casdoorUser.Email}, nil
}

func (d *IdentityCasdoor) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	casdoorUser, err := d.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with email %s", email)
	}

	return &models.Identity{ID: casdoorUser.Id, Email: casdoorUser.Email}, nil
}

// ===== ADMIN OPERATIONS =====

// Create registers a new identity. The role travels in the user's
// auxiliary properties so external consumers can read it without a
// profile lookup.
func (d *IdentityCasdoor) Create(ctx context.Context, email, password, displayName string, role models.UserRole) (string, error) {
	id := uuid.NewString()
	casdoorUser := &casdoorsdk.User{
		Owner:       d.config.OrganizationName,
		Name:        id,
		Id:          id,
		DisplayName: displayName,
		Email:       email,
		Password:    password,
		Type:        string(role),
		Properties:  map[string]string{"role": string(role)},
		SignupApplication: d.config.ApplicationName,
	}

	ok, err := d.client.AddUser(casdoorUser)
	if err != nil {
		return "", fmt.Errorf("failed to create user in Casdoor: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("Casdoor rejected user creation for %s", email)
	}

	return id, nil
}

// UpdateRoleMetadata mirrors a profile role change into the identity's
// auxiliary metadata at the auth provider.
func (d *IdentityCasdoor) UpdateRoleMetadata(ctx context.Context, id string, role models.UserRole) error {
	casdoorUser, err := d.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return fmt.Errorf("user not found with ID %s", id)
	}

	casdoorUser.Type = string(role)
	if casdoorUser.Properties == nil {
		casdoorUser.Properties = map[string]string{}
	}
	casdoorUser.Properties["role"] = string(role)

	ok, err := d.client.UpdateUserForColumns(casdoorUser, []string{"type", "properties"})
	if err != nil {
		return fmt.Errorf("failed to update user role in Casdoor: %w", err)
	}
	if !ok {
		return fmt.Errorf("Casdoor rejected role update for user %s", id)
	}

	return nil
}

// SetPassword applies a password reset for the recovery flow.
func (d *IdentityCasdoor) SetPassword(ctx context.Context, id, newPassword string) error {
	casdoorUser, err := d.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return fmt.Errorf("user not found with ID %s", id)
	}

	ok, err := d.client.SetPassword(casdoorUser.Owner, casdoorUser.Name, "", newPassword)
	if err != nil {
		return fmt.Errorf("failed to set password in Casdoor: %w", err)
	}
	if !ok {
		return fmt.Errorf("Casdoor rejected password reset for user %s", id)
	}

	return nil
}
