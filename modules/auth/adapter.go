package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for identity lookups from other modules.
type AuthPort interface {
	ValidateToken(ctx context.Context, token string) (uint, error)
	GetUser(ctx context.Context, id uint) (*UserView, error)
}

// authAdapter wraps ServiceContainer for type-safe cross-module communication.
type authAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new adapter for auth services.
func NewAuthAdapter(container mono.ServiceContainer) AuthPort {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &authAdapter{container: container}
}

// ValidateToken validates a session token via the validate-token service.
func (a *authAdapter) ValidateToken(ctx context.Context, token string) (uint, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return 0, fmt.Errorf("validate-token service call failed: %w", err)
	}
	if !resp.Valid {
		return 0, errors.New(resp.Error)
	}
	return resp.UserID, nil
}

// GetUser retrieves a user by id via the get-user service.
func (a *authAdapter) GetUser(ctx context.Context, id uint) (*UserView, error) {
	req := GetUserRequest{UserID: id}
	var resp GetUserResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user service call failed: %w", err)
	}
	return &resp.User, nil
}
