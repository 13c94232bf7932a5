// Package auth provides accounts, password hashing and session tokens.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/storefront/modules/storage"
)

// Module provides identity services to the rest of the storefront.
type Module struct {
	store   *storage.Module
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)

// NewModule creates a new auth module backed by the shared storage module.
func NewModule(store *storage.Module) *Module {
	return &Module{store: store}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "auth"
}

// Start wires the repository, hasher and token manager together.
func (m *Module) Start(_ context.Context) error {
	db := m.store.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	jwtManager := NewJWTManager(loadJWTConfig())
	m.service = NewService(repo, hasher, jwtManager)

	log.Println("[auth] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Service returns the account service instance.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	log.Printf("[auth] Registered services: validate-token, get-user")
	return nil
}

// handleValidateToken handles token validation requests.
func (m *Module) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		// Validation failures are a response, not a transport error.
		return ValidateTokenResponse{Valid: false, Error: errMsg}, nil
	}
	return ValidateTokenResponse{Valid: true, UserID: claims.UserID}, nil
}

// handleGetUser handles get user requests.
func (m *Module) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return GetUserResponse{User: ToView(user)}, nil
}

// loadJWTConfig loads token configuration from the environment.
func loadJWTConfig() JWTConfig {
	config := DefaultJWTConfig()
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}
	return config
}
