// Package shop provides the pickup shop directory.
package shop

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	domain "github.com/example/storefront/domain/shop"
	"github.com/example/storefront/modules/storage"
)

// ErrEmptyName is returned when a shop name is blank.
var ErrEmptyName = errors.New("shop name must not be empty")

// Service handles shop business logic.
type Service struct {
	repo *Repository
}

// NewService creates a new shop Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateShop validates and stores a new shop.
func (s *Service) CreateShop(_ context.Context, name, location string) (*domain.Shop, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	shop := &domain.Shop{Name: name, Location: location, IsActive: true}
	if err := s.repo.Create(shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// GetShop retrieves a shop by id.
func (s *Service) GetShop(_ context.Context, id uint) (*domain.Shop, error) {
	return s.repo.FindByID(id)
}

// ListShops retrieves the active shops.
func (s *Service) ListShops(_ context.Context) ([]*domain.Shop, error) {
	return s.repo.FindActive()
}

// UpdateShop rewrites the name and location of a shop.
func (s *Service) UpdateShop(_ context.Context, id uint, name, location string) error {
	if name == "" {
		return ErrEmptyName
	}
	return s.repo.Update(id, name, location)
}

// DeactivateShop soft-deletes a shop.
func (s *Service) DeactivateShop(_ context.Context, id uint) error {
	return s.repo.Deactivate(id)
}

// Module wires the shop service into the application.
type Module struct {
	store   *storage.Module
	service *Service
}

var _ mono.Module = (*Module)(nil)

// NewModule creates a new shop module backed by the shared storage module.
func NewModule(store *storage.Module) *Module {
	return &Module{store: store}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "shop"
}

// Start wires the repository and service together.
func (m *Module) Start(_ context.Context) error {
	db := m.store.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}
	m.service = NewService(NewRepository(db))
	log.Println("[shop] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[shop] Module stopped")
	return nil
}

// Service returns the shop service instance.
func (m *Module) Service() *Service {
	return m.service
}
