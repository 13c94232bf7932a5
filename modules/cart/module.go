// Package cart keeps each user's in-progress selections between requests.
package cart

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	"github.com/example/storefront/modules/catalog"
)

// Module wires the cart service into the application.
type Module struct {
	catalog *catalog.Module
	service *Service
}

var _ mono.Module = (*Module)(nil)

// NewModule creates a new cart module. Stock reservation goes through the
// catalog module.
func NewModule(catalogModule *catalog.Module) *Module {
	return &Module{catalog: catalogModule}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cart"
}

// Start builds the in-memory store and service.
func (m *Module) Start(_ context.Context) error {
	inventory := m.catalog.Service()
	if inventory == nil {
		return fmt.Errorf("catalog module not started")
	}
	m.service = NewService(NewMemoryStore(), inventory)
	log.Println("[cart] Module started")
	return nil
}

// Stop shuts down the module. Cart state is transient and is simply dropped.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[cart] Module stopped")
	return nil
}

// Service returns the cart service instance.
func (m *Module) Service() *Service {
	return m.service
}
