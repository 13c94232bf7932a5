// Package checkout persists orders and rebuilds them for display.
package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"

	"github.com/example/storefront/events"
	"github.com/example/storefront/modules/cart"
	"github.com/example/storefront/modules/catalog"
	"github.com/example/storefront/modules/shop"
	"github.com/example/storefront/modules/storage"
)

// Module wires the checkout service into the application.
type Module struct {
	store    *storage.Module
	catalog  *catalog.Module
	shops    *shop.Module
	carts    *cart.Module
	service  *Service
	eventBus mono.EventBus
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventBusAwareModule = (*Module)(nil)
	_ mono.EventEmitterModule  = (*Module)(nil)
)

// NewModule creates a new checkout module.
func NewModule(store *storage.Module, catalogModule *catalog.Module, shopModule *shop.Module, cartModule *cart.Module) *Module {
	return &Module{
		store:   store,
		catalog: catalogModule,
		shops:   shopModule,
		carts:   cartModule,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "checkout"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.OrderPlacedV1.ToBase(),
	}
}

// Start wires the repository, assembler and service together.
func (m *Module) Start(_ context.Context) error {
	db := m.store.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}
	catalogSvc := m.catalog.Service()
	shopSvc := m.shops.Service()
	cartSvc := m.carts.Service()
	if catalogSvc == nil || shopSvc == nil || cartSvc == nil {
		return fmt.Errorf("catalog, shop and cart modules must start before checkout")
	}

	repo := NewPurchaseRepository(db)
	assembler := NewAssembler(catalogSvc, shopSvc)
	m.service = NewService(repo, cartSvc, shopSvc, assembler)
	m.service.SetOrderListener(m.publishOrderPlaced)

	log.Println("[checkout] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[checkout] Module stopped")
	return nil
}

// Service returns the checkout service instance.
func (m *Module) Service() *Service {
	return m.service
}

// publishOrderPlaced publishes an OrderPlaced event.
func (m *Module) publishOrderPlaced(operation int, userID, shopID uint, lines int) {
	if m.eventBus == nil {
		return
	}
	event := events.OrderPlacedEvent{
		OperationID: operation,
		UserID:      userID,
		ShopID:      shopID,
		Lines:       lines,
		PlacedAt:    time.Now(),
	}
	if err := events.OrderPlacedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[checkout] Failed to publish OrderPlaced: %v", err)
	}
}
