// Package catalog provides products, categories and stock reservation.
package catalog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"

	"github.com/example/storefront/events"
	"github.com/example/storefront/modules/storage"
)

// Module wires the catalog service into the application.
type Module struct {
	store    *storage.Module
	service  *Service
	eventBus mono.EventBus
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventBusAwareModule = (*Module)(nil)
	_ mono.EventEmitterModule  = (*Module)(nil)
)

// NewModule creates a new catalog module backed by the shared storage module.
func NewModule(store *storage.Module) *Module {
	return &Module{store: store}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.ProductChangedV1.ToBase(),
	}
}

// Start wires the repositories and service together.
func (m *Module) Start(_ context.Context) error {
	db := m.store.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}

	m.service = NewService(NewProductRepository(db), NewCategoryRepository(db))
	m.service.SetChangeListener(m.publishProductChanged)

	log.Println("[catalog] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[catalog] Module stopped")
	return nil
}

// Service returns the catalog service instance.
func (m *Module) Service() *Service {
	return m.service
}

// publishProductChanged publishes a ProductChanged event.
func (m *Module) publishProductChanged(productID uint) {
	if m.eventBus == nil {
		return
	}
	event := events.ProductChangedEvent{
		ProductID: productID,
		ChangedAt: time.Now(),
	}
	if err := events.ProductChangedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[catalog] Failed to publish ProductChanged: %v", err)
	}
}
