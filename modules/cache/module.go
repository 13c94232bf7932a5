package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"

	"github.com/example/storefront/events"
)

// Module exposes the listing cache and keeps it consistent by consuming
// catalog and checkout events.
type Module struct {
	client    *redis.Client
	cache     *Cache
	redisAddr string
	prefix    string
	ttl       time.Duration
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)

// NewModule creates the cache module. The Redis address comes from the
// REDIS_ADDR environment variable and defaults to localhost:6379.
func NewModule() *Module {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &Module{
		redisAddr: addr,
		prefix:    "storefront:",
		ttl:       5 * time.Minute,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Start connects to Redis and builds the cache.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.cache = New(m.client, m.prefix, m.ttl)
	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.redisAddr, m.prefix, m.ttl)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	log.Println("[cache] Module stopped")
	return nil
}

// RegisterEventConsumers subscribes to the events that make cached
// listings stale.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	productDef, ok := registry.GetEventByName("ProductChanged", "v1", "catalog")
	if !ok {
		return fmt.Errorf("event ProductChanged.v1 not found")
	}
	if err := registry.RegisterEventConsumer(productDef, m.handleProductChanged, m); err != nil {
		return fmt.Errorf("failed to register ProductChanged consumer: %w", err)
	}

	orderDef, ok := registry.GetEventByName("OrderPlaced", "v1", "checkout")
	if !ok {
		return fmt.Errorf("event OrderPlaced.v1 not found")
	}
	if err := registry.RegisterEventConsumer(orderDef, m.handleOrderPlaced, m); err != nil {
		return fmt.Errorf("failed to register OrderPlaced consumer: %w", err)
	}

	log.Println("[cache] Registered event consumers for ProductChanged.v1 and OrderPlaced.v1")
	return nil
}

func (m *Module) handleProductChanged(ctx context.Context, msg *mono.Msg) error {
	var event events.ProductChangedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("[cache] Failed to unmarshal ProductChanged event: %v", err)
		return nil // don't retry on unmarshal errors
	}
	if err := m.cache.InvalidateListings(ctx); err != nil {
		log.Printf("[cache] Failed to invalidate listings for product %d: %v", event.ProductID, err)
	}
	return nil
}

func (m *Module) handleOrderPlaced(ctx context.Context, msg *mono.Msg) error {
	var event events.OrderPlacedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("[cache] Failed to unmarshal OrderPlaced event: %v", err)
		return nil
	}
	if err := m.cache.InvalidateListings(ctx); err != nil {
		log.Printf("[cache] Failed to invalidate listings after order %d: %v", event.OperationID, err)
	}
	return nil
}

// Health reports the Redis connection state along with cache counters.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{Healthy: false, Message: "cache not initialized"}
	}
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	stats := m.cache.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"hit_rate": stats.HitRate,
		},
	}
}

// Cache returns the listing cache. Only valid after Start.
func (m *Module) Cache() *Cache {
	return m.cache
}
