// Package events holds the typed event definitions shared between modules.
package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// ProductChangedEvent is emitted whenever a product row is created, updated,
// removed or has its stock adjusted. Consumers use it to drop stale listing
// pages.
type ProductChangedEvent struct {
	ProductID uint      `json:"product_id"`
	ChangedAt time.Time `json:"changed_at"`
}

// ProductChangedV1 is the typed event definition for product changes.
// Subject: events.catalog.v1.product-changed
var ProductChangedV1 = helper.EventDefinition[ProductChangedEvent](
	"catalog", "ProductChanged", "v1",
)

// OrderPlacedEvent is emitted when a checkout completes.
type OrderPlacedEvent struct {
	OperationID int       `json:"operation_id"`
	UserID      uint      `json:"user_id"`
	ShopID      uint      `json:"shop_id"`
	Lines       int       `json:"lines"`
	PlacedAt    time.Time `json:"placed_at"`
}

// OrderPlacedV1 is the typed event definition for completed checkouts.
// Subject: events.checkout.v1.order-placed
var OrderPlacedV1 = helper.EventDefinition[OrderPlacedEvent](
	"checkout", "OrderPlaced", "v1",
)
