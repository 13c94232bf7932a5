package checkout

import (
	"context"

	catalogdomain "github.com/example/storefront/domain/catalog"
	orderdomain "github.com/example/storefront/domain/order"
	shopdomain "github.com/example/storefront/domain/shop"
)

// OrderLine is one resolved product line of a displayed order.
type OrderLine struct {
	Product *catalogdomain.Product
	Count   int
	Used    bool
}

// Order is the derived view of one checkout: the purchase records of one
// operation number grouped and resolved for display. It is reconstructed on
// read, never stored.
type Order struct {
	OperationID int
	Shop        *shopdomain.Shop
	BuyerID     uint
	Lines       []OrderLine
}

// ProductResolver resolves product references while assembling orders.
type ProductResolver interface {
	GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error)
}

// ShopResolver resolves shop references while assembling orders.
type ShopResolver interface {
	GetShop(ctx context.Context, id uint) (*shopdomain.Shop, error)
}

// Assembler turns flat purchase records into grouped order views.
type Assembler struct {
	products ProductResolver
	shops    ShopResolver
}

// NewAssembler creates a new order Assembler.
func NewAssembler(products ProductResolver, shops ShopResolver) *Assembler {
	return &Assembler{products: products, shops: shops}
}

// GroupByOperation groups records by operation number, in first-seen order.
// The shop and buyer of each order come from the group's first record; all
// records of a group share them by construction at checkout time.
func (a *Assembler) GroupByOperation(ctx context.Context, records []*orderdomain.Purchase) ([]*Order, error) {
	var orders []*Order
	seen := make(map[int]bool)
	for _, record := range records {
		if seen[record.OperationID] {
			continue
		}
		seen[record.OperationID] = true
		order, err := a.BuildOrder(ctx, record.OperationID, records)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// BuildOrder filters records to one operation number and resolves each
// product reference into a displayable line.
func (a *Assembler) BuildOrder(ctx context.Context, operation int, records []*orderdomain.Purchase) (*Order, error) {
	order := &Order{OperationID: operation}
	for _, record := range records {
		if record.OperationID != operation {
			continue
		}
		if order.Shop == nil {
			shop, err := a.shops.GetShop(ctx, record.ShopID)
			if err != nil {
				return nil, err
			}
			order.Shop = shop
			order.BuyerID = record.UserID
		}
		product, err := a.products.GetProduct(ctx, record.ProductID)
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, OrderLine{
			Product: product,
			Count:   record.Count,
			Used:    record.IsUsed,
		})
	}
	if order.Shop == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
