package cart

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/example/storefront/domain/catalog"
	"github.com/example/storefront/modules/catalog"
)

var (
	// ErrQuantityTooLow is returned when the requested quantity is below 1.
	ErrQuantityTooLow = errors.New("quantity must be at least 1")
	// ErrLineNotFound is returned when a cart line number does not exist.
	ErrLineNotFound = errors.New("cart line not found")
)

// InsufficientStockError reports a failed reservation together with the
// currently available count.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available", e.Available)
}

// Inventory is the slice of the catalog the cart needs: product lookup and
// stock reservation.
type Inventory interface {
	GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error)
	Reserve(ctx context.Context, id uint, qty int) (int, error)
	Release(ctx context.Context, id uint, qty int) error
}

// Service accumulates cart lines and keeps the stock of record in step with
// the reservations they represent.
type Service struct {
	store     Store
	inventory Inventory
}

// NewService creates a new cart Service.
func NewService(store Store, inventory Inventory) *Service {
	return &Service{store: store, inventory: inventory}
}

// AddLine reserves qty units of the product and appends a cart line capturing
// the product's name and price at add time. The reservation is tentative:
// removing the line returns the units, clearing the cart after checkout does
// not.
func (s *Service) AddLine(ctx context.Context, userID, productID uint, qty int) (Line, error) {
	if qty < 1 {
		return Line{}, ErrQuantityTooLow
	}

	product, err := s.inventory.GetProduct(ctx, productID)
	if err != nil {
		return Line{}, err
	}

	available, err := s.inventory.Reserve(ctx, productID, qty)
	if err != nil {
		if errors.Is(err, catalog.ErrInsufficientStock) {
			return Line{}, &InsufficientStockError{Available: available}
		}
		return Line{}, err
	}

	line := s.store.Append(userID, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Count:     qty,
	})
	return line, nil
}

// RemoveLine returns the line's reserved units to stock and drops the line.
// The line stays in the cart while the release fails so the units are not
// stranded.
func (s *Service) RemoveLine(ctx context.Context, userID uint, number int) error {
	var found *Line
	for _, line := range s.store.Get(userID) {
		if line.Number == number {
			found = &line
			break
		}
	}
	if found == nil {
		return ErrLineNotFound
	}
	if err := s.inventory.Release(ctx, found.ProductID, found.Count); err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	s.store.Remove(userID, number)
	return nil
}

// ListLines returns the user's lines in insertion order; empty when the user
// has no cart.
func (s *Service) ListLines(_ context.Context, userID uint) []Line {
	return s.store.Get(userID)
}

// TotalCost sums price times count over the user's lines.
func (s *Service) TotalCost(_ context.Context, userID uint) float64 {
	var total float64
	for _, line := range s.store.Get(userID) {
		total += line.Price * float64(line.Count)
	}
	return total
}

// Clear drops the user's cart without releasing stock; used after checkout,
// when the reservation becomes final, and on account deletion.
func (s *Service) Clear(_ context.Context, userID uint) {
	s.store.Delete(userID)
}
