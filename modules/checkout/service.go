package checkout

import (
	"context"
	"errors"
	"fmt"

	orderdomain "github.com/example/storefront/domain/order"
	"github.com/example/storefront/modules/cart"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoShopSelected is returned when no shop identifier was chosen.
	ErrNoShopSelected = errors.New("no shop selected")
)

// Payment carries the card-like fields of the payment form. They are
// accepted but never validated against any processor.
type Payment struct {
	Name         string
	CardNumber   string
	ExpiryDate   string
	SecurityCode string
}

// CartAccess is the slice of the cart the checkout needs.
type CartAccess interface {
	ListLines(ctx context.Context, userID uint) []cart.Line
	Clear(ctx context.Context, userID uint)
}

// Service drives the checkout flow and order queries.
type Service struct {
	repo      *PurchaseRepository
	carts     CartAccess
	shops     ShopResolver
	assembler *Assembler
	// notify is invoked after a completed checkout. May be nil in tests.
	notify func(operation int, userID, shopID uint, lines int)
}

// NewService creates a new checkout Service.
func NewService(repo *PurchaseRepository, carts CartAccess, shops ShopResolver, assembler *Assembler) *Service {
	return &Service{repo: repo, carts: carts, shops: shops, assembler: assembler}
}

// SetOrderListener registers the order placed callback.
func (s *Service) SetOrderListener(fn func(operation int, userID, shopID uint, lines int)) {
	s.notify = fn
}

// Confirm runs the payment submission: it allocates the next operation
// number, persists one purchase record per cart line and clears the cart.
// The payment fields are accepted unvalidated; once a shop is selected the
// transition always succeeds.
func (s *Service) Confirm(ctx context.Context, userID, shopID uint, _ Payment) (int, error) {
	if shopID == 0 {
		return 0, ErrNoShopSelected
	}
	shop, err := s.shops.GetShop(ctx, shopID)
	if err != nil {
		return 0, err
	}

	lines := s.carts.ListLines(ctx, userID)
	if len(lines) == 0 {
		return 0, ErrEmptyCart
	}

	operation, err := s.repo.CreateOrder(userID, shop.ID, lines)
	if err != nil {
		return 0, fmt.Errorf("failed to persist order: %w", err)
	}

	// The reservation is final now; clearing must not restore stock.
	s.carts.Clear(ctx, userID)

	if s.notify != nil {
		s.notify(operation, userID, shop.ID, len(lines))
	}
	return operation, nil
}

// History returns a user's orders, newest first.
func (s *Service) History(ctx context.Context, userID uint) ([]*Order, error) {
	records, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.assembler.GroupByOperation(ctx, records)
}

// HistoryByOperation returns a user's orders filtered to one operation
// number.
func (s *Service) HistoryByOperation(ctx context.Context, userID uint, operation int) ([]*Order, error) {
	records, err := s.repo.FindByUserAndOperation(userID, operation)
	if err != nil {
		return nil, err
	}
	return s.assembler.GroupByOperation(ctx, records)
}

// Search returns the orders matching an exact operation number, for the
// staff search page.
func (s *Service) Search(ctx context.Context, operation int) ([]*Order, error) {
	records, err := s.repo.FindByOperation(operation)
	if err != nil {
		return nil, err
	}
	return s.assembler.GroupByOperation(ctx, records)
}

// GetOrder returns the order view for one operation number.
func (s *Service) GetOrder(ctx context.Context, operation int) (*Order, error) {
	records, err := s.repo.FindByOperation(operation)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrOrderNotFound
	}
	return s.assembler.BuildOrder(ctx, operation, records)
}

// SetUsed toggles the used flag on one product line of an order (staff
// action).
func (s *Service) SetUsed(_ context.Context, operation int, productID uint, used bool) error {
	return s.repo.SetUsed(operation, productID, used)
}

// ProductPurchased reports whether a product appears in any purchase record.
func (s *Service) ProductPurchased(_ context.Context, productID uint) (bool, error) {
	count, err := s.repo.CountByProduct(productID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteByUser removes a user's purchase records and cart, for account
// deletion.
func (s *Service) DeleteByUser(ctx context.Context, userID uint) error {
	if err := s.repo.DeleteByUser(userID); err != nil {
		return err
	}
	s.carts.Clear(ctx, userID)
	return nil
}

// Records returns the raw purchase records of one user. Used by tests and
// the admin pages that show ungrouped purchases.
func (s *Service) Records(_ context.Context, userID uint) ([]*orderdomain.Purchase, error) {
	return s.repo.FindByUser(userID)
}
