package catalog

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/storefront/domain/catalog"
)

// Service handles catalog business logic for products and categories.
type Service struct {
	products   *ProductRepository
	categories *CategoryRepository
	// notify is invoked after any product mutation so listeners can drop
	// stale listing pages. May be nil in tests.
	notify func(productID uint)
}

// NewService creates a new catalog Service.
func NewService(products *ProductRepository, categories *CategoryRepository) *Service {
	return &Service{products: products, categories: categories}
}

// SetChangeListener registers the product change callback.
func (s *Service) SetChangeListener(fn func(productID uint)) {
	s.notify = fn
}

func (s *Service) productChanged(id uint) {
	if s.notify != nil {
		s.notify(id)
	}
}

// CreateProduct validates and stores a new product.
func (s *Service) CreateProduct(_ context.Context, p *domain.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrProductInvalid)
	}
	if p.Price < 0 || p.Count < 0 {
		return fmt.Errorf("%w: price and count must not be negative", ErrProductInvalid)
	}
	if _, err := s.categories.FindByID(p.CategoryID); err != nil {
		return err
	}
	p.IsActive = true
	if err := s.products.Create(p); err != nil {
		return err
	}
	s.productChanged(p.ID)
	return nil
}

// ErrProductInvalid is returned when product form input fails validation.
var ErrProductInvalid = errors.New("invalid product")

// GetProduct retrieves a product by id.
func (s *Service) GetProduct(_ context.Context, id uint) (*domain.Product, error) {
	return s.products.FindByID(id)
}

// ListProducts retrieves products matching the filter.
func (s *Service) ListProducts(_ context.Context, filter ListFilter) ([]*domain.Product, error) {
	return s.products.List(filter)
}

// UpdateProduct rewrites the editable fields of a product, under the same
// validation as creation.
func (s *Service) UpdateProduct(_ context.Context, p *domain.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrProductInvalid)
	}
	if p.Price < 0 || p.Count < 0 {
		return fmt.Errorf("%w: price and count must not be negative", ErrProductInvalid)
	}
	if _, err := s.categories.FindByID(p.CategoryID); err != nil {
		return err
	}
	if err := s.products.Update(p); err != nil {
		return err
	}
	s.productChanged(p.ID)
	return nil
}

// SetProductImage replaces the stored image reference of a product.
func (s *Service) SetProductImage(_ context.Context, id uint, image string) error {
	if err := s.products.UpdateImage(id, image); err != nil {
		return err
	}
	s.productChanged(id)
	return nil
}

// DeactivateProduct soft-deletes a product.
func (s *Service) DeactivateProduct(_ context.Context, id uint) error {
	if err := s.products.Deactivate(id); err != nil {
		return err
	}
	s.productChanged(id)
	return nil
}

// DeleteProduct removes a product row entirely. Callers gate this on the
// product never having been purchased.
func (s *Service) DeleteProduct(_ context.Context, id uint) error {
	if err := s.products.Delete(id); err != nil {
		return err
	}
	s.productChanged(id)
	return nil
}

// Reserve takes qty units out of the stock of record. On insufficient stock
// it reports the currently available count alongside ErrInsufficientStock.
func (s *Service) Reserve(_ context.Context, id uint, qty int) (int, error) {
	err := s.products.Reserve(id, qty)
	if err == nil {
		s.productChanged(id)
		return 0, nil
	}
	if errors.Is(err, ErrInsufficientStock) {
		p, ferr := s.products.FindByID(id)
		if ferr != nil {
			return 0, ferr
		}
		return p.Count, ErrInsufficientStock
	}
	return 0, err
}

// Release returns qty units to the stock of record.
func (s *Service) Release(_ context.Context, id uint, qty int) error {
	if err := s.products.Release(id, qty); err != nil {
		return err
	}
	s.productChanged(id)
	return nil
}

// CreateCategory validates and stores a new category.
func (s *Service) CreateCategory(_ context.Context, name string, parent int) (*domain.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrProductInvalid)
	}
	category := &domain.Category{Name: name, Parent: parent}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory retrieves a category by id.
func (s *Service) GetCategory(_ context.Context, id uint) (*domain.Category, error) {
	return s.categories.FindByID(id)
}

// ListCategories retrieves every category.
func (s *Service) ListCategories(_ context.Context) ([]*domain.Category, error) {
	return s.categories.FindAll()
}

// MoveCategory changes the parent of a category.
func (s *Service) MoveCategory(_ context.Context, id uint, parent int) error {
	return s.categories.UpdateParent(id, parent)
}

// DeleteCategory removes a category; blocked while children or products
// still reference it.
func (s *Service) DeleteCategory(_ context.Context, id uint) error {
	if _, err := s.categories.FindByID(id); err != nil {
		return err
	}

	children, err := s.categories.CountChildren(id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrCategoryHasChildren
	}

	used, err := s.products.CountByCategory(id)
	if err != nil {
		return err
	}
	if used > 0 {
		return ErrCategoryInUse
	}

	return s.categories.Delete(id)
}
