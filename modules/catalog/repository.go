package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/example/storefront/domain/catalog"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a reservation exceeds the
	// available count.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository provides access to product storage.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create saves a new product.
func (r *ProductRepository) Create(product *domain.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a product by its id.
func (r *ProductRepository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// List retrieves products matching the filter. An empty filter returns the
// whole catalog ordered by id.
func (r *ProductRepository) List(filter ListFilter) ([]*domain.Product, error) {
	query := r.db.Model(&domain.Product{}).Order("id")
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	} else if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var products []*domain.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Update rewrites the editable fields of a product.
func (r *ProductRepository) Update(product *domain.Product) error {
	result := r.db.Model(&domain.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
		"description": product.Description,
		"item_number": product.ItemNumber,
		"price":       product.Price,
		"count":       product.Count,
		"is_active":   product.IsActive,
		"promo":       product.Promo,
		"category_id": product.CategoryID,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UpdateImage replaces the stored image reference.
func (r *ProductRepository) UpdateImage(id uint, image string) error {
	result := r.db.Model(&domain.Product{}).Where("id = ?", id).Update("image", image)
	if result.Error != nil {
		return fmt.Errorf("failed to update product image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Deactivate soft-deletes a product by clearing its active flag.
func (r *ProductRepository) Deactivate(id uint) error {
	result := r.db.Model(&domain.Product{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product row entirely.
func (r *ProductRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Reserve atomically decrements the stock of record by qty, failing when the
// remaining count is insufficient. The guard in the WHERE clause keeps the
// count from ever going negative under concurrent adds.
func (r *ProductRepository) Reserve(id uint, qty int) error {
	result := r.db.Model(&domain.Product{}).
		Where("id = ? AND count >= ?", id, qty).
		UpdateColumn("count", gorm.Expr("count - ?", qty))
	if result.Error != nil {
		return fmt.Errorf("failed to reserve stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

// Release returns qty units to the stock of record.
func (r *ProductRepository) Release(id uint, qty int) error {
	result := r.db.Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("count", gorm.Expr("count + ?", qty))
	if result.Error != nil {
		return fmt.Errorf("failed to release stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// CountByCategory reports how many products reference a category.
func (r *ProductRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Product{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
