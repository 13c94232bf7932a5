package shop

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/example/storefront/domain/shop"
)

// ErrNotFound is returned when a shop is not found.
var ErrNotFound = errors.New("shop not found")

// Repository provides access to shop storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new shop repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new shop.
func (r *Repository) Create(shop *domain.Shop) error {
	if err := r.db.Create(shop).Error; err != nil {
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

// FindByID retrieves a shop by its id.
func (r *Repository) FindByID(id uint) (*domain.Shop, error) {
	var shop domain.Shop
	if err := r.db.First(&shop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shop: %w", err)
	}
	return &shop, nil
}

// FindActive retrieves the shops available for checkout.
func (r *Repository) FindActive() ([]*domain.Shop, error) {
	var shops []*domain.Shop
	if err := r.db.Where("is_active = ?", true).Order("id").Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return shops, nil
}

// Update rewrites the name and location of a shop.
func (r *Repository) Update(id uint, name, location string) error {
	result := r.db.Model(&domain.Shop{}).Where("id = ?", id).Updates(map[string]any{
		"name":     name,
		"location": location,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update shop: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a shop by clearing its active flag.
func (r *Repository) Deactivate(id uint) error {
	result := r.db.Model(&domain.Shop{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate shop: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
