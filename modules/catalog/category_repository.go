package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/example/storefront/domain/catalog"
)

var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryHasChildren blocks deletion while subcategories exist.
	ErrCategoryHasChildren = errors.New("category has child categories")
	// ErrCategoryInUse blocks deletion while products reference the category.
	ErrCategoryInUse = errors.New("category is referenced by products")
	// ErrCategoryNameTaken is returned when the category name already exists.
	ErrCategoryNameTaken = errors.New("category name already exists")
)

// CategoryRepository provides access to category storage.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create saves a new category.
func (r *CategoryRepository) Create(category *domain.Category) error {
	var count int64
	if err := r.db.Model(&domain.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if count > 0 {
		return ErrCategoryNameTaken
	}
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// FindByID retrieves a category by its id.
func (r *CategoryRepository) FindByID(id uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

// FindAll retrieves every category ordered by id.
func (r *CategoryRepository) FindAll() ([]*domain.Category, error) {
	var categories []*domain.Category
	if err := r.db.Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateParent moves a category under a new parent.
func (r *CategoryRepository) UpdateParent(id uint, parent int) error {
	result := r.db.Model(&domain.Category{}).Where("id = ?", id).Update("parent", parent)
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// CountChildren reports how many categories point at the given parent.
func (r *CategoryRepository) CountChildren(id uint) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Category{}).Where("parent = ?", int(id)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count children: %w", err)
	}
	return count, nil
}

// Delete removes a category row.
func (r *CategoryRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
