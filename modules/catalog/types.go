package catalog

import (
	domain "github.com/example/storefront/domain/catalog"
)

// ListFilter narrows a product listing. A non-empty Query wins over
// CategoryID, matching the original page behavior.
type ListFilter struct {
	CategoryID uint
	Query      string
	ActiveOnly bool
}

// ProductView is the display record for a product.
type ProductView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ItemNumber  string  `json:"item_number"`
	Price       float64 `json:"price"`
	Count       int     `json:"count"`
	IsActive    bool    `json:"is_active"`
	Promo       bool    `json:"promo"`
	Image       string  `json:"image"`
	CategoryID  uint    `json:"category_id"`
}

// ToProductView maps a storage record to its display record.
func ToProductView(p *domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ItemNumber:  p.ItemNumber,
		Price:       p.Price,
		Count:       p.Count,
		IsActive:    p.IsActive,
		Promo:       p.Promo,
		Image:       p.Image,
		CategoryID:  p.CategoryID,
	}
}

// CategoryView is the display record for a category.
type CategoryView struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Parent int    `json:"parent"`
}

// ToCategoryView maps a storage record to its display record.
func ToCategoryView(c *domain.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Parent: c.Parent}
}
