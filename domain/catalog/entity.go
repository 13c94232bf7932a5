package catalog

// RootCategory is the parent sentinel for top-level categories.
const RootCategory = -1

// Category is the storage record for a product category. Categories form a
// tree through Parent, with RootCategory marking the roots.
type Category struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"uniqueIndex;size:255;not null"`
	Parent int    `gorm:"not null;default:-1"`
}

// TableName returns the table name for the Category entity.
func (Category) TableName() string {
	return "categories"
}

// Product is the storage record for a catalog product. Count is the stock of
// record; it is decremented by cart reservation and restored on line removal.
type Product struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"index;size:256;not null"`
	Description string  `gorm:"type:text"`
	ItemNumber  string  `gorm:"size:256"`
	Price       float64 `gorm:"not null"`
	Count       int     `gorm:"not null"`
	IsActive    bool    `gorm:"not null;default:true"`
	Promo       bool    `gorm:"not null;default:false"`
	Image       string  `gorm:"type:text"`
	CategoryID  uint    `gorm:"index;not null"`
}

// TableName returns the table name for the Product entity.
func (Product) TableName() string {
	return "products"
}
