package order

// Purchase is the storage record for one product line inside one order.
// OperationID groups the lines of a single checkout; it is allocated once
// per checkout and never changes. Only IsUsed is mutated after creation.
type Purchase struct {
	ID          uint `gorm:"primaryKey"`
	OperationID int  `gorm:"index;not null"`
	UserID      uint `gorm:"index;not null"`
	ProductID   uint `gorm:"index;not null"`
	ShopID      uint `gorm:"not null"`
	Count       int  `gorm:"not null"`
	IsUsed      bool `gorm:"not null;default:false"`
}

// TableName returns the table name for the Purchase entity.
func (Purchase) TableName() string {
	return "purchases"
}
