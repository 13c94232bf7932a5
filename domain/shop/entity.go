package shop

// Shop is the storage record for a pickup shop.
type Shop struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"uniqueIndex;size:255;not null"`
	Location string `gorm:"type:text"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for the Shop entity.
func (Shop) TableName() string {
	return "shops"
}
