package checkout

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/example/storefront/domain/order"
	"github.com/example/storefront/modules/cart"
)

// ErrOrderNotFound is returned when no purchase records match an operation
// number.
var ErrOrderNotFound = errors.New("order not found")

// PurchaseRepository provides access to purchase record storage.
type PurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository.
func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// CreateOrder allocates the next operation number and persists one purchase
// record per cart line. Allocation and inserts share one transaction: the
// number is 1 + max(operation_id), or 1 when the table is empty, and a
// failed insert rolls the whole order back.
func (r *PurchaseRepository) CreateOrder(userID, shopID uint, lines []cart.Line) (int, error) {
	var operation int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxOp int
		if err := tx.Model(&domain.Purchase{}).
			Select("COALESCE(MAX(operation_id), 0)").
			Scan(&maxOp).Error; err != nil {
			return fmt.Errorf("failed to read max operation number: %w", err)
		}
		operation = maxOp + 1

		for _, line := range lines {
			purchase := &domain.Purchase{
				OperationID: operation,
				UserID:      userID,
				ProductID:   line.ProductID,
				ShopID:      shopID,
				Count:       line.Count,
			}
			if err := tx.Create(purchase).Error; err != nil {
				return fmt.Errorf("failed to create purchase record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return operation, nil
}

// FindByUser retrieves a user's purchase records, newest operation first.
func (r *PurchaseRepository) FindByUser(userID uint) ([]*domain.Purchase, error) {
	var records []*domain.Purchase
	if err := r.db.Where("user_id = ?", userID).Order("operation_id DESC, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return records, nil
}

// FindByUserAndOperation retrieves a user's purchase records for one
// operation number.
func (r *PurchaseRepository) FindByUserAndOperation(userID uint, operation int) ([]*domain.Purchase, error) {
	var records []*domain.Purchase
	if err := r.db.Where("user_id = ? AND operation_id = ?", userID, operation).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return records, nil
}

// FindByOperation retrieves every purchase record of one operation number.
func (r *PurchaseRepository) FindByOperation(operation int) ([]*domain.Purchase, error) {
	var records []*domain.Purchase
	if err := r.db.Where("operation_id = ?", operation).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return records, nil
}

// SetUsed toggles the used flag on one product line of an order.
func (r *PurchaseRepository) SetUsed(operation int, productID uint, used bool) error {
	result := r.db.Model(&domain.Purchase{}).
		Where("operation_id = ? AND product_id = ?", operation, productID).
		Update("is_used", used)
	if result.Error != nil {
		return fmt.Errorf("failed to update used flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CountByProduct reports how many purchase records reference a product.
func (r *PurchaseRepository) CountByProduct(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Purchase{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count purchases: %w", err)
	}
	return count, nil
}

// DeleteByUser removes every purchase record of a user, for account deletion.
func (r *PurchaseRepository) DeleteByUser(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&domain.Purchase{}).Error; err != nil {
		return fmt.Errorf("failed to delete purchases: %w", err)
	}
	return nil
}
