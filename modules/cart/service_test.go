package cart

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	catalogdomain "github.com/example/storefront/domain/catalog"
	"github.com/example/storefront/modules/catalog"
)

// setupService builds a cart over a real catalog on an in-memory database
// and returns the product id it seeded with 5 units.
func setupService(t *testing.T) (*Service, *catalog.Service, uint) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&catalogdomain.Category{}, &catalogdomain.Product{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	inventory := catalog.NewService(catalog.NewProductRepository(db), catalog.NewCategoryRepository(db))
	category, err := inventory.CreateCategory(context.Background(), "misc", -1)
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	product := &catalogdomain.Product{
		Name:       "lamp",
		ItemNumber: "L-1",
		Price:      25,
		Count:      5,
		IsActive:   true,
		CategoryID: category.ID,
	}
	if err := inventory.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return NewService(NewMemoryStore(), inventory), inventory, product.ID
}

func stockOf(t *testing.T, inventory *catalog.Service, id uint) int {
	t.Helper()
	product, err := inventory.GetProduct(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to read product: %v", err)
	}
	return product.Count
}

func TestAddLineRejectsQuantityBelowOne(t *testing.T) {
	svc, _, productID := setupService(t)

	for _, qty := range []int{0, -1} {
		if _, err := svc.AddLine(context.Background(), 1, productID, qty); !errors.Is(err, ErrQuantityTooLow) {
			t.Errorf("AddLine(qty=%d) error = %v, want ErrQuantityTooLow", qty, err)
		}
	}
}

func TestAddLineReservesStock(t *testing.T) {
	svc, inventory, productID := setupService(t)

	line, err := svc.AddLine(context.Background(), 1, productID, 3)
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if line.Name != "lamp" || line.Price != 25 || line.Count != 3 {
		t.Errorf("line = %+v, want name lamp, price 25, count 3", line)
	}
	if got := stockOf(t, inventory, productID); got != 2 {
		t.Errorf("stock after reservation = %d, want 2", got)
	}
}

func TestAddLineInsufficientStockLeavesCount(t *testing.T) {
	svc, inventory, productID := setupService(t)

	if _, err := svc.AddLine(context.Background(), 1, productID, 3); err != nil {
		t.Fatalf("first AddLine: %v", err)
	}

	_, err := svc.AddLine(context.Background(), 1, productID, 3)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("second AddLine error = %v, want InsufficientStockError", err)
	}
	if stockErr.Available != 2 {
		t.Errorf("reported available = %d, want 2", stockErr.Available)
	}
	if got := stockOf(t, inventory, productID); got != 2 {
		t.Errorf("stock after failed reservation = %d, want 2", got)
	}
	if got := len(svc.ListLines(context.Background(), 1)); got != 1 {
		t.Errorf("cart lines = %d, want 1", got)
	}
}

func TestRemoveLineReleasesStock(t *testing.T) {
	svc, inventory, productID := setupService(t)

	line, err := svc.AddLine(context.Background(), 1, productID, 3)
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := svc.RemoveLine(context.Background(), 1, line.Number); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if got := stockOf(t, inventory, productID); got != 5 {
		t.Errorf("stock after release = %d, want 5", got)
	}
	if got := len(svc.ListLines(context.Background(), 1)); got != 0 {
		t.Errorf("cart lines after removal = %d, want 0", got)
	}
}

func TestRemoveLineKeepsLineOnFailedRelease(t *testing.T) {
	svc, inventory, productID := setupService(t)

	line, err := svc.AddLine(context.Background(), 1, productID, 3)
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := inventory.DeleteProduct(context.Background(), productID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	if err := svc.RemoveLine(context.Background(), 1, line.Number); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("RemoveLine error = %v, want ErrProductNotFound", err)
	}
	if got := len(svc.ListLines(context.Background(), 1)); got != 1 {
		t.Errorf("cart lines after failed release = %d, want 1", got)
	}
}

func TestRemoveLineMissing(t *testing.T) {
	svc, _, _ := setupService(t)
	if err := svc.RemoveLine(context.Background(), 1, 7); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("RemoveLine error = %v, want ErrLineNotFound", err)
	}
}

func TestClearKeepsReservation(t *testing.T) {
	svc, inventory, productID := setupService(t)

	if _, err := svc.AddLine(context.Background(), 1, productID, 3); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	svc.Clear(context.Background(), 1)

	if got := len(svc.ListLines(context.Background(), 1)); got != 0 {
		t.Errorf("cart lines after clear = %d, want 0", got)
	}
	if got := stockOf(t, inventory, productID); got != 2 {
		t.Errorf("stock after clear = %d, want 2 (reservation kept)", got)
	}
}

func TestTotalCost(t *testing.T) {
	svc, _, productID := setupService(t)

	if _, err := svc.AddLine(context.Background(), 1, productID, 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := svc.AddLine(context.Background(), 1, productID, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if got := svc.TotalCost(context.Background(), 1); got != 75 {
		t.Errorf("TotalCost = %v, want 75", got)
	}
}
