package catalog

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/storefront/domain/catalog"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Category{}, &domain.Product{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, description string, count int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Name:        name,
		Description: description,
		ItemNumber:  "IT-" + name,
		Price:       10,
		Count:       count,
		IsActive:    true,
		CategoryID:  1,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func TestReserveDecrementsStock(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepository(db)
	product := seedProduct(t, db, "kettle", "", 5)

	if err := repo.Reserve(product.ID, 3); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	got, err := repo.FindByID(product.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Count != 2 {
		t.Errorf("count after reserve = %d, want 2", got.Count)
	}
}

func TestReserveInsufficientStockLeavesCount(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepository(db)
	product := seedProduct(t, db, "kettle", "", 2)

	if err := repo.Reserve(product.ID, 3); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Reserve error = %v, want ErrInsufficientStock", err)
	}

	got, err := repo.FindByID(product.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Count != 2 {
		t.Errorf("count after failed reserve = %d, want 2", got.Count)
	}
}

func TestReserveMissingProduct(t *testing.T) {
	repo := NewProductRepository(setupDB(t))
	if err := repo.Reserve(99, 1); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Reserve error = %v, want ErrProductNotFound", err)
	}
}

func TestReleaseRestoresStock(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepository(db)
	product := seedProduct(t, db, "kettle", "", 5)

	if err := repo.Reserve(product.ID, 5); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := repo.Release(product.ID, 5); err != nil {
		t.Fatalf("Release: %v", err)
	}

	got, _ := repo.FindByID(product.ID)
	if got.Count != 5 {
		t.Errorf("count after release = %d, want 5", got.Count)
	}
}

func TestListFiltersBySearchString(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepository(db)
	seedProduct(t, db, "electric kettle", "boils water", 1)
	seedProduct(t, db, "toaster", "browns bread slices", 1)
	seedProduct(t, db, "lamp", "desk light", 1)

	tests := []struct {
		query string
		want  int
	}{
		{"kettle", 1},
		{"bread", 1},
		{"e", 3},
		{"missing", 0},
	}
	for _, tt := range tests {
		products, err := repo.List(ListFilter{Query: tt.query})
		if err != nil {
			t.Fatalf("List(%q): %v", tt.query, err)
		}
		if len(products) != tt.want {
			t.Errorf("List(%q) = %d products, want %d", tt.query, len(products), tt.want)
		}
	}
}

func TestListFiltersByCategory(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepository(db)
	first := seedProduct(t, db, "kettle", "", 1)
	other := &domain.Product{Name: "lamp", ItemNumber: "IT-lamp", Price: 5, Count: 1, IsActive: true, CategoryID: 2}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	products, err := repo.List(ListFilter{CategoryID: first.CategoryID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(products) != 1 || products[0].ID != first.ID {
		t.Errorf("List by category returned %d products, want only the seeded one", len(products))
	}
}

func TestDeleteCategoryRules(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewProductRepository(db), NewCategoryRepository(db))
	ctx := context.Background()

	root, err := svc.CreateCategory(ctx, "appliances", -1)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	child, err := svc.CreateCategory(ctx, "kitchen", int(root.ID))
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	if err := svc.DeleteCategory(ctx, root.ID); !errors.Is(err, ErrCategoryHasChildren) {
		t.Errorf("DeleteCategory(parent) error = %v, want ErrCategoryHasChildren", err)
	}

	product := &domain.Product{Name: "kettle", ItemNumber: "K-1", Price: 10, Count: 1, IsActive: true, CategoryID: child.ID}
	if err := svc.CreateProduct(ctx, product); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if err := svc.DeleteCategory(ctx, child.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Errorf("DeleteCategory(in use) error = %v, want ErrCategoryInUse", err)
	}

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if err := svc.DeleteCategory(ctx, child.ID); err != nil {
		t.Fatalf("DeleteCategory(leaf): %v", err)
	}
	if err := svc.DeleteCategory(ctx, root.ID); err != nil {
		t.Fatalf("DeleteCategory(empty root): %v", err)
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewProductRepository(db), NewCategoryRepository(db))
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "appliances", -1); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, "appliances", -1); !errors.Is(err, ErrCategoryNameTaken) {
		t.Errorf("duplicate CreateCategory error = %v, want ErrCategoryNameTaken", err)
	}
}

func TestUpdateProductRejectsNegativeFields(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewProductRepository(db), NewCategoryRepository(db))
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "misc", -1)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	product := &domain.Product{
		Name:       "kettle",
		ItemNumber: "K-1",
		Price:      30,
		Count:      5,
		CategoryID: category.ID,
	}
	if err := svc.CreateProduct(ctx, product); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	tests := []struct {
		name string
		edit func(p *domain.Product)
	}{
		{"negative count", func(p *domain.Product) { p.Count = -5 }},
		{"negative price", func(p *domain.Product) { p.Price = -1 }},
		{"empty name", func(p *domain.Product) { p.Name = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edited := *product
			tt.edit(&edited)
			if err := svc.UpdateProduct(ctx, &edited); !errors.Is(err, ErrProductInvalid) {
				t.Errorf("UpdateProduct error = %v, want ErrProductInvalid", err)
			}
		})
	}

	got, err := svc.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Count != 5 || got.Price != 30 {
		t.Errorf("product after rejected updates = count %d price %v, want 5 and 30", got.Count, got.Price)
	}
}
