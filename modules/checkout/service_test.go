package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	catalogdomain "github.com/example/storefront/domain/catalog"
	orderdomain "github.com/example/storefront/domain/order"
	shopdomain "github.com/example/storefront/domain/shop"
	"github.com/example/storefront/modules/cart"
	"github.com/example/storefront/modules/catalog"
	"github.com/example/storefront/modules/shop"
)

// fixture wires a checkout over real services on an in-memory database.
type fixture struct {
	db       *gorm.DB
	checkout *Service
	carts    *cart.Service
	catalog  *catalog.Service
	shopID   uint
	kettleID uint
	lampID   uint
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&shopdomain.Shop{},
		&orderdomain.Purchase{},
	))

	catalogSvc := catalog.NewService(catalog.NewProductRepository(db), catalog.NewCategoryRepository(db))
	shopSvc := shop.NewService(shop.NewRepository(db))
	cartSvc := cart.NewService(cart.NewMemoryStore(), catalogSvc)

	ctx := context.Background()
	category, err := catalogSvc.CreateCategory(ctx, "appliances", -1)
	require.NoError(t, err)

	kettle := &catalogdomain.Product{Name: "kettle", ItemNumber: "K-1", Price: 30, Count: 10, CategoryID: category.ID}
	require.NoError(t, catalogSvc.CreateProduct(ctx, kettle))
	lamp := &catalogdomain.Product{Name: "lamp", ItemNumber: "L-1", Price: 15, Count: 10, CategoryID: category.ID}
	require.NoError(t, catalogSvc.CreateProduct(ctx, lamp))

	s, err := shopSvc.CreateShop(ctx, "downtown", "main street 1")
	require.NoError(t, err)

	repo := NewPurchaseRepository(db)
	assembler := NewAssembler(catalogSvc, shopSvc)
	checkoutSvc := NewService(repo, cartSvc, shopSvc, assembler)

	return &fixture{
		db:       db,
		checkout: checkoutSvc,
		carts:    cartSvc,
		catalog:  catalogSvc,
		shopID:   s.ID,
		kettleID: kettle.ID,
		lampID:   lamp.ID,
	}
}

func (f *fixture) fillCart(t *testing.T, userID uint) {
	t.Helper()
	_, err := f.carts.AddLine(context.Background(), userID, f.kettleID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddLine(context.Background(), userID, f.lampID, 1)
	require.NoError(t, err)
}

func TestConfirmRequiresShop(t *testing.T) {
	f := setup(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Confirm(context.Background(), 1, 0, Payment{})
	assert.ErrorIs(t, err, ErrNoShopSelected)
}

func TestConfirmRequiresLines(t *testing.T) {
	f := setup(t)

	_, err := f.checkout.Confirm(context.Background(), 1, f.shopID, Payment{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestConfirmWritesOneRecordPerLine(t *testing.T) {
	f := setup(t)
	f.fillCart(t, 1)

	operation, err := f.checkout.Confirm(context.Background(), 1, f.shopID, Payment{Name: "A B"})
	require.NoError(t, err)
	assert.Equal(t, 1, operation, "first operation number")

	var records []*orderdomain.Purchase
	require.NoError(t, f.db.Where("operation_id = ?", operation).Find(&records).Error)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, uint(1), record.UserID)
		assert.Equal(t, f.shopID, record.ShopID)
		assert.False(t, record.IsUsed)
	}

	assert.Empty(t, f.carts.ListLines(context.Background(), 1), "cart must be emptied")
}

func TestConfirmAllocatesSequentialOperations(t *testing.T) {
	f := setup(t)

	f.fillCart(t, 1)
	first, err := f.checkout.Confirm(context.Background(), 1, f.shopID, Payment{})
	require.NoError(t, err)

	f.fillCart(t, 1)
	second, err := f.checkout.Confirm(context.Background(), 1, f.shopID, Payment{})
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestConfirmNotifiesListener(t *testing.T) {
	f := setup(t)
	f.fillCart(t, 1)

	var gotOperation, gotLines int
	f.checkout.SetOrderListener(func(operation int, userID, shopID uint, lines int) {
		gotOperation = operation
		gotLines = lines
	})

	_, err := f.checkout.Confirm(context.Background(), 1, f.shopID, Payment{})
	require.NoError(t, err)
	assert.Equal(t, 1, gotOperation)
	assert.Equal(t, 2, gotLines)
}

func TestHistoryGroupsByOperation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fillCart(t, 1)
	_, err := f.checkout.Confirm(ctx, 1, f.shopID, Payment{})
	require.NoError(t, err)
	f.fillCart(t, 1)
	_, err = f.checkout.Confirm(ctx, 1, f.shopID, Payment{})
	require.NoError(t, err)

	orders, err := f.checkout.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2, "two checkouts group into two orders")
	assert.Equal(t, 2, orders[0].OperationID, "newest order first")
	assert.Equal(t, 1, orders[1].OperationID)
	assert.Len(t, orders[0].Lines, 2)
	assert.Equal(t, uint(1), orders[0].BuyerID)
	require.NotNil(t, orders[0].Shop)
	assert.Equal(t, "downtown", orders[0].Shop.Name)
}

func TestGetOrderResolvesProducts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fillCart(t, 1)
	operation, err := f.checkout.Confirm(ctx, 1, f.shopID, Payment{})
	require.NoError(t, err)

	order, err := f.checkout.GetOrder(ctx, operation)
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)

	names := map[string]int{}
	for _, line := range order.Lines {
		require.NotNil(t, line.Product)
		names[line.Product.Name] = line.Count
	}
	assert.Equal(t, 2, names["kettle"])
	assert.Equal(t, 1, names["lamp"])
}

func TestGetOrderMissing(t *testing.T) {
	f := setup(t)
	_, err := f.checkout.GetOrder(context.Background(), 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSetUsedTogglesPickupMark(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fillCart(t, 1)
	operation, err := f.checkout.Confirm(ctx, 1, f.shopID, Payment{})
	require.NoError(t, err)

	require.NoError(t, f.checkout.SetUsed(ctx, operation, f.kettleID, true))

	order, err := f.checkout.GetOrder(ctx, operation)
	require.NoError(t, err)
	for _, line := range order.Lines {
		if line.Product.ID == f.kettleID {
			assert.True(t, line.Used)
		} else {
			assert.False(t, line.Used)
		}
	}
}

func TestDeleteByUserRemovesHistoryAndCart(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fillCart(t, 1)
	_, err := f.checkout.Confirm(ctx, 1, f.shopID, Payment{})
	require.NoError(t, err)
	f.fillCart(t, 1)

	require.NoError(t, f.checkout.DeleteByUser(ctx, 1))

	orders, err := f.checkout.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.carts.ListLines(ctx, 1))
}

func TestSearchFindsAnyUsersOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fillCart(t, 1)
	opFirst, err := f.checkout.Confirm(ctx, 1, f.shopID, Payment{})
	require.NoError(t, err)
	f.fillCart(t, 2)
	opSecond, err := f.checkout.Confirm(ctx, 2, f.shopID, Payment{})
	require.NoError(t, err)

	orders, err := f.checkout.Search(ctx, opSecond)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, uint(2), orders[0].BuyerID)

	orders, err = f.checkout.Search(ctx, opFirst)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, uint(1), orders[0].BuyerID)
}
