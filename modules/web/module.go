// Package web serves the storefront pages over HTTP.
package web

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/example/storefront/modules/auth"
	"github.com/example/storefront/modules/cache"
	"github.com/example/storefront/modules/cart"
	"github.com/example/storefront/modules/catalog"
	"github.com/example/storefront/modules/checkout"
	"github.com/example/storefront/modules/images"
	"github.com/example/storefront/modules/shop"
)

// Module runs the Fiber server rendering the storefront pages.
type Module struct {
	app      *fiber.App
	addr     string
	viewsDir string

	authMod     *auth.Module
	catalogMod  *catalog.Module
	shopMod     *shop.Module
	cartMod     *cart.Module
	checkoutMod *checkout.Module
	imagesMod   *images.Module
	cacheMod    *cache.Module // nil when caching is disabled

	authContainer mono.ServiceContainer
	authPort      auth.AuthPort
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the web module. The cache module may be nil, pages then
// skip the listing cache. The listen address comes from STOREFRONT_HTTP_ADDR
// and the template directory from VIEWS_DIR.
func NewModule(authMod *auth.Module, catalogMod *catalog.Module, shopMod *shop.Module,
	cartMod *cart.Module, checkoutMod *checkout.Module, imagesMod *images.Module,
	cacheMod *cache.Module) *Module {
	addr := os.Getenv("STOREFRONT_HTTP_ADDR")
	if addr == "" {
		addr = ":8000"
	}
	viewsDir := os.Getenv("VIEWS_DIR")
	if viewsDir == "" {
		viewsDir = "views"
	}
	return &Module{
		addr:        addr,
		viewsDir:    viewsDir,
		authMod:     authMod,
		catalogMod:  catalogMod,
		shopMod:     shopMod,
		cartMod:     cartMod,
		checkoutMod: checkoutMod,
		imagesMod:   imagesMod,
		cacheMod:    cacheMod,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "web"
}

// Dependencies returns the modules whose services this module calls through
// the container.
func (m *Module) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authContainer = container
		m.authPort = auth.NewAuthAdapter(container)
	}
}

// Start builds the Fiber app and begins serving pages.
func (m *Module) Start(_ context.Context) error {
	if m.authContainer == nil {
		return fmt.Errorf("auth dependency not set")
	}

	engine := html.New(m.viewsDir, ".html")
	m.app = fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
	})

	m.app.Use(fiberrecover.New())
	m.app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())
	m.app.Use(CurrentUserMiddleware(m.authPort))

	var listingCache *cache.Cache
	if m.cacheMod != nil {
		listingCache = m.cacheMod.Cache()
	}
	handlers := NewHandlers(
		m.authMod.Service(),
		m.catalogMod.Service(),
		m.shopMod.Service(),
		m.cartMod.Service(),
		m.checkoutMod.Service(),
		m.imagesMod.Store(),
		listingCache,
	)
	m.setupRoutes(handlers)

	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			log.Printf("[web] HTTP server error: %v", err)
		}
	}()

	log.Printf("[web] HTTP server started on %s", m.addr)
	return nil
}

// Stop shuts the HTTP server down.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[web] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health reports whether the server is up.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// setupRoutes wires every page. Parameterized routes come after their
// literal siblings so Fiber matches the specific paths first.
func (m *Module) setupRoutes(h *Handlers) {
	m.app.Get("/", h.Home)
	m.app.Get("/main", h.Main)

	user := m.app.Group("/user")
	user.Get("/registration", h.RegisterPage)
	user.Post("/registration", h.Register)
	user.Get("/login", h.LoginPage)
	user.Post("/login", h.Login)
	user.Get("/logout", h.LogoutPage)
	user.Post("/logout", h.Logout)
	user.Get("/repair", h.RepairPage)
	user.Post("/repair", h.Repair)
	user.Get("/create_password/:id", h.CreatePasswordPage)
	user.Post("/create_password/:id", h.CreatePassword)
	user.Get("/update/:id", h.ProfileUpdatePage)
	user.Post("/update/:id", h.ProfileUpdate)
	user.Get("/delete", h.SelfDelete)
	user.Get("/list", h.UserList)
	user.Get("/list/update/:id", h.AdminUserPage)
	user.Post("/list/update/:id", h.AdminUserUpdate)
	user.Get("/list/delete/:id", h.AdminUserDeletePage)
	user.Post("/list/delete/:id", h.AdminUserDelete)
	user.Get("/list/:id", h.AdminUserPage)
	user.Get("/", h.Profile)

	product := m.app.Group("/product")
	product.Get("/list", h.ProductList)
	product.Get("/create", h.ProductCreatePage)
	product.Post("/create", h.ProductCreate)
	product.Get("/update_product/:id", h.ProductUpdatePage)
	product.Post("/update_product/:id", h.ProductUpdate)
	product.Get("/update_image_product/:id", h.ProductUpdateImagePage)
	product.Post("/update_image_product/:id", h.ProductUpdateImage)
	product.Get("/delete/:id", h.ProductDeletePage)
	product.Post("/delete/:id", h.ProductDelete)
	product.Get("/:id", h.ProductDetail)

	category := m.app.Group("/category")
	category.Get("/list", h.CategoryList)
	category.Get("/create", h.CategoryCreatePage)
	category.Post("/create", h.CategoryCreate)
	category.Get("/update/:id", h.CategoryUpdatePage)
	category.Post("/update/:id", h.CategoryUpdate)
	category.Get("/delete/:id", h.CategoryDeletePage)
	category.Post("/delete/:id", h.CategoryDelete)
	category.Get("/:id", h.CategoryDetail)

	shops := m.app.Group("/shop")
	shops.Get("/list", h.ShopList)
	shops.Get("/create", h.ShopCreatePage)
	shops.Post("/create", h.ShopCreate)
	shops.Get("/update/:id", h.ShopUpdatePage)
	shops.Post("/update/:id", h.ShopUpdate)
	shops.Get("/delete/:id", h.ShopDeletePage)
	shops.Post("/delete/:id", h.ShopDelete)
	shops.Get("/:id", h.ShopDetail)

	buy := m.app.Group("/buy")
	buy.Get("/payment", h.PaymentPage)
	buy.Post("/payment", h.PaymentConfirm)
	buy.Get("/car-user", h.CartPage)
	buy.Post("/car-user", h.CartSelectShop)
	buy.Get("/car/:id", h.CartItemPage)
	buy.Post("/car/:id", h.CartItemAdd)
	buy.Get("/orders", h.OrderSearch)
	buy.Get("/orders/number/:number", h.OrderDetail)
	buy.Get("/orders/:id", h.OrderHistory)
}
