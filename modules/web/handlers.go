package web

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/modules/auth"
	"github.com/example/storefront/modules/cache"
	"github.com/example/storefront/modules/cart"
	"github.com/example/storefront/modules/catalog"
	"github.com/example/storefront/modules/checkout"
	"github.com/example/storefront/modules/images"
	"github.com/example/storefront/modules/shop"
)

const (
	// listingPageSize is the number of items per listing page.
	listingPageSize = 4
	// dateLayout is the HTML date input format.
	dateLayout = "2006-01-02"
	// tokenLifetime matches the token expiry set by the auth module.
	tokenLifetime = 30 * 24 * time.Hour
)

// Handlers holds the services the page handlers talk to.
type Handlers struct {
	users    *auth.Service
	catalog  *catalog.Service
	shops    *shop.Service
	carts    *cart.Service
	checkout *checkout.Service
	images   *images.DiskStore
	cache    *cache.Cache // nil when caching is disabled
}

// NewHandlers wires the page handlers to their services.
func NewHandlers(users *auth.Service, cat *catalog.Service, shops *shop.Service,
	carts *cart.Service, co *checkout.Service, imgs *images.DiskStore, cache *cache.Cache) *Handlers {
	return &Handlers{
		users:    users,
		catalog:  cat,
		shops:    shops,
		carts:    carts,
		checkout: co,
		images:   imgs,
		cache:    cache,
	}
}

// render draws a view inside the shared layout.
func (h *Handlers) render(c *fiber.Ctx, view string, data fiber.Map) error {
	return c.Render(view, data, "layouts/main")
}

// pageData builds the base template data every page shares.
func (h *Handlers) pageData(c *fiber.Ctx, title string) fiber.Map {
	data := fiber.Map{"Title": title}
	if user := currentUser(c); user != nil {
		data["User"] = user
	}
	return data
}

// setToken installs the session cookie.
func setToken(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    token,
		HTTPOnly: true,
		Expires:  time.Now().Add(tokenLifetime),
	})
}

// clearToken removes the session cookie.
func clearToken(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
}

// paramUint reads a numeric path parameter, zero when absent or malformed.
func paramUint(c *fiber.Ctx, name string) uint {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// queryInt reads a numeric query parameter with a fallback.
func queryInt(c *fiber.Ctx, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// formInt reads a numeric form field, zero when absent or malformed.
func formInt(c *fiber.Ctx, name string) int {
	v, err := strconv.Atoi(c.FormValue(name))
	if err != nil {
		return 0
	}
	return v
}

// formFloat reads a decimal form field, zero when absent or malformed.
func formFloat(c *fiber.Ctx, name string) float64 {
	v, err := strconv.ParseFloat(c.FormValue(name), 64)
	if err != nil {
		return 0
	}
	return v
}

// formCheckbox reads an HTML checkbox value.
func formCheckbox(c *fiber.Ctx, name string) bool {
	return c.FormValue(name) != ""
}

// isStaff reports whether the user may manage catalog data.
func isStaff(user *auth.UserView) bool {
	return user != nil && (user.IsStaff || user.IsAdmin)
}

// isAdmin reports whether the user may manage accounts.
func isAdmin(user *auth.UserView) bool {
	return user != nil && user.IsAdmin
}
