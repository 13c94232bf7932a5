package web

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	catalogdomain "github.com/example/storefront/domain/catalog"
	"github.com/example/storefront/modules/catalog"
)

// Home redirects the bare root to the main page.
func (h *Handlers) Home(c *fiber.Ctx) error {
	return c.Redirect("/main", fiber.StatusSeeOther)
}

// Main renders the landing page with the category list and the search form.
// A submitted search or category choice forwards to the product listing.
func (h *Handlers) Main(c *fiber.Ctx) error {
	category := queryInt(c, "category", -1)
	q := c.Query("q")

	switch {
	case category > -1 && q != "":
		return c.Redirect(fmt.Sprintf("/product/list?category=%d&q=%s", category, q), fiber.StatusSeeOther)
	case category > -1:
		return c.Redirect(fmt.Sprintf("/product/list?category=%d", category), fiber.StatusSeeOther)
	case q != "":
		return c.Redirect("/product/list?q="+q, fiber.StatusSeeOther)
	}

	data := h.pageData(c, "Storefront")
	if cats, err := h.catalog.ListCategories(c.UserContext()); err == nil {
		data["Categories"] = toCategoryViews(cats)
	}
	return h.render(c, "main", data)
}

func toCategoryViews(cats []*catalogdomain.Category) []catalog.CategoryView {
	views := make([]catalog.CategoryView, 0, len(cats))
	for _, cat := range cats {
		views = append(views, catalog.ToCategoryView(cat))
	}
	return views
}
