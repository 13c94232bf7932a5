package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/modules/catalog"
)

// categoryRow is one line of the category list with its rendered path.
type categoryRow struct {
	ID         uint
	Name       string
	Parent     int
	Breadcrumb string
}

// CategoryList shows the category tree to staff.
func (h *Handlers) CategoryList(c *fiber.Ctx) error {
	data := h.pageData(c, "Categories")
	user := currentUser(c)
	switch {
	case user == nil:
		data["Message"] = "You are not logged in"
	case !isStaff(user):
		data["Message"] = "You do not have permission"
	default:
		cats, err := h.catalog.ListCategories(c.UserContext())
		if err != nil {
			data["Message"] = "Failed to load categories"
			break
		}
		rows := make([]categoryRow, 0, len(cats))
		for _, cat := range cats {
			rows = append(rows, categoryRow{
				ID:         cat.ID,
				Name:       cat.Name,
				Parent:     cat.Parent,
				Breadcrumb: catalog.Breadcrumb(cats, int(cat.ID)),
			})
		}
		data["Categories"] = rows
		data["Display"] = true
	}
	return h.render(c, "category/list", data)
}

// CategoryDetail shows one category with its parent and children.
func (h *Handlers) CategoryDetail(c *fiber.Ctx) error {
	data := h.pageData(c, "Category")
	user := currentUser(c)
	switch {
	case user == nil:
		data["Message"] = "You are not logged in"
	case !isStaff(user):
		data["Message"] = "You do not have permission"
	default:
		cats, err := h.catalog.ListCategories(c.UserContext())
		if err != nil {
			data["Message"] = "Failed to load categories"
			break
		}
		cat := catalog.FindCategory(cats, paramUint(c, "id"))
		if cat == nil {
			data["Message"] = "Category not found"
			break
		}
		data["Display"] = true
		data["Category"] = catalog.ToCategoryView(cat)
		data["Breadcrumb"] = catalog.Breadcrumb(cats, int(cat.ID))
		if cat.Parent > -1 {
			if parent := catalog.FindCategory(cats, uint(cat.Parent)); parent != nil {
				data["Parent"] = catalog.ToCategoryView(parent)
			}
		}
		children := catalog.Children(cats, cat.ID)
		data["Children"] = toCategoryViews(children)
	}
	return h.render(c, "category/detail", data)
}

// CategoryCreatePage shows the category creation form to staff.
func (h *Handlers) CategoryCreatePage(c *fiber.Ctx) error {
	data := h.pageData(c, "New category")
	user := currentUser(c)
	switch {
	case user == nil:
		data["Message"] = "You are not logged in"
	case !isStaff(user):
		data["Message"] = "You do not have permission"
	default:
		data["Display"] = true
		if cats, err := h.catalog.ListCategories(c.UserContext()); err == nil {
			data["Categories"] = toCategoryViews(cats)
		}
	}
	return h.render(c, "category/create", data)
}

// CategoryCreate stores a new category.
func (h *Handlers) CategoryCreate(c *fiber.Ctx) error {
	data := h.pageData(c, "New category")
	user := currentUser(c)
	if user == nil {
		data["Message"] = "You are not logged in"
		return h.render(c, "category/create", data)
	}
	if !isStaff(user) {
		data["Message"] = "You do not have permission"
		return h.render(c, "category/create", data)
	}
	data["Display"] = true

	name := c.FormValue("name")
	if name == "" {
		data["Message"] = "Name must not be empty"
		return h.render(c, "category/create", data)
	}
	parentRaw := c.FormValue("parent")
	if parentRaw == "" {
		data["Message"] = "Parent category must not be empty"
		return h.render(c, "category/create", data)
	}

	if _, err := h.catalog.CreateCategory(c.UserContext(), name, formInt(c, "parent")); err != nil {
		if errors.Is(err, catalog.ErrCategoryNameTaken) {
			data["Message"] = fmt.Sprintf("Category %s already exists", name)
		} else {
			data["Message"] = "Failed to create the category"
		}
		return h.render(c, "category/create", data)
	}
	return c.Redirect("/category/list", fiber.StatusSeeOther)
}

// CategoryUpdatePage shows the parent selection form to staff.
func (h *Handlers) CategoryUpdatePage(c *fiber.Ctx) error {
	data := h.pageData(c, "Edit category")
	user := currentUser(c)
	switch {
	case user == nil:
		data["Message"] = "You are not logged in"
	case !isStaff(user):
		data["Message"] = "You do not have permission"
	default:
		cats, err := h.catalog.ListCategories(c.UserContext())
		if err != nil {
			data["Message"] = "Failed to load categories"
			break
		}
		cat := catalog.FindCategory(cats, paramUint(c, "id"))
		if cat == nil {
			data["Message"] = "Category not found"
			break
		}
		data["Display"] = true
		data["Category"] = catalog.ToCategoryView(cat)
		data["Categories"] = toCategoryViews(cats)
	}
	return h.render(c, "category/update", data)
}

// CategoryUpdate moves a category under a new parent.
func (h *Handlers) CategoryUpdate(c *fiber.Ctx) error {
	if !isStaff(currentUser(c)) {
		return c.Redirect("/category/list", fiber.StatusSeeOther)
	}
	id := paramUint(c, "id")
	if err := h.catalog.MoveCategory(c.UserContext(), id, formInt(c, "parent")); err != nil {
		return c.Redirect("/category/list", fiber.StatusSeeOther)
	}
	return c.Redirect(fmt.Sprintf("/category/%d", id), fiber.StatusSeeOther)
}

// CategoryDeletePage shows the deletion confirmation, with the reason when
// deletion is blocked.
func (h *Handlers) CategoryDeletePage(c *fiber.Ctx) error {
	data := h.pageData(c, "Delete category")
	user := currentUser(c)
	switch {
	case user == nil:
		data["Message"] = "You are not logged in"
	case !isStaff(user):
		data["Message"] = "You do not have permission"
	default:
		cats, err := h.catalog.ListCategories(c.UserContext())
		if err != nil {
			data["Message"] = "Failed to load categories"
			break
		}
		cat := catalog.FindCategory(cats, paramUint(c, "id"))
		if cat == nil {
			data["Message"] = "Category not found"
			break
		}
		data["Category"] = catalog.ToCategoryView(cat)
		if len(catalog.Children(cats, cat.ID)) > 0 {
			data["Message"] = "Deletion is blocked. Child categories exist"
		} else if products, err := h.catalog.ListProducts(c.UserContext(),
			catalog.ListFilter{CategoryID: cat.ID}); err == nil && len(products) > 0 {
			data["Message"] = "Deletion is blocked. The category is in use"
		} else {
			data["Display"] = true
		}
	}
	return h.render(c, "category/delete", data)
}

// CategoryDelete removes an unused leaf category.
func (h *Handlers) CategoryDelete(c *fiber.Ctx) error {
	if !isStaff(currentUser(c)) {
		return c.Redirect("/category/list", fiber.StatusSeeOther)
	}
	id := paramUint(c, "id")
	if err := h.catalog.DeleteCategory(c.UserContext(), id); err != nil {
		data := h.pageData(c, "Delete category")
		switch {
		case errors.Is(err, catalog.ErrCategoryHasChildren):
			data["Message"] = "Deletion is blocked. Child categories exist"
		case errors.Is(err, catalog.ErrCategoryInUse):
			data["Message"] = "Deletion is blocked. The category is in use"
		default:
			data["Message"] = "Failed to delete the category"
		}
		return h.render(c, "category/delete", data)
	}
	return c.Redirect("/category/list", fiber.StatusSeeOther)
}
