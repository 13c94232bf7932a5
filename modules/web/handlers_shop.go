package web

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ShopList shows the active shops.
func (h *Handlers) ShopList(c *fiber.Ctx) error {
	data := h.pageData(c, "Shops")
	if isStaff(currentUser(c)) {
		data["IsStaff"] = true
	}
	shops, err := h.shops.ListShops(c.UserContext())
	if err != nil {
		data["Message"] = "Failed to load shops"
	} else {
		data["Shops"] = shops
	}
	return h.render(c, "shop/list", data)
}

// ShopDetail shows one shop.
func (h *Handlers) ShopDetail(c *fiber.Ctx) error {
	s, err := h.shops.GetShop(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		return c.Redirect("/shop/list", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Shop")
	data["Shop"] = s
	if isStaff(currentUser(c)) {
		data["IsStaff"] = true
	}
	return h.render(c, "shop/detail", data)
}

// requireShopStaff redirects anonymous visitors to the login page and
// non-staff users to the main page. It returns false when a redirect was
// written.
func (h *Handlers) requireShopStaff(c *fiber.Ctx) bool {
	user := currentUser(c)
	if user == nil {
		_ = c.Redirect("/user/login", fiber.StatusSeeOther)
		return false
	}
	if !isStaff(user) {
		_ = c.Redirect("/main", fiber.StatusSeeOther)
		return false
	}
	return true
}

// ShopCreatePage shows the shop creation form to staff.
func (h *Handlers) ShopCreatePage(c *fiber.Ctx) error {
	if !h.requireShopStaff(c) {
		return nil
	}
	return h.render(c, "shop/create", h.pageData(c, "New shop"))
}

// ShopCreate stores a new shop.
func (h *Handlers) ShopCreate(c *fiber.Ctx) error {
	if !h.requireShopStaff(c) {
		return nil
	}
	data := h.pageData(c, "New shop")
	if _, err := h.shops.CreateShop(c.UserContext(), c.FormValue("name"), c.FormValue("location")); err != nil {
		data["Message"] = "Failed to create the shop"
		return h.render(c, "shop/create", data)
	}
	return c.Redirect("/shop/list", fiber.StatusSeeOther)
}

// ShopUpdatePage shows the shop edit form to staff.
func (h *Handlers) ShopUpdatePage(c *fiber.Ctx) error {
	if !h.requireShopStaff(c) {
		return nil
	}
	s, err := h.shops.GetShop(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		return c.Redirect("/shop/list", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Edit shop")
	data["Shop"] = s
	return h.render(c, "shop/update", data)
}

// ShopUpdate saves the edited shop fields.
func (h *Handlers) ShopUpdate(c *fiber.Ctx) error {
	if !h.requireShopStaff(c) {
		return nil
	}
	id := paramUint(c, "id")
	if err := h.shops.UpdateShop(c.UserContext(), id, c.FormValue("name"), c.FormValue("location")); err != nil {
		return c.Redirect("/shop/list", fiber.StatusSeeOther)
	}
	return c.Redirect(fmt.Sprintf("/shop/%d", id), fiber.StatusSeeOther)
}

// ShopDeletePage shows the deletion confirmation to staff.
func (h *Handlers) ShopDeletePage(c *fiber.Ctx) error {
	if !h.requireShopStaff(c) {
		return nil
	}
	s, err := h.shops.GetShop(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		return c.Redirect("/shop/list", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Delete shop")
	data["Shop"] = s
	return h.render(c, "shop/delete", data)
}

// ShopDelete takes a shop off the active list.
func (h *Handlers) ShopDelete(c *fiber.Ctx) error {
	if !h.requireShopStaff(c) {
		return nil
	}
	_ = h.shops.DeactivateShop(c.UserContext(), paramUint(c, "id"))
	return c.Redirect("/shop/list", fiber.StatusSeeOther)
}
