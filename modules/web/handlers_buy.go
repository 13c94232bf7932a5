package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/modules/cart"
	"github.com/example/storefront/modules/checkout"
)

// CartItemPage shows the quantity form for one product.
func (h *Handlers) CartItemPage(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}
	product, err := h.catalog.GetProduct(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	data := h.pageData(c, "Cart")
	h.fillProductPage(c, data, product)
	data["Count"] = 1
	data["ShowForm"] = true
	return h.render(c, "buy/cart_item", data)
}

// CartItemAdd reserves the requested quantity and puts a line in the cart.
func (h *Handlers) CartItemAdd(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}
	id := paramUint(c, "id")
	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	data := h.pageData(c, "Cart")
	h.fillProductPage(c, data, product)

	qty := formInt(c, "count")
	if _, err := h.carts.AddLine(c.UserContext(), user.ID, id, qty); err != nil {
		var stockErr *cart.InsufficientStockError
		switch {
		case errors.Is(err, cart.ErrQuantityTooLow):
			data["Message"] = "The requested quantity cannot be less than 1"
		case errors.As(err, &stockErr):
			data["Message"] = "Not enough stock"
			data["Count"] = stockErr.Available
			data["ShowForm"] = true
		default:
			data["Message"] = "Failed to add the item"
		}
		return h.render(c, "buy/cart_item", data)
	}

	// re-read so the page shows the reduced stock
	if fresh, err := h.catalog.GetProduct(c.UserContext(), id); err == nil {
		h.fillProductPage(c, data, fresh)
	}
	data["Message"] = "Added to the cart"
	return h.render(c, "buy/cart_item", data)
}

// CartPage shows the current user's cart and removes a line when the delet
// query parameter names one.
func (h *Handlers) CartPage(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}

	if remove := queryInt(c, "delet", -1); remove > -1 {
		if err := h.carts.RemoveLine(c.UserContext(), user.ID, remove); err != nil &&
			!errors.Is(err, cart.ErrLineNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to remove the item")
		}
	}

	data := h.pageData(c, "Cart")
	lines := h.carts.ListLines(c.UserContext(), user.ID)
	if len(lines) == 0 {
		data["Message"] = "The cart is empty"
		return h.render(c, "buy/cart", data)
	}

	data["Display"] = true
	data["Lines"] = lines
	data["Cost"] = h.carts.TotalCost(c.UserContext(), user.ID)
	if shops, err := h.shops.ListShops(c.UserContext()); err == nil {
		data["Shops"] = shops
	}
	return h.render(c, "buy/cart", data)
}

// CartSelectShop validates the shop choice and forwards to the payment page.
func (h *Handlers) CartSelectShop(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}

	shopID := c.FormValue("shop")
	if shopID == "" {
		data := h.pageData(c, "Cart")
		data["Display"] = true
		data["Lines"] = h.carts.ListLines(c.UserContext(), user.ID)
		data["Cost"] = h.carts.TotalCost(c.UserContext(), user.ID)
		if shops, err := h.shops.ListShops(c.UserContext()); err == nil {
			data["Shops"] = shops
		}
		data["Message"] = "Choose a shop"
		return h.render(c, "buy/cart", data)
	}
	return c.Redirect("/buy/payment?shop="+shopID, fiber.StatusSeeOther)
}

// PaymentPage shows the order summary and the payment form.
func (h *Handlers) PaymentPage(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}

	data := h.pageData(c, "Payment")
	lines := h.carts.ListLines(c.UserContext(), user.ID)
	if len(lines) == 0 {
		data["Message"] = "The cart is empty"
		return h.render(c, "buy/payment", data)
	}

	data["Display"] = true
	data["Lines"] = lines
	data["Cost"] = h.carts.TotalCost(c.UserContext(), user.ID)
	if s, err := h.shops.GetShop(c.UserContext(), uint(queryInt(c, "shop", 0))); err == nil {
		data["Shop"] = s
	}
	return h.render(c, "buy/payment", data)
}

// PaymentConfirm turns the cart into an order and shows its number.
func (h *Handlers) PaymentConfirm(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}

	data := h.pageData(c, "Thank you for your purchase")
	payment := checkout.Payment{
		Name:         c.FormValue("name"),
		CardNumber:   c.FormValue("card_number"),
		ExpiryDate:   c.FormValue("expiry_date"),
		SecurityCode: c.FormValue("security_code"),
	}

	operation, err := h.checkout.Confirm(c.UserContext(), user.ID, uint(queryInt(c, "shop", 0)), payment)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			data["Message"] = "The cart is empty"
		case errors.Is(err, checkout.ErrNoShopSelected):
			data["Message"] = "Choose a shop"
		default:
			data["Message"] = "Payment failed"
		}
		return h.render(c, "buy/payment", data)
	}

	data["Message"] = fmt.Sprintf("Order number: %d", operation)
	return h.render(c, "buy/payment", data)
}

// OrderHistory shows one user's orders, newest first, optionally narrowed
// to a single order number.
func (h *Handlers) OrderHistory(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}
	targetID := paramUint(c, "id")
	if !isStaff(user) && user.ID != targetID {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}

	data := h.pageData(c, "Order history")
	var orders []*checkout.Order
	var err error
	if number := queryInt(c, "number", 0); number > 0 {
		orders, err = h.checkout.HistoryByOperation(c.UserContext(), targetID, number)
	} else {
		orders, err = h.checkout.History(c.UserContext(), targetID)
	}
	if err != nil {
		data["Message"] = "Failed to load orders"
		return h.render(c, "buy/order_list", data)
	}
	if len(orders) == 0 {
		data["Empty"] = true
		return h.render(c, "buy/order_list", data)
	}

	window, pager := Paginate(orders, queryInt(c, "page", 0), listingPageSize)
	data["Orders"] = window
	data["Pager"] = pager
	data["TargetID"] = targetID
	return h.render(c, "buy/order_list", data)
}

// OrderDetail shows one order. Staff may toggle the per-product pickup mark
// through the prod and used query parameters.
func (h *Handlers) OrderDetail(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}
	number, _ := c.ParamsInt("number")

	if prod := queryInt(c, "prod", -1); prod > -1 && isStaff(user) {
		used := c.Query("used") == "1"
		if err := h.checkout.SetUsed(c.UserContext(), number, uint(prod), used); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update the order")
		}
	}

	data := h.pageData(c, "Order")
	order, err := h.checkout.GetOrder(c.UserContext(), number)
	if err != nil {
		data["Message"] = "Order not found"
		return h.render(c, "buy/order", data)
	}
	if !isStaff(user) && user.ID != order.BuyerID {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}

	data["Order"] = order
	if isStaff(user) {
		data["IsStaff"] = true
	}
	return h.render(c, "buy/order", data)
}

// OrderSearch lets staff look up any order by its number.
func (h *Handlers) OrderSearch(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !isStaff(user) {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}

	data := h.pageData(c, "Order search")
	if number := queryInt(c, "number", 0); number > 0 {
		orders, err := h.checkout.Search(c.UserContext(), number)
		if err != nil || len(orders) == 0 {
			data["Empty"] = true
		} else {
			window, pager := Paginate(orders, queryInt(c, "page", 0), listingPageSize)
			data["Orders"] = window
			data["Pager"] = pager
		}
	}
	return h.render(c, "buy/order_list", data)
}
