package web

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"

	catalogdomain "github.com/example/storefront/domain/catalog"
	"github.com/example/storefront/modules/catalog"
	"github.com/example/storefront/modules/images"
)

// productCard is the cached listing entry for one product.
type productCard struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Count    int     `json:"count"`
	IsActive bool    `json:"is_active"`
	Image    string  `json:"image"`
	Format   string  `json:"format"`
}

// listingPage is the cached slice of a product listing.
type listingPage struct {
	Products []productCard `json:"products"`
	Pager    Pager         `json:"pager"`
}

// ProductList renders the product listing, filtered by category or search
// string and paginated. Pages are served from the listing cache when one is
// wired.
func (h *Handlers) ProductList(c *fiber.Ctx) error {
	category := c.Query("category")
	q := c.Query("q")
	page := queryInt(c, "page", 0)

	data := h.pageData(c, "Products")
	if isStaff(currentUser(c)) {
		data["IsStaff"] = true
	}

	listing, err := h.loadListing(c, category, q, page)
	if err != nil {
		data["Message"] = "Failed to load products"
		return h.render(c, "product/list", data)
	}
	if len(listing.Products) > 0 {
		data["Products"] = listing.Products
		data["Pager"] = listing.Pager
		if cats, err := h.catalog.ListCategories(c.UserContext()); err == nil {
			data["Categories"] = toCategoryViews(cats)
		}
	}
	return h.render(c, "product/list", data)
}

// loadListing builds one listing page, going through the cache when
// available.
func (h *Handlers) loadListing(c *fiber.Ctx, category, q string, page int) (*listingPage, error) {
	key := fmt.Sprintf("listing:%s:%s:%d", category, q, page)
	if h.cache != nil {
		var cached listingPage
		hit, err := h.cache.Get(c.UserContext(), key, &cached)
		if err != nil {
			log.Printf("[web] Listing cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	filter := catalog.ListFilter{Query: q}
	if category != "" {
		filter.CategoryID = uint(queryInt(c, "category", 0))
	}
	products, err := h.catalog.ListProducts(c.UserContext(), filter)
	if err != nil {
		return nil, err
	}

	cards := make([]productCard, 0, len(products))
	for _, p := range products {
		img, format := h.images.Load(p.Name, p.Image, images.VariantList)
		cards = append(cards, productCard{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Count:    p.Count,
			IsActive: p.IsActive,
			Image:    img,
			Format:   format,
		})
	}

	window, pager := Paginate(cards, page, listingPageSize)
	listing := &listingPage{Products: window, Pager: pager}

	if h.cache != nil {
		if err := h.cache.Set(c.UserContext(), key, listing); err != nil {
			log.Printf("[web] Listing cache write failed: %v", err)
		}
	}
	return listing, nil
}

// ProductDetail renders one product page.
func (h *Handlers) ProductDetail(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	data := h.pageData(c, "Product")
	h.fillProductPage(c, data, product)
	if user := currentUser(c); user != nil {
		data["LoggedIn"] = true
		if isStaff(user) {
			data["IsStaff"] = true
		}
	}
	return h.render(c, "product/detail", data)
}

// fillProductPage adds the product, its full-size image and its category to
// the template data.
func (h *Handlers) fillProductPage(c *fiber.Ctx, data fiber.Map, product *catalogdomain.Product) {
	img, format := h.images.Load(product.Name, product.Image, images.VariantPage)
	data["Product"] = catalog.ToProductView(product)
	data["Image"] = img
	data["Format"] = format
	if cats, err := h.catalog.ListCategories(c.UserContext()); err == nil {
		data["Categories"] = toCategoryViews(cats)
		if cat := catalog.FindCategory(cats, product.CategoryID); cat != nil {
			data["ProductCategory"] = catalog.ToCategoryView(cat)
		}
	}
}

// ProductCreatePage shows the product creation form to staff.
func (h *Handlers) ProductCreatePage(c *fiber.Ctx) error {
	data := h.pageData(c, "New product")
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
	return h.render(c, "product/create", data)
}

// ProductCreate stores a new product together with its uploaded image.
func (h *Handlers) ProductCreate(c *fiber.Ctx) error {
	data := h.pageData(c, "New product")
	user := currentUser(c)
	if user == nil {
		data["Message"] = "You are not logged in"
		return h.render(c, "product/create", data)
	}
	if !isStaff(user) {
		data["Message"] = "You do not have permission"
		return h.render(c, "product/create", data)
	}
	data["Display"] = true

	name := c.FormValue("name")
	if name == "" {
		data["Message"] = "Name must not be empty"
		return h.render(c, "product/create", data)
	}

	storedName, err := h.saveUpload(c, name)
	if err != nil {
		data["Message"] = "Failed to store the image"
		return h.render(c, "product/create", data)
	}

	product := &catalogdomain.Product{
		Name:        name,
		Description: c.FormValue("description"),
		ItemNumber:  c.FormValue("item_number"),
		Price:       formFloat(c, "price"),
		Count:       formInt(c, "count"),
		IsActive:    true,
		Image:       storedName,
		CategoryID:  uint(formInt(c, "category")),
	}
	if err := h.catalog.CreateProduct(c.UserContext(), product); err != nil {
		h.images.Remove(name, storedName)
		data["Message"] = "Failed to create the product"
		return h.render(c, "product/create", data)
	}
	return c.Redirect("/product/list", fiber.StatusSeeOther)
}

// saveUpload reads the uploaded form file and stores it for the product.
func (h *Handlers) saveUpload(c *fiber.Ctx, productName string) (string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", err
	}
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return h.images.Save(productName, header.Filename, data)
}

// ProductUpdatePage shows the product edit form to staff.
func (h *Handlers) ProductUpdatePage(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}
	if !isStaff(user) {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}
	product, err := h.catalog.GetProduct(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Edit product")
	data["Display"] = true
	h.fillProductPage(c, data, product)
	return h.render(c, "product/update", data)
}

// ProductUpdate saves the edited product fields.
func (h *Handlers) ProductUpdate(c *fiber.Ctx) error {
	id := paramUint(c, "id")
	if !isStaff(currentUser(c)) {
		return c.Redirect(fmt.Sprintf("/product/%d", id), fiber.StatusSeeOther)
	}
	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}

	product.ItemNumber = c.FormValue("item_number")
	product.Description = c.FormValue("description")
	product.Price = formFloat(c, "price")
	product.Count = formInt(c, "count")
	product.IsActive = formCheckbox(c, "is_active")
	product.CategoryID = uint(formInt(c, "category"))
	if err := h.catalog.UpdateProduct(c.UserContext(), product); err != nil {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}
	return c.Redirect(fmt.Sprintf("/product/%d", id), fiber.StatusSeeOther)
}

// ProductUpdateImagePage shows the image replacement form to staff.
func (h *Handlers) ProductUpdateImagePage(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}
	if !isStaff(user) {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}
	product, err := h.catalog.GetProduct(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Replace image")
	data["Display"] = true
	h.fillProductPage(c, data, product)
	return h.render(c, "product/update_image", data)
}

// ProductUpdateImage replaces the product image, removing the old files.
func (h *Handlers) ProductUpdateImage(c *fiber.Ctx) error {
	id := paramUint(c, "id")
	if !isStaff(currentUser(c)) {
		return c.Redirect(fmt.Sprintf("/product/%d", id), fiber.StatusSeeOther)
	}
	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}

	storedName, err := h.saveUpload(c, product.Name)
	if err != nil {
		return c.Redirect(fmt.Sprintf("/product/%d", id), fiber.StatusSeeOther)
	}
	h.images.Remove(product.Name, product.Image)
	if err := h.catalog.SetProductImage(c.UserContext(), id, storedName); err != nil {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}
	return c.Redirect(fmt.Sprintf("/product/%d", id), fiber.StatusSeeOther)
}

// ProductDeletePage shows the deletion confirmation. A product that was
// already purchased warns that removal needs administrator rights.
func (h *Handlers) ProductDeletePage(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}
	if !isStaff(user) {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}
	product, err := h.catalog.GetProduct(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}

	data := h.pageData(c, "Delete product")
	data["Display"] = true
	h.fillProductPage(c, data, product)
	if purchased, err := h.checkout.ProductPurchased(c.UserContext(), product.ID); err == nil && purchased {
		data["Message"] = "This product has been purchased. Removal requires administrator rights"
	}
	return h.render(c, "product/delete", data)
}

// ProductDelete deactivates a product. An administrator removes it for good
// when nobody ever bought it, dropping the image files as well.
func (h *Handlers) ProductDelete(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}
	if !isStaff(user) {
		return c.Redirect("/product/list", fiber.StatusSeeOther)
	}
	id := paramUint(c, "id")

	if isAdmin(user) {
		purchased, err := h.checkout.ProductPurchased(c.UserContext(), id)
		if err == nil && !purchased {
			if product, err := h.catalog.GetProduct(c.UserContext(), id); err == nil {
				if err := h.catalog.DeleteProduct(c.UserContext(), id); err == nil {
					h.images.Remove(product.Name, product.Image)
				}
			}
			return c.Redirect("/product/list", fiber.StatusSeeOther)
		}
	}

	if err := h.catalog.DeactivateProduct(c.UserContext(), id); err != nil &&
		!errors.Is(err, catalog.ErrProductNotFound) {
		log.Printf("[web] Failed to deactivate product %d: %v", id, err)
	}
	return c.Redirect("/product/list", fiber.StatusSeeOther)
}
