package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// CatalogHandler exposes categories, products and storefronts.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCategories GET /api/categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	items, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCategoryResponses(items))
}

// ListProducts GET /api/products.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	items, err := h.catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewProductResponses(items))
}

// FilterProducts GET /api/products/filter?search=&category=.
func (h *CatalogHandler) FilterProducts(c *fiber.Ctx) error {
	items, err := h.catalog.FilterProducts(c.UserContext(), c.Query("search"), c.Query("category", "all"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.FilterResponse{Results: dto.NewProductResponses(items)})
}

// ProductsByCategory GET /api/products-by-category.
func (h *CatalogHandler) ProductsByCategory(c *fiber.Ctx) error {
	items, err := h.catalog.ProductsByCategory(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCategoryWithProductsResponses(items))
}

// Store GET /api/products/store/:slug.
func (h *CatalogHandler) Store(c *fiber.Ctx) error {
	store, err := h.catalog.Store(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStoreResponse(store))
}

// GetProduct GET /api/products/:id.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewProductResponse(product))
}

// SellerProducts GET /api/products/seller.
func (h *CatalogHandler) SellerProducts(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.catalog.SellerProducts(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewProductResponses(items))
}

// CreateProduct POST /api/products (multipart: name, description, price, stock, category_id, file).
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form expected", nil)
	}

	in := service.CreateProductInput{
		Name:        formValue(form, "name"),
		Description: formValue(form, "description"),
		CategoryID:  formValue(form, "category_id"),
	}
	if in.Price, err = parseFloatField(form, "price"); err != nil {
		return err
	}
	if in.Stock, err = parseIntField(form, "stock"); err != nil {
		return err
	}

	obj, file, err := requireImage(c, "file")
	if err != nil {
		return err
	}
	defer file.Close()
	in.Image = obj

	product, err := h.catalog.CreateProduct(c.UserContext(), user.ID, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewProductResponse(product))
}

// UpdateProduct POST /api/products/:id/update (multipart, every field optional).
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form expected", nil)
	}

	var in service.UpdateProductInput
	in.Name = optionalValue(form, "name")
	in.Description = optionalValue(form, "description")
	in.CategoryID = optionalValue(form, "category_id")
	if v := optionalValue(form, "price"); v != nil {
		price, err := parseFloatField(form, "price")
		if err != nil {
			return err
		}
		in.Price = &price
	}
	if v := optionalValue(form, "stock"); v != nil {
		stock, err := parseIntField(form, "stock")
		if err != nil {
			return err
		}
		in.Stock = &stock
	}
	if v := optionalValue(form, "is_active"); v != nil {
		active, err := strconv.ParseBool(*v)
		if err != nil {
			return apperrors.NewValidationError("is_active must be a boolean", map[string]any{"field": "is_active"})
		}
		in.IsActive = &active
	}

	obj, file, ok, err := formImage(c, "file")
	if err != nil {
		return err
	}
	if ok {
		defer file.Close()
		in.Image = &obj
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), user.ID, c.Params("id"), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewProductResponse(product))
}

// DeleteProduct DELETE /api/products/:id.
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteProduct(c.UserContext(), user.ID, c.Params("id")); err != nil {
		return err
	}
	return message(c, http.StatusOK, "product deleted successfully")
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// optionalValue returns nil when the field is absent from the form.
func optionalValue(form *multipart.Form, key string) *string {
	v, ok := form.Value[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}

func parseFloatField(form *multipart.Form, key string) (float64, error) {
	raw := strings.TrimSpace(formValue(form, key))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(key+" must be a number", map[string]any{"field": key})
	}
	return v, nil
}

func parseIntField(form *multipart.Form, key string) (int, error) {
	raw := strings.TrimSpace(formValue(form, key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(key+" must be an integer", map[string]any{"field": key})
	}
	return v, nil
}
