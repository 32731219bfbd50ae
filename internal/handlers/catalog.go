package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"shopfront/internal/preferences"
	"shopfront/internal/session"
	"shopfront/internal/shopapi"
)

type CatalogHandler struct {
	API         *shopapi.Client
	Sessions    *session.Manager
	Preferences *preferences.Store
}

func (h *CatalogHandler) GetProducts(c echo.Context) error {
	products, err := h.API.Products(c.Request().Context())
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidId"})
	}

	product, err := h.API.Product(c.Request().Context(), uint(id))
	if err != nil {
		return apiError(c, err)
	}

	// Viewing a product detail page weighs half an add-to-cart.
	h.Preferences.Bump(fmt.Sprintf("product:%d", id), 0.5)

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) ArchiveProduct(c echo.Context) error {
	if !h.Sessions.IsUserSignedIn() {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "error.sessionExpired"})
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidId"})
	}
	if err := h.API.ArchiveProduct(c.Request().Context(), h.Sessions.Token(), uint(id)); err != nil {
		return apiError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
