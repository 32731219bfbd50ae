package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"shopfront/internal/cart"
	"shopfront/internal/events"
	"shopfront/internal/logging"
	"shopfront/internal/models"
	"shopfront/internal/preferences"
	"shopfront/internal/session"
)

type CartHandler struct {
	Cart        *cart.Store
	Sessions    *session.Manager
	Preferences *preferences.Store
	Producer    *events.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	entries := h.Cart.Entries()
	return c.JSON(http.StatusOK, echo.Map{
		"entries":       entries,
		"totalQuantity": h.Cart.TotalQuantity(),
		"anyArchival":   cart.AnyArchival(entries),
	})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req models.CartEntry
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidBody"})
	}
	if req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.productRequired"})
	}

	h.Cart.Add(req)
	h.Preferences.Bump(fmt.Sprintf("product:%d", req.ProductID), 1)

	login := h.Sessions.Login()
	publish(c, h.Producer, login, map[string]any{
		"type":      "cart_item_added",
		"login":     login,
		"productID": req.ProductID,
	})

	l.Info("item added to cart", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, echo.Map{"entries": h.Cart.Entries()})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidId"})
	}

	h.Cart.Remove(uint(id))

	login := h.Sessions.Login()
	publish(c, h.Producer, login, map[string]any{
		"type":      "cart_item_removed",
		"login":     login,
		"productID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"entries": h.Cart.Entries()})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	h.Cart.Clear()

	login := h.Sessions.Login()
	publish(c, h.Producer, login, map[string]any{
		"type":  "cart_cleared",
		"login": login,
	})

	return c.JSON(http.StatusOK, echo.Map{"entries": h.Cart.Entries()})
}
