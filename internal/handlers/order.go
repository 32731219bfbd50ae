package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"shopfront/internal/session"
	"shopfront/internal/shopapi"
)

type OrderHandler struct {
	API      *shopapi.Client
	Sessions *session.Manager
}

func (h *OrderHandler) requireToken(c echo.Context) (string, bool) {
	if !h.Sessions.IsUserSignedIn() {
		return "", false
	}
	return h.Sessions.Token(), true
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	token, ok := h.requireToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "error.sessionExpired"})
	}
	orders, err := h.API.Orders(c.Request().Context(), token)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	token, ok := h.requireToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "error.sessionExpired"})
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidId"})
	}
	order, err := h.API.Order(c.Request().Context(), token, uint(id))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

type rateParams struct {
	token string
	id    uint
	rate  uint
}

// rateRequest validates the shared pieces of the three rate endpoints.
// On failure the response is already written and ok is false.
func (h *OrderHandler) rateRequest(c echo.Context) (rateParams, bool) {
	token, ok := h.requireToken(c)
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"message": "error.sessionExpired"})
		return rateParams{}, false
	}
	rawID, err := strconv.Atoi(c.Param("id"))
	if err != nil || rawID <= 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidId"})
		return rateParams{}, false
	}

	var req struct {
		Rate uint `json:"rate"`
	}
	if c.Request().Method != http.MethodDelete {
		if err := c.Bind(&req); err != nil {
			_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidBody"})
			return rateParams{}, false
		}
		if req.Rate < 1 || req.Rate > 5 {
			_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "error.rateOutOfRange"})
			return rateParams{}, false
		}
	}
	return rateParams{token: token, id: uint(rawID), rate: req.Rate}, true
}

func (h *OrderHandler) RateProduct(c echo.Context) error {
	p, ok := h.rateRequest(c)
	if !ok {
		return nil
	}
	if err := h.API.RateOrderedProduct(c.Request().Context(), p.token, p.id, p.rate); err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rate": p.rate})
}

func (h *OrderHandler) ChangeRate(c echo.Context) error {
	p, ok := h.rateRequest(c)
	if !ok {
		return nil
	}
	if err := h.API.ChangeRate(c.Request().Context(), p.token, p.id, p.rate); err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rate": p.rate})
}

func (h *OrderHandler) DeleteRate(c echo.Context) error {
	p, ok := h.rateRequest(c)
	if !ok {
		return nil
	}
	if err := h.API.DeleteRate(c.Request().Context(), p.token, p.id); err != nil {
		return apiError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
