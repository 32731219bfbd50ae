package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shopfront/internal/session"
	"shopfront/internal/shopapi"
	"shopfront/internal/storage"
)

type AccountHandler struct {
	API      *shopapi.Client
	Sessions *session.Manager
	Store    storage.Store
}

func (h *AccountHandler) requireToken(c echo.Context) (string, bool) {
	if !h.Sessions.IsUserSignedIn() {
		return "", false
	}
	return h.Sessions.Token(), true
}

func (h *AccountHandler) Self(c echo.Context) error {
	token, ok := h.requireToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "error.sessionExpired"})
	}
	acc, err := h.API.Self(c.Request().Context(), token)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, acc)
}

func (h *AccountHandler) EditSelf(c echo.Context) error {
	token, ok := h.requireToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "error.sessionExpired"})
	}
	var req shopapi.EditAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidBody"})
	}
	acc, err := h.API.EditSelf(c.Request().Context(), token, req)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, acc)
}

func (h *AccountHandler) ChangeEmail(c echo.Context) error {
	token, ok := h.requireToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "error.sessionExpired"})
	}
	var req struct {
		NewEmail string `json:"newEmail"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidBody"})
	}
	if err := h.API.ChangeEmail(c.Request().Context(), token, req.NewEmail); err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "email change requested"})
}

func (h *AccountHandler) ChangePassword(c echo.Context) error {
	token, ok := h.requireToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "error.sessionExpired"})
	}
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidBody"})
	}
	if err := h.API.ChangePassword(c.Request().Context(), token, req.OldPassword, req.NewPassword); err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

func (h *AccountHandler) ChangeLocale(c echo.Context) error {
	token, ok := h.requireToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "error.sessionExpired"})
	}
	var req struct {
		Locale string `json:"locale"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidBody"})
	}
	if err := h.API.ChangeLocale(c.Request().Context(), token, req.Locale); err != nil {
		return apiError(c, err)
	}
	// Keep the local copy in sync so the UI switches language without a
	// token refresh.
	if err := h.Store.Set(storage.KeyLocale, req.Locale); err != nil {
		c.Logger().Errorf("persist locale error: %v", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"locale": req.Locale})
}

func (h *AccountHandler) Register(c echo.Context) error {
	var req shopapi.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidBody"})
	}
	if req.Login == "" || req.Password == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.registrationIncomplete"})
	}
	if err := h.API.Register(c.Request().Context(), req); err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "registered, confirmation pending"})
}

func (h *AccountHandler) ConfirmRegistration(c echo.Context) error {
	confirmToken := c.QueryParam("token")
	if confirmToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.tokenRequired"})
	}
	if err := h.API.ConfirmRegistration(c.Request().Context(), confirmToken); err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "registration confirmed"})
}
