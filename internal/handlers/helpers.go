package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"shopfront/internal/events"
	"shopfront/internal/shopapi"
)

// apiError translates a backend failure into the localized-toast shape:
// the server's message key when it sent one, a generic fallback otherwise.
func apiError(c echo.Context, err error) error {
	var apiErr *shopapi.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.Status, echo.Map{"message": apiErr.MessageKey})
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"message": shopapi.FallbackMessageKey})
}

func publish(c echo.Context, producer *events.Producer, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.Publish(ctx, key, event); err != nil {
		c.Logger().Errorf("event publish error: %v", err)
	}
}
