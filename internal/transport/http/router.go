package httpserver

import (
	"github.com/labstack/echo/v4"

	"shopfront/internal/handlers"
)

type Deps struct {
	SessionHandler *handlers.SessionHandler
	CartHandler    *handlers.CartHandler
	AccountHandler *handlers.AccountHandler
	CatalogHandler *handlers.CatalogHandler
	OrderHandler   *handlers.OrderHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/login", d.SessionHandler.Login)
	v1.POST("/auth/logout", d.SessionHandler.Logout)
	v1.POST("/auth/extend", d.SessionHandler.Extend)
	v1.GET("/session", d.SessionHandler.State)
	v1.POST("/session/prompts/ack", d.SessionHandler.AcknowledgePrompts)

	v1.POST("/account/register", d.AccountHandler.Register)
	v1.PUT("/account/register/confirm", d.AccountHandler.ConfirmRegistration)
	v1.GET("/account/self", d.AccountHandler.Self)
	v1.PUT("/account/self/edit", d.AccountHandler.EditSelf)
	v1.PUT("/account/self/change-email", d.AccountHandler.ChangeEmail)
	v1.PUT("/account/self/change-password", d.AccountHandler.ChangePassword)
	v1.PUT("/account/self/change-locale", d.AccountHandler.ChangeLocale)

	products := v1.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.PUT("/:id/archive", d.CatalogHandler.ArchiveProduct)

	cartGroup := v1.Group("/cart")
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.DELETE("", d.CartHandler.ClearCart)
	cartGroup.DELETE("/:id", d.CartHandler.RemoveFromCart)

	orders := v1.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/orderedProducts/:id/rate", d.OrderHandler.RateProduct)
	orders.PUT("/orderedProducts/:id/rate", d.OrderHandler.ChangeRate)
	orders.DELETE("/orderedProducts/:id/rate", d.OrderHandler.DeleteRate)
}
