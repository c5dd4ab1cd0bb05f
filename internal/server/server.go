package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

func Start(addr string, reg *session.Registry, cartH *handler.CartHandler, checkoutH *handler.CheckoutHandler) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Attach(reg))

	RegisterRoutes(e, cartH, checkoutH)

	return e.Start(addr)
}

func RegisterRoutes(e *echo.Echo, cartH *handler.CartHandler, checkoutH *handler.CheckoutHandler) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	cartH.RegisterRoutes(e)
	checkoutH.RegisterRoutes(e)
}
