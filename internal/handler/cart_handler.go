package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/api"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// /cartのHTTP
type CartHandler struct{}

func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type CartItemResponse struct {
	LineID    int64  `json:"line_id,omitempty"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total int64              `json:"total"`
}

// /cart, /cart/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cart", h.getCart)
	e.POST("/cart", h.addToCart)
	e.PATCH("/cart/:id", h.patchItem)
	e.DELETE("/cart/:id", h.deleteItem)
	e.DELETE("/cart", h.clearCart)
}

func (h *CartHandler) getCart(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	// 投機的フェッチ。失敗してもローカルのカートを返す。
	sess.Carts.Fetch(c.Request().Context())

	return c.JSON(http.StatusOK, buildCartResponse(sess))
}

func (h *CartHandler) addToCart(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.ProductID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quantity"})
	}

	// 追加時点の価格はカタログから取る
	p, err := sess.Catalog.GetProduct(c.Request().Context(), req.ProductID)
	if err != nil {
		if apiErr, ok := asAPIError(err); ok && apiErr.Status == http.StatusNotFound {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
		}
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "catalog unavailable"})
	}

	sess.Carts.Add(c.Request().Context(), p, req.Quantity)

	return c.JSON(http.StatusOK, buildCartResponse(sess))
}

func (h *CartHandler) patchItem(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sess.Carts.SetQuantity(c.Request().Context(), productID, req.Quantity)

	return c.JSON(http.StatusOK, buildCartResponse(sess))
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	// idはリモート明細IDか商品IDのどちらでもよい
	identifier, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || identifier <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	sess.Carts.Remove(c.Request().Context(), identifier)

	return c.JSON(http.StatusOK, buildCartResponse(sess))
}

func (h *CartHandler) clearCart(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	sess.Carts.Clear(c.Request().Context())

	return c.JSON(http.StatusOK, buildCartResponse(sess))
}

func buildCartResponse(sess *session.Session) CartResponse {
	lines := sess.Store.Read()

	items := make([]CartItemResponse, 0, len(lines))
	var total int64
	for _, l := range lines {
		items = append(items, CartItemResponse{
			LineID:    l.LineID,
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
		})
		total += l.Subtotal()
	}

	return CartResponse{Items: items, Total: total}
}

func asAPIError(err error) (*api.Error, bool) {
	var apiErr *api.Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
