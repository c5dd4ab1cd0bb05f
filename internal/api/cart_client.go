package api

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/cart"
)

// カートリソースのワイヤ表現。
type cartPayload struct {
	Items []cartItemPayload `json:"items"`
	Total int64             `json:"total"`
}

type cartItemPayload struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type addCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// CartClient は cart.RemoteCart のHTTP実装。
type CartClient struct {
	c *Client
}

func NewCartClient(c *Client) *CartClient {
	return &CartClient{c: c}
}

func (r *CartClient) Fetch(ctx context.Context) ([]cart.RemoteLine, error) {
	var out cartPayload
	if err := r.c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return toRemoteLines(out), nil
}

func (r *CartClient) Add(ctx context.Context, productID int64, quantity int64) ([]cart.RemoteLine, error) {
	var out cartPayload
	in := addCartRequest{ProductID: productID, Quantity: quantity}
	if err := r.c.do(ctx, http.MethodPost, "/cart", in, &out); err != nil {
		return nil, err
	}
	return toRemoteLines(out), nil
}

func (r *CartClient) UpdateLine(ctx context.Context, lineID int64, quantity int64) ([]cart.RemoteLine, error) {
	var out cartPayload
	in := updateCartItemRequest{Quantity: quantity}
	if err := r.c.do(ctx, http.MethodPatch, fmt.Sprintf("/cart/%d", lineID), in, &out); err != nil {
		return nil, err
	}
	return toRemoteLines(out), nil
}

func (r *CartClient) RemoveLine(ctx context.Context, lineID int64) ([]cart.RemoteLine, error) {
	var out cartPayload
	if err := r.c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", lineID), nil, &out); err != nil {
		return nil, err
	}
	return toRemoteLines(out), nil
}

func (r *CartClient) Clear(ctx context.Context) error {
	return r.c.do(ctx, http.MethodDelete, "/cart", nil, nil)
}

func toRemoteLines(p cartPayload) []cart.RemoteLine {
	lines := make([]cart.RemoteLine, 0, len(p.Items))
	for _, it := range p.Items {
		lines = append(lines, cart.RemoteLine{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return lines
}
