package api

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
)

// OrderClient は注文作成リソース。
type OrderClient struct {
	c *Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{c: c}
}

func (r *OrderClient) Create(ctx context.Context, in model.OrderCreationRequest) (model.Order, error) {
	var out model.Order
	if err := r.c.do(ctx, http.MethodPost, "/orders", in, &out); err != nil {
		return model.Order{}, err
	}
	return out, nil
}
