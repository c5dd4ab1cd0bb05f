package api

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/domain/model"
)

// CustomerClient は認証済み顧客のデータ（住所・電話）を引く。
type CustomerClient struct {
	c *Client
}

func NewCustomerClient(c *Client) *CustomerClient {
	return &CustomerClient{c: c}
}

func (r *CustomerClient) Me(ctx context.Context) (model.Customer, error) {
	var out model.Customer
	if err := r.c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return model.Customer{}, err
	}
	return out, nil
}

func (r *CustomerClient) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	var out []model.Address
	if err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/addresses", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerClient) ListPhones(ctx context.Context, userID int64) ([]model.Phone, error) {
	var out []model.Phone
	if err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/phones", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
