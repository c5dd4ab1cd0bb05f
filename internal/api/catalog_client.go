package api

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/domain/model"
)

// CatalogClient は公開商品カタログ。追加時点の価格はここから取る。
type CatalogClient struct {
	c *Client
}

func NewCatalogClient(c *Client) *CatalogClient {
	return &CatalogClient{c: c}
}

func (r *CatalogClient) GetProduct(ctx context.Context, productID int64) (model.ProductSummary, error) {
	var out model.ProductSummary
	if err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, &out); err != nil {
		return model.ProductSummary{}, err
	}
	return out, nil
}
