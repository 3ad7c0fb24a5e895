package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ProductFilter narrows the public catalog listing. Zero values are omitted.
type ProductFilter struct {
	Keyword   string
	Category  string
	ArtisanID string
}

func (f ProductFilter) query() url.Values {
	q := url.Values{}
	if v := strings.TrimSpace(f.Keyword); v != "" {
		q.Set("keyword", v)
	}
	if v := strings.TrimSpace(f.Category); v != "" && !strings.EqualFold(v, "all") {
		q.Set("category", v)
	}
	if v := strings.TrimSpace(f.ArtisanID); v != "" {
		q.Set("artisanId", v)
	}
	return q
}

// ListProducts fetches the public catalog, optionally filtered.
func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "products", filter.query(), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one catalog entry by id.
func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "products/"+url.PathEscape(id), nil, nil, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// ArtisanProducts fetches the authenticated artisan's own catalog.
func (c *Client) ArtisanProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "products/artisan", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct registers a new product for the authenticated artisan.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "products", nil, input, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// UpdateProduct replaces the stored fields of the identified product.
func (c *Client) UpdateProduct(ctx context.Context, id string, input ProductInput) (Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPut, "products/"+url.PathEscape(id), nil, input, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// DeleteProduct removes the identified product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "products/"+url.PathEscape(id), nil, nil, nil)
}
