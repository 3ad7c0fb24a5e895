package api

import (
	"context"
	"net/http"
	"net/url"
)

// CreateOrder issues the single atomic order-creation call. The client makes
// no automatic retry; the backend is the sole authority on duplicate
// prevention.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "orders", nil, req, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// MyOrders lists the authenticated principal's order history.
func (c *Client) MyOrders(ctx context.Context) ([]OrderSummary, error) {
	var orders []OrderSummary
	if err := c.do(ctx, http.MethodGet, "orders/myorders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order snapshot by id.
func (c *Client) GetOrder(ctx context.Context, id string) (Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "orders/"+url.PathEscape(id), nil, nil, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}
