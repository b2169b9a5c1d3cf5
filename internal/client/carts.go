package client

import (
	"context"
	"fmt"
	"net/http"
)

// Carts returns GET /carts.
func (c *Client) Carts(ctx context.Context, skip, limit int) (*CartPage, error) {
	var page CartPage
	if err := c.do(ctx, http.MethodGet, "/carts", pageQuery(skip, limit), nil, &page); err != nil {
		return nil, err
	}
	if page.Carts == nil {
		page.Carts = []Cart{}
	}
	return &page, nil
}

// Cart returns GET /carts/{id}.
func (c *Client) Cart(ctx context.Context, id int) (*Cart, error) {
	if id <= 0 {
		return nil, ErrCartIDRequired
	}
	var cart Cart
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/carts/%d", id), nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// CartsByUser returns GET /carts/user/{id}.
func (c *Client) CartsByUser(ctx context.Context, userID int) (*CartPage, error) {
	if userID <= 0 {
		return nil, ErrInvalidID
	}
	var page CartPage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/carts/user/%d", userID), nil, nil, &page); err != nil {
		return nil, err
	}
	if page.Carts == nil {
		page.Carts = []Cart{}
	}
	return &page, nil
}

// NormalizeLineItems drops lines without a positive id and raises quantities below 1 to 1.
func NormalizeLineItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.ID <= 0 {
			continue
		}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		out = append(out, it)
	}
	return out
}

// AddCart simulates cart creation with POST /carts/add.
func (c *Client) AddCart(ctx context.Context, userID int, products []LineItem) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	products = NormalizeLineItems(products)
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	body := struct {
		UserID   int        `json:"userId"`
		Products []LineItem `json:"products"`
	}{userID, products}

	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/carts/add", nil, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCart simulates PUT /carts/{id}. With merge the products are added to the existing ones.
func (c *Client) UpdateCart(ctx context.Context, id int, merge bool, products []LineItem) (*Cart, error) {
	if id <= 0 {
		return nil, ErrCartIDRequired
	}

	body := struct {
		Merge    bool       `json:"merge"`
		Products []LineItem `json:"products"`
	}{merge, NormalizeLineItems(products)}

	var cart Cart
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/carts/%d", id), nil, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// DeleteCart simulates DELETE /carts/{id}.
func (c *Client) DeleteCart(ctx context.Context, id int) (*Cart, error) {
	if id <= 0 {
		return nil, ErrCartIDRequired
	}
	var cart Cart
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/carts/%d", id), nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}
