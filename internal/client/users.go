package client

import (
	"context"
	"net/http"
)

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddUser simulates registration with POST /users/add.
func (c *Client) AddUser(ctx context.Context, user NewUser) (*User, error) {
	var created User
	if err := c.do(ctx, http.MethodPost, "/users/add", nil, user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
