package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Recipes returns GET /recipes.
func (c *Client) Recipes(ctx context.Context) ([]Recipe, error) {
	var resp struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := c.do(ctx, http.MethodGet, "/recipes", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Recipes == nil {
		resp.Recipes = []Recipe{}
	}
	return resp.Recipes, nil
}

// Recipe returns GET /recipes/{id}.
func (c *Client) Recipe(ctx context.Context, id int) (*Recipe, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	var recipe Recipe
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/recipes/%d", id), nil, nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Tags returns GET /recipes/tags. The API answers with a bare array; an
// object with a "tags" field is accepted as well.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/recipes/tags", nil, nil, &raw); err != nil {
		return nil, err
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err == nil {
		if tags == nil {
			tags = []string{}
		}
		return tags, nil
	}

	var wrapped struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if wrapped.Tags == nil {
		wrapped.Tags = []string{}
	}
	return wrapped.Tags, nil
}

// RecipesByTag returns GET /recipes/tag/{tag}?skip=&limit=. Missing paging
// fields in the response default to the request values.
func (c *Client) RecipesByTag(ctx context.Context, tag string, skip, limit int) (*RecipePage, error) {
	tag = strings.TrimSpace(tag)
	var resp struct {
		Recipes []Recipe `json:"recipes"`
		Total   *int     `json:"total"`
		Skip    *int     `json:"skip"`
		Limit   *int     `json:"limit"`
	}
	path := "/recipes/tag/" + url.PathEscape(tag)
	if err := c.do(ctx, http.MethodGet, path, pageQuery(skip, limit), nil, &resp); err != nil {
		return nil, err
	}

	page := &RecipePage{
		Recipes: resp.Recipes,
		Total:   len(resp.Recipes),
		Skip:    skip,
		Limit:   limit,
	}
	if page.Recipes == nil {
		page.Recipes = []Recipe{}
	}
	if resp.Total != nil {
		page.Total = *resp.Total
	}
	if resp.Skip != nil {
		page.Skip = *resp.Skip
	}
	if resp.Limit != nil {
		page.Limit = *resp.Limit
	}
	return page, nil
}
