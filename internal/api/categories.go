package api

import (
	"context"
	"fmt"
	"net/http"

	"fintrack/internal/transport"
)

// Category represents an expense category. UserID is nil for the shared
// system-default categories, which are not deletable by convention.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      *int64 `json:"userId,omitempty"`
}

// IsDefault reports whether the category is a shared system default.
func (c Category) IsDefault() bool {
	return c.UserID == nil
}

// CategoryRequest is the payload for creating a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CategoriesClient calls the category endpoints.
type CategoriesClient struct {
	transport *transport.Client
}

// NewCategoriesClient creates a new CategoriesClient.
func NewCategoriesClient(t *transport.Client) *CategoriesClient {
	return &CategoriesClient{transport: t}
}

// List fetches all categories visible to the current user, defaults included.
func (c *CategoriesClient) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.transport.Do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Create submits a new user-owned category.
func (c *CategoriesClient) Create(ctx context.Context, req CategoryRequest) (*Category, error) {
	var category Category
	if err := c.transport.Do(ctx, http.MethodPost, "/categories", req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a user-owned category by ID.
func (c *CategoriesClient) Delete(ctx context.Context, id int64) error {
	return c.transport.Do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}
