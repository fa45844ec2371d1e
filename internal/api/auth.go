// Package api provides typed clients for the FinTrack backend, one per
// resource family. Each operation is a 1:1 mapping to one transport call;
// no caching, no retries, no merging.
package api

import (
	"context"
	"net/http"

	"fintrack/internal/transport"
)

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the session credential and display identity issued
// by the backend on login or registration.
type AuthResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthClient calls the authentication endpoints.
type AuthClient struct {
	transport *transport.Client
}

// NewAuthClient creates a new AuthClient.
func NewAuthClient(t *transport.Client) *AuthClient {
	return &AuthClient{transport: t}
}

// Register creates a new account and returns the issued credential.
func (c *AuthClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.transport.Do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates an existing account and returns the issued credential.
func (c *AuthClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.transport.Do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
