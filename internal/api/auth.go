package api

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges credentials for a principal including its bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (Principal, error) {
	var principal Principal
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, req, &principal); err != nil {
		return Principal{}, err
	}
	return principal, nil
}

// Register creates an account and returns the authenticated principal.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Principal, error) {
	if req.Role != RoleArtisan {
		// role-specific fields are carried only for artisan registrations
		req.ArtisanDetails = nil
	}
	var principal Principal
	if err := c.do(ctx, http.MethodPost, "auth/register", nil, req, &principal); err != nil {
		return Principal{}, err
	}
	return principal, nil
}

// ListArtisans fetches the public artisan directory.
func (c *Client) ListArtisans(ctx context.Context) ([]ArtisanSummary, error) {
	var artisans []ArtisanSummary
	if err := c.do(ctx, http.MethodGet, "auth/artisans", nil, nil, &artisans); err != nil {
		return nil, err
	}
	return artisans, nil
}

// GetUser fetches one account's public summary.
func (c *Client) GetUser(ctx context.Context, id string) (UserSummary, error) {
	var user UserSummary
	if err := c.do(ctx, http.MethodGet, "auth/users/"+url.PathEscape(id), nil, nil, &user); err != nil {
		return UserSummary{}, err
	}
	return user, nil
}
