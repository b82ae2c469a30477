package services

import (
	"context"
	"net/http"
	"net/url"

	"moviewave/internal/types"
)

func (c *APIClient) GetCurrentUser(ctx context.Context, userID string) (*types.User, error) {
	var user types.User
	if err := c.scoped(ctx, http.MethodGet, "/api/users/me", userID, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser registers a user at signup.
func (c *APIClient) CreateUser(ctx context.Context, req types.CreateUserRequest) (*types.User, error) {
	var user types.User
	if err := c.Post(ctx, "/api/users", req, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *APIClient) UpdateCurrentUser(ctx context.Context, userID string, req types.UpdateUserRequest) (*types.User, error) {
	var user types.User
	if err := c.scoped(ctx, http.MethodPut, "/api/users/me", userID, nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *APIClient) GetCurrentUserReviews(ctx context.Context, userID string, params types.PageParams) (*types.ReviewListResponse, error) {
	var resp types.ReviewListResponse
	if err := c.scoped(ctx, http.MethodGet, "/api/users/me/reviews", userID, pageQuery(params), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUserTasteAnalysis fetches the server-computed taste summary for userID.
func (c *APIClient) GetUserTasteAnalysis(ctx context.Context, userID string) (*types.TasteAnalysis, error) {
	var analysis types.TasteAnalysis
	if err := c.scoped(ctx, http.MethodGet, "/api/users/me/taste-analysis", userID, nil, nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (c *APIClient) GetUser(ctx context.Context, userID string) (*types.User, error) {
	var user types.User
	if err := c.Get(ctx, "/api/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
