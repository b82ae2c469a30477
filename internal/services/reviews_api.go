package services

import (
	"context"
	"fmt"
	"net/http"

	"moviewave/internal/types"
)

func (c *APIClient) GetReview(ctx context.Context, reviewID int) (*types.Review, error) {
	var review types.Review
	if err := c.Get(ctx, fmt.Sprintf("/api/reviews/%d", reviewID), nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview changes the rating and/or content of a review. Nil fields are left as they are.
func (c *APIClient) UpdateReview(ctx context.Context, reviewID int, req types.UpdateReviewRequest) (*types.Review, error) {
	var review types.Review
	if err := c.Put(ctx, fmt.Sprintf("/api/reviews/%d", reviewID), req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *APIClient) DeleteReview(ctx context.Context, reviewID int) (*types.MessageResponse, error) {
	var msg types.MessageResponse
	if err := c.Delete(ctx, fmt.Sprintf("/api/reviews/%d", reviewID), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ToggleReviewLike records a like (isLike) or dislike from userID. Whether a
// repeated call undoes the previous one is up to the backend.
func (c *APIClient) ToggleReviewLike(ctx context.Context, reviewID int, userID string, isLike bool) (*types.MessageResponse, error) {
	var msg types.MessageResponse
	endpoint := fmt.Sprintf("/api/reviews/%d/likes", reviewID)
	extra := Params{{Key: "is_like", Value: isLike}}
	if err := c.scoped(ctx, http.MethodPost, endpoint, userID, extra, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *APIClient) LikeReview(ctx context.Context, reviewID int, userID string) (*types.MessageResponse, error) {
	return c.ToggleReviewLike(ctx, reviewID, userID, true)
}

func (c *APIClient) DislikeReview(ctx context.Context, reviewID int, userID string) (*types.MessageResponse, error) {
	return c.ToggleReviewLike(ctx, reviewID, userID, false)
}

func (c *APIClient) GetReviewComments(ctx context.Context, reviewID int, params types.CommentListParams) ([]types.Comment, error) {
	var comments []types.Comment
	query := Params{
		{Key: "skip", Value: params.Skip},
		{Key: "limit", Value: params.Limit},
	}
	if err := c.Get(ctx, fmt.Sprintf("/api/reviews/%d/comments", reviewID), query, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *APIClient) CreateReviewComment(ctx context.Context, reviewID int, userID string, req types.CreateCommentRequest) (*types.Comment, error) {
	var comment types.Comment
	endpoint := fmt.Sprintf("/api/reviews/%d/comments", reviewID)
	if err := c.scoped(ctx, http.MethodPost, endpoint, userID, nil, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
