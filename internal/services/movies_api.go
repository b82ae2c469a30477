package services

import (
	"context"
	"fmt"
	"net/http"

	"moviewave/internal/types"
)

func movieListQuery(p types.MovieListParams) Params {
	return Params{
		{Key: "query", Value: p.Query},
		{Key: "genres", Value: p.Genres},
		{Key: "category", Value: p.Category},
		{Key: "sort", Value: p.Sort},
		{Key: "page", Value: p.Page},
		{Key: "page_size", Value: p.PageSize},
	}
}

func pageQuery(p types.PageParams) Params {
	return Params{
		{Key: "page", Value: p.Page},
		{Key: "page_size", Value: p.PageSize},
	}
}

// GetMovies lists the catalog with optional filters.
func (c *APIClient) GetMovies(ctx context.Context, params types.MovieListParams) (*types.MovieListResponse, error) {
	var resp types.MovieListResponse
	if err := c.Get(ctx, "/api/movies", movieListQuery(params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) GetMovie(ctx context.Context, movieID int) (*types.Movie, error) {
	var movie types.Movie
	if err := c.Get(ctx, fmt.Sprintf("/api/movies/%d", movieID), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *APIClient) GetMovieReviews(ctx context.Context, movieID int, params types.PageParams) (*types.ReviewListResponse, error) {
	var resp types.ReviewListResponse
	endpoint := fmt.Sprintf("/api/movies/%d/reviews", movieID)
	if err := c.Get(ctx, endpoint, pageQuery(params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateMovieReview posts a review on behalf of userID.
func (c *APIClient) CreateMovieReview(ctx context.Context, movieID int, userID string, req types.CreateReviewRequest) (*types.Review, error) {
	var review types.Review
	endpoint := fmt.Sprintf("/api/movies/%d/reviews", movieID)
	if err := c.scoped(ctx, http.MethodPost, endpoint, userID, nil, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// SearchMovies is GetMovies filtered by a free-text query.
func (c *APIClient) SearchMovies(ctx context.Context, query string, page int) (*types.MovieListResponse, error) {
	if page <= 0 {
		page = 1
	}
	return c.GetMovies(ctx, types.MovieListParams{Query: &query, Page: &page})
}

// GetMoviesByGenre defaults to popular ordering when sort is empty.
func (c *APIClient) GetMoviesByGenre(ctx context.Context, genre, sort string, page int) (*types.MovieListResponse, error) {
	if sort == "" {
		sort = types.SortPopular
	}
	if page <= 0 {
		page = 1
	}
	return c.GetMovies(ctx, types.MovieListParams{Genres: &genre, Sort: &sort, Page: &page})
}

func (c *APIClient) GetPopularMovies(ctx context.Context, page int) (*types.MovieListResponse, error) {
	return c.sortedMovies(ctx, types.SortPopular, page)
}

func (c *APIClient) GetLatestMovies(ctx context.Context, page int) (*types.MovieListResponse, error) {
	return c.sortedMovies(ctx, types.SortLatest, page)
}

func (c *APIClient) sortedMovies(ctx context.Context, sort string, page int) (*types.MovieListResponse, error) {
	if page <= 0 {
		page = 1
	}
	return c.GetMovies(ctx, types.MovieListParams{Sort: &sort, Page: &page})
}
