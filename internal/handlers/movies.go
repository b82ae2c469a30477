package handlers

import (
	"encoding/json"
	"net/http"

	"moviewave/internal/services"
	"moviewave/internal/types"
	"moviewave/internal/utils"
)

type MovieHandler struct {
	client   *services.APIClient
	identity *services.IdentityStore
}

func NewMovieHandler(client *services.APIClient, identity *services.IdentityStore) *MovieHandler {
	return &MovieHandler{
		client:   client,
		identity: identity,
	}
}

func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	params := types.MovieListParams{
		Query:    utils.GetQueryParam(r, "query"),
		Genres:   utils.GetQueryParam(r, "genres"),
		Category: utils.GetQueryParam(r, "category"),
		Sort:     utils.GetQueryParam(r, "sort"),
		Page:     utils.GetQueryParamInt(r, "page"),
		PageSize: utils.GetQueryParamInt(r, "page_size"),
	}

	if params.Sort != nil {
		switch *params.Sort {
		case types.SortLatest, types.SortPopular, types.SortRating:
		default:
			utils.RespondError(w, "sort must be one of latest, popular, rating", http.StatusBadRequest)
			return
		}
	}

	movies, err := h.client.GetMovies(r.Context(), params)
	if err != nil {
		respondClientError(w, err, "Failed to load movie list")
		return
	}

	utils.RespondJSON(w, movies, http.StatusOK)
}

func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := utils.GetPathParamInt(r, "id")
	if err != nil {
		utils.RespondError(w, "Invalid movie ID", http.StatusBadRequest)
		return
	}

	movie, err := h.client.GetMovie(r.Context(), movieID)
	if err != nil {
		respondClientError(w, err, "Failed to load movie")
		return
	}

	utils.RespondJSON(w, movie, http.StatusOK)
}

func (h *MovieHandler) GetMovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID, err := utils.GetPathParamInt(r, "id")
	if err != nil {
		utils.RespondError(w, "Invalid movie ID", http.StatusBadRequest)
		return
	}

	reviews, err := h.client.GetMovieReviews(r.Context(), movieID, types.PageParams{
		Page:     utils.GetQueryParamInt(r, "page"),
		PageSize: utils.GetQueryParamInt(r, "page_size"),
	})
	if err != nil {
		respondClientError(w, err, "Failed to load reviews")
		return
	}

	utils.RespondJSON(w, reviews, http.StatusOK)
}

func (h *MovieHandler) CreateMovieReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.identity)
	if !ok {
		return
	}

	movieID, err := utils.GetPathParamInt(r, "id")
	if err != nil {
		utils.RespondError(w, "Invalid movie ID", http.StatusBadRequest)
		return
	}

	var req types.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	review, err := h.client.CreateMovieReview(r.Context(), movieID, userID, req)
	if err != nil {
		respondClientError(w, err, "Failed to create review")
		return
	}

	utils.RespondJSON(w, review, http.StatusCreated)
}
