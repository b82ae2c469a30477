package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moviewave/internal/services"
	"moviewave/internal/types"
	"moviewave/internal/utils"
)

type ReviewHandler struct {
	client   *services.APIClient
	identity *services.IdentityStore
}

func NewReviewHandler(client *services.APIClient, identity *services.IdentityStore) *ReviewHandler {
	return &ReviewHandler{
		client:   client,
		identity: identity,
	}
}

func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := utils.GetPathParamInt(r, "id")
	if err != nil {
		utils.RespondError(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	review, err := h.client.GetReview(r.Context(), reviewID)
	if err != nil {
		respondClientError(w, err, "Failed to load review")
		return
	}

	utils.RespondJSON(w, review, http.StatusOK)
}

func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r, h.identity); !ok {
		return
	}

	reviewID, err := utils.GetPathParamInt(r, "id")
	if err != nil {
		utils.RespondError(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	var req types.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	review, err := h.client.UpdateReview(r.Context(), reviewID, req)
	if err != nil {
		respondClientError(w, err, "Failed to update review")
		return
	}

	utils.RespondJSON(w, review, http.StatusOK)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r, h.identity); !ok {
		return
	}

	reviewID, err := utils.GetPathParamInt(r, "id")
	if err != nil {
		utils.RespondError(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	msg, err := h.client.DeleteReview(r.Context(), reviewID)
	if err != nil {
		respondClientError(w, err, "Failed to delete review")
		return
	}

	utils.RespondJSON(w, msg, http.StatusOK)
}

// LikeReview forwards is_like as given (default true); see ToggleReviewLike.
func (h *ReviewHandler) LikeReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.identity)
	if !ok {
		return
	}

	reviewID, err := utils.GetPathParamInt(r, "id")
	if err != nil {
		utils.RespondError(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	isLike := true
	if value := r.URL.Query().Get("is_like"); value != "" {
		isLike, err = strconv.ParseBool(value)
		if err != nil {
			utils.RespondError(w, "is_like must be true or false", http.StatusBadRequest)
			return
		}
	}

	msg, err := h.client.ToggleReviewLike(r.Context(), reviewID, userID, isLike)
	if err != nil {
		respondClientError(w, err, "Failed to like review")
		return
	}

	utils.RespondJSON(w, msg, http.StatusOK)
}

func (h *ReviewHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	reviewID, err := utils.GetPathParamInt(r, "id")
	if err != nil {
		utils.RespondError(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	comments, err := h.client.GetReviewComments(r.Context(), reviewID, types.CommentListParams{
		Skip:  utils.GetQueryParamInt(r, "skip"),
		Limit: utils.GetQueryParamInt(r, "limit"),
	})
	if err != nil {
		respondClientError(w, err, "Failed to load comments")
		return
	}
	if comments == nil {
		comments = []types.Comment{}
	}

	utils.RespondJSON(w, comments, http.StatusOK)
}

func (h *ReviewHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.identity)
	if !ok {
		return
	}

	reviewID, err := utils.GetPathParamInt(r, "id")
	if err != nil {
		utils.RespondError(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	var req types.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.client.CreateReviewComment(r.Context(), reviewID, userID, req)
	if err != nil {
		respondClientError(w, err, "Failed to post comment")
		return
	}

	utils.RespondJSON(w, comment, http.StatusCreated)
}
