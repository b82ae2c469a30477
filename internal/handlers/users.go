package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"moviewave/internal/services"
	"moviewave/internal/types"
	"moviewave/internal/utils"
)

type UserHandler struct {
	client   *services.APIClient
	identity *services.IdentityStore
}

func NewUserHandler(client *services.APIClient, identity *services.IdentityStore) *UserHandler {
	return &UserHandler{
		client:   client,
		identity: identity,
	}
}

func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.identity)
	if !ok {
		return
	}

	user, err := h.client.GetCurrentUser(r.Context(), userID)
	if err != nil {
		respondClientError(w, err, "Failed to load user")
		return
	}

	utils.RespondJSON(w, user, http.StatusOK)
}

// UpdateCurrentUser saves the change remotely and mirrors name and avatar
// text into the local identity.
func (h *UserHandler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.identity)
	if !ok {
		return
	}

	var req types.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.client.UpdateCurrentUser(r.Context(), userID, req)
	if err != nil {
		respondClientError(w, err, "Failed to update user")
		return
	}

	if err := h.identity.MirrorUser(user); err != nil {
		log.Printf("Failed to mirror user into identity: %v", err)
		utils.RespondError(w, "Failed to save profile", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, user, http.StatusOK)
}

func (h *UserHandler) GetCurrentUserReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.identity)
	if !ok {
		return
	}

	reviews, err := h.client.GetCurrentUserReviews(r.Context(), userID, types.PageParams{
		Page:     utils.GetQueryParamInt(r, "page"),
		PageSize: utils.GetQueryParamInt(r, "page_size"),
	})
	if err != nil {
		respondClientError(w, err, "Failed to load your reviews")
		return
	}

	utils.RespondJSON(w, reviews, http.StatusOK)
}

func (h *UserHandler) GetTasteAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.identity)
	if !ok {
		return
	}

	analysis, err := h.client.GetUserTasteAnalysis(r.Context(), userID)
	if err != nil {
		respondClientError(w, err, "Failed to load taste analysis")
		return
	}

	utils.RespondJSON(w, analysis, http.StatusOK)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := utils.GetPathParam(r, "id")
	if userID == "" {
		utils.RespondError(w, "User ID is required", http.StatusBadRequest)
		return
	}

	user, err := h.client.GetUser(r.Context(), userID)
	if err != nil {
		respondClientError(w, err, "Failed to load user")
		return
	}

	utils.RespondJSON(w, user, http.StatusOK)
}
