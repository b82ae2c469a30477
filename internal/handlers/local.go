package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"moviewave/internal/services"
	"moviewave/internal/utils"
)

// LocalHandler serves settings that live only on this device.
type LocalHandler struct {
	profiles *services.ProfileStore
}

func NewLocalHandler(profiles *services.ProfileStore) *LocalHandler {
	return &LocalHandler{profiles: profiles}
}

func (h *LocalHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Profile()
	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		utils.RespondError(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, profile, http.StatusOK)
}

func (h *LocalHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.LocalProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.SaveProfile(req)
	if err != nil {
		log.Printf("Failed to save profile: %v", err)
		utils.RespondError(w, "Failed to save profile", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, profile, http.StatusOK)
}

func (h *LocalHandler) GetTasteSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.profiles.Survey()
	if err != nil {
		log.Printf("Failed to load taste survey: %v", err)
		utils.RespondError(w, "Failed to load taste survey", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, survey, http.StatusOK)
}

func (h *LocalHandler) UpdateTasteSurvey(w http.ResponseWriter, r *http.Request) {
	var req services.TasteSurvey
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profiles.SaveSurvey(req); err != nil {
		log.Printf("Failed to save taste survey: %v", err)
		utils.RespondError(w, "Failed to save taste survey", http.StatusInternalServerError)
		return
	}

	survey, err := h.profiles.Survey()
	if err != nil {
		log.Printf("Failed to load taste survey: %v", err)
		utils.RespondError(w, "Failed to load taste survey", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, survey, http.StatusOK)
}
