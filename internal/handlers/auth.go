package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"moviewave/internal/services"
	"moviewave/internal/types"
	"moviewave/internal/utils"
)

type AuthHandler struct {
	client        *services.APIClient
	identity      *services.IdentityStore
	templates     *template.Template
	frontendURL   string
	redirectDelay time.Duration
}

// NewAuthHandler builds the auth views. Navigation targets of the callback
// view are resolved against frontendURL; an empty value keeps them relative.
func NewAuthHandler(client *services.APIClient, identity *services.IdentityStore, templates *template.Template, frontendURL string, redirectDelay time.Duration) *AuthHandler {
	return &AuthHandler{
		client:        client,
		identity:      identity,
		templates:     templates,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		redirectDelay: redirectDelay,
	}
}

// KakaoLogin sends the browser to the authorization URL issued by the backend.
func (h *AuthHandler) KakaoLogin(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.GetKakaoLoginURL(r.Context())
	if err != nil {
		respondClientError(w, err, "Failed to start Kakao login")
		return
	}
	http.Redirect(w, r, resp.AuthURL, http.StatusFound)
}

// pageNavigator records where the callback view wants to go so the response
// can express it as a redirect or a timed refresh.
type pageNavigator struct {
	path  string
	after time.Duration
	set   bool
}

func (n *pageNavigator) Navigate(path string, after time.Duration) {
	n.path = path
	n.after = after
	n.set = true
}

// KakaoCallback is where the backend's OAuth redirect lands.
func (h *AuthHandler) KakaoCallback(w http.ResponseWriter, r *http.Request) {
	nav := &pageNavigator{}
	controller := services.NewKakaoCallbackController(h.client, h.identity, nav, h.redirectDelay)

	state := controller.Process(r.Context(), r.URL.Query())
	if !nav.set {
		return
	}

	target := h.frontendURL + nav.path
	if state == services.CallbackSucceeded && nav.after == 0 {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	_, message := controller.State()
	seconds := int(math.Ceil(nav.after.Seconds()))
	w.Header().Set("Refresh", fmt.Sprintf("%d; url=%s", seconds, target))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "callback.html", map[string]string{"Message": message}); err != nil {
		log.Printf("Failed to render callback page: %v", err)
	}
}

// Signup registers the user with the backend and signs in locally.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" || req.Name == "" {
		utils.RespondError(w, "id and name are required", http.StatusBadRequest)
		return
	}

	user, err := h.client.CreateUser(r.Context(), req)
	if err != nil {
		respondClientError(w, err, "Failed to create user")
		return
	}

	snap := services.Snapshot{UserID: user.ID, Name: user.Name}
	if user.AvatarText != nil {
		snap.Bio = *user.AvatarText
	}
	if err := h.identity.SignIn(snap); err != nil {
		log.Printf("Failed to save identity: %v", err)
		utils.RespondError(w, "Failed to save login state", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, user, http.StatusCreated)
}

type localLoginRequest struct {
	Name string `json:"name"`
}

// Login signs in on this device only; the backend is not contacted.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req localLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.identity.SignInLocal(strings.TrimSpace(req.Name)); err != nil {
		log.Printf("Failed to save identity: %v", err)
		utils.RespondError(w, "Failed to save login state", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, h.identity.Current(), http.StatusOK)
}

// Logout tells the backend, then clears the local identity. The device is
// signed out even when the backend call fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	msg, err := services.LogOut(r.Context(), h.client, h.identity)
	if err != nil {
		log.Printf("Failed to clear identity: %v", err)
		utils.RespondError(w, "Failed to clear login state", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, msg, http.StatusOK)
}

// Session reports the local identity snapshot. The access token is never exposed.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, h.identity.Current(), http.StatusOK)
}
