package handlers

import (
	"context"
	"errors"
	"net/http"

	"moviewave/internal/auth"
	"moviewave/internal/services"
	"moviewave/internal/utils"
)

// respondClientError forwards a backend error to the caller. Backend
// responses keep their status and detail; anything else becomes a 502
// with message. The API client has already logged the failure.
func respondClientError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, context.Canceled) {
		// the browser went away; nobody is reading
		return
	}
	if apiErr, ok := services.AsAPIError(err); ok {
		utils.RespondError(w, apiErr.Message, apiErr.Status)
		return
	}
	utils.RespondError(w, message, http.StatusBadGateway)
}

// actingUserID resolves who the request acts for: the token subject when
// auth is enabled, otherwise the signed-in local identity.
func actingUserID(r *http.Request, identity *services.IdentityStore) string {
	if user, err := auth.GetUserFromContext(r.Context()); err == nil && user.ID != "" {
		return user.ID
	}

	snap := identity.Current()
	if !snap.LoggedIn {
		return ""
	}
	return snap.UserID
}

func requireUser(w http.ResponseWriter, r *http.Request, identity *services.IdentityStore) (string, bool) {
	userID := actingUserID(r, identity)
	if userID == "" {
		utils.RespondError(w, "Login required", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}
