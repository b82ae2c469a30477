package handlers

import (
	"net/http"
)

type Handlers struct {
	Auth    *AuthHandler
	Movies  *MovieHandler
	Reviews *ReviewHandler
	Users   *UserHandler
	Local   *LocalHandler
}

// NewRouter registers every front-end route. requireAuth guards the /api
// routes; pass a pass-through wrapper to leave them open.
func NewRouter(h Handlers, requireAuth func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// OAuth and session routes are reached by browser redirects, so no token.
	mux.HandleFunc("GET /auth/kakao/login", h.Auth.KakaoLogin)
	mux.HandleFunc("GET /auth/kakao/callback", h.Auth.KakaoCallback)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)
	mux.HandleFunc("POST /auth/signup", h.Auth.Signup)
	mux.HandleFunc("POST /auth/logout", h.Auth.Logout)
	mux.HandleFunc("GET /api/session", h.Auth.Session)

	guarded := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, requireAuth(fn))
	}

	// Movie routes
	guarded("GET /api/movies", h.Movies.ListMovies)
	guarded("GET /api/movies/{id}", h.Movies.GetMovie)
	guarded("GET /api/movies/{id}/reviews", h.Movies.GetMovieReviews)
	guarded("POST /api/movies/{id}/reviews", h.Movies.CreateMovieReview)

	// Review routes
	guarded("GET /api/reviews/{id}", h.Reviews.GetReview)
	guarded("PUT /api/reviews/{id}", h.Reviews.UpdateReview)
	guarded("DELETE /api/reviews/{id}", h.Reviews.DeleteReview)
	guarded("POST /api/reviews/{id}/likes", h.Reviews.LikeReview)
	guarded("GET /api/reviews/{id}/comments", h.Reviews.GetComments)
	guarded("POST /api/reviews/{id}/comments", h.Reviews.CreateComment)

	// User routes
	guarded("GET /api/users/me", h.Users.GetCurrentUser)
	guarded("PUT /api/users/me", h.Users.UpdateCurrentUser)
	guarded("GET /api/users/me/reviews", h.Users.GetCurrentUserReviews)
	guarded("GET /api/users/me/taste-analysis", h.Users.GetTasteAnalysis)
	guarded("GET /api/users/{id}", h.Users.GetUser)

	// Device-local settings
	guarded("GET /api/local/profile", h.Local.GetProfile)
	guarded("PUT /api/local/profile", h.Local.UpdateProfile)
	guarded("GET /api/local/taste-survey", h.Local.GetTasteSurvey)
	guarded("PUT /api/local/taste-survey", h.Local.UpdateTasteSurvey)

	return mux
}
