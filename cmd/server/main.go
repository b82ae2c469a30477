package main

import (
	"log"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/go-chi/cors"

	"moviewave"
	"moviewave/internal/auth"
	"moviewave/internal/config"
	"moviewave/internal/database"
	"moviewave/internal/handlers"
	"moviewave/internal/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize local store
	db, err := database.Connect(cfg.StoragePath)
	if err != nil {
		log.Fatal("Database connection failed:", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	localStore := database.NewLocalStore(db)
	identity, err := services.NewIdentityStore(localStore)
	if err != nil {
		log.Fatal("Failed to load identity:", err)
	}
	defer identity.Close()

	unsubscribe := identity.Subscribe(func(snap services.Snapshot) {
		if snap.LoggedIn {
			log.Printf("Signed in as %s (%s)", snap.Name, snap.UserID)
		} else {
			log.Println("Signed out")
		}
	})
	defer unsubscribe()

	client := services.NewAPIClientFromConfig(cfg.Backend, identity)
	profiles := services.NewProfileStore(localStore, identity)

	templates, err := moviewave.GetTemplates()
	if err != nil {
		log.Fatal("Failed to load templates:", err)
	}

	var authMiddleware *jwtmiddleware.JWTMiddleware
	if cfg.Auth.Enabled() {
		authMiddleware, err = auth.NewMiddleware(cfg.Auth)
		if err != nil {
			log.Fatal("Failed to create auth middleware:", err)
		}
		log.Println("JWT authentication enabled for /api routes")
	}

	mux := handlers.NewRouter(handlers.Handlers{
		Auth:    handlers.NewAuthHandler(client, identity, templates, cfg.Server.FrontendURL, cfg.Server.RedirectDelay),
		Movies:  handlers.NewMovieHandler(client, identity),
		Reviews: handlers.NewReviewHandler(client, identity),
		Users:   handlers.NewUserHandler(client, identity),
		Local:   handlers.NewLocalHandler(profiles),
	}, auth.RequireAuth(authMiddleware))

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	log.Printf("Backend API at %s (identity mode: %s)", cfg.Backend.BaseURL, cfg.Backend.IdentityMode)
	log.Printf("Front-end views at %s", cfg.Server.FrontendURL)
	log.Printf("Server starting on port %s", cfg.Server.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, corsHandler(mux)))
}
