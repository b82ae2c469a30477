package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"moviewave/internal/config"
	"moviewave/internal/utils"
)

const jwksCacheTTL = 5 * time.Minute

// User is the caller identified by a validated token.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CustomClaims contains custom data we want to extract from the token.
type CustomClaims struct {
	Name string `json:"name"`
}

// Validate is required by validator.CustomClaims; no extra checks are made.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// NewMiddleware validates RS256 access tokens issued by the configured
// Auth0 tenant for the configured audience.
func NewMiddleware(cfg *config.AuthConfig) (*jwtmiddleware.JWTMiddleware, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("auth0 domain and audience are required")
	}

	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT validator: %w", err)
	}

	return jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(respondAuthError),
	), nil
}

// respondAuthError answers a rejected request in the same {"detail": ...}
// shape the rest of the API uses.
func respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, jwtmiddleware.ErrJWTMissing):
		utils.RespondError(w, "Login required", http.StatusUnauthorized)
	case errors.Is(err, jwtmiddleware.ErrJWTInvalid):
		log.Printf("Rejected token for %s %s: %v", r.Method, r.URL.Path, err)
		utils.RespondError(w, "Invalid access token", http.StatusUnauthorized)
	default:
		log.Printf("Token check failed for %s %s: %v", r.Method, r.URL.Path, err)
		utils.RespondError(w, "Invalid authorization header", http.StatusBadRequest)
	}
}

// GetUserFromContext returns the token subject, or an error when the request
// was not authenticated.
func GetUserFromContext(ctx context.Context) (*User, error) {
	claims, ok := ctx.Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		return nil, fmt.Errorf("no claims found in context")
	}

	user := &User{ID: claims.RegisteredClaims.Subject}
	if customClaims, ok := claims.CustomClaims.(*CustomClaims); ok {
		user.Name = customClaims.Name
	}
	return user, nil
}

// RequireAuth wraps handlers with the middleware. A nil middleware means
// authentication is disabled and handlers are returned unchanged.
func RequireAuth(middleware *jwtmiddleware.JWTMiddleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if middleware == nil {
			return next
		}
		return middleware.CheckJWT(next)
	}
}
