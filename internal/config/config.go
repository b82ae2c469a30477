// Package config loads the front-end's settings from the environment.
// A .env file in the working directory is read first if present; variables
// already set in the environment win over it.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	IdentityModeQuery  = "query"
	IdentityModeBearer = "bearer"
)

type BackendConfig struct {
	BaseURL        string        // REST backend address
	RequestTimeout time.Duration // per-request HTTP timeout
	IdentityMode   string        // how the acting user is sent to the backend
}

type ServerConfig struct {
	Port          string
	CORSOrigins   []string
	FrontendURL   string        // origin serving the home and login views
	RedirectDelay time.Duration // delay before a failed callback returns to login
}

// AuthConfig enables JWT checks on the front-end API when both fields are set.
type AuthConfig struct {
	Auth0Domain   string
	Auth0Audience string
}

func (a *AuthConfig) Enabled() bool {
	return a.Auth0Domain != "" && a.Auth0Audience != ""
}

type AppConfig struct {
	Backend     *BackendConfig
	Server      *ServerConfig
	Auth        *AuthConfig
	StoragePath string
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// LoadConfig reads .env (if any) and the environment. All problems are
// reported together in one error.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*AppConfig, error) {
	var errors []string

	// VITE_API_BASE_URL is honoured so an existing front-end .env keeps working.
	baseURL := getOptionalEnv("MW_API_BASE_URL", getOptionalEnv("VITE_API_BASE_URL", "http://localhost:8000"))
	baseURL = strings.TrimRight(baseURL, "/")

	identityMode := strings.ToLower(getOptionalEnv("MW_IDENTITY_MODE", IdentityModeQuery))
	if identityMode != IdentityModeQuery && identityMode != IdentityModeBearer {
		errors = append(errors, fmt.Sprintf("invalid value for MW_IDENTITY_MODE: expected %q or %q, got '%s'", IdentityModeQuery, IdentityModeBearer, identityMode))
	}

	backend := &BackendConfig{
		BaseURL:        baseURL,
		RequestTimeout: getOptionalEnvDuration("MW_REQUEST_TIMEOUT", 10*time.Second, &errors),
		IdentityMode:   identityMode,
	}

	server := &ServerConfig{
		Port:          getOptionalEnv("PORT", "5174"),
		CORSOrigins:   splitList(getOptionalEnv("MW_CORS_ORIGINS", "http://localhost:5173")),
		RedirectDelay: getOptionalEnvDuration("MW_REDIRECT_DELAY", 2*time.Second, &errors),
	}

	// The callback view sends the browser back to the SPA, which by default
	// is the first allowed CORS origin.
	defaultFrontend := ""
	if len(server.CORSOrigins) > 0 {
		defaultFrontend = server.CORSOrigins[0]
	}
	server.FrontendURL = strings.TrimRight(getOptionalEnv("MW_FRONTEND_URL", defaultFrontend), "/")
	if server.FrontendURL != "" {
		if u, err := url.Parse(server.FrontendURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid value for MW_FRONTEND_URL: expected an absolute URL, got '%s'", server.FrontendURL))
		}
	}

	auth := &AuthConfig{
		Auth0Domain:   getOptionalEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getOptionalEnv("AUTH0_AUDIENCE", ""),
	}
	if (auth.Auth0Domain == "") != (auth.Auth0Audience == "") {
		errors = append(errors, "AUTH0_DOMAIN and AUTH0_AUDIENCE must be set together")
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Backend:     backend,
		Server:      server,
		Auth:        auth,
		StoragePath: getOptionalEnv("MW_STORAGE_PATH", "./moviewave.db"),
	}, nil
}
