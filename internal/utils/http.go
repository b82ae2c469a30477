package utils

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// GetPathParam extracts a path parameter from the URL using Go 1.22+ ServeMux pattern matching
func GetPathParam(r *http.Request, param string) string {
	return r.PathValue(param)
}

// GetPathParamInt extracts a path parameter and converts it to int
func GetPathParamInt(r *http.Request, param string) (int, error) {
	value := r.PathValue(param)
	return strconv.Atoi(value)
}

// GetQueryParam returns nil when the parameter is absent or empty.
func GetQueryParam(r *http.Request, param string) *string {
	value := r.URL.Query().Get(param)
	if value == "" {
		return nil
	}
	return &value
}

// GetQueryParamInt returns nil when the parameter is absent or not an integer.
func GetQueryParamInt(r *http.Request, param string) *int {
	value := r.URL.Query().Get(param)
	if value == "" {
		return nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &intValue
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// RespondError sends {"detail": message}, the same error shape the backend uses.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, map[string]string{"detail": message}, statusCode)
}
