package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"moviewave/internal/config"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:8000"

// APIClient talks to the MovieWave REST backend.
type APIClient struct {
	BaseURL  string
	Identity IdentityPropagator
	client   *http.Client
	logger   *log.Logger
}

type ClientOption func(*APIClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *APIClient) {
		c.client = hc
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *APIClient) {
		c.logger = l
	}
}

// WithIdentity sets how the acting user is identified to the backend.
func WithIdentity(p IdentityPropagator) ClientOption {
	return func(c *APIClient) {
		c.Identity = p
	}
}

func NewAPIClient(baseURL string, opts ...ClientOption) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &APIClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Identity: QueryIdentity{},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewAPIClientFromConfig builds a client for cfg. In bearer mode the access
// token comes from tokens.
func NewAPIClientFromConfig(cfg *config.BackendConfig, tokens TokenSource, opts ...ClientOption) *APIClient {
	identity := IdentityPropagator(QueryIdentity{})
	if cfg.IdentityMode == config.IdentityModeBearer {
		identity = BearerIdentity{Tokens: tokens}
	}

	base := []ClientOption{
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		WithIdentity(identity),
	}
	return NewAPIClient(cfg.BaseURL, append(base, opts...)...)
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status     int
	StatusText string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status the backend answered with.
func (e *APIError) StatusCode() int {
	return e.Status
}

// AsAPIError returns the APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

// Param is a single query parameter. A nil Value, or a nil pointer, is omitted.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered set of query parameters.
type Params []Param

func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode builds the query string without the leading '?'. Parameters keep
// their insertion order.
func (p Params) Encode() string {
	var b strings.Builder
	for _, param := range p {
		value, ok := paramString(param.Value)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	return b.String()
}

func paramString(value any) (string, bool) {
	if value == nil {
		return "", false
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()), true
	default:
		return fmt.Sprint(rv.Interface()), true
	}
}

// withQuery appends the encoded params to path.
func withQuery(path string, params Params) string {
	query := params.Encode()
	if query == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + query
	}
	return path + "?" + query
}

// Request performs one call against the backend and decodes a 2xx body into out.
// out may be nil to discard the body. Failures are logged before being returned.
func (c *APIClient) Request(ctx context.Context, method, path string, params Params, body any, header http.Header, out any) error {
	requestID := uuid.NewString()
	endpoint := withQuery(path, params)

	err := c.do(ctx, method, endpoint, body, header, out)
	if err != nil {
		c.logger.Printf("API request error [%s] %s %s: %v", requestID, method, endpoint, err)
	}
	return err
}

func (c *APIClient) do(ctx context.Context, method, endpoint string, body any, header http.Header, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newAPIError(resp *http.Response) *APIError {
	statusText := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if statusText == "" {
		statusText = http.StatusText(resp.StatusCode)
	}

	apiErr := &APIError{
		Status:     resp.StatusCode,
		StatusText: statusText,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText),
	}

	var errBody struct {
		Detail any `json:"detail"`
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil || json.Unmarshal(data, &errBody) != nil {
		return apiErr
	}
	if detail, ok := errBody.Detail.(string); ok && detail != "" {
		apiErr.Message = detail
	}
	return apiErr
}

// Get issues a GET with optional query parameters.
func (c *APIClient) Get(ctx context.Context, path string, params Params, out any) error {
	return c.Request(ctx, http.MethodGet, path, params, nil, nil, out)
}

// Post issues a POST. A nil body sends no payload.
func (c *APIClient) Post(ctx context.Context, path string, body any, params Params, out any) error {
	return c.Request(ctx, http.MethodPost, path, params, body, nil, out)
}

// Put issues a PUT. Query parameters, if needed, must already be in path.
func (c *APIClient) Put(ctx context.Context, path string, body any, out any) error {
	return c.Request(ctx, http.MethodPut, path, nil, body, nil, out)
}

func (c *APIClient) Delete(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodDelete, path, nil, nil, nil, out)
}

// scoped performs a current-user call, letting the identity propagator decide
// how userID reaches the backend. Identity parameters precede extra ones.
func (c *APIClient) scoped(ctx context.Context, method, path, userID string, extra Params, body any, out any) error {
	params, header := c.Identity.Identify(userID)
	params = append(params, extra...)

	// PUT carries no query parameters of its own.
	if method == http.MethodPut {
		return c.Request(ctx, method, withQuery(path, params), nil, body, header, out)
	}
	return c.Request(ctx, method, path, params, body, header, out)
}

// IdentityPropagator decides how the acting user is identified on a request.
type IdentityPropagator interface {
	Identify(userID string) (Params, http.Header)
}

// QueryIdentity sends the user id as a user_id query parameter.
type QueryIdentity struct{}

func (QueryIdentity) Identify(userID string) (Params, http.Header) {
	return Params{{Key: "user_id", Value: userID}}, nil
}

// TokenSource yields the access token for bearer identification.
type TokenSource interface {
	AccessToken() string
}

// BearerIdentity sends the access token from Tokens as a bearer credential.
type BearerIdentity struct {
	Tokens TokenSource
}

func (b BearerIdentity) Identify(userID string) (Params, http.Header) {
	header := http.Header{}
	if b.Tokens != nil {
		if token := b.Tokens.AccessToken(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}
	return nil, header
}
