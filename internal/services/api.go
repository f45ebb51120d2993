// API service for making raw HTTP requests to the catalog
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// APIService performs unparsed GET requests against the catalog, attaching the client id.
type APIService struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

// NewAPIService creates a new raw API service for the catalog base URL.
func NewAPIService(baseURL, clientID string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = JamendoBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   clientID,
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response.
//
// The path may carry its own query string; client_id and format are added when absent.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	fullURL, err := a.resolve(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

func (a *APIService) resolve(path string) (string, error) {
	u, err := url.Parse(a.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	q := u.Query()
	if a.clientID != "" && q.Get("client_id") == "" {
		q.Set("client_id", a.clientID)
	}
	if q.Get("format") == "" {
		q.Set("format", "jsonpretty")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
