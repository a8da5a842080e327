package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the server's delta endpoint. The cursor it passes along
// is whatever the server last returned; an empty cursor asks for the full
// aggregate.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (client *Client) Delta(ctx context.Context, cursor string) (DeltaResponse, error) {
	endpoint, err := url.Parse(client.baseURL + "/api/sync/delta")
	if err != nil {
		return DeltaResponse{}, fmt.Errorf("parsing sync url: %w", err)
	}
	if cursor != "" {
		query := endpoint.Query()
		query.Set("cursor", cursor)
		endpoint.RawQuery = query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return DeltaResponse{}, fmt.Errorf("building sync request: %w", err)
	}
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return DeltaResponse{}, fmt.Errorf("fetching delta: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return DeltaResponse{}, fmt.Errorf("delta endpoint returned %d", response.StatusCode)
	}

	var decoded DeltaResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return DeltaResponse{}, fmt.Errorf("decoding delta response: %w", err)
	}
	return decoded, nil
}
