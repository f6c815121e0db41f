package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jedalosa/energymatch/internal/domain/profile"
)

const defaultBaseURL = "http://ip-api.com/json"

// Client resolves an approximate device location from the caller's IP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a geolocation client.
func NewClient(baseURL string) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Locate performs the one-shot coordinate read.
func (c *Client) Locate(ctx context.Context) (profile.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return profile.Location{}, fmt.Errorf("build geolocation request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return profile.Location{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return profile.Location{}, fmt.Errorf("geolocation request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return profile.Location{}, fmt.Errorf("decode geolocation response: %w", err)
	}
	if !strings.EqualFold(raw.Status, "success") {
		return profile.Location{}, fmt.Errorf("geolocation lookup failed: %s", raw.Message)
	}

	return profile.Location{Lat: raw.Lat, Lng: raw.Lon}, nil
}

type apiResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
}
