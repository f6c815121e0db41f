package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jedalosa/energymatch/internal/domain/advisor"
	"github.com/jedalosa/energymatch/internal/domain/profile"
)

const defaultWebhookURL = "https://primary.production.n8n.cloud/webhook/energy-quote"

// Client posts lead payloads to an n8n automation webhook. The response code
// and body are ignored; the caller decides what to do with delivery errors.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a webhook client, falling back to the default endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	url := strings.TrimSpace(endpoint)
	if url == "" {
		url = defaultWebhookURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		endpoint:   url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type payload struct {
	User    userPayload    `json:"user"`
	Project projectPayload `json:"project"`
	Offers  []offerPayload `json:"offers"`
}

type userPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  string `json:"type"`
	Phone string `json:"phone"`
}

type projectPayload struct {
	Consumption float64 `json:"consumption"`
	Location    string  `json:"location"`
}

type offerPayload struct {
	Provider string  `json:"provider"`
	Cost     float64 `json:"cost"`
	Capacity float64 `json:"capacity"`
}

// Deliver flattens the profile and offers into the webhook body and posts it.
func (c *Client) Deliver(ctx context.Context, p profile.Profile, recs []advisor.Recommendation) error {
	offers := make([]offerPayload, 0, len(recs))
	for _, rec := range recs {
		offers = append(offers, offerPayload{
			Provider: rec.ProviderName,
			Cost:     rec.UpfrontCost,
			Capacity: rec.CapacityKW,
		})
	}

	body := payload{
		User: userPayload{
			Name:  p.Name,
			Email: p.Email,
			Type:  string(p.ClientType),
			Phone: "N/A",
		},
		Project: projectPayload{
			Consumption: p.MonthlyConsumptionKWh,
			Location:    p.Neighborhood,
		},
		Offers: offers,
	}
	return c.post(ctx, body)
}

// Forward posts an arbitrary payload, used by the integrations passthrough.
func (c *Client) Forward(ctx context.Context, raw map[string]any) error {
	return c.post(ctx, raw)
}

func (c *Client) post(ctx context.Context, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	return nil
}
