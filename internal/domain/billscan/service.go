package billscan

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/jedalosa/energymatch/internal/infra/llm/gemini"
)

// Document is one uploaded energy bill. The bytes live only for the duration
// of the outbound request and are never stored.
type Document struct {
	Data     []byte
	MimeType string
}

// Extract is the analyzer's best-effort read of the bill figures.
type Extract struct {
	Consumption float64 `json:"consumption"`
	Cost        float64 `json:"cost"`
	Rate        float64 `json:"rate"`
	HasPeaks    bool    `json:"hasPeaks"`
}

// Config tunes the bill analyzer.
type Config struct {
	Model       string
	Temperature float32
}

// Service extracts consumption figures from an uploaded bill document.
type Service interface {
	// Analyze always yields a usable extract: any transport or parse failure
	// collapses to the zeroed record so the wizard stays renderable. One
	// attempt per upload, no retry.
	Analyze(ctx context.Context, doc Document) Extract
}

type ChatClient interface {
	GenerateContent(ctx context.Context, model string, req gemini.GenerateContentRequest) (gemini.GenerateContentResponse, error)
}

type service struct {
	cfg    Config
	client ChatClient
	logger *slog.Logger
}

// NewService wires up the bill analyzer adapter.
func NewService(cfg Config, client ChatClient, logger *slog.Logger) Service {
	return &service{cfg: cfg, client: client, logger: logger.With("component", "billscan.service")}
}

const analysisPrompt = `Analyze this energy bill image (likely from Colombia). Extract the following data:
1. Monthly Consumption in kWh (Consumo).
2. Total Monthly Cost in COP (Total a Pagar / Costo).
3. Energy Rate per kWh (Costo Unitario / Tarifa).
4. Does it show significant peak consumption variations or reactive energy charges? (True/False).

Return ONLY a JSON object with keys: consumption (number), cost (number), rate (number), hasPeaks (boolean).
If a value is not found, use 0.`

func (s *service) Analyze(ctx context.Context, doc Document) Extract {
	req := gemini.GenerateContentRequest{
		Contents: []gemini.Content{
			{Role: "user", Parts: []gemini.Part{
				gemini.NewInlinePart(doc.Data, doc.MimeType),
				{Text: analysisPrompt},
			}},
		},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:      s.cfg.Temperature,
			ResponseMIMEType: "application/json",
			ResponseSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"consumption": map[string]any{"type": "number"},
					"cost":        map[string]any{"type": "number"},
					"rate":        map[string]any{"type": "number"},
					"hasPeaks":    map[string]any{"type": "boolean"},
				},
			},
		},
	}

	resp, err := s.client.GenerateContent(ctx, s.cfg.Model, req)
	if err != nil {
		s.logger.Warn("bill analysis failed, serving zeroed extract", "error", err)
		return Extract{}
	}

	extract, err := parseExtract(resp.Text())
	if err != nil {
		s.logger.Warn("bill analysis reply malformed, serving zeroed extract", "error", err)
		return Extract{}
	}
	return extract
}

func parseExtract(raw string) (Extract, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))
	if sanitized == "" {
		return Extract{}, errors.New("empty llm response")
	}

	var out Extract
	if err := json.Unmarshal([]byte(sanitized), &out); err != nil {
		return Extract{}, err
	}
	if out.Consumption < 0 {
		out.Consumption = 0
	}
	if out.Cost < 0 {
		out.Cost = 0
	}
	if out.Rate < 0 {
		out.Rate = 0
	}
	return out, nil
}
