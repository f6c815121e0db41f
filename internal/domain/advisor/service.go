package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jedalosa/energymatch/internal/domain/profile"
	"github.com/jedalosa/energymatch/internal/infra/llm/gemini"
	"github.com/jedalosa/energymatch/pkg/metrics"
)

// Service produces ranked provider offers for a finished profile.
type Service interface {
	// Generate never fails from the caller's perspective: any transport or
	// parse problem degrades to the single hardcoded fallback offer.
	Generate(ctx context.Context, p profile.Profile) []Recommendation
}

type ChatClient interface {
	GenerateContent(ctx context.Context, model string, req gemini.GenerateContentRequest) (gemini.GenerateContentResponse, error)
}

type service struct {
	cfg    Config
	client ChatClient
	logger *slog.Logger
}

// NewService wires up the recommendation engine.
func NewService(cfg Config, client ChatClient, logger *slog.Logger) Service {
	return &service{cfg: cfg, client: client, logger: logger.With("component", "advisor.service")}
}

func (s *service) Generate(ctx context.Context, p profile.Profile) []Recommendation {
	req := gemini.GenerateContentRequest{
		Contents: []gemini.Content{
			{Role: "user", Parts: []gemini.Part{{Text: s.buildPrompt(p)}}},
		},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:      s.cfg.Temperature,
			ResponseMIMEType: "application/json",
			ResponseSchema:   recommendationSchema(),
		},
	}

	resp, err := s.client.GenerateContent(ctx, s.cfg.Model, req)
	if err != nil {
		s.logger.Warn("recommendation call failed, serving fallback offer", "error", err)
		return []Recommendation{fallbackRecommendation()}
	}
	if usage := toTokenUsage(resp.UsageMetadata); !usage.IsZero() {
		s.logger.Info("recommendation tokens used", "prompt", usage.PromptTokens, "total", usage.TotalTokens)
	}

	recs, err := parseRecommendations(resp.Text())
	if err != nil {
		s.logger.Warn("recommendation reply malformed, serving fallback offer", "error", err)
		return []Recommendation{fallbackRecommendation()}
	}
	// Upstream ranks best-first by its own price/quality blend; the order is
	// preserved as-is.
	return recs
}

func (s *service) buildPrompt(p profile.Profile) string {
	var catalog strings.Builder
	for i, entry := range providerCatalog {
		fmt.Fprintf(&catalog, "%d. %q - Price: %d COP/kWp. Specs: %s.\n", i+1, entry.Name, entry.PricePerKW, entry.Specs)
	}

	return fmt.Sprintf(`Act as an Energy Engineering Engine.
Calculate the required Solar PV system size (Capacity in KW) for a client in Cartagena based on:
- Monthly Consumption: %.0f kWh
- Assumed Solar Yield Cartagena: %.0f kWh/month per 1 kWp installed.

Then, map this system size to the 3 Available Providers below to create specific quotes.
Available Verified Providers in Cartagena Database:
%s
Rank the results by "Best Value" (mix of price and quality/confidence).

Return a JSON array of 3 objects.`, p.MonthlyConsumptionKWh, s.cfg.SolarYieldKWhPerKW, catalog.String())
}

func recommendationSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":                         map[string]any{"type": "string"},
				"providerName":               map[string]any{"type": "string"},
				"technology": map[string]any{
					"type": "string",
					"enum": []string{TechnologySolarPV, TechnologyWind, TechnologyHybrid},
				},
				"capacityKW":                 map[string]any{"type": "number"},
				"pricePerKW":                 map[string]any{"type": "number"},
				"estimatedGenerationMonthly": map[string]any{"type": "number"},
				"roiYears":                   map[string]any{"type": "number"},
				"upfrontCost":                map[string]any{"type": "number"},
				"savingsMonthly":             map[string]any{"type": "number"},
				"co2Offset":                  map[string]any{"type": "number"},
				"confidenceScore":            map[string]any{"type": "number"},
				"hash":                       map[string]any{"type": "string"},
			},
			"required": []string{
				"id", "providerName", "technology", "capacityKW", "pricePerKW",
				"estimatedGenerationMonthly", "roiYears", "upfrontCost", "hash",
			},
		},
	}
}

type recommendationWire struct {
	ID                         *string  `json:"id"`
	ProviderName               *string  `json:"providerName"`
	Technology                 *string  `json:"technology"`
	CapacityKW                 *float64 `json:"capacityKW"`
	PricePerKW                 *float64 `json:"pricePerKW"`
	EstimatedGenerationMonthly *float64 `json:"estimatedGenerationMonthly"`
	ROIYears                   *float64 `json:"roiYears"`
	UpfrontCost                *float64 `json:"upfrontCost"`
	SavingsMonthly             float64  `json:"savingsMonthly"`
	CO2Offset                  float64  `json:"co2Offset"`
	ConfidenceScore            float64  `json:"confidenceScore"`
	Hash                       *string  `json:"hash"`
}

func parseRecommendations(raw string) ([]Recommendation, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))
	if sanitized == "" {
		return nil, errors.New("empty llm response")
	}

	var wires []recommendationWire
	if err := json.Unmarshal([]byte(sanitized), &wires); err != nil {
		return nil, err
	}
	if len(wires) == 0 {
		return nil, errors.New("empty offer list")
	}

	recs := make([]Recommendation, 0, len(wires))
	for i, w := range wires {
		rec, err := w.toRecommendation()
		if err != nil {
			return nil, fmt.Errorf("offer %d malformed: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (w recommendationWire) toRecommendation() (Recommendation, error) {
	switch {
	case w.ID == nil || strings.TrimSpace(*w.ID) == "":
		return Recommendation{}, errors.New("missing id")
	case w.ProviderName == nil || strings.TrimSpace(*w.ProviderName) == "":
		return Recommendation{}, errors.New("missing providerName")
	case w.Technology == nil || strings.TrimSpace(*w.Technology) == "":
		return Recommendation{}, errors.New("missing technology")
	case w.CapacityKW == nil || *w.CapacityKW <= 0:
		return Recommendation{}, errors.New("missing or non-positive capacityKW")
	case w.PricePerKW == nil:
		return Recommendation{}, errors.New("missing pricePerKW")
	case w.EstimatedGenerationMonthly == nil:
		return Recommendation{}, errors.New("missing estimatedGenerationMonthly")
	case w.ROIYears == nil:
		return Recommendation{}, errors.New("missing roiYears")
	case w.UpfrontCost == nil:
		return Recommendation{}, errors.New("missing upfrontCost")
	case w.Hash == nil || strings.TrimSpace(*w.Hash) == "":
		return Recommendation{}, errors.New("missing hash")
	}
	return Recommendation{
		ID:                         *w.ID,
		ProviderName:               *w.ProviderName,
		Technology:                 *w.Technology,
		CapacityKW:                 *w.CapacityKW,
		PricePerKW:                 *w.PricePerKW,
		EstimatedGenerationMonthly: *w.EstimatedGenerationMonthly,
		ROIYears:                   *w.ROIYears,
		UpfrontCost:                *w.UpfrontCost,
		SavingsMonthly:             w.SavingsMonthly,
		CO2Offset:                  w.CO2Offset,
		ConfidenceScore:            w.ConfidenceScore,
		Hash:                       *w.Hash,
	}, nil
}

func toTokenUsage(meta *gemini.UsageMetadata) metrics.TokenUsage {
	if meta == nil {
		return metrics.TokenUsage{}
	}
	return metrics.TokenUsage{
		PromptTokens:     meta.PromptTokenCount,
		CompletionTokens: meta.CandidatesTokenCount,
		TotalTokens:      meta.TotalTokenCount,
	}
}
