package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	copPerMillion     = 1_000_000
	savingsYearsShown = 5
)

// ChartPoint is one bar pair on the investment-vs-savings comparison chart.
type ChartPoint struct {
	Name             string  `json:"name"`
	InvestmentMCOP   float64 `json:"investmentMCOP"`
	FiveYearSavingsM float64 `json:"fiveYearSavingsMCOP"`
}

// Results is the projection rendered on the results view: the ranked batch
// untouched, plus derived chart data and a batch transparency hash.
type Results struct {
	Recommendations []Recommendation `json:"recommendations"`
	Chart           []ChartPoint     `json:"chart"`
	BatchHash       string           `json:"batchHash"`
}

// PresentResults derives the chart series from a ranked batch. Pure unit
// conversion, no re-ranking.
func PresentResults(recs []Recommendation) Results {
	chart := make([]ChartPoint, 0, len(recs))
	for _, rec := range recs {
		chart = append(chart, ChartPoint{
			Name:             shortName(rec.ProviderName),
			InvestmentMCOP:   rec.UpfrontCost / copPerMillion,
			FiveYearSavingsM: rec.SavingsMonthly * 12 * savingsYearsShown / copPerMillion,
		})
	}
	return Results{
		Recommendations: recs,
		Chart:           chart,
		BatchHash:       BatchHash(recs),
	}
}

// BatchHash computes a SHA3-256 transparency hash over the serialized batch so
// a delivered quote can be matched against what the user saw.
func BatchHash(recs []Recommendation) string {
	payload, err := json.Marshal(recs)
	if err != nil {
		return ""
	}
	sum := sha3.Sum256(payload)
	return fmt.Sprintf("0x%x", sum)
}

func shortName(provider string) string {
	fields := strings.Fields(provider)
	if len(fields) == 0 {
		return provider
	}
	return fields[0]
}
