package advisor

// Technology labels used by provider offers.
const (
	TechnologySolarPV = "Solar PV"
	TechnologyWind    = "Eólica"
	TechnologyHybrid  = "Híbrida"
)

// Recommendation is one ranked provider offer produced by the analysis call.
type Recommendation struct {
	ID                         string  `json:"id"`
	ProviderName               string  `json:"providerName"`
	Technology                 string  `json:"technology"`
	CapacityKW                 float64 `json:"capacityKW"`
	PricePerKW                 float64 `json:"pricePerKW"`
	EstimatedGenerationMonthly float64 `json:"estimatedGenerationMonthly"`
	ROIYears                   float64 `json:"roiYears"`
	UpfrontCost                float64 `json:"upfrontCost"`
	SavingsMonthly             float64 `json:"savingsMonthly"`
	CO2Offset                  float64 `json:"co2Offset"`
	ConfidenceScore            float64 `json:"confidenceScore"`
	Hash                       string  `json:"hash"`
}

// CatalogEntry is one verified provider in the fixed price catalog embedded in
// every analysis prompt.
type CatalogEntry struct {
	Name       string
	PricePerKW int
	Specs      string
}

// The catalog is deliberately hardcoded: returned offers must be traceable to
// one of these three named providers.
var providerCatalog = []CatalogEntry{
	{Name: "SolarCaribe Pro", PricePerKW: 4_200_000, Specs: "Tier 1 Panels"},
	{Name: "EcoEnergy Cartagena", PricePerKW: 4_500_000, Specs: "Includes Microinverters"},
	{Name: "Ingeniería Sostenible SAS", PricePerKW: 3_900_000, Specs: "Standard String Inverter"},
}

// Catalog returns a copy of the fixed provider price catalog.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(providerCatalog))
	copy(out, providerCatalog)
	return out
}

// Config tunes the recommendation engine.
type Config struct {
	Model              string
	Temperature        float32
	SolarYieldKWhPerKW float64
}

func fallbackRecommendation() Recommendation {
	return Recommendation{
		ID:                         "rec_1",
		ProviderName:               "SolarCaribe Pro",
		Technology:                 TechnologySolarPV,
		CapacityKW:                 5,
		PricePerKW:                 4_200_000,
		EstimatedGenerationMonthly: 650,
		ROIYears:                   3.5,
		UpfrontCost:                21_000_000,
		SavingsMonthly:             600_000,
		CO2Offset:                  2.1,
		ConfidenceScore:            95,
		Hash:                       "0x7f83b1657ff1fc53b92dc18148a1d65dfc2d4b1fa3d677284addd200126d9069",
	}
}
