package advisor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogReturnsIsolatedCopy(t *testing.T) {
	first := Catalog()
	require.Len(t, first, 3)
	require.Equal(t, "SolarCaribe Pro", first[0].Name)
	require.Equal(t, 4_200_000, first[0].PricePerKW)
	require.Equal(t, "EcoEnergy Cartagena", first[1].Name)
	require.Equal(t, "Ingeniería Sostenible SAS", first[2].Name)

	first[0].Name = "mutated"
	require.Equal(t, "SolarCaribe Pro", Catalog()[0].Name)
}

func TestRecommendationSchemaConstrainsTechnology(t *testing.T) {
	schema := recommendationSchema()
	items, ok := schema["items"].(map[string]any)
	require.True(t, ok)
	props, ok := items["properties"].(map[string]any)
	require.True(t, ok)
	tech, ok := props["technology"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, []string{TechnologySolarPV, TechnologyWind, TechnologyHybrid}, tech["enum"])
}
