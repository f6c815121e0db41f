package n8n

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jedalosa/energymatch/internal/domain/advisor"
	"github.com/jedalosa/energymatch/internal/domain/profile"
)

func TestDeliverFlattensProfileAndOffers(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	p := profile.New()
	p.Name = "María"
	p.Email = "maria@hotel.co"
	p.MonthlyConsumptionKWh = 3500
	p.Neighborhood = "Bocagrande"

	recs := []advisor.Recommendation{
		{ProviderName: "SolarCaribe Pro", UpfrontCost: 113_400_000, CapacityKW: 27},
	}
	require.NoError(t, client.Deliver(context.Background(), p, recs))

	user := got["user"].(map[string]any)
	require.Equal(t, "María", user["name"])
	require.Equal(t, "maria@hotel.co", user["email"])
	require.Equal(t, "company", user["type"])
	require.Equal(t, "N/A", user["phone"])

	project := got["project"].(map[string]any)
	require.Equal(t, 3500.0, project["consumption"])
	require.Equal(t, "Bocagrande", project["location"])

	offers := got["offers"].([]any)
	require.Len(t, offers, 1)
	offer := offers[0].(map[string]any)
	require.Equal(t, "SolarCaribe Pro", offer["provider"])
	require.Equal(t, 113_400_000.0, offer["cost"])
	require.Equal(t, 27.0, offer["capacity"])
}

func TestDeliverIgnoresWebhookStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	require.NoError(t, client.Deliver(context.Background(), profile.New(), nil))
}

func TestDeliverReportsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second)
	require.Error(t, client.Deliver(context.Background(), profile.New(), nil))
}

func TestForwardPostsPayloadUnchanged(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	raw := map[string]any{"source": "partner-crm", "lead": map[string]any{"name": "Pedro"}}
	require.NoError(t, client.Forward(context.Background(), raw))
	require.Equal(t, "partner-crm", got["source"])
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", 0)
	require.Equal(t, "https://primary.production.n8n.cloud/webhook/energy-quote", client.endpoint)
	require.Equal(t, 5*time.Second, client.httpClient.Timeout)
}
