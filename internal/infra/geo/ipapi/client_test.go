package ipapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","lat":10.3997,"lon":-75.5144,"city":"Cartagena"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	loc, err := client.Locate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10.3997, loc.Lat)
	require.Equal(t, -75.5144, loc.Lng)
	require.Empty(t, loc.Address)
}

func TestLocateUpstreamFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Locate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "private range")
}

func TestLocateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Locate(context.Background())
	require.Error(t, err)
}
