package pelias

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tripgate/tripgate/internal/geocoding"
)

const featureCollection = `{
	"features": [
		{
			"properties": {
				"id": "node:123",
				"name": "Cafe de Jaren",
				"layer": "venue",
				"label": "Cafe de Jaren, Amsterdam, Netherlands",
				"street": "Nieuwe Doelenstraat",
				"locality": "Amsterdam",
				"postalcode": "1012 CP"
			},
			"geometry": {"coordinates": [4.8952, 52.3680]}
		},
		{
			"properties": {
				"id": "node:456",
				"name": "Jaarbeurs",
				"layer": "venue",
				"label": "Jaarbeurs, Utrecht, Netherlands"
			},
			"geometry": {"coordinates": [5.1070, 52.0875]}
		}
	]
}`

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:    serverURL,
		APIKey:     "test-key",
		HTTPClient: &http.Client{},
		Logger:     zerolog.Nop(),
	})
}

func TestClient_Autocomplete_Success(t *testing.T) {
	var captured url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/autocomplete" {
			t.Errorf("expected path /v1/autocomplete, got %s", r.URL.Path)
		}
		captured = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(featureCollection))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	places, err := client.Autocomplete(context.Background(), geocoding.AutocompleteRequest{
		Query:      "jaren",
		FocusPoint: &geocoding.Coordinates{Lat: 52.37, Lon: 4.89},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Get("text") != "jaren" {
		t.Errorf("expected text=jaren, got %q", captured.Get("text"))
	}
	if captured.Get("api_key") != "test-key" {
		t.Errorf("expected api key on the wire, got %q", captured.Get("api_key"))
	}
	if captured.Get("focus.point.lat") != "52.37" || captured.Get("focus.point.lon") != "4.89" {
		t.Errorf("expected focus point params, got lat=%q lon=%q",
			captured.Get("focus.point.lat"), captured.Get("focus.point.lon"))
	}
	if captured.Get("layers") == "" {
		t.Error("expected administrative layers to be excluded")
	}

	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}

	first := places[0]
	if first.ID != "node:123" || first.Name != "Cafe de Jaren" {
		t.Errorf("unexpected first place: %+v", first)
	}
	// GeoJSON stores [lon, lat]; the domain model is lat/lon
	if first.Coordinates.Lat != 52.3680 || first.Coordinates.Lon != 4.8952 {
		t.Errorf("expected coordinate order swap, got %+v", first.Coordinates)
	}
	if first.Street != "Nieuwe Doelenstraat" || first.Postcode != "1012 CP" {
		t.Errorf("expected address parts to map, got %+v", first)
	}
}

func TestClient_Autocomplete_OmitsEmptyOptionalParams(t *testing.T) {
	var captured url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		_, _ = w.Write([]byte(`{"features": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{},
		Logger:     zerolog.Nop(),
	})

	places, err := client.Autocomplete(context.Background(), geocoding.AutocompleteRequest{Query: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("expected no places, got %d", len(places))
	}

	if captured.Has("api_key") {
		t.Error("expected no api_key param without a configured key")
	}
	if captured.Has("focus.point.lat") {
		t.Error("expected no focus point params without a focus point")
	}
}

func TestClient_Autocomplete_SkipsFeaturesWithoutCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features": [{"properties": {"id": "broken"}, "geometry": {"coordinates": []}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	places, err := client.Autocomplete(context.Background(), geocoding.AutocompleteRequest{Query: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("expected degenerate feature to be skipped, got %d places", len(places))
	}
}

func TestClient_Autocomplete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Autocomplete(context.Background(), geocoding.AutocompleteRequest{Query: "x"})
	if !errors.Is(err, geocoding.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestClient_Autocomplete_ClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Autocomplete(context.Background(), geocoding.AutocompleteRequest{Query: "x"})
	if !errors.Is(err, geocoding.ErrProviderError) {
		t.Fatalf("expected ErrProviderError, got %v", err)
	}
}

func TestClient_Autocomplete_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)

	_, err := client.Autocomplete(context.Background(), geocoding.AutocompleteRequest{Query: "x"})
	if !errors.Is(err, geocoding.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
