// Package pelias provides a client for the Pelias geocoding API.
package pelias

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripgate/tripgate/internal/geocoding"
	"github.com/tripgate/tripgate/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "pelias"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// Administrative layers excluded from autocomplete results; only concrete,
// navigable places are useful as journey endpoints.
const excludedLayers = "-continent,-empire,-country,-dependency,-disputed," +
	"-region,-county,-localadmin,-locality,-borough,-neighbourhood"

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Pelias client.
type ClientConfig struct {
	// BaseURL is the Pelias API base URL (required).
	BaseURL string

	// APIKey authenticates requests, when the deployment requires one.
	APIKey string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Pelias API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Pelias client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Autocomplete searches places matching the request.
func (c *Client) Autocomplete(ctx context.Context, req geocoding.AutocompleteRequest) ([]geocoding.Place, error) {
	params := url.Values{}
	params.Set("text", req.Query)
	params.Set("layers", excludedLayers)
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if req.FocusPoint != nil {
		params.Set("focus.point.lat", strconv.FormatFloat(req.FocusPoint.Lat, 'f', -1, 64))
		params.Set("focus.point.lon", strconv.FormatFloat(req.FocusPoint.Lon, 'f', -1, 64))
	}

	requestURL := fmt.Sprintf("%s/v1/autocomplete?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().
		Str("query", req.Query).
		Msg("requesting autocomplete from pelias")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, geocoding.ErrProviderUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 {
			return nil, geocoding.ErrProviderUnavailable
		}
		return nil, fmt.Errorf("%w: status %d", geocoding.ErrProviderError, resp.StatusCode)
	}

	var payload autocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: undecodable response: %v", geocoding.ErrProviderError, err)
	}

	places := make([]geocoding.Place, 0, len(payload.Features))
	for _, feature := range payload.Features {
		if len(feature.Geometry.Coordinates) < 2 {
			continue
		}
		places = append(places, geocoding.Place{
			ID:       feature.Properties.ID,
			Name:     feature.Properties.Name,
			Type:     feature.Properties.Layer,
			Address:  feature.Properties.Label,
			Street:   feature.Properties.Street,
			Locality: feature.Properties.Locality,
			Postcode: feature.Properties.Postalcode,
			Coordinates: geocoding.Coordinates{
				// GeoJSON order is [lon, lat]
				Lat: feature.Geometry.Coordinates[1],
				Lon: feature.Geometry.Coordinates[0],
			},
		})
	}

	return places, nil
}

// autocompleteResponse is the GeoJSON feature collection returned by Pelias.
type autocompleteResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties featureProperties `json:"properties"`
	Geometry   featureGeometry   `json:"geometry"`
}

type featureProperties struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Layer      string `json:"layer"`
	Label      string `json:"label"`
	Street     string `json:"street"`
	Locality   string `json:"locality"`
	Postalcode string `json:"postalcode"`
}

type featureGeometry struct {
	Coordinates []float64 `json:"coordinates"`
}
