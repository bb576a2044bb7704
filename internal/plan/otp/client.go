// Package otp provides a client for an OpenTripPlanner-compatible routing
// engine queried over its GraphQL plan API.
package otp

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tripgate/tripgate/internal/plan"
	"github.com/tripgate/tripgate/internal/provider/resilience"
)

const (
	// ProviderName identifies this routing engine.
	ProviderName = "opentripplanner"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	meterName = "github.com/tripgate/tripgate/internal/plan/otp"
)

//go:embed plan.graphql
var defaultPlanTemplate string

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenTripPlanner client.
type ClientConfig struct {
	// BaseURL is the engine's GraphQL endpoint (required).
	BaseURL string

	// TemplatePath points at a plan query template file. When empty the
	// embedded default template is used. The template is loaded once at
	// construction; a missing file fails fast.
	TemplatePath string

	// TimeOffset is the clock shift applied to the requested date and time
	// before transmission.
	TimeOffset time.Duration

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenTripPlanner GraphQL client.
type Client struct {
	baseURL        string
	template       string
	timeOffset     time.Duration
	httpClient     HTTPDoer
	logger         zerolog.Logger
	untranslatable metric.Int64Counter
}

// NewClient creates a new OpenTripPlanner client. It returns an error when
// the endpoint is unset or the configured template cannot be read, so a
// misconfigured deployment fails at startup rather than on first use.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("a routing engine URL must be configured to use this client")
	}

	template := defaultPlanTemplate
	if cfg.TemplatePath != "" {
		raw, err := os.ReadFile(cfg.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("loading plan query template: %w", err)
		}
		template = string(raw)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		httpClient = resilience.NewClient(clientCfg)
	}

	untranslatable, err := otel.Meter(meterName).Int64Counter(
		"plan.itineraries.untranslatable",
		metric.WithDescription("Engine itineraries dropped because translation failed"),
		metric.WithUnit("{itinerary}"),
	)
	if err != nil {
		cfg.Logger.Warn().Err(err).Msg("failed to create client metrics")
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		template:       template,
		timeOffset:     cfg.TimeOffset,
		httpClient:     httpClient,
		logger:         cfg.Logger,
		untranslatable: untranslatable,
	}, nil
}

// Name returns the engine name.
func (c *Client) Name() string {
	return ProviderName
}

// Plan issues a plan query to the engine and returns the translated response.
func (c *Client) Plan(ctx context.Context, req plan.PlanRequest) (*plan.TripPlan, error) {
	vars, err := buildVariables(req, c.timeOffset)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(graphqlRequest{Query: c.template, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("marshaling plan query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("date", vars.Date).
		Str("time", vars.Time).
		Bool("arrive_by", vars.ArriveBy).
		Int("num_itineraries", vars.NumItineraries).
		Msg("requesting plan from routing engine")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &plan.Error{
			Engine:  ProviderName,
			Code:    "REQUEST_FAILED",
			Message: "failed to reach routing engine",
			Err:     plan.ErrEngineUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode)
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &plan.Error{
			Engine:  ProviderName,
			Code:    "BAD_PAYLOAD",
			Message: "routing engine returned an unparseable response",
			Err:     plan.ErrEngineError,
		}
	}

	if len(envelope.Errors) > 0 {
		return nil, &plan.Error{
			Engine:  ProviderName,
			Code:    "QUERY_REJECTED",
			Message: envelope.Errors[0].Message,
			Err:     plan.ErrEngineError,
		}
	}
	if envelope.Data == nil || envelope.Data.Plan == nil {
		return nil, &plan.Error{
			Engine:  ProviderName,
			Code:    "EMPTY_PAYLOAD",
			Message: "routing engine response carries no plan",
			Err:     plan.ErrEngineError,
		}
	}

	trip, dropped := toTripPlan(envelope.Data.Plan)
	for _, dropErr := range dropped {
		c.logger.Warn().Err(dropErr).Msg("dropping itinerary that failed translation")
	}
	if len(dropped) > 0 && c.untranslatable != nil {
		c.untranslatable.Add(ctx, int64(len(dropped)),
			metric.WithAttributes(attribute.String("engine", ProviderName)))
	}

	c.logger.Debug().
		Int("itinerary_count", len(trip.Itineraries)).
		Int("dropped", len(dropped)).
		Msg("received plan from routing engine")

	return trip, nil
}

// handleErrorResponse maps non-200 engine responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int) error {
	if statusCode >= 500 {
		return &plan.Error{
			Engine:  ProviderName,
			Code:    fmt.Sprintf("SERVER_%d", statusCode),
			Message: "routing engine is temporarily unavailable",
			Err:     plan.ErrEngineUnavailable,
		}
	}
	return &plan.Error{
		Engine:  ProviderName,
		Code:    fmt.Sprintf("HTTP_%d", statusCode),
		Message: fmt.Sprintf("routing engine rejected the query with status %d", statusCode),
		Err:     plan.ErrEngineError,
	}
}
