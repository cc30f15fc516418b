package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultBaseURL   = "https://api.retellai.com/v2"
	defaultUserAgent = "voicehub-provider-sync/0.1"
	tracerName       = "github.com/atf-io/voicehub-sub001/internal/retell"
)

// Config controls how the provider client behaves.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client wraps the voice-AI provider's REST endpoints used by the dashboard.
// Calls are made once: failed actions surface to the caller, who decides
// whether to retry. Automatic retries would break the sync endpoint's
// nothing-persisted-on-failure contract.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
	tracer     trace.Tracer
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("retell: API key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// CreateAgent registers a new agent configuration with the provider.
// The config uses the provider's snake_case field names.
func (c *Client) CreateAgent(ctx context.Context, config map[string]any) (map[string]any, error) {
	body, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("retell: marshal agent config: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPost, "/create-agent", body)
	if err != nil {
		return nil, err
	}
	return decodeObject(data)
}

// UpdateAgent pushes a partial configuration for an existing provider agent.
func (c *Client) UpdateAgent(ctx context.Context, agentID string, config map[string]any) (map[string]any, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, errors.New("retell: agent id required")
	}
	body, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("retell: marshal agent config: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPatch, "/update-agent/"+agentID, body)
	if err != nil {
		return nil, err
	}
	return decodeObject(data)
}

// DeleteAgent removes the agent from the provider.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	if strings.TrimSpace(agentID) == "" {
		return errors.New("retell: agent id required")
	}
	_, err := c.invoke(ctx, http.MethodDelete, "/delete-agent/"+agentID, nil)
	return err
}

// ListPhoneNumbers returns all numbers provisioned for this account.
func (c *Client) ListPhoneNumbers(ctx context.Context) ([]PhoneNumberResource, error) {
	data, err := c.invoke(ctx, http.MethodGet, "/list-phone-numbers", nil)
	if err != nil {
		return nil, err
	}
	var numbers []PhoneNumberResource
	if err := json.Unmarshal(data, &numbers); err != nil {
		return nil, fmt.Errorf("retell: decode phone numbers: %w", err)
	}
	return numbers, nil
}

// PurchasePhoneNumber buys a number and optionally binds agents to it.
func (c *Client) PurchasePhoneNumber(ctx context.Context, req PurchaseNumberRequest) (*PhoneNumberResource, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("retell: marshal purchase request: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPost, "/create-phone-number", body)
	if err != nil {
		return nil, err
	}
	var number PhoneNumberResource
	if err := json.Unmarshal(data, &number); err != nil {
		return nil, fmt.Errorf("retell: decode phone number: %w", err)
	}
	return &number, nil
}

func (c *Client) invoke(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "retell.invoke", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("retell.path", path),
	))
	defer span.End()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("retell: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			span.SetStatus(codes.Error, ctx.Err().Error())
			return nil, ctx.Err()
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("retell: http error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, "read response")
		return nil, fmt.Errorf("retell: read response: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	apiErr := decodeAPIError(resp.StatusCode, data)
	span.SetStatus(codes.Error, apiErr.Error())
	c.logger.Warn("provider call failed",
		"path", path,
		"status", resp.StatusCode,
		"error", apiErr,
	)
	return nil, apiErr
}

func decodeObject(data []byte) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("retell: decode response: %w", err)
	}
	return obj, nil
}
