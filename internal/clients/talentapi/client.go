// Package talentapi fetches talent payloads from an upstream talentapi
// endpoint.
package talentapi

//go:generate mockgen -destination=mock/mock_client.go -package=talentapimock github.com/KirkDiggler/talent-api/internal/clients/talentapi Client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
)

const (
	// ClassParam is the query parameter carrying the class selector.
	ClassParam = "klass"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 64 << 20
)

// Client defines the upstream payload endpoint.
type Client interface {
	// FetchPayload returns the raw payload for class. An empty class asks
	// for every class.
	FetchPayload(ctx context.Context, class string) (*talents.Payload, error)
}

// Config contains configuration options for the client.
type Config struct {
	// BaseURL of the payload endpoint, e.g. http://localhost:8080/talentapi
	BaseURL string
	// HTTPTimeout for a single fetch (optional, defaults to 10 seconds)
	HTTPTimeout time.Duration
	// HTTPClient overrides the transport (optional)
	HTTPClient *http.Client
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("base_url", cfg.BaseURL, vb)
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			vb.InvalidField("base_url", "must be an absolute URL")
		}
	}
	if err := vb.Build(); err != nil {
		return err
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultTimeout
	}
	return nil
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new payload client with the given configuration.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}, nil
}

// RequestURL builds the fetch URL for class, keeping any query the base
// URL already carries.
func RequestURL(baseURL, class string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid base url")
	}
	q := u.Query()
	if class = strings.TrimSpace(class); class != "" {
		q.Set(ClassParam, class)
	} else {
		q.Del(ClassParam)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *client) FetchPayload(ctx context.Context, class string) (*talents.Payload, error) {
	target, err := RequestURL(c.baseURL, class)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build talent API request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "talent API request aborted")
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "talent API request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Unavailablef("Talent API HTTP %d", resp.StatusCode).
			WithMeta("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read talent API response")
	}

	payload, err := Decode(body)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "fetched talent payload",
		"class", class,
		"talents", len(payload.Talents),
		"spells", len(payload.Spells),
		"duration", time.Since(start))

	return payload, nil
}

// Decode parses a payload body. A body carrying a non-empty "error" field
// is rejected whole.
func Decode(body []byte) (*talents.Payload, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.DataLoss("talent API returned invalid JSON")
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() && msg.String() != "" {
		return nil, errors.FailedPreconditionf("talent API error: %s", msg.String())
	}
	if !gjson.GetBytes(body, "talents").IsArray() {
		return nil, errors.DataLoss("talent API response has no talents array")
	}

	var payload talents.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode talent API response")
	}
	return &payload, nil
}
