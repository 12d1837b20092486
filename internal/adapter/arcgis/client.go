// Package arcgis talks to one ArcGIS-style feature service: layer
// discovery, offset-paginated attribute queries, and batched apply-edits
// writes with partial-failure handling.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/trevorneel/EWD/internal/config"
	"github.com/trevorneel/EWD/internal/domain"
)

// Client is bound to one feature service root.
type Client struct {
	httpClient  *http.Client
	serviceRoot string
	userAgent   string
	logger      *slog.Logger
	clock       clockwork.Clock
}

// NewClient creates a feature-service client from the sync configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.HTTPTimeout},
		serviceRoot: strings.TrimRight(cfg.ServiceRootURL, "/"),
		userAgent:   cfg.UserAgent,
		logger:      logger,
		clock:       clockwork.NewRealClock(),
	}
}

// apiError is the error envelope ArcGIS endpoints return inside a 200 body.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("arcgis error %d: %s", e.Code, e.Message)
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.TransportError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &domain.TransportError{
			URL: url,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &domain.MalformedResponseError{URL: url, Err: err}
	}
	return nil
}
