// Package nws reads the api.weather.gov cursor-paginated feeds.
//
// Every feed page shares one envelope: a features array plus a
// pagination.next link. A drain follows next links until the field is
// absent; each full drain is one logical pass over the feed, so callers
// needing the data again re-invoke from the start URL.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"

	"github.com/trevorneel/EWD/internal/config"
	"github.com/trevorneel/EWD/internal/domain"
)

// alertQuery is the fixed active-alerts filter. A limit parameter must
// never be appended: the alerts API rejects requests that carry one.
const alertQuery = "status=actual&message_type=alert"

// Client reads the NWS alert and zone feeds.
type Client struct {
	httpClient *http.Client
	userAgent  string
	alertsURL  string
	zonesURL   string
	logger     *slog.Logger
}

// NewClient creates a feed client from the sync configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		userAgent:  cfg.UserAgent,
		alertsURL:  cfg.AlertsURL,
		zonesURL:   cfg.ZonesURL,
		logger:     logger,
	}
}

// Feed envelope shared by the alert and zone feeds.

type envelope struct {
	Features   []feature `json:"features"`
	Pagination struct {
		Next string `json:"next"`
	} `json:"pagination"`
}

type feature struct {
	Properties json.RawMessage `json:"properties"`
}

type alertProperties struct {
	Event   string `json:"event"`
	Geocode struct {
		UGC []string `json:"UGC"`
	} `json:"geocode"`
}

type zoneProperties struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	State string `json:"state"`
	Name  string `json:"name"`
}

// ActiveAlerts yields every active alert. The sequence is lazy and finite;
// a page failure yields one non-nil error and ends it, with no retry.
func (c *Client) ActiveAlerts(ctx context.Context) iter.Seq2[domain.Alert, error] {
	start := withQuery(c.alertsURL, alertQuery)
	return func(yield func(domain.Alert, error) bool) {
		for raw, err := range c.properties(ctx, start) {
			if err != nil {
				yield(domain.Alert{}, err)
				return
			}
			var p alertProperties
			if err := json.Unmarshal(raw, &p); err != nil {
				yield(domain.Alert{}, &domain.MalformedResponseError{URL: start, Err: err})
				return
			}
			if !yield(domain.Alert{Event: p.Event, UGCs: p.Geocode.UGC}, nil) {
				return
			}
		}
	}
}

// CountyZones yields every record of the zone index feed, untyped filtering
// left to the index builder.
func (c *Client) CountyZones(ctx context.Context) iter.Seq2[domain.Zone, error] {
	return func(yield func(domain.Zone, error) bool) {
		for raw, err := range c.properties(ctx, c.zonesURL) {
			if err != nil {
				yield(domain.Zone{}, err)
				return
			}
			var p zoneProperties
			if err := json.Unmarshal(raw, &p); err != nil {
				yield(domain.Zone{}, &domain.MalformedResponseError{URL: c.zonesURL, Err: err})
				return
			}
			if !yield(domain.Zone{Type: p.Type, Code: p.ID, State: p.State, Name: p.Name}, nil) {
				return
			}
		}
	}
}

// properties yields each feature's properties object from the feed at
// startURL, following pagination.next until absent.
func (c *Client) properties(ctx context.Context, startURL string) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		url := startURL
		for url != "" {
			var page envelope
			if err := c.getJSON(ctx, url, &page); err != nil {
				yield(nil, err)
				return
			}
			c.logger.Debug("fetched feed page", "url", url, "features", len(page.Features))
			for _, f := range page.Features {
				if !yield(f.Properties, nil) {
					return
				}
			}
			url = page.Pagination.Next
		}
	}
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.TransportError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

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

func withQuery(base, query string) string {
	if strings.Contains(base, "?") {
		return base + "&" + query
	}
	return base + "?" + query
}
