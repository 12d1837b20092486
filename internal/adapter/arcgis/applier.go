package arcgis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trevorneel/EWD/internal/domain"
)

// ApplyResult reports the outcome of one batched apply-edits run. Confirmed
// counts rows individually marked successful across all submitted batches;
// on a halt, prior batches' successes are preserved, never rolled back.
type ApplyResult struct {
	Confirmed int
	Batches   int
	Halted    bool
	LastError error // set when Halted
}

type applyResponse struct {
	Error         *apiError `json:"error"`
	UpdateResults []struct {
		ObjectID int64 `json:"objectId"`
		Success  bool  `json:"success"`
	} `json:"updateResults"`
}

// ApplyUpdates submits updates in consecutive batches of batchSize (the
// final batch may be smaller), one POST per batch, pausing between batches
// to respect upstream rate limits. Per-batch response handling:
//
//   - an error envelope halts the run, returning the confirmed total so far;
//   - an updateResults list adds its individually-successful rows to the
//     total (a batch may partially succeed);
//   - any other response shape halts with the partial total.
//
// No batch is retried. A transport-level failure returns a non-nil error
// alongside the partial result; remaining batches stay unconfirmed.
func (c *Client) ApplyUpdates(ctx context.Context, applyURL string, updates []domain.Update, batchSize int, pause time.Duration) (ApplyResult, error) {
	var res ApplyResult
	for start := 0; start < len(updates); start += batchSize {
		if start > 0 && pause > 0 {
			c.clock.Sleep(pause)
		}

		end := min(start+batchSize, len(updates))
		parsed, err := c.submitBatch(ctx, applyURL, updates[start:end])
		if err != nil {
			var me *domain.MalformedResponseError
			if errors.As(err, &me) {
				res.Batches++
				res.Halted = true
				res.LastError = err
				c.logger.Error("apply edits returned unreadable response, halting",
					"batch", res.Batches, "confirmed", res.Confirmed, "error", err)
				return res, nil
			}
			return res, err
		}
		res.Batches++

		switch {
		case parsed.Error != nil:
			res.Halted = true
			res.LastError = fmt.Errorf("apply edits: %w", parsed.Error)
			c.logger.Error("apply edits rejected batch, halting",
				"batch", res.Batches, "confirmed", res.Confirmed, "error", parsed.Error)
			return res, nil
		case parsed.UpdateResults == nil:
			res.Halted = true
			res.LastError = errors.New("apply edits: response missing updateResults")
			c.logger.Error("apply edits response shape unexpected, halting",
				"batch", res.Batches, "confirmed", res.Confirmed)
			return res, nil
		}

		ok := 0
		for _, r := range parsed.UpdateResults {
			if r.Success {
				ok++
			}
		}
		res.Confirmed += ok
		c.logger.Debug("apply edits batch confirmed",
			"batch", res.Batches, "rows", end-start, "confirmed", ok)
	}
	return res, nil
}

func (c *Client) submitBatch(ctx context.Context, applyURL string, batch []domain.Update) (*applyResponse, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encode update batch: %w", err)
	}
	form := url.Values{
		"f":       {"json"},
		"updates": {string(payload)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, applyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &domain.TransportError{URL: applyURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{URL: applyURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.TransportError{
			URL: applyURL,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{URL: applyURL, Err: err}
	}
	var parsed applyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &domain.MalformedResponseError{URL: applyURL, Err: err}
	}
	return &parsed, nil
}
