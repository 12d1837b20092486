package arcgis

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
)

// Feature is one row returned by the query endpoint, geometry suppressed.
type Feature struct {
	Attributes map[string]any `json:"attributes"`
}

// StringAttr reads a string-valued attribute, tolerating absence and null.
func (f Feature) StringAttr(name string) string {
	s, _ := f.Attributes[name].(string)
	return s
}

type queryPage struct {
	Features []Feature `json:"features"`
	Error    *apiError `json:"error"`
}

// QueryAll yields every feature matching where, paging with
// resultOffset/resultRecordCount until the service returns an empty page.
// The sequence is lazy; a page failure yields one non-nil error and ends
// it. No orderByFields is sent, so row order is whatever the service
// returns.
func (c *Client) QueryAll(ctx context.Context, queryURL, where string, outFields []string, pageSize int) iter.Seq2[Feature, error] {
	return func(yield func(Feature, error) bool) {
		offset := 0
		for {
			params := url.Values{
				"f":                 {"json"},
				"where":             {where},
				"outFields":         {strings.Join(outFields, ",")},
				"returnGeometry":    {"false"},
				"resultOffset":      {strconv.Itoa(offset)},
				"resultRecordCount": {strconv.Itoa(pageSize)},
			}
			pageURL := queryURL + "?" + params.Encode()

			var page queryPage
			if err := c.getJSON(ctx, pageURL, &page); err != nil {
				yield(Feature{}, err)
				return
			}
			if page.Error != nil {
				yield(Feature{}, fmt.Errorf("query features: %w", page.Error))
				return
			}
			if len(page.Features) == 0 {
				return
			}
			for _, f := range page.Features {
				if !yield(f, nil) {
					return
				}
			}
			offset += len(page.Features)
		}
	}
}
