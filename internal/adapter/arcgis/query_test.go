package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryAll_PagesUntilEmpty(t *testing.T) {
	const total = 5
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		assert.Equal(t, "json", q.Get("f"))
		assert.Equal(t, "1=1", q.Get("where"))
		assert.Equal(t, "FID,ugc", q.Get("outFields"))
		assert.Equal(t, "false", q.Get("returnGeometry"))
		assert.Equal(t, "2", q.Get("resultRecordCount"))

		offset, _ := strconv.Atoi(q.Get("resultOffset"))
		var feats []Feature
		for i := offset; i < total && i < offset+2; i++ {
			feats = append(feats, Feature{Attributes: map[string]any{
				"FID": float64(i),
				"ugc": fmt.Sprintf("TXC%03d", i),
			}})
		}
		require.NoError(t, json.NewEncoder(w).Encode(queryPage{Features: feats}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	var rows []Feature
	for f, err := range c.QueryAll(context.Background(), srv.URL+"/0/query", "1=1", []string{"FID", "ugc"}, 2) {
		require.NoError(t, err)
		rows = append(rows, f)
	}

	assert.Len(t, rows, total)
	assert.Equal(t, "TXC000", rows[0].StringAttr("ugc"))
	assert.Equal(t, "TXC004", rows[4].StringAttr("ugc"))
	// Pages of 2 over 5 rows: 2+2+1, then the empty page that ends the drain.
	assert.Equal(t, 4, calls)
}

func TestQueryAll_ErrorEnvelopeIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "Invalid field: nope"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	var rows int
	var lastErr error
	for _, err := range c.QueryAll(context.Background(), srv.URL+"/0/query", "1=1", []string{"nope"}, 100) {
		if err != nil {
			lastErr = err
			break
		}
		rows++
	}

	require.Error(t, lastErr)
	assert.Contains(t, lastErr.Error(), "Invalid field")
	assert.Zero(t, rows)
}

func TestFeature_StringAttr(t *testing.T) {
	f := Feature{Attributes: map[string]any{"ugc": "TXC453", "FID": float64(7), "NAME": nil}}

	assert.Equal(t, "TXC453", f.StringAttr("ugc"))
	assert.Empty(t, f.StringAttr("NAME"), "null attribute reads as empty")
	assert.Empty(t, f.StringAttr("FID"), "non-string attribute reads as empty")
	assert.Empty(t, f.StringAttr("missing"))
}
