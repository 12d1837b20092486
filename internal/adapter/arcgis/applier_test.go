package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trevorneel/EWD/internal/domain"
)

func makeUpdates(n int) []domain.Update {
	updates := make([]domain.Update, n)
	for i := range updates {
		updates[i] = domain.NewUpdate("FID", i, map[string]any{"ugc": fmt.Sprintf("TXC%03d", i)})
	}
	return updates
}

// decodeBatch pulls the updates array out of the posted form.
func decodeBatch(t *testing.T, r *http.Request) []domain.Update {
	t.Helper()
	require.NoError(t, r.ParseForm())
	assert.Equal(t, "json", r.PostFormValue("f"))

	var batch []domain.Update
	require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("updates")), &batch))
	return batch
}

func allSuccess(n int) string {
	results := make([]map[string]any, n)
	for i := range results {
		results[i] = map[string]any{"objectId": i, "success": true}
	}
	out, _ := json.Marshal(map[string]any{"updateResults": results})
	return string(out)
}

func TestApplyUpdates_PartitionsIntoBatches(t *testing.T) {
	var sizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		batch := decodeBatch(t, r)
		sizes = append(sizes, len(batch))
		_, _ = w.Write([]byte(allSuccess(len(batch))))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	res, err := c.ApplyUpdates(context.Background(), srv.URL+"/0/applyEdits", makeUpdates(1200), 500, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{500, 500, 200}, sizes, "1200 updates at batch size 500 submit exactly three calls")
	assert.Equal(t, 1200, res.Confirmed)
	assert.Equal(t, 3, res.Batches)
	assert.False(t, res.Halted)
}

func TestApplyUpdates_ErrorEnvelopeHaltsWithPartialTotal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		batch := decodeBatch(t, r)
		if calls == 2 {
			_, _ = w.Write([]byte(`{"error": {"code": 500, "message": "Unable to complete operation."}}`))
			return
		}
		_, _ = w.Write([]byte(allSuccess(len(batch))))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	res, err := c.ApplyUpdates(context.Background(), srv.URL+"/0/applyEdits", makeUpdates(1200), 500, 0)
	require.NoError(t, err, "a received error envelope is a halt, not a raised error")

	assert.Equal(t, 2, calls, "no third batch after the halt")
	assert.True(t, res.Halted)
	assert.Equal(t, 500, res.Confirmed, "only the first batch's successes count")
	require.Error(t, res.LastError)
	assert.Contains(t, res.LastError.Error(), "Unable to complete operation")
}

func TestApplyUpdates_BatchCanPartiallySucceed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decodeBatch(t, r)
		_, _ = w.Write([]byte(`{"updateResults": [
			{"objectId": 0, "success": true},
			{"objectId": 1, "success": false, "error": {"code": 1000, "message": "row locked"}},
			{"objectId": 2, "success": true}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	res, err := c.ApplyUpdates(context.Background(), srv.URL+"/0/applyEdits", makeUpdates(3), 500, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Confirmed)
	assert.False(t, res.Halted, "per-row failures do not halt the run")
}

func TestApplyUpdates_UnexpectedShapeHalts(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"addResults": []}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	res, err := c.ApplyUpdates(context.Background(), srv.URL+"/0/applyEdits", makeUpdates(600), 500, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.True(t, res.Halted)
	assert.Zero(t, res.Confirmed)
	assert.Contains(t, res.LastError.Error(), "updateResults")
}

func TestApplyUpdates_UnreadableResponseHalts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	res, err := c.ApplyUpdates(context.Background(), srv.URL+"/0/applyEdits", makeUpdates(10), 500, 0)
	require.NoError(t, err, "malformed apply response degrades to a halt")

	assert.True(t, res.Halted)

	var me *domain.MalformedResponseError
	assert.ErrorAs(t, res.LastError, &me)
}

func TestApplyUpdates_TransportFailurePropagates(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		batch := decodeBatch(t, r)
		if calls == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(allSuccess(len(batch))))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	res, err := c.ApplyUpdates(context.Background(), srv.URL+"/0/applyEdits", makeUpdates(1000), 500, 0)
	require.Error(t, err)

	var te *domain.TransportError
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, 500, res.Confirmed, "partial total survives the transport failure")
	assert.Equal(t, 2, calls)
}

func TestApplyUpdates_NoUpdatesNoCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no submission expected for an empty update set")
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	res, err := c.ApplyUpdates(context.Background(), srv.URL+"/0/applyEdits", nil, 500, 0)
	require.NoError(t, err)
	assert.Zero(t, res.Confirmed)
	assert.Zero(t, res.Batches)
}
