package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeCluster(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return c
}

func TestSearchDecodesHits(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	c := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_id":"p1","_source":{"name":"Chaise"}}]}}`)
	})

	res, err := c.Search(context.Background(), "products", map[string]interface{}{"size": 5})
	require.NoError(t, err)

	assert.Equal(t, "/products/_search", gotPath)
	assert.EqualValues(t, 5, gotBody["size"])
	assert.Equal(t, 1, res.Hits.Total.Value)
	require.Len(t, res.Hits.Hits, 1)
	assert.Equal(t, "p1", res.Hits.Hits[0].ID)
	assert.JSONEq(t, `{"name":"Chaise"}`, string(res.Hits.Hits[0].Source))
}

func TestCreateIndexToleratesExisting(t *testing.T) {
	c := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"resource_already_exists_exception"}}`)
	})

	assert.NoError(t, c.CreateIndex(context.Background(), "products", `{}`))
}

func TestDeleteMissingDocument(t *testing.T) {
	c := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	})

	assert.NoError(t, c.Delete(context.Background(), "products", "missing"))
}
