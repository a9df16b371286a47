package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/webshop/internal/models"
)

type recorded struct {
	method string
	path   string
	body   string
}

func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	t.Helper()

	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = w.Write([]byte(`{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`))
			return
		}
		handle(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestNew_WithoutURLIsNoop(t *testing.T) {
	t.Parallel()

	idx, err := New(context.Background(), Config{})
	require.NoError(t, err)

	_, _, err = idx.Search(context.Background(), "lamp", 0, 10)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, idx.IndexProduct(context.Background(), &models.Product{}))
	assert.NoError(t, idx.DeleteProduct(context.Background(), uuid.New()))
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	srv, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"hits": map[string]any{
				"total": map[string]any{"value": 1},
				"hits": []any{
					map[string]any{"_source": map[string]any{"id": id.String(), "name": "desk lamp", "price": 12.5}},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	c, err := NewClient(context.Background(), Config{URL: srv.URL, Index: "products"})
	require.NoError(t, err)

	total, items, err := c.Search(context.Background(), "lamp", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "desk lamp", items[0].Name)

	last := (*reqs)[len(*reqs)-1]
	assert.Equal(t, "/products/_search", last.path)
	assert.Contains(t, last.body, `"multi_match"`)
	assert.Contains(t, last.body, `"lamp"`)
}

func TestClient_IndexAndDelete(t *testing.T) {
	t.Parallel()

	srv, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	c, err := NewClient(context.Background(), Config{URL: srv.URL, Index: "products"})
	require.NoError(t, err)

	p := &models.Product{ID: uuid.New(), Name: "chair"}
	require.NoError(t, c.IndexProduct(context.Background(), p))
	require.NoError(t, c.DeleteProduct(context.Background(), p.ID))

	var paths []string
	for _, r := range *reqs {
		paths = append(paths, r.method+" "+r.path)
	}
	joined := strings.Join(paths, "\n")
	assert.Contains(t, joined, "PUT /products/_doc/"+p.ID.String())
	assert.Contains(t, joined, "DELETE /products/_doc/"+p.ID.String())
}

func TestClient_SearchError(t *testing.T) {
	t.Parallel()

	srv, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	c, err := NewClient(context.Background(), Config{URL: srv.URL, Index: "products"})
	require.NoError(t, err)

	_, _, err = c.Search(context.Background(), "x", 0, 10)
	assert.Error(t, err)
}
