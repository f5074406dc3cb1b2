package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServerClient(t *testing.T, handler http.Handler) (*Client, *SyncQueue) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	c.SetToken("test-token")
	return c, NewSyncQueue(c)
}

func TestSyncQueue_EnqueuePending(t *testing.T) {
	_, queue := newServerClient(t, http.NotFoundHandler())

	assert.Equal(t, 0, queue.Pending())

	_, err := queue.Enqueue(ActionAddToCart, addToCartPayload{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	_, err = queue.Enqueue(ActionToggleWishlist, toggleWishlistPayload{ProductID: 3})
	require.NoError(t, err)

	assert.Equal(t, 2, queue.Pending())
}

func TestSyncQueue_ReplayFIFO(t *testing.T) {
	var seen []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	})

	_, queue := newServerClient(t, handler)

	_, err := queue.Enqueue(ActionAddToCart, addToCartPayload{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	_, err = queue.Enqueue(ActionUpdateCart, updateCartPayload{ItemID: 7, Quantity: 5})
	require.NoError(t, err)
	_, err = queue.Enqueue(ActionToggleWishlist, toggleWishlistPayload{ProductID: 3})
	require.NoError(t, err)

	report, err := queue.Replay(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, report.Replayed)
	assert.Empty(t, report.Dropped)
	assert.Equal(t, 0, queue.Pending())

	require.Equal(t, []string{
		"POST /cart",
		"PUT /cart/7",
		"POST /wishlist/toggle",
	}, seen)
}

func TestSyncQueue_ReplayEmptyQueue(t *testing.T) {
	_, queue := newServerClient(t, http.NotFoundHandler())

	report, err := queue.Replay(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, report.Replayed)
}

func TestSyncQueue_RejectionDropsAndContinues(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ProductID uint `json:"product_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		if body.ProductID == 2 {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"PRODUCT_NOT_FOUND","message":"Product not found"}`))
			return
		}
		w.Write([]byte("{}"))
	})

	_, queue := newServerClient(t, handler)

	for _, id := range []uint{1, 2, 3} {
		_, err := queue.Enqueue(ActionAddToCart, addToCartPayload{ProductID: id, Quantity: 1})
		require.NoError(t, err)
	}

	report, err := queue.Replay(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, report.Replayed)
	require.Len(t, report.Dropped, 1)
	assert.Equal(t, "PRODUCT_NOT_FOUND", report.Dropped[0].Err.Code)
	assert.Equal(t, 0, queue.Pending())
}

func TestSyncQueue_TransportFailureKeepsTail(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls >= 2 {
			// Kill the connection mid-flight to simulate a network drop
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	})

	_, queue := newServerClient(t, handler)

	for _, id := range []uint{1, 2, 3} {
		_, err := queue.Enqueue(ActionAddToCart, addToCartPayload{ProductID: id, Quantity: 1})
		require.NoError(t, err)
	}

	report, err := queue.Replay(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 1, report.Replayed)
	assert.Equal(t, 2, report.Remaining)
	assert.Equal(t, 2, queue.Pending())
}

func TestSyncQueue_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	t.Cleanup(server.Close)

	first, err := New(Config{BaseURL: server.URL, StateDir: dir})
	require.NoError(t, err)
	firstQueue := NewSyncQueue(first)
	_, err = firstQueue.Enqueue(ActionAddToCart, addToCartPayload{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	// A fresh client over the same state dir sees the queued action
	second, err := New(Config{BaseURL: server.URL, StateDir: dir})
	require.NoError(t, err)
	secondQueue := NewSyncQueue(second)
	assert.Equal(t, 1, secondQueue.Pending())

	report, err := secondQueue.Replay(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Replayed)
}

func TestSyncQueue_Clear(t *testing.T) {
	_, queue := newServerClient(t, http.NotFoundHandler())

	_, err := queue.Enqueue(ActionAddToCart, addToCartPayload{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	queue.Clear()
	assert.Equal(t, 0, queue.Pending())
}
