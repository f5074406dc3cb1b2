package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wishlistTestServer keeps a real membership set so toggles round-trip.
func wishlistTestServer() http.Handler {
	var (
		mu  sync.Mutex
		ids = map[uint]bool{}
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/wishlist", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		list := make([]uint, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"items":       []map[string]interface{}{},
			"product_ids": list,
			"count":       len(list),
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/wishlist/toggle", func(w http.ResponseWriter, r *http.Request) {
		var req toggleWishlistPayload
		json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		if req.ProductID == 999 {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"PRODUCT_NOT_FOUND","message":"Product not found"}`)
			return
		}

		mu.Lock()
		now := !ids[req.ProductID]
		if now {
			ids[req.ProductID] = true
		} else {
			delete(ids, req.ProductID)
		}
		mu.Unlock()

		fmt.Fprintf(w, `{"success":true,"is_in_wishlist":%t}`, now)
	})
	mux.HandleFunc("/wishlist/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":"Item removed from wishlist"}`)
	})
	return mux
}

func TestWishlist_RequiresSignIn(t *testing.T) {
	c, queue := newServerClient(t, wishlistTestServer())
	c.SetToken("")
	wishlist := NewWishlist(c, queue)

	_, _, err := wishlist.Toggle(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Equal(t, 0, queue.Pending())
}

func TestWishlist_ToggleOnline(t *testing.T) {
	c, queue := newServerClient(t, wishlistTestServer())
	wishlist := NewWishlist(c, queue)

	in, queued, err := wishlist.Toggle(context.Background(), 1)
	assert.NoError(t, err)
	assert.False(t, queued)
	assert.True(t, in)
	assert.True(t, wishlist.Contains(1))

	in, _, err = wishlist.Toggle(context.Background(), 1)
	assert.NoError(t, err)
	assert.False(t, in)
	assert.False(t, wishlist.Contains(1))
}

func TestWishlist_ToggleRejectedLeavesMirror(t *testing.T) {
	c, queue := newServerClient(t, wishlistTestServer())
	wishlist := NewWishlist(c, queue)

	_, _, err := wishlist.Toggle(context.Background(), 999)
	require.Error(t, err)
	assert.False(t, IsTransport(err))
	assert.False(t, wishlist.Contains(999))
	assert.Equal(t, 0, queue.Pending())
}

func TestWishlist_ToggleOfflineQueues(t *testing.T) {
	c, queue := newServerClient(t, wishlistTestServer())
	wishlist := NewWishlist(c, queue)
	c.SetOnline(false)

	in, queued, err := wishlist.Toggle(context.Background(), 5)
	assert.NoError(t, err)
	assert.True(t, queued)
	assert.True(t, in)
	assert.True(t, wishlist.Contains(5))
	assert.Equal(t, 1, queue.Pending())

	// Replay converges the server to the mirrored state
	c.SetOnline(true)
	report, err := queue.Replay(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Replayed)

	_, err = wishlist.Fetch(context.Background())
	assert.NoError(t, err)
	assert.True(t, wishlist.Contains(5))
}

func TestWishlist_OfflineDoubleToggleCancelsOut(t *testing.T) {
	c, queue := newServerClient(t, wishlistTestServer())
	wishlist := NewWishlist(c, queue)
	c.SetOnline(false)

	_, _, err := wishlist.Toggle(context.Background(), 5)
	require.NoError(t, err)
	_, _, err = wishlist.Toggle(context.Background(), 5)
	require.NoError(t, err)

	assert.False(t, wishlist.Contains(5))
	assert.Equal(t, 2, queue.Pending())

	// Two toggles replay to a server-side add then remove
	c.SetOnline(true)
	_, err = queue.Replay(context.Background())
	require.NoError(t, err)

	_, err = wishlist.Fetch(context.Background())
	assert.NoError(t, err)
	assert.False(t, wishlist.Contains(5))
}

func TestWishlist_RemoveOfflineAbsentIsNoop(t *testing.T) {
	c, queue := newServerClient(t, wishlistTestServer())
	wishlist := NewWishlist(c, queue)
	c.SetOnline(false)

	queued, err := wishlist.Remove(context.Background(), 7)
	assert.NoError(t, err)
	assert.False(t, queued)
	assert.Equal(t, 0, queue.Pending())
}

func TestWishlist_FetchReplacesMirror(t *testing.T) {
	c, queue := newServerClient(t, wishlistTestServer())
	wishlist := NewWishlist(c, queue)

	// Server gains a product through a direct toggle
	_, _, err := wishlist.Toggle(context.Background(), 3)
	require.NoError(t, err)

	// Plant a stale local-only ID, then fetch
	c.SetOnline(false)
	_, _, err = wishlist.Toggle(context.Background(), 40)
	require.NoError(t, err)
	c.SetOnline(true)

	_, err = wishlist.Fetch(context.Background())
	assert.NoError(t, err)
	assert.True(t, wishlist.Contains(3))
	assert.False(t, wishlist.Contains(40))
}
