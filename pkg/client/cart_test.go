package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cartTestServer mimics the cart endpoints well enough for the SDK paths
// under test.
func cartTestServer() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"cart_items":[{"id":10,"product_id":1,"quantity":2,"customization_note":"wrap"}],"count":1,"total":90}`)
		case http.MethodPost:
			var req addToCartPayload
			json.NewDecoder(r.Body).Decode(&req)
			if req.ProductID == 999 {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"error":"PRODUCT_NOT_FOUND","message":"Product not found"}`)
				return
			}
			if req.Quantity <= 0 {
				fmt.Fprint(w, `{"message":"Item removed from cart"}`)
				return
			}
			fmt.Fprintf(w, `{"cart_item":{"id":10,"product_id":%d,"quantity":%d,"customization_note":%q}}`,
				req.ProductID, req.Quantity, req.CustomizationNote)
		case http.MethodDelete:
			fmt.Fprint(w, `{"message":"Cart cleared"}`)
		}
	})
	mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":"ok"}`)
	})
	return mux
}

func TestCart_RequiresSignIn(t *testing.T) {
	c, queue := newServerClient(t, cartTestServer())
	c.SetToken("")
	cart := NewCart(c, queue)

	_, _, err := cart.Add(context.Background(), 1, 2, "")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = cart.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)

	assert.Equal(t, 0, queue.Pending())
}

func TestCart_AddOnline(t *testing.T) {
	c, queue := newServerClient(t, cartTestServer())
	cart := NewCart(c, queue)

	line, queued, err := cart.Add(context.Background(), 1, 2, "wrap")
	assert.NoError(t, err)
	assert.False(t, queued)
	assert.Equal(t, uint(10), line.ItemID)
	assert.Equal(t, 2, line.Quantity)

	local := cart.Local()
	require.Len(t, local, 1)
	assert.Equal(t, uint(1), local[0].ProductID)
	assert.Equal(t, 0, queue.Pending())
}

func TestCart_AddRejected(t *testing.T) {
	c, queue := newServerClient(t, cartTestServer())
	cart := NewCart(c, queue)

	_, queued, err := cart.Add(context.Background(), 999, 1, "")
	require.Error(t, err)
	assert.False(t, queued)
	assert.False(t, IsTransport(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", apiErr.Code)

	// Rejection leaves the mirror and the queue untouched
	assert.Empty(t, cart.Local())
	assert.Equal(t, 0, queue.Pending())
}

func TestCart_AddOfflineQueues(t *testing.T) {
	c, queue := newServerClient(t, cartTestServer())
	cart := NewCart(c, queue)
	c.SetOnline(false)

	line, queued, err := cart.Add(context.Background(), 1, 3, "note")
	assert.NoError(t, err)
	assert.True(t, queued)
	assert.Equal(t, 3, line.Quantity)

	// Optimistic mirror and a queued action, no network call
	local := cart.Local()
	require.Len(t, local, 1)
	assert.Equal(t, 3, local[0].Quantity)
	assert.Equal(t, 1, queue.Pending())
}

func TestCart_AddOfflineReplaysLastWriteWins(t *testing.T) {
	c, queue := newServerClient(t, cartTestServer())
	cart := NewCart(c, queue)
	c.SetOnline(false)

	_, _, err := cart.Add(context.Background(), 1, 2, "first")
	require.NoError(t, err)
	_, _, err = cart.Add(context.Background(), 1, 5, "second")
	require.NoError(t, err)

	// Mirror holds one line with the later write
	local := cart.Local()
	require.Len(t, local, 1)
	assert.Equal(t, 5, local[0].Quantity)
	assert.Equal(t, "second", local[0].CustomizationNote)

	// Both writes replay in order; the server's upsert makes the last win
	c.SetOnline(true)
	report, err := queue.Replay(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, report.Replayed)
}

func TestCart_RemoveOfflineQueuesZeroQuantity(t *testing.T) {
	c, queue := newServerClient(t, cartTestServer())
	cart := NewCart(c, queue)
	c.SetOnline(false)

	_, _, err := cart.Add(context.Background(), 1, 2, "")
	require.NoError(t, err)

	queued, err := cart.Remove(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, queued)

	assert.Empty(t, cart.Local())
	assert.Equal(t, 2, queue.Pending())
}

func TestCart_UpdateOffline(t *testing.T) {
	c, queue := newServerClient(t, cartTestServer())
	cart := NewCart(c, queue)

	_, _, err := cart.Add(context.Background(), 1, 2, "")
	require.NoError(t, err)

	c.SetOnline(false)
	queued, err := cart.Update(context.Background(), 10, 7)
	assert.NoError(t, err)
	assert.True(t, queued)

	local := cart.Local()
	require.Len(t, local, 1)
	assert.Equal(t, 7, local[0].Quantity)
	assert.Equal(t, 1, queue.Pending())
}

func TestCart_FetchReplacesMirror(t *testing.T) {
	c, queue := newServerClient(t, cartTestServer())
	cart := NewCart(c, queue)

	// Stale local line for a different product
	c.SetOnline(false)
	_, _, err := cart.Add(context.Background(), 42, 1, "")
	require.NoError(t, err)
	c.SetOnline(true)

	view, err := cart.Fetch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 90.0, view.Total)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, uint(1), view.Lines[0].ProductID)

	// Mirror now matches the server
	local := cart.Local()
	require.Len(t, local, 1)
	assert.Equal(t, uint(1), local[0].ProductID)
}

func TestCart_Clear(t *testing.T) {
	c, queue := newServerClient(t, cartTestServer())
	cart := NewCart(c, queue)

	_, _, err := cart.Add(context.Background(), 1, 2, "")
	require.NoError(t, err)

	err = cart.Clear(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, cart.Local())
}
