package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

const (
	wishlistKey      = "craftbizz_wishlist_ids"
	wishlistItemsKey = "craftbizz_wishlist_items"
)

// WishlistItem is one saved product as the server returns it.
type WishlistItem struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Product   Product `json:"product"`
}

type toggleWishlistPayload struct {
	ProductID uint `json:"product_id"`
}

// Wishlist is the server-backed wishlist with a local ID-set mirror so
// membership checks work instantly and offline. Toggles made while offline
// queue on the sync queue and flip the mirror optimistically.
type Wishlist struct {
	client *Client
	queue  *SyncQueue
	mu     sync.Mutex
}

// NewWishlist builds the store. One instance per application.
func NewWishlist(c *Client, q *SyncQueue) *Wishlist {
	return &Wishlist{client: c, queue: q}
}

// Contains reports membership from the local mirror without touching the
// network.
func (w *Wishlist) Contains(productID uint) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.load() {
		if id == productID {
			return true
		}
	}
	return false
}

// LocalIDs returns the mirrored product IDs.
func (w *Wishlist) LocalIDs() []uint {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.load()
}

// LocalItems returns the rich items from the last successful Fetch, filtered
// down to products still in the mirror. Products added since then appear in
// the ID mirror only until the next Fetch.
func (w *Wishlist) LocalItems() []WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()

	var items []WishlistItem
	w.client.Store().Get(wishlistItemsKey, &items)

	present := make(map[uint]bool)
	for _, id := range w.load() {
		present[id] = true
	}

	out := make([]WishlistItem, 0, len(items))
	for _, item := range items {
		if present[item.ProductID] {
			out = append(out, item)
		}
	}
	return out
}

// Fetch loads the wishlist from the server and replaces the mirror with the
// server's ID set.
func (w *Wishlist) Fetch(ctx context.Context) ([]WishlistItem, error) {
	if !w.client.SignedIn() {
		return nil, ErrNotSignedIn
	}

	var resp struct {
		Items      []WishlistItem `json:"items"`
		ProductIDs []uint         `json:"product_ids"`
	}
	if err := w.client.do(ctx, http.MethodGet, "/wishlist", nil, &resp); err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.persist(resp.ProductIDs)
	if len(resp.Items) == 0 {
		w.client.Store().Delete(wishlistItemsKey)
	} else {
		w.client.Store().Set(wishlistItemsKey, resp.Items)
	}
	w.mu.Unlock()

	return resp.Items, nil
}

// Toggle flips wishlist membership for a product and returns whether it is
// in the wishlist afterwards. Online the server decides and the mirror
// follows; offline the toggle queues and the mirror flips optimistically,
// reported by the queued flag. A server rejection leaves the mirror
// untouched.
func (w *Wishlist) Toggle(ctx context.Context, productID uint) (inWishlist, queued bool, err error) {
	if !w.client.SignedIn() {
		return false, false, ErrNotSignedIn
	}

	if !w.client.Online() {
		if _, err := w.queue.Enqueue(ActionToggleWishlist, toggleWishlistPayload{ProductID: productID}); err != nil {
			return false, false, err
		}
		return w.flip(productID), true, nil
	}

	var resp struct {
		IsInWishlist bool `json:"is_in_wishlist"`
	}
	if err := w.client.do(ctx, http.MethodPost, "/wishlist/toggle", toggleWishlistPayload{ProductID: productID}, &resp); err != nil {
		return false, false, err
	}

	w.mu.Lock()
	w.setMembership(productID, resp.IsInWishlist)
	w.mu.Unlock()

	return resp.IsInWishlist, false, nil
}

// Remove deletes a product from the wishlist. Offline it queues as a toggle
// only when the mirror says the product is present, so replay cannot
// accidentally re-add it.
func (w *Wishlist) Remove(ctx context.Context, productID uint) (queued bool, err error) {
	if !w.client.SignedIn() {
		return false, ErrNotSignedIn
	}

	if !w.client.Online() {
		if !w.Contains(productID) {
			return false, nil
		}
		if _, err := w.queue.Enqueue(ActionToggleWishlist, toggleWishlistPayload{ProductID: productID}); err != nil {
			return false, err
		}
		w.mu.Lock()
		w.setMembership(productID, false)
		w.mu.Unlock()
		return true, nil
	}

	if err := w.client.do(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/%d", productID), nil, nil); err != nil {
		return false, err
	}
	w.mu.Lock()
	w.setMembership(productID, false)
	w.mu.Unlock()
	return false, nil
}

func (w *Wishlist) flip(productID uint) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.load() {
		if id == productID {
			w.setMembership(productID, false)
			return false
		}
	}
	w.setMembership(productID, true)
	return true
}

// setMembership updates the mirror; callers hold w.mu.
func (w *Wishlist) setMembership(productID uint, present bool) {
	ids := w.load()
	out := make([]uint, 0, len(ids)+1)
	for _, id := range ids {
		if id != productID {
			out = append(out, id)
		}
	}
	if present {
		out = append(out, productID)
	}
	w.persist(out)
}

// load reads the mirror; callers hold w.mu.
func (w *Wishlist) load() []uint {
	var ids []uint
	w.client.Store().Get(wishlistKey, &ids)
	return ids
}

// persist writes the mirror; callers hold w.mu.
func (w *Wishlist) persist(ids []uint) {
	if len(ids) == 0 {
		w.client.Store().Delete(wishlistKey)
		return
	}
	w.client.Store().Set(wishlistKey, ids)
}
